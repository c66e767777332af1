package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/service/shifts"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service shifts.ShiftUseCase
}

type assignRequest struct {
	DriverID  int64  `json:"driverId"`
	VehicleID int64  `json:"vehicleId"`
	Date      string `json:"date"`
	Shift     string `json:"shift"`
}

type unassignRequest struct {
	DriverID int64  `json:"driverId"`
	Date     string `json:"date"`
	Shift    string `json:"shift"`
}

type historyResponse struct {
	HistoryID     int64  `json:"historyId"`
	AssignDate    string `json:"assignDate"`
	Shift         string `json:"shift"`
	Action        string `json:"action"`
	DriverID      int64  `json:"driverId"`
	VehicleID     int64  `json:"vehicleId"`
	PrevDriverID  *int64 `json:"prevDriverId"`
	PrevVehicleID *int64 `json:"prevVehicleId"`
	ChangedAt     string `json:"changedAt"`
	Note          string `json:"note"`
}

func NewAssignmentHandler(service shifts.ShiftUseCase) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.assign)
	router.POST("/unassign", h.unassign)
	router.GET("/history", h.history)
}

func (h *AssignmentHandler) assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignmentID, err := h.service.AssignDriver(c.Request.Context(), shifts.AssignInput{
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
		Date:      req.Date,
		Shift:     req.Shift,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "assignmentId": assignmentID})
}

func (h *AssignmentHandler) unassign(c *gin.Context) {
	var req unassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.UnassignDriver(c.Request.Context(), shifts.UnassignInput{
		DriverID: req.DriverID,
		Date:     req.Date,
		Shift:    req.Shift,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AssignmentHandler) history(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = &d
	}
	var shift *domain.Shift
	if raw := c.Query("shift"); raw != "" {
		s, err := domain.ParseShift(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		shift = &s
	}

	history, err := h.service.History(c.Request.Context(), date, shift)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]historyResponse, 0, len(history))
	for _, hr := range history {
		out = append(out, historyResponse{
			HistoryID:     hr.ID,
			AssignDate:    hr.AssignDate.Format(domain.DateLayout),
			Shift:         string(hr.Shift),
			Action:        string(hr.Action),
			DriverID:      hr.DriverID,
			VehicleID:     hr.VehicleID,
			PrevDriverID:  hr.PrevDriverID,
			PrevVehicleID: hr.PrevVehicleID,
			ChangedAt:     hr.ChangedAt.Format(time.RFC3339),
			Note:          hr.Note,
		})
	}
	c.JSON(http.StatusOK, out)
}
