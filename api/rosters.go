package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/service/shifts"
	"github.com/gin-gonic/gin"
)

type RosterHandler struct {
	service shifts.ShiftUseCase
}

type rosterVehicle struct {
	VehicleID    int64  `json:"vehicleId"`
	LicensePlate string `json:"licensePlate"`
}

type driverRosterResponse struct {
	DriverID        int64          `json:"driverId"`
	Name            string         `json:"name"`
	LicenseNumber   string         `json:"licenseNumber"`
	ContactInfo     string         `json:"contactInfo"`
	AssignedVehicle *rosterVehicle `json:"assignedVehicle"`
}

type rosterDriver struct {
	DriverID int64  `json:"driverId"`
	Name     string `json:"name"`
}

type vehicleRosterResponse struct {
	VehicleID      int64         `json:"vehicleId"`
	LicensePlate   string        `json:"licensePlate"`
	Capacity       int           `json:"capacity"`
	Status         string        `json:"status"`
	AssignedDriver *rosterDriver `json:"assignedDriver"`
}

func NewRosterHandler(service shifts.ShiftUseCase) *RosterHandler {
	return &RosterHandler{service: service}
}

func (h *RosterHandler) Register(router *gin.RouterGroup) {
	router.GET("/drivers", h.drivers)
	router.GET("/vehicles", h.vehicles)
}

// slotParams defaults to today's morning shift, mirroring the shift
// board's initial view.
func slotParams(c *gin.Context) (time.Time, domain.Shift, bool) {
	date := domain.NormalizeDate(time.Now())
	if raw := c.Query("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return time.Time{}, "", false
		}
		date = d
	}
	shift := domain.ShiftMorning
	if raw := c.Query("shift"); raw != "" {
		s, err := domain.ParseShift(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return time.Time{}, "", false
		}
		shift = s
	}
	return date, shift, true
}

func (h *RosterHandler) drivers(c *gin.Context) {
	date, shift, ok := slotParams(c)
	if !ok {
		return
	}

	roster, err := h.service.DriverRoster(c.Request.Context(), date, shift)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]driverRosterResponse, 0, len(roster))
	for _, entry := range roster {
		resp := driverRosterResponse{
			DriverID:      entry.Driver.ID,
			Name:          entry.Driver.Name,
			LicenseNumber: entry.Driver.LicenseNumber,
			ContactInfo:   entry.Driver.ContactInfo,
		}
		if entry.AssignedVehicle != nil {
			resp.AssignedVehicle = &rosterVehicle{
				VehicleID:    entry.AssignedVehicle.VehicleID,
				LicensePlate: entry.AssignedVehicle.LicensePlate,
			}
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *RosterHandler) vehicles(c *gin.Context) {
	date, shift, ok := slotParams(c)
	if !ok {
		return
	}

	roster, err := h.service.VehicleRoster(c.Request.Context(), date, shift)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]vehicleRosterResponse, 0, len(roster))
	for _, entry := range roster {
		resp := vehicleRosterResponse{
			VehicleID:    entry.Vehicle.ID,
			LicensePlate: entry.Vehicle.LicensePlate,
			Capacity:     entry.Vehicle.Capacity,
			Status:       string(entry.Vehicle.Status),
		}
		if entry.AssignedDriver != nil {
			resp.AssignedDriver = &rosterDriver{
				DriverID: entry.AssignedDriver.DriverID,
				Name:     entry.AssignedDriver.Name,
			}
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}
