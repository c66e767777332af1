package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/transitops/internal/service/trips"
	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	service trips.TripUseCase
}

type tripRoute struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type tripResponse struct {
	ID            int64     `json:"id"`
	DepartureTime string    `json:"departureTime"`
	PriceCents    int64     `json:"priceCents"`
	Route         tripRoute `json:"route"`
	SeatCount     int       `json:"seatCount"`
}

type seatResponse struct {
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"`
}

func NewTripHandler(service trips.TripUseCase) *TripHandler {
	return &TripHandler{service: service}
}

type createTripRequest struct {
	RouteStart    string  `json:"routeStart"`
	RouteEnd      string  `json:"routeEnd"`
	VehicleID     int64   `json:"vehicleId"`
	DriverID      int64   `json:"driverId"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   *string `json:"arrivalTime"`
	PriceCents    int64   `json:"priceCents"`
}

func (h *TripHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.GET("/:id/seats", h.seats)
}

func (h *TripHandler) list(c *gin.Context) {
	trips, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripResponse{
			ID:            t.ID,
			DepartureTime: t.DepartureTime.Format(time.RFC3339),
			PriceCents:    t.PriceCents,
			Route:         tripRoute{Start: t.RouteStart, End: t.RouteEnd},
			SeatCount:     t.SeatCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *TripHandler) create(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departureTime, expected RFC3339"})
		return
	}
	var arrival *time.Time
	if req.ArrivalTime != nil {
		t, err := time.Parse(time.RFC3339, *req.ArrivalTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrivalTime, expected RFC3339"})
			return
		}
		arrival = &t
	}

	trip, err := h.service.Create(c.Request.Context(), trips.CreateTripInput{
		RouteStart:    req.RouteStart,
		RouteEnd:      req.RouteEnd,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		PriceCents:    req.PriceCents,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tripResponse{
		ID:            trip.ID,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		PriceCents:    trip.PriceCents,
		Route:         tripRoute{Start: trip.RouteStart, End: trip.RouteEnd},
		SeatCount:     trip.SeatCount,
	})
}

func (h *TripHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	trip, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tripResponse{
		ID:            trip.ID,
		DepartureTime: trip.DepartureTime.Format(time.RFC3339),
		PriceCents:    trip.PriceCents,
		Route:         tripRoute{Start: trip.RouteStart, End: trip.RouteEnd},
		SeatCount:     trip.SeatCount,
	})
}

func (h *TripHandler) seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	seats, err := h.service.Seats(c.Request.Context(), id)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResponse{SeatNumber: s.SeatNumber, Status: string(s.Status)})
	}
	c.JSON(http.StatusOK, out)
}
