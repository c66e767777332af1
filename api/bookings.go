package api

import (
	"net/http"

	"github.com/Domenick1991/transitops/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingPassenger struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
}

type createBookingRequest struct {
	TripID      int64            `json:"tripId"`
	SeatNumbers []int            `json:"seatNumbers"`
	Passenger   bookingPassenger `json:"passenger"`
}

type ticketResponse struct {
	TicketID   int64 `json:"ticketId"`
	SeatNumber int   `json:"seatNumber"`
}

type bookingResponse struct {
	OK          bool             `json:"ok"`
	PassengerID int64            `json:"passengerId"`
	Tickets     []ticketResponse `json:"tickets"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.BookSeats(c.Request.Context(), booking.BookSeatsInput{
		TripID:      req.TripID,
		SeatNumbers: req.SeatNumbers,
		Passenger:   req.Passenger.Name,
		ContactInfo: req.Passenger.ContactInfo,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	tickets := make([]ticketResponse, 0, len(result.Tickets))
	for _, t := range result.Tickets {
		tickets = append(tickets, ticketResponse{TicketID: t.ID, SeatNumber: t.SeatNumber})
	}
	c.JSON(http.StatusOK, bookingResponse{
		OK:          true,
		PassengerID: result.PassengerID,
		Tickets:     tickets,
	})
}
