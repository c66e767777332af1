package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/transitops/internal/kafka"
)

// Sender delivers booking notifications to passengers. The transport is
// a stub until an SMS gateway is wired in.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	if event.ContactInfo == "" {
		return nil
	}
	fmt.Printf("notify %s: %s for trip %d seats %v\n", event.ContactInfo, event.Type, event.TripID, event.SeatNumbers)
	return nil
}
