package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketEvent is published once per successful booking.
type TicketEvent struct {
	EventID     string `json:"event_id"`
	Type        string `json:"type"`
	TripID      int64  `json:"trip_id"`
	PassengerID int64  `json:"passenger_id"`
	SeatNumbers []int  `json:"seat_numbers"`
	ContactInfo string `json:"contact_info,omitempty"`
}

// AssignmentEvent is published for every shift assignment change.
type AssignmentEvent struct {
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	AssignmentID int64  `json:"assignment_id,omitempty"`
	DriverID     int64  `json:"driver_id"`
	VehicleID    int64  `json:"vehicle_id,omitempty"`
	AssignDate   string `json:"assign_date"`
	Shift        string `json:"shift"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
