package shifts

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/kafka"
	"github.com/Domenick1991/transitops/internal/repository"
	"github.com/google/uuid"
)

// historyLimit caps history reads; it is a safety limit, not a
// pagination protocol.
const historyLimit = 200

type ShiftUseCase interface {
	AssignDriver(ctx context.Context, input AssignInput) (int64, error)
	UnassignDriver(ctx context.Context, input UnassignInput) error
	DriverRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]DriverRosterEntry, error)
	VehicleRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]VehicleRosterEntry, error)
	History(ctx context.Context, date *time.Time, shift *domain.Shift) ([]domain.AssignmentHistory, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ShiftService struct {
	assignments repository.AssignmentRepository
	fleet       repository.FleetRepository
	producer    Producer
	topic       string
}

type AssignInput struct {
	DriverID  int64  `json:"driver_id"`
	VehicleID int64  `json:"vehicle_id"`
	Date      string `json:"date"`
	Shift     string `json:"shift"`
}

type UnassignInput struct {
	DriverID int64  `json:"driver_id"`
	Date     string `json:"date"`
	Shift    string `json:"shift"`
}

type DriverRosterEntry struct {
	Driver          domain.Driver
	AssignedVehicle *RosterVehicle
}

type RosterVehicle struct {
	VehicleID    int64
	LicensePlate string
}

type VehicleRosterEntry struct {
	Vehicle        domain.Vehicle
	AssignedDriver *RosterDriver
}

type RosterDriver struct {
	DriverID int64
	Name     string
}

func NewShiftService(assignments repository.AssignmentRepository, fleet repository.FleetRepository, producer Producer, topic string) *ShiftService {
	return &ShiftService{assignments: assignments, fleet: fleet, producer: producer, topic: topic}
}

// AssignDriver binds the driver and vehicle to the slot. A resource
// already active in the slot is displaced, not rejected; only a vehicle
// under maintenance blocks the assignment outright.
func (s *ShiftService) AssignDriver(ctx context.Context, input AssignInput) (int64, error) {
	date, shift, err := parseSlot(input.Date, input.Shift)
	if err != nil {
		return 0, err
	}
	if input.DriverID <= 0 {
		return 0, domain.ValidationError{Field: "driver_id", Msg: "must be positive"}
	}
	if input.VehicleID <= 0 {
		return 0, domain.ValidationError{Field: "vehicle_id", Msg: "must be positive"}
	}

	// checked before the transaction: maintenance vehicles are a hard
	// exclusion from new assignments
	vehicle, err := s.fleet.VehicleByID(ctx, input.VehicleID)
	if err != nil {
		return 0, err
	}
	if vehicle.Status == domain.VehicleStatusMaintenance {
		return 0, domain.ErrVehicleUnavailable
	}

	assignmentID, action, err := s.assignments.Assign(ctx, input.DriverID, input.VehicleID, date, shift)
	if err != nil {
		return 0, err
	}

	eventType := "driver_assigned"
	if action == domain.HistoryActionReassign {
		eventType = "driver_reassigned"
	}
	s.publish(ctx, kafka.AssignmentEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		AssignmentID: assignmentID,
		DriverID:     input.DriverID,
		VehicleID:    input.VehicleID,
		AssignDate:   date.Format(domain.DateLayout),
		Shift:        string(shift),
	})

	return assignmentID, nil
}

// UnassignDriver closes the driver's active assignment for the slot.
// Nothing to unassign is success, so repeated calls stay idempotent.
func (s *ShiftService) UnassignDriver(ctx context.Context, input UnassignInput) error {
	date, shift, err := parseSlot(input.Date, input.Shift)
	if err != nil {
		return err
	}
	if input.DriverID <= 0 {
		return domain.ValidationError{Field: "driver_id", Msg: "must be positive"}
	}

	closed, err := s.assignments.Unassign(ctx, input.DriverID, date, shift)
	if err != nil {
		return err
	}
	if closed {
		s.publish(ctx, kafka.AssignmentEvent{
			EventID:    uuid.NewString(),
			Type:       "driver_unassigned",
			DriverID:   input.DriverID,
			AssignDate: date.Format(domain.DateLayout),
			Shift:      string(shift),
		})
	}
	return nil
}

func (s *ShiftService) DriverRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]DriverRosterEntry, error) {
	drivers, err := s.fleet.Drivers(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.fleet.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ActiveForSlot(ctx, date, shift)
	if err != nil {
		return nil, err
	}

	plates := make(map[int64]string, len(vehicles))
	for _, v := range vehicles {
		plates[v.ID] = v.LicensePlate
	}
	byDriver := make(map[int64]*RosterVehicle, len(assignments))
	for _, a := range assignments {
		byDriver[a.DriverID] = &RosterVehicle{VehicleID: a.VehicleID, LicensePlate: plates[a.VehicleID]}
	}

	entries := make([]DriverRosterEntry, 0, len(drivers))
	for _, d := range drivers {
		entries = append(entries, DriverRosterEntry{Driver: d, AssignedVehicle: byDriver[d.ID]})
	}
	return entries, nil
}

func (s *ShiftService) VehicleRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]VehicleRosterEntry, error) {
	vehicles, err := s.fleet.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	drivers, err := s.fleet.Drivers(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ActiveForSlot(ctx, date, shift)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(drivers))
	for _, d := range drivers {
		names[d.ID] = d.Name
	}
	byVehicle := make(map[int64]*RosterDriver, len(assignments))
	for _, a := range assignments {
		byVehicle[a.VehicleID] = &RosterDriver{DriverID: a.DriverID, Name: names[a.DriverID]}
	}

	entries := make([]VehicleRosterEntry, 0, len(vehicles))
	for _, v := range vehicles {
		entries = append(entries, VehicleRosterEntry{Vehicle: v, AssignedDriver: byVehicle[v.ID]})
	}
	return entries, nil
}

func (s *ShiftService) History(ctx context.Context, date *time.Time, shift *domain.Shift) ([]domain.AssignmentHistory, error) {
	return s.assignments.History(ctx, date, shift, historyLimit)
}

func (s *ShiftService) publish(ctx context.Context, event kafka.AssignmentEvent) {
	if s.producer == nil || s.topic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.topic, event.EventID, event); err != nil {
		log.Printf("publish %s: %v", event.Type, err)
	}
}

func parseSlot(dateStr, shiftStr string) (time.Time, domain.Shift, error) {
	if dateStr == "" {
		return time.Time{}, "", domain.ValidationError{Field: "date", Msg: "is required"}
	}
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, "", domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	shift, err := domain.ParseShift(shiftStr)
	if err != nil {
		return time.Time{}, "", domain.ValidationError{Field: "shift", Msg: err.Error()}
	}
	return date, shift, nil
}

var _ ShiftUseCase = (*ShiftService)(nil)
