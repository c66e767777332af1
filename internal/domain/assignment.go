package domain

import (
	"fmt"
	"time"
)

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftDay     Shift = "day"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftMorning, ShiftDay, ShiftEvening, ShiftNight:
		return Shift(s), nil
	}
	return "", fmt.Errorf("unknown shift %q", s)
}

const DateLayout = "2006-01-02"

// NormalizeDate truncates a timestamp to the operating day: midnight UTC.
// Every assignment lookup and write keys on this value, so the same
// truncation must be applied everywhere a date enters the system.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD operating day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

type HistoryAction string

const (
	HistoryActionAssign   HistoryAction = "ASSIGN"
	HistoryActionReassign HistoryAction = "REASSIGN"
	HistoryActionUnassign HistoryAction = "UNASSIGN"
)

// Assignment is the current binding of one driver and one vehicle to a
// (date, shift) slot. A row with UnassignedAt set is closed and only
// kept for the timeline; at most one open row may reference a given
// driver or vehicle per slot.
type Assignment struct {
	ID           int64
	DriverID     int64
	VehicleID    int64
	AssignDate   time.Time
	Shift        Shift
	AssignedAt   time.Time
	UnassignedAt *time.Time
}

func (a Assignment) Active() bool {
	return a.UnassignedAt == nil
}

// AssignmentHistory is one row of the append-only ledger. Rows are
// written in the same transaction as the assignment change they record
// and are never updated.
type AssignmentHistory struct {
	ID            int64
	AssignDate    time.Time
	Shift         Shift
	Action        HistoryAction
	DriverID      int64
	VehicleID     int64
	PrevDriverID  *int64
	PrevVehicleID *int64
	Note          string
	ChangedAt     time.Time
}
