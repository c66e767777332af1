package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

type Vehicle struct {
	ID           int64
	LicensePlate string
	Capacity     int
	Status       VehicleStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Driver struct {
	ID            int64
	Name          string
	LicenseNumber string
	ContactInfo   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
