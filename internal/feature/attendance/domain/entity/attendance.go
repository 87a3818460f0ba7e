package entity

import "time"

// Status is the boarding state recorded by a scan.
type Status string

const (
	StatusBoarded  Status = "boarded"
	StatusAlighted Status = "alighted"
)

// Attendance is a single boarding or alighting event.
type Attendance struct {
	ID        uint
	StudentID uint
	BusID     uint
	Status    Status

	// Latitude and Longitude are nil when the device sent no position.
	Latitude  *float64
	Longitude *float64

	BiometricVerified   bool
	BiometricConfidence float64
	Timestamp           time.Time
}
