package entity

import "time"

// ScanStatus is the outcome of a fingerprint scan.
type ScanStatus string

const (
	ScanMatch   ScanStatus = "match"
	ScanNoMatch ScanStatus = "no_match"
	ScanError   ScanStatus = "error"
)

// ScanType tells whether the scan was taken at boarding or alighting.
type ScanType string

const (
	ScanCheckIn  ScanType = "checkin"
	ScanCheckOut ScanType = "checkout"
)

// ScanLog is an audit record written for every scan, matched or not.
type ScanLog struct {
	ID string

	// StudentID is nil when no student could be identified.
	StudentID  *uint
	BusID      uint
	MatchScore float64
	Status     ScanStatus
	Type       ScanType
	Location   string
	ScannedAt  time.Time
}
