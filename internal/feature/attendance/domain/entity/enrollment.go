// Package entity defines the domain entities for the attendance feature.
package entity

import (
	"time"

	bioentity "safari_backend/internal/feature/biometric/domain/entity"
)

// Enrollment is the fingerprint template registered for a student.
// Re-enrollment replaces the template as a whole.
type Enrollment struct {
	StudentID uint

	// Template is the extracted minutiae set. Empty until the first successful enrollment.
	Template bioentity.Template

	// Attempts counts failed enrollment attempts.
	Attempts int

	// IsVerified is true once a usable template has been stored.
	IsVerified bool

	EnrolledAt time.Time
}
