// Package domain defines domain-level errors for the attendance feature.
package domain

import "errors"

// Domain errors for enrollment and boarding operations.
var (
	// ErrEnrollmentFailed indicates that no usable template could be extracted from the image.
	// The biometric cause is wrapped alongside it.
	ErrEnrollmentFailed = errors.New("fingerprint enrollment failed")

	// ErrNotEnrolled indicates that the student has no verified fingerprint enrollment.
	ErrNotEnrolled = errors.New("student has no verified fingerprint enrollment")

	// ErrNotRecognized indicates that the scanned fingerprint did not match any enrollment.
	ErrNotRecognized = errors.New("fingerprint not recognized")

	// ErrNotBoarded indicates a check-out for a student who has not boarded today.
	ErrNotBoarded = errors.New("student has not boarded today")
)
