package usecase

import "errors"

var (
	// ErrEnrollmentNotFound is returned by repositories when a student has no enrollment row.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrAttendanceNotFound is returned by repositories when no attendance record matches.
	ErrAttendanceNotFound = errors.New("attendance not found")
)
