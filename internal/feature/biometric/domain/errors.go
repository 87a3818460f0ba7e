// Package domain defines domain-level errors for the biometric feature.
package domain

import "errors"

// Domain errors for fingerprint enrollment and verification.
// Callers distinguish them with errors.Is; the facade wraps the underlying cause with %w.
var (
	// ErrDecode indicates a malformed base64 payload or an unrecognized image format.
	ErrDecode = errors.New("fingerprint image could not be decoded")

	// ErrMissingDependency indicates that the processing engine could not be built.
	// It is surfaced on first use, never at construction time.
	ErrMissingDependency = errors.New("fingerprint processing unavailable in this environment")

	// ErrNoMinutiae indicates that extraction produced zero features (blank or unreadable print).
	ErrNoMinutiae = errors.New("no minutiae detected, please re-capture the fingerprint")
)
