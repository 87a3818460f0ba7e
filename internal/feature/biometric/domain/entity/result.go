package entity

// MatchResult is the outcome of comparing a candidate feature set with a stored template.
// Confidence is always in [0, 100].
type MatchResult struct {
	IsMatch    bool
	Confidence float64
}

// EnrollResult is the outcome of an enrollment attempt.
// On failure Template is the zero value and Err carries the reason.
type EnrollResult struct {
	Success    bool
	Label      string
	Template   Template
	Confidence float64
	Err        error
}
