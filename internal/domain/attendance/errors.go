package attendance

import "errors"

// Attendance domain errors
var (
	ErrUnauthorized = errors.New("unauthorized to access this attendance data")
)
