package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn = errors.New("an open session already exists for today")
	ErrNotCheckedIn     = errors.New("you have not checked in yet")

	// Break errors
	ErrBreakAlreadyOpen = errors.New("another break is still open")
	ErrBreakNotOpen     = errors.New("break has already been ended")
	ErrBreakNotFound    = errors.New("break not found")

	// General errors
	ErrDayNotFound   = errors.New("attendance day not found")
	ErrEventNotFound = errors.New("attendance event not found")
	ErrUnauthorized  = errors.New("unauthorized to access this attendance record")
)
