package service

import "errors"

// Sentinel error kinds for dashboard views.
var (
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrLimitExceeded   = errors.New("limit exceeds maximum")
	ErrNoProvider      = errors.New("no counters provider configured")
	ErrInvalidCounters = errors.New("invalid counters")
)
