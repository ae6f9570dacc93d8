package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrReportNotFound  = errors.New("report not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrDuplicateReport = errors.New("duplicate report")
	ErrInvalidReport   = errors.New("invalid report")
	ErrInvalidTeam     = errors.New("invalid team")
	ErrInvalidFixture  = errors.New("invalid fixture")
)
