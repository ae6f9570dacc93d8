package model

import "github.com/okian/powerteam/internal/domain/window"

// Query selects which counters a provider returns.
type Query struct {
	Window window.Window
	// TeamID restricts member rows to one team. Empty means every team.
	TeamID string
}
