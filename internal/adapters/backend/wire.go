package backend

import (
	"encoding/json"
	"time"

	"github.com/okian/powerteam/internal/domain/model"
)

// UserRow is one row of /dashboard/user-breakdown.
type UserRow struct {
	UserID      string
	FullName    string
	TeamName    string
	Counters    model.ActivityCounters
	TotalPoints *float64
}

// TeamRow is one row of /dashboard/team-breakdown.
type TeamRow struct {
	TeamID      string
	TeamName    string
	Captain     string
	Counters    model.ActivityCounters
	TotalPoints *float64
}

// ReportSummary is one entry of /reports/weekly.
type ReportSummary struct {
	ID         string    `json:"_id"`
	WeekStart  time.Time `json:"weekStartDate"`
	WeekEnd    time.Time `json:"weekEndDate"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// breakdownRow is the shared wire shape of both breakdown endpoints. Counter
// codes sit at the top level next to the identity fields.
type breakdownRow struct {
	model.ActivityCounters

	UserID      string   `json:"userId"`
	TeamID      string   `json:"teamId"`
	FullName    string   `json:"fullName"`
	TeamName    string   `json:"teamName"`
	Captain     *string  `json:"captainFullName"`
	TotalPoints *float64 `json:"totalPoints"`

	// TR is an older code for training sessions.
	TR *int `json:"TR"`
}

func (r *breakdownRow) UnmarshalJSON(b []byte) error {
	type plain breakdownRow
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.TR != nil && p.TrainingSessions == 0 {
		p.TrainingSessions = *p.TR
	}
	*r = breakdownRow(p)
	return nil
}

func (r breakdownRow) user() UserRow {
	return UserRow{
		UserID:      r.UserID,
		FullName:    r.FullName,
		TeamName:    r.TeamName,
		Counters:    r.ActivityCounters,
		TotalPoints: r.TotalPoints,
	}
}

func (r breakdownRow) team() TeamRow {
	t := TeamRow{
		TeamID:      r.TeamID,
		TeamName:    r.TeamName,
		Counters:    r.ActivityCounters,
		TotalPoints: r.TotalPoints,
	}
	if r.Captain != nil {
		t.Captain = *r.Captain
	}
	return t
}

// Subject converts the row for the scoring layer.
func (u UserRow) Subject() model.SubjectCounters {
	return model.SubjectCounters{
		ID:            u.UserID,
		Name:          u.FullName,
		Team:          u.TeamName,
		Counters:      u.Counters,
		ReportedTotal: u.TotalPoints,
	}
}

// Subject converts the row for the scoring layer.
func (t TeamRow) Subject() model.SubjectCounters {
	return model.SubjectCounters{
		ID:            t.TeamID,
		Name:          t.TeamName,
		Team:          t.TeamName,
		Captain:       t.Captain,
		Counters:      t.Counters,
		ReportedTotal: t.TotalPoints,
	}
}
