// Package repository holds weekly activity reports and team rosters in
// memory and aggregates them into provider rows.
package repository

import (
	"context"
	"time"

	"github.com/okian/powerteam/internal/domain/model"
)

// ReportRow is one member's counters inside a weekly report.
type ReportRow struct {
	UserID   string                 `yaml:"user_id" json:"userId" validate:"required"`
	UserName string                 `yaml:"user_name" json:"fullName"`
	TeamID   string                 `yaml:"team_id,omitempty" json:"teamId,omitempty"`
	Counters model.ActivityCounters `yaml:"counters" json:"counters"`
}

// WeeklyReport is one uploaded week of member activity.
type WeeklyReport struct {
	ID         string      `yaml:"id,omitempty" json:"id"`
	WeekStart  time.Time   `yaml:"week_start" json:"weekStartDate" validate:"required"`
	WeekEnd    time.Time   `yaml:"week_end" json:"weekEndDate" validate:"required,gtefield=WeekStart"`
	UploadedAt time.Time   `yaml:"uploaded_at,omitempty" json:"uploadedAt"`
	Rows       []ReportRow `yaml:"rows" json:"rows" validate:"dive"`
}

// Team is a named group of members with an optional captain.
type Team struct {
	ID            string   `yaml:"id" json:"id" validate:"required"`
	Name          string   `yaml:"name" json:"name" validate:"required"`
	CaptainUserID string   `yaml:"captain_user_id,omitempty" json:"captainUserId,omitempty"`
	MemberIDs     []string `yaml:"member_ids" json:"userIds"`
}

// Store provides read/write access to reports and teams and serves
// aggregated counters to the dashboard.
type Store interface {
	// AddReport stores a report, assigning an ID and upload time when missing.
	AddReport(ctx context.Context, r WeeklyReport) (WeeklyReport, error)
	// DeleteReport removes a report and returns how many member rows went with it.
	DeleteReport(ctx context.Context, id string) (int, error)
	// Reports lists stored reports, newest week first.
	Reports(ctx context.Context) []WeeklyReport

	PutTeam(ctx context.Context, t Team) error
	DeleteTeam(ctx context.Context, id string) error
	Teams(ctx context.Context) []Team

	UserCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error)
	TeamCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error)
}
