package repository

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/okian/powerteam/internal/domain/model"
	"github.com/okian/powerteam/internal/domain/scoring"
)

// member is the running aggregate of one user inside a window.
type member struct {
	id      string
	name    string
	teamID  string
	records []model.ActivityCounters
}

// UserCounters implements the dashboard provider. Rows from every report
// whose week starts inside q.Window are summed per user. A user belongs to
// the team that lists them as a member, else to the team named on their row.
func (s *MemoryStore) UserCounters(_ context.Context, q model.Query) ([]model.SubjectCounters, error) {
	s.mu.RLock()
	members := s.collectLocked(q)
	teams := s.teamIndexLocked()
	s.mu.RUnlock()

	out := make([]model.SubjectCounters, 0, len(members))
	for _, m := range members {
		if q.TeamID != "" && m.teamID != q.TeamID {
			continue
		}
		team := m.teamID
		if t, ok := teams[m.teamID]; ok {
			team = t.Name
		}
		out = append(out, model.SubjectCounters{
			ID:       m.id,
			Name:     m.name,
			Team:     team,
			Counters: scoring.CategoryTotals(m.records),
		})
	}
	slices.SortFunc(out, func(a, b model.SubjectCounters) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// TeamCounters implements the dashboard provider. Every known team is
// returned, including teams with no activity in the window.
func (s *MemoryStore) TeamCounters(_ context.Context, q model.Query) ([]model.SubjectCounters, error) {
	s.mu.RLock()
	members := s.collectLocked(q)
	names := s.userNamesLocked()
	teams := make([]Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, t)
	}
	s.mu.RUnlock()
	slices.SortFunc(teams, compareTeams)

	byTeam := make(map[string][]model.ActivityCounters, len(teams))
	for _, m := range members {
		if m.teamID != "" {
			byTeam[m.teamID] = append(byTeam[m.teamID], m.records...)
		}
	}

	out := make([]model.SubjectCounters, 0, len(teams))
	for _, t := range teams {
		captain := names[t.CaptainUserID]
		if captain == "" {
			captain = t.CaptainUserID
		}
		out = append(out, model.SubjectCounters{
			ID:       t.ID,
			Name:     t.Name,
			Team:     t.Name,
			Captain:  captain,
			Counters: scoring.CategoryTotals(byTeam[t.ID]),
		})
	}
	return out, nil
}

func (s *MemoryStore) collectLocked(q model.Query) map[string]*member {
	membership := s.membershipLocked()
	reports := s.reportsLocked(q.Window.Contains)

	members := make(map[string]*member)
	for _, r := range reports {
		for _, row := range r.Rows {
			m, ok := members[row.UserID]
			if !ok {
				m = &member{id: row.UserID}
				members[row.UserID] = m
			}
			if row.UserName != "" {
				m.name = row.UserName
			}
			if tid, ok := membership[row.UserID]; ok {
				m.teamID = tid
			} else if row.TeamID != "" {
				m.teamID = row.TeamID
			}
			m.records = append(m.records, row.Counters)
		}
	}
	for _, m := range members {
		if m.name == "" {
			m.name = m.id
		}
	}
	return members
}

// membershipLocked maps user id to the id of the team whose roster lists
// them. Teams are visited in id order so the lowest id wins should two
// rosters ever overlap.
func (s *MemoryStore) membershipLocked() map[string]string {
	ids := slices.Sorted(maps.Keys(s.teams))
	membership := make(map[string]string)
	for _, id := range slices.Backward(ids) {
		for _, uid := range s.teams[id].MemberIDs {
			membership[uid] = id
		}
	}
	return membership
}

// reportsLocked returns the reports whose week start passes keep, oldest
// first so the latest row names the member.
func (s *MemoryStore) reportsLocked(keep func(time.Time) bool) []WeeklyReport {
	reports := make([]WeeklyReport, 0, len(s.reports))
	for _, r := range s.reports {
		if keep(r.WeekStart) {
			reports = append(reports, r)
		}
	}
	slices.SortFunc(reports, func(a, b WeeklyReport) int {
		if c := a.WeekStart.Compare(b.WeekStart); c != 0 {
			return c
		}
		if c := a.UploadedAt.Compare(b.UploadedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return reports
}

// userNamesLocked returns each user's latest name across every report.
func (s *MemoryStore) userNamesLocked() map[string]string {
	names := make(map[string]string)
	for _, r := range s.reportsLocked(func(time.Time) bool { return true }) {
		for _, row := range r.Rows {
			if row.UserName != "" {
				names[row.UserID] = row.UserName
			}
		}
	}
	return names
}

func (s *MemoryStore) teamIndexLocked() map[string]Team {
	idx := make(map[string]Team, len(s.teams))
	for id, t := range s.teams {
		idx[id] = t
	}
	return idx
}
