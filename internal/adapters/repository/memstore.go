package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/powerteam/pkg/metrics"
)

var validate = validator.New()

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]WeeklyReport
	teams   map[string]Team

	now   func() time.Time
	newID func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		reports: make(map[string]WeeklyReport),
		teams:   make(map[string]Team),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddReport implements Store.
func (s *MemoryStore) AddReport(_ context.Context, r WeeklyReport) (WeeklyReport, error) {
	if err := validate.Struct(r); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_report")
		return WeeklyReport{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	r.WeekStart = r.WeekStart.UTC()
	r.WeekEnd = r.WeekEnd.UTC()
	if r.UploadedAt.IsZero() {
		r.UploadedAt = s.now().UTC()
	}
	r.Rows = slices.Clone(r.Rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if _, ok := s.reports[r.ID]; ok {
		metrics.RecordErrorByComponent("repository", "duplicate_report")
		return WeeklyReport{}, fmt.Errorf("%w: %s", ErrDuplicateReport, r.ID)
	}
	s.reports[r.ID] = r
	s.publishSizeLocked()
	return r, nil
}

// DeleteReport implements Store.
func (s *MemoryStore) DeleteReport(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return 0, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	delete(s.reports, id)
	s.publishSizeLocked()
	return len(r.Rows), nil
}

// Reports implements Store.
func (s *MemoryStore) Reports(_ context.Context) []WeeklyReport {
	s.mu.RLock()
	out := make([]WeeklyReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b WeeklyReport) int {
		if c := b.WeekStart.Compare(a.WeekStart); c != 0 {
			return c
		}
		if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// PutTeam implements Store. It creates or replaces the team with t.ID. A
// user may be on at most one roster.
func (s *MemoryStore) PutTeam(_ context.Context, t Team) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTeam, err)
	}
	if t.CaptainUserID != "" && !slices.Contains(t.MemberIDs, t.CaptainUserID) {
		return fmt.Errorf("%w: captain %s is not a member", ErrInvalidTeam, t.CaptainUserID)
	}
	t.MemberIDs = slices.Clone(t.MemberIDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.teams {
		if id == t.ID {
			continue
		}
		for _, uid := range t.MemberIDs {
			if slices.Contains(other.MemberIDs, uid) {
				metrics.RecordErrorByComponent("repository", "invalid_team")
				return fmt.Errorf("%w: member %s is already on team %s", ErrInvalidTeam, uid, id)
			}
		}
	}
	s.teams[t.ID] = t
	s.publishSizeLocked()
	return nil
}

// DeleteTeam implements Store.
func (s *MemoryStore) DeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	delete(s.teams, id)
	s.publishSizeLocked()
	return nil
}

// Teams implements Store, ordered by name.
func (s *MemoryStore) Teams(_ context.Context) []Team {
	s.mu.RLock()
	out := make([]Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, compareTeams)
	return out
}

func compareTeams(a, b Team) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *MemoryStore) publishSizeLocked() {
	metrics.UpdateStoreSize(len(s.reports), len(s.teams))
}
