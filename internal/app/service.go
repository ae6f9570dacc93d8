// Package service composes a counters provider and the scoring engine into
// the dashboard views: top teams, top performers, category totals,
// breakdown tables and weekly trends.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/powerteam/internal/domain/model"
	"github.com/okian/powerteam/internal/domain/scoring"
	"github.com/okian/powerteam/internal/domain/window"
	"github.com/okian/powerteam/internal/worker"
	"github.com/okian/powerteam/pkg/logger"
	"github.com/okian/powerteam/pkg/metrics"
)

// Subject kinds used for metrics labels.
const (
	SubjectUser   = "user"
	SubjectTeam   = "team"
	SubjectRecord = "record"
)

const (
	defaultMaxLimit    = 100
	defaultConcurrency = 4
	driftTolerance     = 0.005
)

// Provider supplies raw counters for members and teams.
type Provider interface {
	UserCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error)
	TeamCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error)
}

// Standing is one ranked row of a dashboard table.
type Standing struct {
	Rank      int                    `json:"rank" yaml:"rank"`
	ID        string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string                 `json:"name" yaml:"name"`
	Team      string                 `json:"team,omitempty" yaml:"team,omitempty"`
	Captain   string                 `json:"captain,omitempty" yaml:"captain,omitempty"`
	Counters  model.ActivityCounters `json:"counters" yaml:"counters"`
	Total     float64                `json:"totalPoints" yaml:"total_points"`
	Breakdown model.ScoreBreakdown   `json:"breakdown" yaml:"breakdown"`
}

// Totals is the category summary across every member in a window.
type Totals struct {
	Counters  model.ActivityCounters `json:"counters" yaml:"counters"`
	Breakdown model.ScoreBreakdown   `json:"breakdown" yaml:"breakdown"`
}

// TrendPoint is one team's points in one period.
type TrendPoint struct {
	Period string  `json:"period" yaml:"period"`
	Team   string  `json:"team" yaml:"team"`
	Points float64 `json:"points" yaml:"points"`
}

// Service builds dashboard views. It holds no mutable state and is safe for
// concurrent use when its Provider is.
type Service struct {
	provider Provider
	engine   *scoring.Engine
	logger   logger.Logger
	maxLimit int
	strict   bool
	workers  int
	pool     *worker.Pool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the counters provider.
func WithProvider(p Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxLimit caps top-N limits.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithStrictCounters rejects negative counts and non-finite amounts.
func WithStrictCounters(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithConcurrency bounds how many windows TeamTrend fetches at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:   scoring.NewEngine(),
		logger:   logger.Nop(),
		maxLimit: defaultMaxLimit,
		workers:  defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = worker.NewPool(s.workers,
		worker.WithName("trend"),
		worker.WithLogger(s.logger.Named("trend")),
	)
	return s
}

// MaxLimit returns the configured top-N cap.
func (s *Service) MaxLimit() int { return s.maxLimit }

// Score computes the breakdown of a single record.
func (s *Service) Score(c model.ActivityCounters) (model.ScoreBreakdown, error) {
	if err := s.checkCounters(c); err != nil {
		return model.ScoreBreakdown{}, err
	}
	metrics.RecordScoreComputed(SubjectRecord)
	return s.engine.ComputeScore(c), nil
}

// TopTeams ranks teams by total points and keeps the first limit.
func (s *Service) TopTeams(ctx context.Context, q model.Query, limit int) ([]Standing, error) {
	defer s.observe("top_teams", time.Now())
	if err := s.checkLimit(limit); err != nil {
		return nil, err
	}
	teams, err := s.teams(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, SubjectTeam, teams, limit), nil
}

// TopPerformers ranks members by total points and keeps the first limit.
func (s *Service) TopPerformers(ctx context.Context, q model.Query, limit int) ([]Standing, error) {
	defer s.observe("top_performers", time.Now())
	if err := s.checkLimit(limit); err != nil {
		return nil, err
	}
	users, err := s.users(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, SubjectUser, users, limit), nil
}

// CategoryTotals sums every member's counters and scores the sum.
func (s *Service) CategoryTotals(ctx context.Context, q model.Query) (Totals, error) {
	defer s.observe("totals", time.Now())
	users, err := s.users(ctx, q)
	if err != nil {
		return Totals{}, err
	}
	records := make([]model.ActivityCounters, len(users))
	for i, u := range users {
		records[i] = u.Counters
	}
	sum := scoring.CategoryTotals(records)
	metrics.RecordScoreComputed(SubjectRecord)
	return Totals{Counters: sum, Breakdown: s.engine.ComputeScore(sum)}, nil
}

// UserBreakdown returns ranked per-member rows. A limit of 0 returns every member.
func (s *Service) UserBreakdown(ctx context.Context, q model.Query, limit int) ([]Standing, error) {
	defer s.observe("user_breakdown", time.Now())
	if err := s.checkLimit(limit); err != nil {
		return nil, err
	}
	users, err := s.users(ctx, q)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = len(users)
	}
	return s.rank(ctx, SubjectUser, users, limit), nil
}

// TeamBreakdown returns every team ranked with its breakdown.
func (s *Service) TeamBreakdown(ctx context.Context, q model.Query) ([]Standing, error) {
	defer s.observe("team_breakdown", time.Now())
	teams, err := s.teams(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, SubjectTeam, teams, len(teams)), nil
}

// TeamTrend scores every team in each window. Windows are fetched
// concurrently; points are returned in window order.
func (s *Service) TeamTrend(ctx context.Context, windows []window.Window) ([]TrendPoint, error) {
	defer s.observe("team_trend", time.Now())
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	perWindow := make([][]TrendPoint, len(windows))
	jobs := make([]worker.Job, len(windows))
	for i, w := range windows {
		jobs[i] = func(ctx context.Context) error {
			teams, err := s.teams(ctx, model.Query{Window: w})
			if err != nil {
				return fmt.Errorf("%s: %w", w.Label(), err)
			}
			points := make([]TrendPoint, len(teams))
			for j, t := range teams {
				points[j] = TrendPoint{
					Period: w.Label(),
					Team:   t.Name,
					Points: s.scoreSubject(ctx, SubjectTeam, t).Total,
				}
			}
			perWindow[i] = points
			return nil
		}
	}
	if err := s.pool.Run(ctx, jobs); err != nil {
		return nil, err
	}

	var out []TrendPoint
	for _, points := range perWindow {
		out = append(out, points...)
	}
	return out, nil
}

func (s *Service) users(ctx context.Context, q model.Query) ([]model.SubjectCounters, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	rows, err := s.provider.UserCounters(ctx, q)
	if err != nil {
		metrics.RecordErrorByComponent("service", "provider")
		return nil, fmt.Errorf("fetch user counters: %w", err)
	}
	if err := s.checkSubjects(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) teams(ctx context.Context, q model.Query) ([]model.SubjectCounters, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	rows, err := s.provider.TeamCounters(ctx, q)
	if err != nil {
		metrics.RecordErrorByComponent("service", "provider")
		return nil, fmt.Errorf("fetch team counters: %w", err)
	}
	if err := s.checkSubjects(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// rank orders subjects with the engine and joins the subject metadata back
// onto each ranked row by input position.
func (s *Service) rank(ctx context.Context, kind string, subjects []model.SubjectCounters, limit int) []Standing {
	named := make([]model.NamedCounters, len(subjects))
	for i, sc := range subjects {
		named[i] = model.NamedCounters{Key: i, Name: sc.Name, Counters: sc.Counters}
		s.trackScore(ctx, kind, sc)
	}

	ranked := s.engine.RankDescending(named, limit)
	out := make([]Standing, len(ranked))
	for j, r := range ranked {
		sc := subjects[r.Key]
		out[j] = Standing{
			Rank:      r.Rank,
			ID:        sc.ID,
			Name:      sc.Name,
			Team:      sc.Team,
			Captain:   sc.Captain,
			Counters:  sc.Counters,
			Total:     r.Total,
			Breakdown: r.Breakdown,
		}
	}
	metrics.RecordRanking(kind)
	s.logger.Debug(ctx, "ranked subjects",
		logger.String("subject", kind),
		logger.Int("candidates", len(subjects)),
		logger.Int("returned", len(out)),
	)
	return out
}

func (s *Service) scoreSubject(ctx context.Context, kind string, sc model.SubjectCounters) model.ScoreBreakdown {
	s.trackScore(ctx, kind, sc)
	return s.engine.ComputeScore(sc.Counters)
}

// trackScore counts a scored subject and compares a provider-reported total
// with the local one. The local total always wins; a mismatch is only logged
// and counted.
func (s *Service) trackScore(ctx context.Context, kind string, sc model.SubjectCounters) {
	metrics.RecordScoreComputed(kind)
	if sc.ReportedTotal == nil {
		return
	}
	local := s.engine.ComputeScore(sc.Counters).Total
	if math.Abs(local-*sc.ReportedTotal) <= driftTolerance {
		return
	}
	metrics.RecordScoreDrift()
	s.logger.Warn(ctx, "reported total differs from computed total",
		logger.String("subject", kind),
		logger.String("id", sc.ID),
		logger.String("name", sc.Name),
		logger.Float64("reported", *sc.ReportedTotal),
		logger.Float64("computed", local),
	)
}

func (s *Service) checkLimit(limit int) error {
	switch {
	case limit < 0:
		metrics.RecordErrorByComponent("service", "invalid_limit")
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit > s.maxLimit:
		metrics.RecordErrorByComponent("service", "limit_exceeded")
		return fmt.Errorf("%w: %d > %d", ErrLimitExceeded, limit, s.maxLimit)
	}
	return nil
}

func (s *Service) checkCounters(c model.ActivityCounters) error {
	if !s.strict {
		return nil
	}
	if err := scoring.Validate(c); err != nil {
		metrics.RecordErrorByComponent("service", "invalid_counters")
		return fmt.Errorf("%w: %w", ErrInvalidCounters, err)
	}
	return nil
}

func (s *Service) checkSubjects(rows []model.SubjectCounters) error {
	for _, r := range rows {
		if err := s.checkCounters(r.Counters); err != nil {
			return fmt.Errorf("%s %q: %w", r.ID, r.Name, err)
		}
	}
	return nil
}

func (s *Service) observe(view string, start time.Time) {
	metrics.RecordViewDuration(view, float64(time.Since(start).Microseconds())/1000)
}
