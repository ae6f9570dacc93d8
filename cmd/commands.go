package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/powerteam/internal/adapters/backend"
	"github.com/okian/powerteam/internal/adapters/repository"
	service "github.com/okian/powerteam/internal/app"
	"github.com/okian/powerteam/internal/config"
	"github.com/okian/powerteam/internal/domain/model"
	"github.com/okian/powerteam/internal/domain/scoring"
	"github.com/okian/powerteam/internal/domain/window"
	"github.com/okian/powerteam/pkg/logger"
	"github.com/okian/powerteam/pkg/metrics"
)

const defaultTrendWeeks = 4

type globalFlags struct {
	config  string
	format  string
	fixture string
	token   string
	week    string
	month   string
	metrics bool
}

// deps is everything a command needs once configuration is resolved.
type deps struct {
	cfg     *config.Config
	log     logger.Logger
	svc     *service.Service
	query   model.Query
	format  string
	out     io.Writer
	reports func(ctx context.Context) ([]reportInfo, error)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "powerteam",
		Short:         "Score and rank power team activity",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !g.metrics {
				return nil
			}
			return metrics.WriteText(stderr, metrics.GetRegistry())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitErr{code: exitUsage, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.config, "config", "", "YAML config file (default: $POWERTEAM_CONFIG)")
	pf.StringVar(&g.format, "format", "", "Output format: text, json or yaml")
	pf.StringVar(&g.fixture, "fixture", "", "YAML fixture of teams and weekly reports, used instead of the backend")
	pf.StringVar(&g.token, "token", "", "Bearer token for the backend")
	pf.StringVar(&g.week, "week", "", "Restrict to the week containing YYYY-MM-DD")
	pf.StringVar(&g.month, "month", "", "Restrict to the month YYYY-MM")
	pf.BoolVar(&g.metrics, "metrics", false, "Print Prometheus metrics to stderr on exit")

	root.AddCommand(
		newScoreCmd(g, stdout, stderr),
		newTopTeamsCmd(g, stdout, stderr),
		newTopPerformersCmd(g, stdout, stderr),
		newTotalsCmd(g, stdout, stderr),
		newUsersCmd(g, stdout, stderr),
		newTeamsCmd(g, stdout, stderr),
		newTrendCmd(g, stdout, stderr),
		newReportsCmd(g, stdout, stderr),
	)
	return root
}

func newScoreCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var c model.ActivityCounters

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single activity record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, false)
			if err != nil {
				return err
			}
			b, err := rt.svc.Score(c)
			if err != nil {
				return fail(err)
			}
			return rt.render(b)
		},
	}

	f := cmd.Flags()
	f.IntVar(&c.Present, "present", 0, "Meetings attended (P)")
	f.IntVar(&c.Substitute, "substitute", 0, "Meetings covered by a substitute (S)")
	f.IntVar(&c.Absent, "absent", 0, "Meetings missed (A)")
	f.IntVar(&c.Medical, "medical", 0, "Medical absences (M)")
	f.IntVar(&c.Late, "late", 0, "Late arrivals (L)")
	f.IntVar(&c.ReferralsGivenInside, "rgi", 0, "Referrals given inside the chapter (RGI)")
	f.IntVar(&c.ReferralsGivenOutside, "rgo", 0, "Referrals given outside the chapter (RGO)")
	f.IntVar(&c.ReferralsReceivedInside, "rri", 0, "Referrals received inside the chapter (RRI)")
	f.IntVar(&c.ReferralsReceivedOutside, "rro", 0, "Referrals received outside the chapter (RRO)")
	f.IntVar(&c.Visitors, "visitors", 0, "Visitors brought (V)")
	f.IntVar(&c.OneToOneMeetings, "one-to-one", 0, "One-to-one meetings")
	f.IntVar(&c.Conversions, "conversions", 0, "Visitor conversions (CON)")
	f.IntVar(&c.Testimonials, "testimonials", 0, "Testimonials given (T)")
	f.IntVar(&c.TrainingSessions, "training", 0, "Training sessions attended (CEU)")
	f.Float64Var(&c.ClosedBusinessAmount, "closed-business", 0, "Closed business amount (TYFCB)")
	return cmd
}

func newTopTeamsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top-teams",
		Short: "Rank teams by total points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = rt.cfg.DefaultLimit
			}
			rows, err := rt.svc.TopTeams(cmd.Context(), rt.query, limit)
			if err != nil {
				return fail(err)
			}
			return rt.render(rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.DefaultLimit, "Number of teams to show")
	return cmd
}

func newTopPerformersCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top-performers",
		Short: "Rank members by total points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = rt.cfg.DefaultLimit
			}
			rows, err := rt.svc.TopPerformers(cmd.Context(), rt.query, limit)
			if err != nil {
				return fail(err)
			}
			return rt.render(rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.DefaultLimit, "Number of members to show")
	return cmd
}

func newTotalsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Sum every member's activity by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			t, err := rt.svc.CategoryTotals(cmd.Context(), rt.query)
			if err != nil {
				return fail(err)
			}
			return rt.render(t)
		},
	}
}

func newUsersCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		team  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Per-member breakdown table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			q := rt.query
			q.TeamID = team
			rows, err := rt.svc.UserBreakdown(cmd.Context(), q, limit)
			if err != nil {
				return fail(err)
			}
			return rt.render(rows)
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Only members of this team id")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of members to show (0 = all)")
	return cmd
}

func newTeamsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Per-team breakdown table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			rows, err := rt.svc.TeamBreakdown(cmd.Context(), rt.query)
			if err != nil {
				return fail(err)
			}
			return rt.render(rows)
		},
	}
}

func newTrendCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var weeks, months int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Team points over the last weeks or months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if weeks > 0 && months > 0 {
				return usageError("--weeks and --months are mutually exclusive")
			}
			if weeks < 0 || months < 0 {
				return usageError("period count must not be negative")
			}
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			if n := max(weeks, months); n > rt.cfg.MaxLimit {
				return usageError("period count %d exceeds the maximum of %d", n, rt.cfg.MaxLimit)
			}
			now := time.Now()
			var windows []window.Window
			switch {
			case months > 0:
				windows = window.LastMonths(now, months)
			case weeks > 0:
				windows = window.LastWeeks(now, weeks)
			default:
				windows = window.LastWeeks(now, defaultTrendWeeks)
			}
			points, err := rt.svc.TeamTrend(cmd.Context(), windows)
			if err != nil {
				return fail(err)
			}
			return rt.render(points)
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks, oldest first")
	cmd.Flags().IntVar(&months, "months", 0, "Number of months, oldest first")
	return cmd
}

func newReportsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List uploaded weekly reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), g, stdout, stderr, true)
			if err != nil {
				return err
			}
			list, err := rt.reports(cmd.Context())
			if err != nil {
				return fail(err)
			}
			return rt.render(list)
		},
	}
}

// setup loads configuration, initializes logging and, when withProvider is
// set, connects the service to a fixture store or the backend.
func setup(ctx context.Context, g *globalFlags, stdout, stderr io.Writer, withProvider bool) (*deps, error) {
	cfg, err := config.Load(ctx, g.config)
	if err != nil {
		return nil, fail(err)
	}
	if g.format != "" {
		cfg.Format = g.format
	}
	if g.fixture != "" {
		cfg.Fixture = g.fixture
	}
	if g.token != "" {
		cfg.Backend.Token = g.token
	}
	if err := cfg.Validate(); err != nil {
		return nil, fail(err)
	}

	if err := logger.Init(logger.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Writer:    stderr,
		AddSource: true,
	}); err != nil {
		return nil, fail(fmt.Errorf("%w: %v", config.ErrInvalidConfig, err))
	}
	log := logger.Named("powerteam")

	q, err := parseQuery(g)
	if err != nil {
		return nil, fail(err)
	}

	opts := []service.Option{
		service.WithEngine(scoring.NewEngine(scoring.WithWeights(cfg.Weights))),
		service.WithLogger(log.Named("service")),
		service.WithMaxLimit(cfg.MaxLimit),
		service.WithStrictCounters(cfg.StrictCounters),
		service.WithConcurrency(cfg.Concurrency),
	}
	rt := &deps{cfg: cfg, log: log, query: q, format: cfg.Format, out: stdout}

	if withProvider {
		if err := rt.connect(ctx, &opts); err != nil {
			return nil, fail(err)
		}
	}
	rt.svc = service.New(opts...)
	log.Debug(ctx, "configured",
		logger.String("window", q.Window.String()),
		logger.String("format", cfg.Format),
		logger.Bool("fixture", cfg.Fixture != ""),
	)
	return rt, nil
}

// connect picks the data source: a fixture file when configured, otherwise
// the backend at backend.base_url.
func (rt *deps) connect(ctx context.Context, opts *[]service.Option) error {
	if rt.cfg.Fixture != "" {
		store, err := repository.LoadFixtureFile(ctx, rt.cfg.Fixture)
		if err != nil {
			return err
		}
		*opts = append(*opts, service.WithProvider(store))
		rt.reports = func(ctx context.Context) ([]reportInfo, error) {
			return storeReports(store.Reports(ctx)), nil
		}
		return nil
	}

	if rt.cfg.Backend.BaseURL == "" {
		return service.ErrNoProvider
	}
	client, err := backend.New(backend.Config{
		BaseURL:   rt.cfg.Backend.BaseURL,
		Timeout:   rt.cfg.Backend.Timeout,
		UserAgent: rt.cfg.Backend.UserAgent,
	}, backend.WithLogger(rt.log.Named("backend")))
	if err != nil {
		return err
	}
	tok := backend.Token(rt.cfg.Backend.Token)
	*opts = append(*opts, service.WithProvider(client.Session(tok)))
	rt.reports = func(ctx context.Context) ([]reportInfo, error) {
		list, err := client.WeeklyReports(ctx, tok)
		if err != nil {
			return nil, err
		}
		return backendReports(list), nil
	}
	return nil
}

func parseQuery(g *globalFlags) (model.Query, error) {
	switch {
	case g.week != "" && g.month != "":
		return model.Query{}, fmt.Errorf("%w: --week and --month are mutually exclusive", window.ErrInvalidWindow)
	case g.week != "":
		w, err := window.Parse(string(window.KindWeek), g.week)
		return model.Query{Window: w}, err
	case g.month != "":
		w, err := window.Parse(string(window.KindMonth), g.month)
		return model.Query{Window: w}, err
	}
	return model.Query{Window: window.All()}, nil
}

func (rt *deps) render(v any) error {
	if err := render(rt.out, rt.format, v); err != nil {
		return &exitErr{code: exitFailure, err: err}
	}
	return nil
}

// fail wraps err with the exit code for its kind: configuration and input
// mistakes are usage errors, everything else is a data error.
func fail(err error) error {
	var ee *exitErr
	if errors.As(err, &ee) {
		return err
	}
	switch {
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrLoadConfig),
		errors.Is(err, window.ErrInvalidWindow),
		errors.Is(err, backend.ErrInvalidConfig),
		errors.Is(err, repository.ErrInvalidFixture),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrLimitExceeded),
		errors.Is(err, service.ErrNoProvider):
		return &exitErr{code: exitUsage, err: err}
	}
	return &exitErr{code: exitData, err: err}
}
