// Package backend is an HTTP client for the dashboard data service. Every
// call takes an explicit Config and Token; nothing is read from ambient state.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/powerteam/internal/domain/model"
	"github.com/okian/powerteam/pkg/logger"
	"github.com/okian/powerteam/pkg/metrics"
)

// Endpoint paths relative to Config.BaseURL.
const (
	PathUserBreakdown = "/dashboard/user-breakdown"
	PathTeamBreakdown = "/dashboard/team-breakdown"
	PathWeeklyReports = "/reports/weekly"

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// Config addresses the data service.
type Config struct {
	BaseURL   string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gte=0"`
	UserAgent string
}

var validate = validator.New()

// Client performs requests against the data service.
type Client struct {
	base      *url.URL
	userAgent string
	http      *http.Client
	log       logger.Logger
	now       func() time.Time
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Config.Timeout is not
// applied to a caller-supplied client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(gen func() string) Option {
	return func(c *Client) {
		if gen != nil {
			c.requestID = gen
		}
	}
}

// New validates cfg and builds a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", ErrInvalidConfig, err)
	}
	c := &Client{
		base:      base,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       logger.Nop(),
		now:       time.Now,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UserBreakdown fetches per-member counters. limit <= 0 omits the limit parameter.
func (c *Client) UserBreakdown(ctx context.Context, tok Token, q model.Query, limit int) ([]UserRow, error) {
	v := q.Window.Values()
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if q.TeamID != "" {
		v.Set("teamId", q.TeamID)
	}
	var rows []breakdownRow
	if err := c.get(ctx, tok, PathUserBreakdown, v, &rows); err != nil {
		return nil, err
	}
	out := make([]UserRow, len(rows))
	for i, r := range rows {
		out[i] = r.user()
	}
	return out, nil
}

// TeamBreakdown fetches per-team counters.
func (c *Client) TeamBreakdown(ctx context.Context, tok Token, q model.Query) ([]TeamRow, error) {
	var rows []breakdownRow
	if err := c.get(ctx, tok, PathTeamBreakdown, q.Window.Values(), &rows); err != nil {
		return nil, err
	}
	out := make([]TeamRow, len(rows))
	for i, r := range rows {
		out[i] = r.team()
	}
	return out, nil
}

// WeeklyReports lists uploaded weekly reports.
func (c *Client) WeeklyReports(ctx context.Context, tok Token) ([]ReportSummary, error) {
	var out []ReportSummary
	if err := c.get(ctx, tok, PathWeeklyReports, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, tok Token, path string, query url.Values, dst any) error {
	if err := tok.Check(c.now()); err != nil {
		return err
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	rid := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, rid)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if !tok.Empty() {
		req.Header.Set("Authorization", "Bearer "+string(tok))
	}

	endpoint := strings.TrimPrefix(path, "/")
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error", elapsed)
		metrics.RecordErrorByComponent("backend", "transport")
		return fmt.Errorf("backend: %s: %w", path, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.RecordProviderRequest(endpoint, status, elapsed)
	c.log.Debug(ctx, "backend request",
		logger.String("path", path),
		logger.String("status", status),
		logger.String("request_id", rid),
		logger.Float64("elapsed_ms", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := newStatusError(resp.StatusCode, body)
		metrics.RecordErrorByComponent("backend", "status_"+status)
		c.log.Warn(ctx, "backend request failed",
			logger.String("path", path),
			logger.String("status", status),
			logger.String("request_id", rid),
		)
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		metrics.RecordErrorByComponent("backend", "decode")
		return fmt.Errorf("backend: %s: decode response: %w", path, err)
	}
	return nil
}

// Session binds a token to the client and satisfies the dashboard provider.
type Session struct {
	client *Client
	token  Token
}

// Session returns a provider that authenticates with tok.
func (c *Client) Session(tok Token) *Session {
	return &Session{client: c, token: tok}
}

// UserCounters returns every member row for the query.
func (s *Session) UserCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error) {
	rows, err := s.client.UserBreakdown(ctx, s.token, q, 0)
	if err != nil {
		return nil, err
	}
	out := make([]model.SubjectCounters, len(rows))
	for i, r := range rows {
		out[i] = r.Subject()
	}
	return out, nil
}

// TeamCounters returns every team row for the query.
func (s *Session) TeamCounters(ctx context.Context, q model.Query) ([]model.SubjectCounters, error) {
	rows, err := s.client.TeamBreakdown(ctx, s.token, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.SubjectCounters, len(rows))
	for i, r := range rows {
		out[i] = r.Subject()
	}
	return out, nil
}
