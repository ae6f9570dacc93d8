// Package metrics provides Prometheus metrics for the power team scoring engine.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Manager manages all Prometheus metrics for the scoring engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics
	scoresComputed *prometheus.CounterVec
	rankings       *prometheus.CounterVec
	scoreDrift     prometheus.Counter
	viewDuration   *prometheus.HistogramVec

	// Provider Metrics - backend and in-memory report store
	providerRequests        *prometheus.CounterVec
	providerRequestDuration *prometheus.HistogramVec

	// Worker Metrics
	workerJobs        *prometheus.CounterVec
	workerJobDuration *prometheus.HistogramVec

	// Repository Metrics
	reportsStored prometheus.Gauge
	teamsStored   prometheus.Gauge

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "powerteam",
		subsystem:        "scoring",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.scoresComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scores_computed_total",
		Help:        "Total number of score breakdowns computed, by subject kind",
		ConstLabels: constLabels,
	}, []string{"subject"})

	m.rankings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rankings_total",
		Help:        "Total number of rankings produced, by subject kind",
		ConstLabels: constLabels,
	}, []string{"subject"})

	m.scoreDrift = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_drift_total",
		Help:        "Reported totals that disagree with the locally computed total",
		ConstLabels: constLabels,
	})

	m.viewDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_duration_milliseconds",
		Help:        "Time spent building a dashboard view in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"view"})

	m.providerRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "provider_requests_total",
		Help:        "Counter requests sent to a provider, by endpoint and status",
		ConstLabels: constLabels,
	}, []string{"endpoint", "status"})

	m.providerRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "provider_request_duration_milliseconds",
		Help:        "Provider request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint"})

	m.workerJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_jobs_total",
		Help:        "Jobs run by a worker pool, by pool and status",
		ConstLabels: constLabels,
	}, []string{"pool", "status"})

	m.workerJobDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_job_duration_milliseconds",
		Help:        "Worker job duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"pool"})

	m.reportsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reports_stored",
		Help:        "Weekly reports currently held by the report store",
		ConstLabels: constLabels,
	})

	m.teamsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_stored",
		Help:        "Teams currently held by the report store",
		ConstLabels: constLabels,
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: constLabels,
	}, []string{"component", "type"})
}

// RecordScoreComputed counts one breakdown for the given subject (user, team, record).
func (m *Manager) RecordScoreComputed(subject string) {
	if m.enabled {
		m.scoresComputed.WithLabelValues(subject).Inc()
	}
}

// RecordRanking counts one ranking for the given subject.
func (m *Manager) RecordRanking(subject string) {
	if m.enabled {
		m.rankings.WithLabelValues(subject).Inc()
	}
}

// RecordScoreDrift counts a reported total that did not match.
func (m *Manager) RecordScoreDrift() {
	if m.enabled {
		m.scoreDrift.Inc()
	}
}

// RecordViewDuration observes how long a view took.
func (m *Manager) RecordViewDuration(view string, ms float64) {
	if m.enabled {
		m.viewDuration.WithLabelValues(view).Observe(ms)
	}
}

// RecordProviderRequest records a provider call outcome and its latency.
func (m *Manager) RecordProviderRequest(endpoint, status string, ms float64) {
	if !m.enabled {
		return
	}
	m.providerRequests.WithLabelValues(endpoint, status).Inc()
	m.providerRequestDuration.WithLabelValues(endpoint).Observe(ms)
}

// RecordWorkerJob records one finished pool job.
func (m *Manager) RecordWorkerJob(pool, status string, ms float64) {
	if !m.enabled {
		return
	}
	m.workerJobs.WithLabelValues(pool, status).Inc()
	m.workerJobDuration.WithLabelValues(pool).Observe(ms)
}

// UpdateStoreSize sets the report and team gauges.
func (m *Manager) UpdateStoreSize(reports, teams int) {
	if !m.enabled {
		return
	}
	m.reportsStored.Set(float64(reports))
	m.teamsStored.Set(float64(teams))
}

// RecordError records an error with component and type labels.
func (m *Manager) RecordError(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordScoreComputed increments the global scores computed counter.
func RecordScoreComputed(subject string) { globalManager.RecordScoreComputed(subject) }

// RecordRanking increments the global rankings counter.
func RecordRanking(subject string) { globalManager.RecordRanking(subject) }

// RecordScoreDrift increments the global drift counter.
func RecordScoreDrift() { globalManager.RecordScoreDrift() }

// RecordViewDuration observes a view duration on the global manager.
func RecordViewDuration(view string, ms float64) { globalManager.RecordViewDuration(view, ms) }

// RecordProviderRequest records a provider call on the global manager.
func RecordProviderRequest(endpoint, status string, ms float64) {
	globalManager.RecordProviderRequest(endpoint, status, ms)
}

// RecordWorkerJob records a pool job on the global manager.
func RecordWorkerJob(pool, status string, ms float64) { globalManager.RecordWorkerJob(pool, status, ms) }

// UpdateStoreSize sets the global store gauges.
func UpdateStoreSize(reports, teams int) { globalManager.UpdateStoreSize(reports, teams) }

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordError(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteText dumps every metric family of g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatherFailed, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: %v", ErrGatherFailed, err)
		}
	}
	return nil
}
