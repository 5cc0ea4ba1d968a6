// Package telemetry provides OpenTelemetry instrumentation for the triage
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/civicgrid/triage/internal/domain"
)

const serviceName = "triage"

// Metrics holds all triage Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	ComplaintsTriaged  *prometheus.CounterVec
	TriageFailed       *prometheus.CounterVec
	TriageDuration     prometheus.Histogram
	BatchSize          prometheus.Histogram
	KeywordFallbacks   prometheus.Counter
	ModelConfidence    prometheus.Histogram

	// Language metrics
	TranslationsTotal  *prometheus.CounterVec
	TranslationsFailed prometheus.Counter

	// Duplicate detection metrics
	DuplicateChecks   prometheus.Counter
	DuplicatesFound   prometheus.Counter
	DuplicateDuration prometheus.Histogram

	// Routing metrics
	ComplaintsRouted *prometheus.CounterVec
	Escalations      prometheus.Counter
	SentinelRoutes   prometheus.Counter

	// Persistence metrics
	PersistFailures *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m)
	initLanguageMetrics(m)
	initDuplicateMetrics(m)
	initRoutingMetrics(m)
	initPersistenceMetrics(m)
	return m
}

func initPipelineMetrics(m *Metrics) {
	m.ComplaintsTriaged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_complaints_triaged_total",
		Help: "Total complaints triaged, by category, urgency, and decision method",
	}, []string{"category", "urgency", "method"})

	m.TriageFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_failed_total",
		Help: "Total triage requests that failed",
	}, []string{"stage"})

	m.TriageDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_duration_seconds",
		Help:    "Time to triage a single complaint",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_batch_size",
		Help:    "Number of complaints per batch request",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200},
	})

	m.KeywordFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_keyword_fallbacks_total",
		Help: "Total classifications where keyword rules overrode a low-confidence model prediction",
	})

	m.ModelConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_model_confidence",
		Help:    "Confidence of the statistical classifier's predictions",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
}

func initLanguageMetrics(m *Metrics) {
	m.TranslationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_translations_total",
		Help: "Total translation attempts by detected source language",
	}, []string{"language"})

	m.TranslationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_translations_failed_total",
		Help: "Translations that failed and fell back to the original text",
	})
}

func initDuplicateMetrics(m *Metrics) {
	m.DuplicateChecks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_duplicate_checks_total",
		Help: "Total duplicate detection scans",
	})

	m.DuplicatesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_duplicates_found_total",
		Help: "Scans that flagged the new complaint as a duplicate",
	})

	m.DuplicateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_duplicate_duration_seconds",
		Help:    "Time spent scanning candidates for duplicates",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})
}

func initRoutingMetrics(m *Metrics) {
	m.ComplaintsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_complaints_routed_total",
		Help: "Total complaints routed, by department",
	}, []string{"department"})

	m.Escalations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_escalations_total",
		Help: "Complaints flagged for escalation at intake",
	})

	m.SentinelRoutes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_sentinel_routes_total",
		Help: "Complaints assigned to the sentinel officer because no roster entry was eligible",
	})
}

func initPersistenceMetrics(m *Metrics) {
	m.PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_persist_failures_total",
		Help: "Failed writes to downstream stores",
	}, []string{"store"})
}

// RecordTriage records metrics for a completed triage decision.
func (p *Provider) RecordTriage(ctx context.Context, result domain.TriageResult, duration time.Duration) {
	p.Metrics.ComplaintsTriaged.WithLabelValues(
		string(result.Category),
		string(result.UrgencyLevel),
		string(result.Method),
	).Inc()
	p.Metrics.TriageDuration.Observe(duration.Seconds())
	p.Metrics.ModelConfidence.Observe(result.CategoryConfidence)
	if result.Method == domain.MethodKeywordFallback {
		p.Metrics.KeywordFallbacks.Inc()
	}
}

// RecordTriageFailure records a failed triage request at a given stage.
func (p *Provider) RecordTriageFailure(ctx context.Context, stage string) {
	p.Metrics.TriageFailed.WithLabelValues(stage).Inc()
}

// RecordTranslation records a translation attempt.
func (p *Provider) RecordTranslation(ctx context.Context, language string, success bool) {
	p.Metrics.TranslationsTotal.WithLabelValues(language).Inc()
	if !success {
		p.Metrics.TranslationsFailed.Inc()
	}
}

// RecordDuplicateScan records a duplicate detection scan.
func (p *Provider) RecordDuplicateScan(ctx context.Context, isDuplicate bool, duration time.Duration) {
	p.Metrics.DuplicateChecks.Inc()
	p.Metrics.DuplicateDuration.Observe(duration.Seconds())
	if isDuplicate {
		p.Metrics.DuplicatesFound.Inc()
	}
}

// RecordRouting records a routing decision.
func (p *Provider) RecordRouting(ctx context.Context, decision domain.RoutingDecision) {
	p.Metrics.ComplaintsRouted.WithLabelValues(decision.DepartmentID).Inc()
	if decision.Escalation.Needed {
		p.Metrics.Escalations.Inc()
	}
	if decision.OfficerID == domain.SentinelOfficerID {
		p.Metrics.SentinelRoutes.Inc()
	}
}

// RecordPersistFailure records a failed write to a downstream store.
func (p *Provider) RecordPersistFailure(ctx context.Context, store string) {
	p.Metrics.PersistFailures.WithLabelValues(store).Inc()
}

// RecordBatchSize records the size of a processed batch
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
