// Package observability exposes Prometheus metrics for the outreach core:
// HTTP edge counters/latency, job pool throughput, and provider call
// outcomes, scraped via the /metrics endpoint.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	jobsClaimed  *prometheus.CounterVec
	jobsDuration *prometheus.HistogramVec
	jobsInflight prometheus.Gauge

	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec

	orphanedQueueDepth  prometheus.Gauge
	dlqPromotions       prometheus.Counter
	orphanedCyclesSkipped prometheus.Counter

	responderOutcomes *prometheus.CounterVec
}

func Init() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_api_requests_total",
			Help: "HTTP requests served, by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),

		jobsClaimed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_jobs_claimed_total",
			Help: "Jobs claimed by the worker pool, by type and outcome.",
		}, []string{"job_type", "outcome"}),
		jobsDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_job_duration_seconds",
			Help:    "Job handler execution time in seconds, by type.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"job_type"}),
		jobsInflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_jobs_inflight",
			Help: "Jobs currently executing across the worker pool.",
		}),

		providerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_provider_calls_total",
			Help: "Outreach provider calls, by provider/operation/outcome.",
		}, []string{"provider", "operation", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_provider_call_duration_seconds",
			Help:    "Outreach provider call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),

		orphanedQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_orphaned_queue_depth",
			Help: "Current size of the orphaned webhook-event retry queue.",
		}),
		dlqPromotions: factory.NewCounter(prometheus.CounterOpts{
			Name: "outreach_dlq_promotions_total",
			Help: "Orphaned events promoted to the dead-letter store.",
		}),
		orphanedCyclesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "outreach_orphaned_cycles_skipped_total",
			Help: "Orphaned-queue ticks skipped because the previous cycle was still processing.",
		}),

		responderOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_responder_outcomes_total",
			Help: "Conversational responder outcomes, by reason.",
		}, []string{"reason", "intent"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, seconds float64) {
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) ApiInflightInc() { m.apiInflight.Inc() }
func (m *Metrics) ApiInflightDec() { m.apiInflight.Dec() }

func (m *Metrics) ObserveJob(jobType, outcome string, seconds float64) {
	m.jobsClaimed.WithLabelValues(jobType, outcome).Inc()
	m.jobsDuration.WithLabelValues(jobType).Observe(seconds)
}

func (m *Metrics) JobsInflightInc() { m.jobsInflight.Inc() }
func (m *Metrics) JobsInflightDec() { m.jobsInflight.Dec() }

func (m *Metrics) ObserveProviderCall(provider, operation, outcome string, seconds float64) {
	m.providerCalls.WithLabelValues(provider, operation, outcome).Inc()
	m.providerLatency.WithLabelValues(provider, operation).Observe(seconds)
}

func (m *Metrics) SetOrphanedQueueDepth(n float64) { m.orphanedQueueDepth.Set(n) }
func (m *Metrics) IncDLQPromotion()                { m.dlqPromotions.Inc() }
func (m *Metrics) IncOrphanedCycleSkipped()         { m.orphanedCyclesSkipped.Inc() }

func (m *Metrics) IncResponderOutcome(reason, intent string) {
	m.responderOutcomes.WithLabelValues(reason, intent).Inc()
}
