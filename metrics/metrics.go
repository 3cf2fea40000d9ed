// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_sessions_started_total",
		Help: "Visitor sessions started",
	})

	ReturningSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_sessions_returning_total",
		Help: "Visitor sessions started by a returning visitor",
	})

	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_sessions_ended_total",
		Help: "End-session calls by outcome (closed, ignored)",
	}, []string{"outcome"})

	PageViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_page_views_total",
		Help: "Page view calls by outcome (recorded, dropped)",
	}, []string{"outcome"})

	EventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_events_recorded_total",
		Help: "Analytics events written, by backend",
	}, []string{"backend"})

	ProjectEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_project_events_total",
		Help: "Project analytics rows written, by well-known event type",
	}, []string{"event_type"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_store_errors_total",
		Help: "Store failures by operation",
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_rate_limited_total",
		Help: "Requests rejected by the tracking rate limiter",
	}, []string{"route"})
)

// ProjectEventLabel keeps the event_type label bounded; event types are free-form.
func ProjectEventLabel(eventType string) string {
	switch eventType {
	case "view", "github_click", "demo_click":
		return eventType
	default:
		return "other"
	}
}
