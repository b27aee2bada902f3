package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend API Metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAPIRequestsTotal,
			Help: HelpTextAPIRequestsTotal,
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameAPIRequestDuration,
			Help:    HelpTextAPIRequestDuration,
			Buckets: APILatencyBuckets,
		},
		[]string{LabelMethod, LabelRoute},
	)
)

// Status server metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Play Metrics
var (
	PlaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePlaysTotal,
			Help: HelpTextPlaysTotal,
		},
		[]string{LabelKind, LabelOutcome},
	)

	PlaysRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePlaysRejected,
			Help: HelpTextPlaysRejected,
		},
		[]string{LabelKind, LabelReason},
	)

	PlaysInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNamePlaysInFlight,
			Help: HelpTextPlaysInFlight,
		},
		[]string{LabelKind},
	)

	CoinsWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsWon,
			Help: HelpTextCoinsWon,
		},
	)
)

// Session Metrics
var (
	ProfileRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProfileRefreshes,
			Help: HelpTextProfileRefreshes,
		},
		[]string{LabelResult},
	)

	StaleDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStaleDiscarded,
			Help: HelpTextStaleDiscarded,
		},
		[]string{LabelResource},
	)

	MetaSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMetaSyncs,
			Help: HelpTextMetaSyncs,
		},
		[]string{LabelResult},
	)

	OnboardingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOnboardingsTotal,
			Help: HelpTextOnboardingsTotal,
		},
		[]string{LabelResult},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)
)
