package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache lookups by payload kind and result (hit, empty, expired, drifted).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_insight_cache_lookups_total",
		Help: "Freshness cache lookups by kind and result",
	}, []string{"kind", "result"})

	// Reports counts facade responses by kind and status (live, cached, stale, mock).
	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_insight_reports_total",
		Help: "Reports served by kind and freshness status",
	}, []string{"kind", "status"})

	// InsightSources counts generated insights by kind and source (model, rules).
	InsightSources = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_insight_insight_sources_total",
		Help: "Insights generated by kind and source",
	}, []string{"kind", "source"})

	// ProviderRequests counts outbound provider calls by provider and outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_insight_provider_requests_total",
		Help: "Outbound provider requests by provider and outcome",
	}, []string{"provider", "outcome"})

	// ProviderLatency observes outbound provider call latency in seconds.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "farm_insight_provider_latency_seconds",
		Help:    "Outbound provider request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)
