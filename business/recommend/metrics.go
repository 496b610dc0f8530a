package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_provider_failures_total",
			Help: "Candidate provider failures by entity type (the type is skipped, not fatal).",
		},
		[]string{"entity_type"},
	)

	RealtimeBoostsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_realtime_boosts_total",
			Help: "Count of cached recommendation sets re-weighted by the real-time updater.",
		},
	)

	ProfileFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_profile_fallbacks_total",
			Help: "Count of profile builds that fell back to the default popularity profile.",
		},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_lookups_total",
			Help: "Recommendation cache lookups by outcome (hit, miss, error).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderFailuresTotal,
		RealtimeBoostsTotal,
		ProfileFallbacksTotal,
		CacheLookupsTotal,
	)
}
