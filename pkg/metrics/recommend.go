package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the GetRecommendations HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_request_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total recommendation requests served, labeled by how the set was produced
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total recommendation requests by source (cache, computed, fallback)",
	}, []string{"source"})

	// Total behavior events accepted at the capture boundary
	EventsAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "behavior_events_accepted_total",
		Help: "Behavior events accepted by event type",
	}, []string{"event_type"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		EventsAccepted,
	)
}
