package behavior

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "behavior_events_dropped_total",
		Help: "Events rejected because the capture queue was full",
	})

	EventsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "behavior_events_failed_total",
		Help: "Events that could not be persisted",
	})
)

func init() {
	prometheus.MustRegister(EventsDroppedTotal, EventsFailedTotal)
}
