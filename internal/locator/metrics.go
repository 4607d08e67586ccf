package locator

import "github.com/prometheus/client_golang/prometheus"

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velocitycmdb_locator_lookups_total",
			Help: "IP location lookups by outcome.",
		},
		[]string{"result"},
	)
	lookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "velocitycmdb_locator_lookup_duration_seconds",
			Help:    "Time spent parsing and correlating captures for one lookup.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(lookupsTotal)
	prometheus.MustRegister(lookupDuration)
}
