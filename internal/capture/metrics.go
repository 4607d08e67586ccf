package capture

import "github.com/prometheus/client_golang/prometheus"

var (
	snapshotsStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velocitycmdb_capture_snapshots_stored_total",
			Help: "Snapshots saved, by capture type and whether a new row was created.",
		},
		[]string{"capture_type", "outcome"},
	)
	snapshotsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "velocitycmdb_capture_snapshots_pruned_total",
			Help: "Snapshots deleted by retention pruning.",
		},
	)
)

func init() {
	prometheus.MustRegister(snapshotsStored)
	prometheus.MustRegister(snapshotsPruned)
}
