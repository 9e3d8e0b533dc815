package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PersistenceMetrics records slot saves, loss-guard skips, migrations, and
// remote sync cycles.
type PersistenceMetrics struct {
	saveDuration *prometheus.HistogramVec
	saves        *prometheus.CounterVec
	saveFailures *prometheus.CounterVec
	emptySkips   *prometheus.CounterVec
	migrations   *prometheus.CounterVec
	syncCycles   *prometheus.CounterVec
}

// NewPersistenceMetrics registers the persistence metrics on the provided registerer.
func NewPersistenceMetrics(reg prometheus.Registerer) *PersistenceMetrics {
	if reg == nil {
		return &PersistenceMetrics{}
	}
	saveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slot_save_duration_seconds",
		Help:    "Duration of slot saves in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_saves",
		Help: "Accepted slot saves.",
	}, []string{"collection"})
	saveFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_save_failures",
		Help: "Slot saves that failed at the storage layer.",
	}, []string{"collection"})
	emptySkips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_empty_save_skips",
		Help: "Saves suppressed by the empty-write loss guard.",
	}, []string{"collection"})
	migrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collection_migrations",
		Help: "Collections moved from the key-value tier to the structured tier.",
	}, []string{"collection", "outcome"})
	syncCycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_sync_cycles",
		Help: "Remote sync push/pull cycles by outcome.",
	}, []string{"direction", "outcome"})
	reg.MustRegister(saveDuration, saves, saveFailures, emptySkips, migrations, syncCycles)
	return &PersistenceMetrics{
		saveDuration: saveDuration,
		saves:        saves,
		saveFailures: saveFailures,
		emptySkips:   emptySkips,
		migrations:   migrations,
		syncCycles:   syncCycles,
	}
}

// ObserveSaveDuration records how long the save took for the collection.
func (p *PersistenceMetrics) ObserveSaveDuration(collection string, duration time.Duration) {
	if p == nil || p.saveDuration == nil {
		return
	}
	p.saveDuration.WithLabelValues(normalizeLabel(collection)).Observe(duration.Seconds())
}

// IncSave increments the accepted-save counter for the collection.
func (p *PersistenceMetrics) IncSave(collection string) {
	if p == nil || p.saves == nil {
		return
	}
	p.saves.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncSaveFailure increments the failed-save counter for the collection.
func (p *PersistenceMetrics) IncSaveFailure(collection string) {
	if p == nil || p.saveFailures == nil {
		return
	}
	p.saveFailures.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncEmptySkip increments the loss-guard skip counter for the collection.
func (p *PersistenceMetrics) IncEmptySkip(collection string) {
	if p == nil || p.emptySkips == nil {
		return
	}
	p.emptySkips.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncMigration records a per-collection migration outcome.
func (p *PersistenceMetrics) IncMigration(collection, outcome string) {
	if p == nil || p.migrations == nil {
		return
	}
	p.migrations.WithLabelValues(normalizeLabel(collection), normalizeLabel(outcome)).Inc()
}

// IncSyncCycle records one remote sync cycle.
func (p *PersistenceMetrics) IncSyncCycle(direction, outcome string) {
	if p == nil || p.syncCycles == nil {
		return
	}
	p.syncCycles.WithLabelValues(normalizeLabel(direction), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
