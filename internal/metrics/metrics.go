// Package metrics provides Prometheus metrics for the editing engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lekh"

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SavesTotal    *prometheus.CounterVec
	SaveLatency   *prometheus.HistogramVec
	PendingEdits  prometheus.Gauge
	HistoryDepth  prometheus.Gauge
	HistoryMoves  *prometheus.CounterVec
	Translations  *prometheus.CounterVec
	CacheHits     prometheus.Counter
	ActiveChanges prometheus.Counter
	SessionsOpen  prometheus.Counter
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Transcript persistence calls by trigger and result",
		}, []string{"trigger", "result"}),
		SaveLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Latency of transcript persistence calls",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"trigger"}),
		PendingEdits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_edits",
			Help:      "Edited segments not yet persisted",
		}),
		HistoryDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_depth",
			Help:      "Number of snapshots in the undo history",
		}),
		HistoryMoves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_moves_total",
			Help:      "Applied undo and redo operations",
		}, []string{"direction"}),
		Translations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Segment translation requests by result",
		}, []string{"result"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_cache_hits_total",
			Help:      "Translations served from the cache",
		}),
		ActiveChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "active_segment_changes_total",
			Help:      "Playback-driven active segment changes",
		}),
		SessionsOpen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_opened_total",
			Help:      "Transcripts opened for editing",
		}),
	}
}

// RecordSave records the outcome and latency of a persistence call.
func (m *Metrics) RecordSave(trigger string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SavesTotal.WithLabelValues(trigger, result).Inc()
	m.SaveLatency.WithLabelValues(trigger).Observe(elapsed.Seconds())
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.PendingEdits.Set(float64(n))
}

func (m *Metrics) SetHistoryDepth(n int) {
	if m == nil {
		return
	}
	m.HistoryDepth.Set(float64(n))
}

func (m *Metrics) RecordHistoryMove(direction string) {
	if m == nil {
		return
	}
	m.HistoryMoves.WithLabelValues(direction).Inc()
}

// RecordTranslation counts a translation request by result label.
func (m *Metrics) RecordTranslation(result string) {
	if m == nil {
		return
	}
	m.Translations.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) RecordActiveChange() {
	if m == nil {
		return
	}
	m.ActiveChanges.Inc()
}

func (m *Metrics) RecordOpen() {
	if m == nil {
		return
	}
	m.SessionsOpen.Inc()
}
