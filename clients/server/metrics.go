// Prometheus counters for widget actions.
package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xob0t/bggen/pkg/export"
)

type metrics struct {
	registry    *prometheus.Registry
	generations prometheus.Counter
	colorEdits  prometheus.Counter
	exports     *prometheus.CounterVec
	sessions    prometheus.GaugeFunc
}

func newMetrics(store *sessionStore) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bggen",
			Name:      "generations_total",
			Help:      "Number of Generate actions.",
		}),
		colorEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bggen",
			Name:      "color_edits_total",
			Help:      "Number of manual colour edits.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bggen",
			Name:      "exports_total",
			Help:      "Number of image exports by outcome.",
		}, []string{"status"}),
		sessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "bggen",
			Name:      "sessions",
			Help:      "Number of live widget sessions.",
		}, func() float64 { return float64(store.len()) }),
	}
	m.registry.MustRegister(m.generations, m.colorEdits, m.exports, m.sessions)
	return m
}

func (m *metrics) observeExport(o export.Outcome) {
	m.exports.WithLabelValues(o.Status.String()).Inc()
}
