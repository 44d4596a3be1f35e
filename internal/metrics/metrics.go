// Package metrics exposes generation counters for Prometheus scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts emitted events, budget cutoffs and configuration defects
// per map and category. It implements wavegen.Observer.
type Collector struct {
	registry *prometheus.Registry

	eventsTotal  *prometheus.CounterVec
	cutoffsTotal *prometheus.CounterVec
	defectsTotal *prometheus.CounterVec
	passesTotal  *prometheus.CounterVec
	passDuration prometheus.Histogram
	lastPassMaps prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawnpattern_events_total",
				Help: "Spawn events emitted by the generator",
			},
			[]string{"map", "category"},
		),
		cutoffsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawnpattern_budget_cutoffs_total",
				Help: "Categories or bosses ended early by the spawn time budget",
			},
			[]string{"map", "category"},
		),
		defectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawnpattern_config_defects_total",
				Help: "Pattern configuration defects skipped during generation",
			},
			[]string{"map", "category"},
		),
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spawnpattern_passes_total",
				Help: "Regeneration passes by outcome",
			},
			[]string{"outcome"},
		),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spawnpattern_pass_duration_seconds",
			Help:    "Duration of a full regeneration pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		lastPassMaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spawnpattern_last_pass_maps",
			Help: "Maps regenerated by the most recent pass",
		}),
	}

	c.registry.MustRegister(
		c.eventsTotal,
		c.cutoffsTotal,
		c.defectsTotal,
		c.passesTotal,
		c.passDuration,
		c.lastPassMaps,
	)
	return c
}

func (c *Collector) EventEmitted(mapName, category string) {
	c.eventsTotal.WithLabelValues(mapName, category).Inc()
}

func (c *Collector) BudgetCutoff(mapName, category string) {
	c.cutoffsTotal.WithLabelValues(mapName, category).Inc()
}

func (c *Collector) Defect(mapName, category string) {
	c.defectsTotal.WithLabelValues(mapName, category).Inc()
}

// PassDone records a finished regeneration pass.
func (c *Collector) PassDone(took time.Duration, maps int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.passesTotal.WithLabelValues(outcome).Inc()
	c.passDuration.Observe(took.Seconds())
	c.lastPassMaps.Set(float64(maps))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
