// Package metrics exposes the simulation's aggregates as prometheus
// gauges. A Collector registers as an engine listener and mirrors every
// notification into the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"curefront/internal/sim"
)

// Collector mirrors engine events into prometheus gauges. It implements
// sim.Listener.
type Collector struct {
	cureProgress   prometheus.Gauge
	currency       prometheus.Gauge
	activeOutposts prometheus.Gauge
	totalOutposts  prometheus.Gauge
	infection      *prometheus.GaugeVec
	outposts       *prometheus.GaugeVec
	outcome        prometheus.Gauge
}

// New registers the simulation gauges with the given registerer.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		cureProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "cure_progress",
			Help:      "Global cure progress in [0,1].",
		}),
		currency: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "currency_balance",
			Help:      "Shared spendable currency balance.",
		}),
		activeOutposts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "active_outposts",
			Help:      "Outposts currently contributing to the cure.",
		}),
		totalOutposts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "total_outposts",
			Help:      "Outposts built across all provinces.",
		}),
		infection: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "province_infection",
			Help:      "Infection level per province in [0,1].",
		}, []string{"region"}),
		outposts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "province_outposts",
			Help:      "Outposts built per province.",
		}, []string{"region"}),
		outcome: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "curefront",
			Name:      "outcome",
			Help:      "Terminal outcome: 0 running, 1 victory, 2 defeat.",
		}),
	}
}

// ProvinceChanged implements sim.Listener.
func (c *Collector) ProvinceChanged(ev sim.ProvinceEvent) {
	c.infection.WithLabelValues(string(ev.Region)).Set(ev.Infection)
	c.outposts.WithLabelValues(string(ev.Region)).Set(float64(ev.OutpostCount))
}

// GlobalChanged implements sim.Listener.
func (c *Collector) GlobalChanged(ev sim.GlobalEvent) {
	c.cureProgress.Set(ev.CureProgress)
	c.currency.Set(float64(ev.CurrencyBalance))
	c.activeOutposts.Set(float64(ev.ActiveOutposts))
	c.totalOutposts.Set(float64(ev.TotalOutposts))
}

// OutcomeReached implements sim.Listener.
func (c *Collector) OutcomeReached(o sim.OutcomeRecord) {
	c.outcome.Set(float64(o.Kind))
}
