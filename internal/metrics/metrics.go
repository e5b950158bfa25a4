// Package metrics exports per-run catalog metrics in the Prometheus text
// format, for pickup by node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prodcat/prodcat/internal/catalog"
)

const (
	labelAction = "action"
	labelResult = "result"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultUsage    = "usage_error"
	ResultError    = "error"
)

// Metrics holds the collectors for one process run on a private registry.
type Metrics struct {
	Products   prometheus.Gauge
	PriceTotal prometheus.Gauge
	Operations *prometheus.CounterVec

	reg *prometheus.Registry
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prodcat_products",
			Help: "Number of products in the catalog after the last command",
		}),
		PriceTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prodcat_price_total",
			Help: "Sum of all product prices after the last command",
		}),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodcat_operations_total",
				Help: "Catalog commands run, by action and result",
			},
			[]string{labelAction, labelResult},
		),
		reg: prometheus.NewRegistry(),
	}

	m.reg.MustRegister(m.Products, m.PriceTotal, m.Operations)
	return m
}

// Observe records the catalog's size and price total.
func (m *Metrics) Observe(c catalog.Catalog) {
	m.Products.Set(float64(len(c)))
	var total float64
	for _, r := range c {
		total += float64(r.Price)
	}
	m.PriceTotal.Set(total)
}

// Record counts one command outcome.
func (m *Metrics) Record(action, result string) {
	m.Operations.WithLabelValues(action, result).Inc()
}

// WriteFile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
