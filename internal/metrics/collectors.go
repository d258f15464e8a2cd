package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"tasignals/internal/indicators"
)

// RegistryCollector exposes the shape of an indicator registry
type RegistryCollector struct {
	registry *indicators.Registry

	// Descriptors
	registered *prometheus.Desc
	core       *prometheus.Desc
}

// NewRegistryCollector creates a collector for reg
func NewRegistryCollector(reg *indicators.Registry) *RegistryCollector {
	return &RegistryCollector{
		registry: reg,

		registered: prometheus.NewDesc(
			"tasignals_indicators_registered",
			"Number of registered indicators by category",
			[]string{"category"}, nil,
		),
		core: prometheus.NewDesc(
			"tasignals_indicators_core",
			"Number of core indicators",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.registered
	ch <- c.core
}

// Collect implements prometheus.Collector
func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	counts := make(map[indicators.Category]int)
	core := 0
	for _, def := range c.registry.List() {
		counts[def.Category]++
		if def.Core {
			core++
		}
	}

	for category, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			c.registered,
			prometheus.GaugeValue,
			float64(n),
			string(category),
		)
	}

	ch <- prometheus.MustNewConstMetric(
		c.core,
		prometheus.GaugeValue,
		float64(core),
	)
}

// RegisterRegistry exposes reg through the default Prometheus registerer
func RegisterRegistry(reg *indicators.Registry) error {
	return prometheus.Register(NewRegistryCollector(reg))
}
