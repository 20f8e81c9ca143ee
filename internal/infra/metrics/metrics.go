// Package metrics owns the process Prometheus registry.
package metrics

import (
	"net/http"

	"devicerelay/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// AsRegisterer exposes the registry to components that only register collectors.
func AsRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		Registry:          reg,
		EnableOpenMetrics: true,
	})
}

// Path returns the scrape path, or "" when the endpoint is disabled.
func Path(cfg *config.Config) string {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return ""
	}

	return cfg.Metrics.Path
}
