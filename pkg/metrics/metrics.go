// Package metrics provides the Prometheus registry and the HTTP server
// that exposes it.
//
// Collectors (such as status.Collector) are registered against the
// registry returned by NewRegistry; the accounting engine itself never
// touches metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config configures the Prometheus metrics HTTP server.
// When Enabled is false, no metrics server is started (zero overhead).
type Config struct {
	// Enabled controls whether the metrics server is started.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the /metrics endpoint.
	// Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 9090
	}
}

// NewRegistry creates a registry pre-populated with the standard Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
