package metrics

import (
	"os"
	"strconv"
)

// Default port for metrics server if none is specified.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration for the Prometheus metrics server.
type Config struct {
	// Address is the network address where the metrics HTTP server listens,
	// e.g. ":9090" or "127.0.0.1:9100".
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors controls whether the built-in Go runtime and
	// process metrics are registered alongside the application metrics.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// ServiceName is attached as a common label to every metric.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	address := os.Getenv("METRICS_ADDRESS")
	if address == "" {
		address = DefaultMetricsAddress
	}

	defaults := true
	if v := os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			defaults = b
		}
	}

	service := os.Getenv("METRICS_SERVICE_NAME")
	if service == "" {
		service = "imagegen"
	}

	return Config{
		Address:                 address,
		EnableDefaultCollectors: defaults,
		ServiceName:             service,
	}
}
