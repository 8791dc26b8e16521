package tracer

import (
	"os"
	"strconv"
)

// Config controls tracer setup. The OTLP endpoint itself is picked up by
// the exporter from the standard OTEL_EXPORTER_OTLP_* environment
// variables.
type Config struct {
	// ServiceName identifies this service in traces.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv tags spans with the deployment environment.
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport turns on the OTLP HTTP exporter. When false, spans are
	// still created (so span context flows through logs) but never leave
	// the process.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	service := os.Getenv("TRACER_SERVICE_NAME")
	if service == "" {
		service = "imagegen"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	export := false
	if v := os.Getenv("TRACER_ENABLE_EXPORT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			export = b
		}
	}

	return Config{
		ServiceName:  service,
		AppEnv:       env,
		EnableExport: export,
	}
}
