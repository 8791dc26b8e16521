package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

type Config struct {
	// Level is one of debug, info, warning, error. Defaults to info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every log entry.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	level := os.Getenv("ZAP_LOGGER_LEVEL")
	if level == "" {
		level = Info
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "imagegen"
	}

	return Config{
		Level:       level,
		ServiceName: service,
	}
}
