package httpapi

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultAddress is the listen address when HTTP_ADDRESS is unset.
	DefaultAddress = ":8080"
	// DefaultRequestTimeoutS bounds one request end to end, including
	// generator retries and fallback.
	DefaultRequestTimeoutS = 300
)

// Config holds the HTTP server settings.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string
	// RequestTimeout caps how long one request may run.
	RequestTimeout time.Duration
}

// NewConfig reads the HTTP server settings from the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Address:        DefaultAddress,
		RequestTimeout: DefaultRequestTimeoutS * time.Second,
	}

	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("HTTP_REQUEST_TIMEOUT_S"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("httpapi: invalid HTTP_REQUEST_TIMEOUT_S %q", v)
		}
		cfg.RequestTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}
