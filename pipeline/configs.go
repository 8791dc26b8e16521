package pipeline

import (
	"fmt"
	"os"
	"strconv"

	"github.com/brightwave/imagegen/crop"
)

const (
	// DefaultBatchConcurrency bounds how many requests of one batch run at
	// the same time.
	DefaultBatchConcurrency = 4
	// DefaultMaxBatchSize caps how many requests a single batch may carry.
	DefaultMaxBatchSize = 20
)

// Config holds the coordinator settings.
type Config struct {
	// BatchConcurrency is the number of batch requests processed
	// concurrently.
	BatchConcurrency int64
	// MaxBatchSize rejects oversized batches before any work starts.
	MaxBatchSize int
	// WhiteThreshold is the per-channel cutoff for background removal.
	WhiteThreshold uint8
}

// NewConfig reads the coordinator settings from the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{
		BatchConcurrency: DefaultBatchConcurrency,
		MaxBatchSize:     DefaultMaxBatchSize,
		WhiteThreshold:   crop.DefaultWhiteThreshold,
	}

	if v := os.Getenv("PIPELINE_BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("pipeline: invalid PIPELINE_BATCH_CONCURRENCY %q: %w", v, err)
		}
		cfg.BatchConcurrency = n
	}
	if v := os.Getenv("PIPELINE_MAX_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("pipeline: invalid PIPELINE_MAX_BATCH_SIZE %q: %w", v, err)
		}
		cfg.MaxBatchSize = n
	}
	if v := os.Getenv("PIPELINE_WHITE_THRESHOLD"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("pipeline: invalid PIPELINE_WHITE_THRESHOLD %q: %w", v, err)
		}
		cfg.WhiteThreshold = uint8(n)
	}

	return cfg, cfg.Validate()
}

// Validate checks the config for usable values.
func (c *Config) Validate() error {
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("pipeline: batch concurrency must be at least 1, got %d", c.BatchConcurrency)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("pipeline: max batch size must be at least 1, got %d", c.MaxBatchSize)
	}
	return nil
}
