package semanticcache

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultPrecheckThreshold is the similarity required to reuse a cached
	// image instead of generating a new one.
	DefaultPrecheckThreshold = 0.85

	// DefaultFallbackThreshold is the relaxed similarity accepted when all
	// generation backends have failed and a related image beats an error.
	DefaultFallbackThreshold = 0.70
)

type Config struct {
	Enabled           bool    // Disable to bypass the cache entirely
	PrecheckThreshold float64 // Similarity for the pre-generation check
	FallbackThreshold float64 // Relaxed similarity for the post-exhaustion check
	SearchLimit       int     // Candidates fetched per vector search
	Gate              string  // "count" (default) or "probabilistic"
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	gate := os.Getenv("SEMANTIC_CACHE_GATE")
	if gate == "" {
		gate = "count"
	}

	return &Config{
		Enabled:           envBool("SEMANTIC_CACHE_ENABLED", true),
		PrecheckThreshold: envFloat("SEMANTIC_CACHE_PRECHECK_THRESHOLD", DefaultPrecheckThreshold),
		FallbackThreshold: envFloat("SEMANTIC_CACHE_FALLBACK_THRESHOLD", DefaultFallbackThreshold),
		SearchLimit:       envIntPos("SEMANTIC_CACHE_SEARCH_LIMIT", 5),
		Gate:              gate,
	}
}

// Validate ensures the thresholds are ordered and in range.
func (c *Config) Validate() error {
	if c.PrecheckThreshold <= 0 || c.PrecheckThreshold > 1 {
		return fmt.Errorf("semanticcache: precheck threshold must be in (0, 1]")
	}
	if c.FallbackThreshold <= 0 || c.FallbackThreshold > 1 {
		return fmt.Errorf("semanticcache: fallback threshold must be in (0, 1]")
	}
	if c.FallbackThreshold > c.PrecheckThreshold {
		return fmt.Errorf("semanticcache: fallback threshold must not exceed precheck threshold")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("semanticcache: search limit must be positive")
	}
	if c.Gate != "count" && c.Gate != "probabilistic" {
		return fmt.Errorf("semanticcache: unknown gate %q", c.Gate)
	}
	return nil
}

func (c *Config) gate() Gate {
	if c.Gate == "probabilistic" {
		return ProbabilisticGate{}
	}
	return CountGate{}
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envIntPos(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
