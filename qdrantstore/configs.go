package qdrantstore

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds connection and behavior settings for the Qdrant-backed
// cache store.
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Collection holding the semantic cache entries.
	Collection string `yaml:"collection" env:"QDRANT_COLLECTION"`

	// VectorSize is the embedding dimension of the collection.
	VectorSize uint64 `yaml:"vector_size" env:"QDRANT_VECTOR_SIZE"`

	// Maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               6334,
		Collection:         "image_semantic_cache",
		VectorSize:         1536,
		Timeout:            5 * time.Second,
		CheckCompatibility: true,
	}
}

// NewConfig reads from environment variables on top of the defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("QDRANT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
	if v := os.Getenv("QDRANT_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("QDRANT_VECTOR_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			cfg.VectorSize = n
		}
	}
	if v := os.Getenv("QDRANT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("QDRANT_CHECK_COMPATIBILITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CheckCompatibility = b
		}
	}

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("qdrantstore: missing QDRANT_ENDPOINT")
	}
	if c.Collection == "" {
		return fmt.Errorf("qdrantstore: missing QDRANT_COLLECTION")
	}
	if c.VectorSize == 0 {
		return fmt.Errorf("qdrantstore: QDRANT_VECTOR_SIZE must be positive")
	}
	return nil
}
