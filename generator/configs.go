package generator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultNegativePrompt is applied when a request carries no negative prompt
// of its own.
const DefaultNegativePrompt = "blurry, low quality, distorted, text, watermark"

// defaultInferenceRatios is used when GENERATOR_INFERENCE_RATIOS is unset.
// It mirrors the ratio set of Imagen-class diffusion models.
const defaultInferenceRatios = "1:1,3:4,4:3,9:16,16:9"

// ChainConfig controls backend ordering for the fallback chain.
type ChainConfig struct {
	// Priority lists enabled backend ids in fallback order, e.g.
	// "gemini,inference". Ids not listed are not constructed.
	Priority []string
}

// GeminiConfig configures the Gemini image backend.
type GeminiConfig struct {
	BackendID      string
	APIKey         string
	Model          string
	MaxRetries     int
	BackoffBase    time.Duration
	RequestTimeout time.Duration
}

// InferenceConfig configures an OpenAI-compatible image inference backend.
type InferenceConfig struct {
	BackendID       string
	Endpoint        string // Base URL of the inference API
	ServiceToken    string
	Model           string
	SupportedRatios string // Comma-separated "w:h" list, in preference order
	HTTPTimeoutS    int
	MaxRetries      int
	BackoffBase     time.Duration
}

// NewChainConfig reads from environment variables.
func NewChainConfig() *ChainConfig {
	priority := []string{"gemini", "inference"}
	if v := os.Getenv("GENERATOR_PRIORITY"); v != "" {
		priority = priority[:0]
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				priority = append(priority, id)
			}
		}
	}
	return &ChainConfig{Priority: priority}
}

// Validate ensures the priority list is usable.
func (c *ChainConfig) Validate() error {
	if len(c.Priority) == 0 {
		return fmt.Errorf("generator: missing GENERATOR_PRIORITY")
	}
	for _, id := range c.Priority {
		if id != "gemini" && id != "inference" {
			return fmt.Errorf("generator: unknown backend id %q in GENERATOR_PRIORITY", id)
		}
	}
	return nil
}

// NewGeminiConfig reads from environment variables.
func NewGeminiConfig() *GeminiConfig {
	model := os.Getenv("GEMINI_IMAGE_MODEL")
	if model == "" {
		model = "imagen-4.0-generate-001"
	}

	return &GeminiConfig{
		BackendID:      "gemini",
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		Model:          model,
		MaxRetries:     envInt("GEMINI_MAX_RETRIES", 2),
		BackoffBase:    envSeconds("GEMINI_BACKOFF_BASE_SECONDS", 1),
		RequestTimeout: envSeconds("GEMINI_REQUEST_TIMEOUT_SECONDS", 60),
	}
}

// Validate ensures required fields are present.
func (c *GeminiConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("generator: missing GEMINI_API_KEY")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("generator: GEMINI_MAX_RETRIES must be >= 0")
	}
	return nil
}

// NewInferenceConfig reads from environment variables.
func NewInferenceConfig() *InferenceConfig {
	model := os.Getenv("GENERATOR_INFERENCE_MODEL")
	if model == "" {
		model = "stable-diffusion-xl"
	}
	ratios := os.Getenv("GENERATOR_INFERENCE_RATIOS")
	if ratios == "" {
		ratios = defaultInferenceRatios
	}

	return &InferenceConfig{
		BackendID:       "inference",
		Endpoint:        os.Getenv("GENERATOR_INFERENCE_ENDPOINT"),
		ServiceToken:    os.Getenv("GENERATOR_INFERENCE_TOKEN"),
		Model:           model,
		SupportedRatios: ratios,
		HTTPTimeoutS:    envInt("GENERATOR_INFERENCE_TIMEOUT_SECONDS", 120),
		MaxRetries:      envInt("GENERATOR_INFERENCE_MAX_RETRIES", 1),
		BackoffBase:     envSeconds("GENERATOR_INFERENCE_BACKOFF_BASE_SECONDS", 2),
	}
}

// Validate ensures required fields are present.
func (c *InferenceConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("generator: missing GENERATOR_INFERENCE_ENDPOINT")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("generator: GENERATOR_INFERENCE_MAX_RETRIES must be >= 0")
	}
	return nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}
