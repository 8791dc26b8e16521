package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/brightwave/imagegen/aspectratio"
)

// geminiRatios are the aspect ratios Gemini image models generate natively,
// in preference order.
var geminiRatios = []aspectratio.Ratio{
	aspectratio.MustNew(1, 1),
	aspectratio.MustNew(2, 3),
	aspectratio.MustNew(3, 2),
	aspectratio.MustNew(3, 4),
	aspectratio.MustNew(4, 3),
	aspectratio.MustNew(4, 5),
	aspectratio.MustNew(5, 4),
	aspectratio.MustNew(9, 16),
	aspectratio.MustNew(16, 9),
	aspectratio.MustNew(21, 9),
}

// imageModels is the narrow slice of the genai client the backend uses,
// extracted for testability.
type imageModels interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GeminiBackend generates images through the Gemini API.
type GeminiBackend struct {
	models imageModels
	cfg    *GeminiConfig
}

// NewGeminiBackend connects to the Gemini API and returns a chain-ready
// backend.
func NewGeminiBackend(ctx context.Context, cfg *GeminiConfig) (*GeminiBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator: invalid gemini config: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create gemini client: %w", err)
	}

	return &GeminiBackend{models: client.Models, cfg: cfg}, nil
}

func (b *GeminiBackend) ID() string { return b.cfg.BackendID }

func (b *GeminiBackend) SupportedRatios() []aspectratio.Ratio { return geminiRatios }

func (b *GeminiBackend) MaxRetries() int { return b.cfg.MaxRetries }

func (b *GeminiBackend) BackoffBase() time.Duration { return b.cfg.BackoffBase }

// Generate renders one image. Gemini failures are mapped onto the chain's
// error taxonomy via HTTP status code and message inspection.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string, source aspectratio.Ratio, negativePrompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	defer cancel()

	resp, err := b.models.GenerateImages(ctx, b.cfg.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    source.String(),
		NegativePrompt: negativePrompt,
	})
	if err != nil {
		return nil, b.classify(err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, NewProviderError(b.ID(), KindUnavailable,
			fmt.Errorf("gemini returned no images"))
	}

	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func (b *GeminiBackend) classify(err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(b.ID(), KindTimeout, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToUpper(apiErr.Message)
		switch {
		case apiErr.Code == 429 && strings.Contains(msg, "QUOTA"),
			strings.Contains(msg, "RESOURCE_EXHAUSTED"):
			return NewProviderError(b.ID(), KindQuota, err)
		case apiErr.Code == 429:
			return NewProviderError(b.ID(), KindRateLimit, err)
		case apiErr.Code == 400 || apiErr.Code == 422:
			return NewProviderError(b.ID(), KindValidation, err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return NewProviderError(b.ID(), KindAuth, err)
		case apiErr.Code == 408 || apiErr.Code == 504:
			return NewProviderError(b.ID(), KindTimeout, err)
		}
	}

	return NewProviderError(b.ID(), KindUnavailable, err)
}
