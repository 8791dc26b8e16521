package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brightwave/imagegen/aspectratio"
)

// InferenceBackend generates images through an OpenAI-compatible
// /v1/images/generations endpoint, used for self-hosted diffusion models.
type InferenceBackend struct {
	baseURL    string
	httpClient *http.Client
	cfg        *InferenceConfig
	ratios     []aspectratio.Ratio
}

// NewInferenceBackend builds a chain-ready backend for the configured
// inference endpoint.
func NewInferenceBackend(cfg *InferenceConfig) (*InferenceBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator: invalid inference config: %w", err)
	}

	ratios, err := aspectratio.ParseList(cfg.SupportedRatios)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid inference ratio list: %w", err)
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(cfg.Endpoint, "/")

	return &InferenceBackend{
		baseURL:    base,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
		cfg:        cfg,
		ratios:     ratios,
	}, nil
}

func (b *InferenceBackend) ID() string { return b.cfg.BackendID }

func (b *InferenceBackend) SupportedRatios() []aspectratio.Ratio { return b.ratios }

func (b *InferenceBackend) MaxRetries() int { return b.cfg.MaxRetries }

func (b *InferenceBackend) BackoffBase() time.Duration { return b.cfg.BackoffBase }

// Generate renders one image via POST /images/generations and decodes the
// base64 payload from the response.
func (b *InferenceBackend) Generate(ctx context.Context, prompt string, source aspectratio.Ratio, negativePrompt string) ([]byte, error) {
	reqBody := map[string]any{
		"model":           b.cfg.Model,
		"prompt":          prompt,
		"n":               1,
		"aspect_ratio":    source.String(),
		"response_format": "b64_json",
	}
	if negativePrompt != "" {
		reqBody["negative_prompt"] = negativePrompt
	}

	url := fmt.Sprintf("%s/images/generations", b.baseURL)

	var parsed struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	if err := b.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return nil, NewProviderError(b.ID(), KindUnavailable,
			fmt.Errorf("inference returned no image data"))
	}

	img, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, NewProviderError(b.ID(), KindUnavailable,
			fmt.Errorf("decode image payload: %w", err))
	}

	return img, nil
}

func (b *InferenceBackend) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return NewProviderError(b.ID(), KindValidation, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return NewProviderError(b.ID(), KindValidation, fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if b.cfg.ServiceToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.ServiceToken)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		// Client timeout and connection failures are both transient.
		if ctx.Err() != nil {
			return NewProviderError(b.ID(), KindTimeout, err)
		}
		return NewProviderError(b.ID(), KindUnavailable, fmt.Errorf("http error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return b.classifyStatus(resp.StatusCode, string(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return NewProviderError(b.ID(), KindUnavailable, fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}

func (b *InferenceBackend) classifyStatus(status int, body string) *ProviderError {
	err := fmt.Errorf("http %d: %s", status, strings.TrimSpace(body))

	switch {
	case status == http.StatusTooManyRequests && strings.Contains(strings.ToLower(body), "quota"):
		return NewProviderError(b.ID(), KindQuota, err)
	case status == http.StatusTooManyRequests:
		return NewProviderError(b.ID(), KindRateLimit, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewProviderError(b.ID(), KindAuth, err)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return NewProviderError(b.ID(), KindValidation, err)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewProviderError(b.ID(), KindTimeout, err)
	}
	return NewProviderError(b.ID(), KindUnavailable, err)
}
