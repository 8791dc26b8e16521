package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brightwave/imagegen/crop"
	"github.com/brightwave/imagegen/semanticcache"
)

// ErrInvalidRequest marks caller mistakes caught before any work starts.
// Transports map it to a 4xx status.
var ErrInvalidRequest = errors.New("pipeline: invalid request")

// Source names where a result's image came from.
type Source string

const (
	// SourceGenerated marks a freshly generated image.
	SourceGenerated Source = "generated"
	// SourceCacheHit marks a strict-threshold cache hit served instead of
	// generating.
	SourceCacheHit Source = "cache_hit"
	// SourceCacheFallback marks a relaxed-threshold cache entry served after
	// every generator failed.
	SourceCacheFallback Source = "cache_fallback"
)

// Options carries per-request behavior switches.
type Options struct {
	// CropAnchor pins the crop window; empty defaults to center.
	CropAnchor string `json:"crop_anchor,omitempty"`
	// RemoveBackground forces white-background knockout regardless of
	// archetype.
	RemoveBackground bool `json:"remove_background,omitempty"`
}

// Request is one image request as the coordinator receives it.
type Request struct {
	Prompt         string             `json:"prompt"`
	AspectRatio    string             `json:"aspect_ratio"`
	Archetype      string             `json:"archetype,omitempty"`
	NegativePrompt string             `json:"negative_prompt,omitempty"`
	Options        Options            `json:"options,omitempty"`
	Metadata       semanticcache.Tags `json:"metadata,omitempty"`
}

// Validate checks the fields the coordinator cannot default.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.AspectRatio) == "" {
		return fmt.Errorf("%w: aspect_ratio is required", ErrInvalidRequest)
	}
	return nil
}

// Result is the full provenance of one completed request. Either the image
// is complete and correctly cropped or the request failed with an error;
// there is no partial state in between.
type Result struct {
	ImageRef string `json:"image_ref"`
	Source   Source `json:"source"`

	GeneratorUsed       string   `json:"generator_used"`
	GeneratorsAttempted []string `json:"generators_attempted"`
	FallbackUsed        bool     `json:"fallback_used"`

	CacheHit      bool    `json:"cache_hit"`
	CacheFallback bool    `json:"cache_fallback"`
	Similarity    float64 `json:"similarity,omitempty"`

	TargetAspectRatio string         `json:"target_aspect_ratio"`
	SourceAspectRatio string         `json:"source_aspect_ratio,omitempty"`
	Cropped           bool           `json:"cropped"`
	CropGeometry      *crop.Geometry `json:"crop_geometry,omitempty"`

	GenerationTimeMS int64 `json:"generation_time_ms"`
}

// NoFallbackAvailableError is the terminal, user-visible failure: every
// generator spent its budget and the cache held nothing similar enough even
// at the relaxed threshold.
type NoFallbackAvailableError struct {
	GeneratorsAttempted []string
	BestSimilarity      float64
}

func (e *NoFallbackAvailableError) Error() string {
	return fmt.Sprintf(
		"pipeline: all generators failed (%s) and no similar cached image exists",
		strings.Join(e.GeneratorsAttempted, ", "),
	)
}
