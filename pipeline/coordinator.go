package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightwave/imagegen/aspectratio"
	"github.com/brightwave/imagegen/crop"
	"github.com/brightwave/imagegen/generator"
	"github.com/brightwave/imagegen/metadata"
	"github.com/brightwave/imagegen/semanticcache"
)

// Logger defines the logging surface the coordinator needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// GeneratorChain runs the retry/fallback chain over the configured backends.
type GeneratorChain interface {
	Generate(ctx context.Context, req generator.Request) (*generator.Result, error)
}

// Cache is the two-tier semantic cache consulted before generation and, at a
// relaxed threshold, after total generator failure.
type Cache interface {
	Precheck(ctx context.Context, prompt string, tags semanticcache.Tags) *semanticcache.Lookup
	FallbackCheck(ctx context.Context, prompt string, tags semanticcache.Tags, prior *semanticcache.Lookup) *semanticcache.Lookup
	Record(ctx context.Context, prompt string, tags semanticcache.Tags, imageRef string, prior *semanticcache.Lookup) error
}

// Cropper trims a generated image to the target ratio.
type Cropper interface {
	Crop(data []byte, target aspectratio.Ratio, anchor crop.Anchor) ([]byte, crop.Geometry, error)
}

// BlobStore persists image bytes and returns a stable reference.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RecordStore persists per-request provenance rows.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec *metadata.ImageRecord) error
}

// Metrics receives pipeline observations.
type Metrics interface {
	ObservePipeline(outcome string, d time.Duration)
	ObserveCacheLookup(stage, result string, similarity float64)
	ObserveCacheWrite()
}

// Tracer starts and annotates spans around the pipeline phases.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// Coordinator drives one request through cache precheck, the generator
// chain, cropping, storage and provenance recording. It owns the control
// flow only; every phase lives in its own package.
type Coordinator struct {
	chain   GeneratorChain
	cache   Cache
	cropper Cropper
	blobs   BlobStore
	records RecordStore
	metrics Metrics
	tracer  Tracer
	cfg     *Config
	log     Logger
}

// NewCoordinator wires a Coordinator over its collaborators.
func NewCoordinator(
	chain GeneratorChain,
	cache Cache,
	cropper Cropper,
	blobs BlobStore,
	records RecordStore,
	metrics Metrics,
	tracer Tracer,
	cfg *Config,
	log Logger,
) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}
	return &Coordinator{
		chain:   chain,
		cache:   cache,
		cropper: cropper,
		blobs:   blobs,
		records: records,
		metrics: metrics,
		tracer:  tracer,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Generate runs one request end to end. The returned result always carries
// full provenance; on failure the error is either the fatal provider error,
// the caller's cancellation, or *NoFallbackAvailableError.
func (c *Coordinator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	target, err := aspectratio.Parse(req.AspectRatio)
	if err != nil {
		return nil, fmt.Errorf("%w: aspect_ratio: %v", ErrInvalidRequest, err)
	}
	anchor, err := crop.ParseAnchor(req.Options.CropAnchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ctx, span := c.tracer.StartSpan(ctx, "pipeline.Generate")
	defer span.End()
	c.tracer.SetAttributes(span, map[string]interface{}{
		"target_ratio": target.String(),
		"archetype":    req.Archetype,
	})

	precheck := c.lookup(ctx, "precheck", func(ctx context.Context) *semanticcache.Lookup {
		return c.cache.Precheck(ctx, req.Prompt, req.Metadata)
	})
	if precheck.Hit {
		return c.serveCached(ctx, span, req, target, precheck, SourceCacheHit, start)
	}

	genCtx, genSpan := c.tracer.StartSpan(ctx, "pipeline.generate")
	genRes, genErr := c.chain.Generate(genCtx, generator.Request{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Target:         target,
	})
	if genErr != nil {
		c.tracer.RecordErrorOnSpan(genSpan, genErr)
		genSpan.End()
		return c.handleChainFailure(ctx, span, req, target, genErr, precheck, start)
	}
	genSpan.End()

	image, geom, err := c.finish(req, genRes, target, anchor)
	if err != nil {
		c.tracer.RecordErrorOnSpan(span, err)
		c.metrics.ObservePipeline("error", time.Since(start))
		return nil, err
	}

	// The generation is paid for; storage and bookkeeping must survive the
	// caller disconnecting.
	persistCtx := context.WithoutCancel(ctx)

	key := fmt.Sprintf("images/%s.png", uuid.NewString())
	imageRef, err := c.blobs.Put(persistCtx, key, image, "image/png")
	if err != nil {
		c.tracer.RecordErrorOnSpan(span, err)
		c.metrics.ObservePipeline("error", time.Since(start))
		return nil, fmt.Errorf("pipeline: failed to store image: %w", err)
	}

	if err := c.cache.Record(persistCtx, req.Prompt, req.Metadata, imageRef, precheck); err != nil {
		c.log.Warn("cache write failed, continuing", err, map[string]interface{}{
			"image_ref": imageRef,
		})
	} else {
		c.metrics.ObserveCacheWrite()
	}

	result := &Result{
		ImageRef:            imageRef,
		Source:              SourceGenerated,
		GeneratorUsed:       genRes.Backend,
		GeneratorsAttempted: generator.Backends(genRes.Attempts),
		FallbackUsed:        genRes.FallbackUsed,
		TargetAspectRatio:   target.String(),
		SourceAspectRatio:   genRes.Source.Source.String(),
		Cropped:             geom != nil,
		CropGeometry:        geom,
		GenerationTimeMS:    time.Since(start).Milliseconds(),
	}

	c.writeRecord(persistCtx, req, result, int64(len(image)))
	c.metrics.ObservePipeline("generated", time.Since(start))
	c.log.Info("image generated", nil, map[string]interface{}{
		"backend":       result.GeneratorUsed,
		"fallback_used": result.FallbackUsed,
		"target_ratio":  result.TargetAspectRatio,
		"cropped":       result.Cropped,
		"latency_ms":    result.GenerationTimeMS,
	})
	return result, nil
}

// finish crops the generated image to the target ratio and applies
// background removal where the request or the archetype asks for it. A crop
// failure is a hard error: no partial image is ever returned.
func (c *Coordinator) finish(req Request, genRes *generator.Result, target aspectratio.Ratio, anchor crop.Anchor) ([]byte, *crop.Geometry, error) {
	image := genRes.Image
	var geom *crop.Geometry

	if !genRes.Source.ExactMatch() {
		cropped, g, err := c.cropper.Crop(image, target, anchor)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: crop failed: %w", err)
		}
		if !g.IsNoop() {
			image = cropped
			geom = &g
		}
	}

	if req.Options.RemoveBackground || crop.ShouldRemoveBackground(req.Archetype) {
		transparent, err := crop.RemoveWhiteBackground(image, c.cfg.WhiteThreshold)
		if err != nil {
			// The opaque image is still complete and correctly cropped,
			// so serve it rather than failing the request.
			c.log.Warn("background removal failed, serving opaque image", err, map[string]interface{}{
				"archetype": req.Archetype,
			})
		} else {
			image = transparent
		}
	}

	return image, geom, nil
}

// handleChainFailure maps a chain error to the fallback path. Only full
// exhaustion is eligible for the relaxed cache check; fatal provider errors
// and cancellations pass straight through.
func (c *Coordinator) handleChainFailure(ctx context.Context, span trace.Span, req Request, target aspectratio.Ratio, genErr error, precheck *semanticcache.Lookup, start time.Time) (*Result, error) {
	var chainErr *generator.ChainError
	if !errors.As(genErr, &chainErr) || !chainErr.Exhausted() {
		c.tracer.RecordErrorOnSpan(span, genErr)
		c.metrics.ObservePipeline("error", time.Since(start))
		return nil, genErr
	}

	fallback := c.lookup(ctx, "fallback", func(ctx context.Context) *semanticcache.Lookup {
		return c.cache.FallbackCheck(ctx, req.Prompt, req.Metadata, precheck)
	})
	if fallback.Hit {
		c.log.Warn("all generators exhausted, serving cache fallback", nil, map[string]interface{}{
			"similarity": fallback.Match.Similarity,
			"attempts":   len(chainErr.Attempts),
		})
		res, err := c.serveCached(ctx, span, req, target, fallback, SourceCacheFallback, start)
		if err == nil {
			res.GeneratorsAttempted = generator.Backends(chainErr.Attempts)
		}
		return res, err
	}

	finalErr := &NoFallbackAvailableError{
		GeneratorsAttempted: generator.Backends(chainErr.Attempts),
		BestSimilarity:      fallback.BestSimilarity,
	}
	c.tracer.RecordErrorOnSpan(span, finalErr)
	c.metrics.ObservePipeline("no_fallback", time.Since(start))
	c.log.Error("all generators exhausted and no cached fallback", finalErr, map[string]interface{}{
		"best_similarity": fallback.BestSimilarity,
	})
	return nil, finalErr
}

// serveCached builds the result for a cache-derived image and records it.
func (c *Coordinator) serveCached(ctx context.Context, span trace.Span, req Request, target aspectratio.Ratio, lookup *semanticcache.Lookup, source Source, start time.Time) (*Result, error) {
	result := &Result{
		ImageRef:          lookup.Match.Entry.ImageRef,
		Source:            source,
		GeneratorUsed:     "cache",
		CacheHit:          source == SourceCacheHit,
		CacheFallback:     source == SourceCacheFallback,
		Similarity:        lookup.Match.Similarity,
		TargetAspectRatio: target.String(),
		GenerationTimeMS:  time.Since(start).Milliseconds(),
	}

	c.tracer.SetAttributes(span, map[string]interface{}{
		"source":     string(source),
		"similarity": result.Similarity,
	})
	c.writeRecord(context.WithoutCancel(ctx), req, result, 0)
	c.metrics.ObservePipeline(string(source), time.Since(start))
	return result, nil
}

// lookup runs one cache check inside its own span and feeds the metrics.
func (c *Coordinator) lookup(ctx context.Context, stage string, fn func(context.Context) *semanticcache.Lookup) *semanticcache.Lookup {
	ctx, span := c.tracer.StartSpan(ctx, "pipeline.cache."+stage)
	defer span.End()

	l := fn(ctx)

	result := "miss"
	switch {
	case l.Hit:
		result = "hit"
	case l.Skipped:
		result = "skipped"
	}
	c.tracer.SetAttributes(span, map[string]interface{}{
		"result":          result,
		"best_similarity": l.BestSimilarity,
	})
	c.metrics.ObserveCacheLookup(stage, result, l.BestSimilarity)
	return l
}

// writeRecord persists the provenance row. Writes are advisory: a failed
// insert is logged and the request still succeeds.
func (c *Coordinator) writeRecord(ctx context.Context, req Request, res *Result, sizeBytes int64) {
	rec := &metadata.ImageRecord{
		ID:              uuid.NewString(),
		Prompt:          req.Prompt,
		NegativePrompt:  req.NegativePrompt,
		Source:          string(res.Source),
		AttemptCount:    len(res.GeneratorsAttempted),
		FallbackUsed:    res.FallbackUsed,
		CacheSimilarity: res.Similarity,
		TargetRatio:     res.TargetAspectRatio,
		SourceRatio:     res.SourceAspectRatio,
		CropAnchor:      req.Options.CropAnchor,
		ImageRef:        res.ImageRef,
		SizeBytes:       sizeBytes,
		LatencyMS:       res.GenerationTimeMS,
	}
	if res.Source == SourceGenerated {
		rec.Backend = res.GeneratorUsed
	}
	if err := c.records.InsertRecord(ctx, rec); err != nil {
		c.log.Warn("failed to persist image record", err, map[string]interface{}{
			"image_ref": res.ImageRef,
		})
	}
}
