package semanticcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Lookup is the outcome of one cache check. A Lookup is never an error:
// store or embedder failures degrade to a miss so the pipeline can fall
// through to generation.
type Lookup struct {
	Hit   bool   `json:"hit"`
	Match *Match `json:"match,omitempty"`

	// BestSimilarity is the highest similarity seen during the search,
	// recorded even on a miss for provenance and metrics.
	BestSimilarity float64 `json:"best_similarity"`

	// Skipped is true when the keyword gate (or missing tags) ruled the
	// search out before any embedding was computed.
	Skipped bool `json:"skipped"`

	vector []float32
}

// Vector returns the query embedding computed during the lookup, if any.
// Reusing it avoids re-embedding the same prompt for the fallback check
// or the post-generation insert.
func (l *Lookup) Vector() []float32 { return l.vector }

// Cache is the two-tier semantic image cache: a cheap keyword gate over
// tag overlap, then a vector similarity search against previously
// generated images.
type Cache struct {
	store    Store
	embedder Embedder
	gate     Gate
	cfg      *Config
	log      Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithGate replaces the keyword gate chosen by the config.
func WithGate(g Gate) Option {
	return func(c *Cache) { c.gate = g }
}

// New builds a Cache over a store and embedder.
func New(store Store, embedder Embedder, cfg *Config, log Logger, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("semanticcache: invalid config: %w", err)
	}

	c := &Cache{
		store:    store,
		embedder: embedder,
		gate:     cfg.gate(),
		cfg:      cfg,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Precheck runs the pre-generation lookup: keyword gate first, then vector
// search at the strict threshold. A hit increments the entry's counter
// best-effort.
func (c *Cache) Precheck(ctx context.Context, prompt string, tags Tags) *Lookup {
	lookup := c.gatedSearch(ctx, prompt, tags, nil, c.cfg.PrecheckThreshold)
	if lookup.Hit {
		if err := c.store.RecordHit(ctx, lookup.Match.Entry.ID); err != nil {
			c.log.Warn("failed to record cache hit", err, map[string]interface{}{
				"entry_id": lookup.Match.Entry.ID,
			})
		}
	}
	return lookup
}

// FallbackCheck runs the post-exhaustion lookup. It is the same two-tier
// lookup as Precheck, differing only in the relaxed threshold; the prior
// lookup's embedding is reused when available. Fallback hits do not
// increment hit counters; the entry was not a genuine semantic match at the
// strict threshold.
func (c *Cache) FallbackCheck(ctx context.Context, prompt string, tags Tags, prior *Lookup) *Lookup {
	var vector []float32
	if prior != nil {
		vector = prior.vector
	}
	return c.gatedSearch(ctx, prompt, tags, vector, c.cfg.FallbackThreshold)
}

// gatedSearch is the two-tier lookup shared by Precheck and FallbackCheck:
// the keyword gate short-circuits before any embedding is paid for, then the
// vector search runs against the tag-compatible candidate set.
func (c *Cache) gatedSearch(ctx context.Context, prompt string, tags Tags, vector []float32, threshold float64) *Lookup {
	if !c.cfg.Enabled || !tags.Searchable() {
		return &Lookup{Skipped: true}
	}

	candidates, err := c.store.CountCandidates(ctx, tags)
	if err != nil {
		c.log.Warn("cache candidate count failed, treating as miss", err, nil)
		return &Lookup{Skipped: true}
	}
	if !c.gate.ShouldSearch(candidates) {
		c.log.Debug("keyword gate skipped vector search", nil, map[string]interface{}{
			"candidates": candidates,
		})
		return &Lookup{Skipped: true}
	}

	return c.search(ctx, prompt, tags, vector, threshold)
}

// Record inserts a freshly generated image into the cache. The prior
// lookup's vector is reused when available.
func (c *Cache) Record(ctx context.Context, prompt string, tags Tags, imageRef string, prior *Lookup) error {
	if !c.cfg.Enabled || !tags.Searchable() {
		return nil
	}

	var vector []float32
	if prior != nil {
		vector = prior.vector
	}
	if vector == nil {
		var err error
		vector, err = c.embedder.Embed(ctx, prompt)
		if err != nil {
			return fmt.Errorf("semanticcache: embed for insert: %w", err)
		}
	}

	entry := Entry{
		ID:       uuid.NewString(),
		Prompt:   prompt,
		Tags:     tags,
		ImageRef: imageRef,
	}
	if err := c.store.Insert(ctx, entry, vector); err != nil {
		return fmt.Errorf("semanticcache: insert: %w", err)
	}
	return nil
}

func (c *Cache) search(ctx context.Context, prompt string, tags Tags, vector []float32, threshold float64) *Lookup {
	if vector == nil {
		var err error
		vector, err = c.embedder.Embed(ctx, prompt)
		if err != nil {
			c.log.Warn("embedding failed, treating as cache miss", err, nil)
			return &Lookup{}
		}
	}

	matches, err := c.store.SearchSimilar(ctx, vector, tags, c.cfg.SearchLimit)
	if err != nil {
		c.log.Warn("vector search failed, treating as cache miss", err, nil)
		return &Lookup{vector: vector}
	}

	lookup := &Lookup{vector: vector}
	for i := range matches {
		if matches[i].Similarity > lookup.BestSimilarity {
			lookup.BestSimilarity = matches[i].Similarity
		}
		if matches[i].Similarity >= threshold && (lookup.Match == nil || matches[i].Similarity > lookup.Match.Similarity) {
			lookup.Match = &matches[i]
		}
	}
	lookup.Hit = lookup.Match != nil

	c.log.Debug("vector search complete", nil, map[string]interface{}{
		"hit":             lookup.Hit,
		"best_similarity": lookup.BestSimilarity,
		"threshold":       threshold,
		"candidates":      len(matches),
	})
	return lookup
}
