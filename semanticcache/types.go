package semanticcache

import "context"

// Tags is the keyword metadata attached to every cached image. Tag overlap
// gates the expensive vector search: requests whose tags match nothing in
// the cache never pay for an embedding.
type Tags struct {
	Topics      []string `json:"topics"`
	VisualStyle string   `json:"visual_style"`
	SlideType   string   `json:"slide_type"`
	Domain      string   `json:"domain,omitempty"`
}

// Searchable reports whether the tags carry enough signal to gate on.
// Requests without topics skip the cache entirely rather than matching
// everything.
func (t Tags) Searchable() bool { return len(t.Topics) > 0 }

// Entry is one cached image with its prompt, tags and storage reference.
type Entry struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Tags     Tags   `json:"tags"`
	ImageRef string `json:"image_ref"`
	HitCount int64  `json:"hit_count"`
}

// Match is a cache candidate with its cosine similarity to the query.
type Match struct {
	Entry      Entry   `json:"entry"`
	Similarity float64 `json:"similarity"`
}

// Store is the vector store surface the cache needs. The production
// implementation is backed by Qdrant.
type Store interface {
	// CountCandidates returns how many entries share tags with the request.
	CountCandidates(ctx context.Context, tags Tags) (int, error)

	// SearchSimilar returns the best tag-compatible matches for the vector,
	// ordered by descending similarity.
	SearchSimilar(ctx context.Context, vector []float32, tags Tags, limit int) ([]Match, error)

	// Insert stores a new entry with its embedding vector.
	Insert(ctx context.Context, entry Entry, vector []float32) error

	// RecordHit increments an entry's hit counter.
	RecordHit(ctx context.Context, id string) error
}

// Embedder computes the embedding vector for a prompt.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Logger is the logging surface the cache needs. It matches the application
// logger so any implementation can be injected.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}
