package metadata

import "time"

// ImageRecord is the audit row written for every completed pipeline
// request. It captures the full provenance of an image: where it came
// from (generated, cache hit or degraded fallback), which backends were
// tried, and how the aspect ratio was produced.
type ImageRecord struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Prompt         string `gorm:"not null"`
	NegativePrompt string

	Source          string `gorm:"not null;index"` // generated | cache_hit | cache_fallback
	Backend         string // winning backend id, empty for cache results
	AttemptCount    int
	FallbackUsed    bool
	CacheSimilarity float64

	TargetRatio string `gorm:"not null"`
	SourceRatio string
	CropAnchor  string

	ImageRef  string `gorm:"not null"`
	SizeBytes int64
	LatencyMS int64
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName keeps the table name explicit rather than relying on gorm
// pluralization.
func (ImageRecord) TableName() string { return "image_records" }
