package qdrantstore

import (
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwave/imagegen/semanticcache"
)

func TestBuildTagFilterEmpty(t *testing.T) {
	assert.Nil(t, buildTagFilter(semanticcache.Tags{}))
}

func TestBuildTagFilterConditions(t *testing.T) {
	tags := semanticcache.Tags{
		Topics:      []string{"photosynthesis", "biology"},
		VisualStyle: "minimalist_vector_art",
		SlideType:   "concept",
	}

	filter := buildTagFilter(tags)
	require.NotNil(t, filter)
	assert.Len(t, filter.Must, 3)
	assert.Empty(t, filter.Should)
	assert.Empty(t, filter.MustNot)
}

func TestBuildTagFilterIncludesDomain(t *testing.T) {
	tags := semanticcache.Tags{
		Topics: []string{"erosion"},
		Domain: "geology",
	}

	filter := buildTagFilter(tags)
	require.NotNil(t, filter)
	assert.Len(t, filter.Must, 2)
}

func TestEntryPayloadRoundTrip(t *testing.T) {
	entry := semanticcache.Entry{
		ID:     "00000000-0000-0000-0000-000000000001",
		Prompt: "a diagram of photosynthesis",
		Tags: semanticcache.Tags{
			Topics:      []string{"photosynthesis", "biology"},
			VisualStyle: "minimalist_vector_art",
			SlideType:   "concept",
			Domain:      "science",
		},
		ImageRef: "images/abc.png",
		HitCount: 7,
	}

	payload := qdrant.NewValueMap(entryPayload(entry))
	got := entryFromPayload(entry.ID, payload)

	assert.Equal(t, entry, got)
}

func TestPointID(t *testing.T) {
	assert.Equal(t, "abc-123", pointID(qdrant.NewID("abc-123")))
	assert.Equal(t, "42", pointID(qdrant.NewIDNum(42)))
	assert.Equal(t, "", pointID(nil))
}
