package qdrantstore

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/brightwave/imagegen/semanticcache"
)

// Payload field names for cache entries.
const (
	fieldPrompt      = "prompt"
	fieldTopics      = "topics"
	fieldVisualStyle = "visual_style"
	fieldSlideType   = "slide_type"
	fieldDomain      = "domain"
	fieldImageRef    = "image_ref"
	fieldHitCount    = "hit_count"
)

// buildTagFilter converts request tags into a Qdrant filter. Topic overlap
// is a keyword match-any; style, slide type and domain are exact matches
// and only constrain when set.
func buildTagFilter(tags semanticcache.Tags) *qdrant.Filter {
	var must []*qdrant.Condition

	if len(tags.Topics) > 0 {
		must = append(must, qdrant.NewMatchKeywords(fieldTopics, tags.Topics...))
	}
	if tags.VisualStyle != "" {
		must = append(must, qdrant.NewMatch(fieldVisualStyle, tags.VisualStyle))
	}
	if tags.SlideType != "" {
		must = append(must, qdrant.NewMatch(fieldSlideType, tags.SlideType))
	}
	if tags.Domain != "" {
		must = append(must, qdrant.NewMatch(fieldDomain, tags.Domain))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// entryPayload serializes an entry into a Qdrant payload map.
func entryPayload(e semanticcache.Entry) map[string]any {
	topics := make([]any, len(e.Tags.Topics))
	for i, t := range e.Tags.Topics {
		topics[i] = t
	}

	return map[string]any{
		fieldPrompt:      e.Prompt,
		fieldTopics:      topics,
		fieldVisualStyle: e.Tags.VisualStyle,
		fieldSlideType:   e.Tags.SlideType,
		fieldDomain:      e.Tags.Domain,
		fieldImageRef:    e.ImageRef,
		fieldHitCount:    e.HitCount,
	}
}

// entryFromPayload rebuilds an entry from a point's payload.
func entryFromPayload(id string, payload map[string]*qdrant.Value) semanticcache.Entry {
	e := semanticcache.Entry{
		ID:       id,
		Prompt:   payload[fieldPrompt].GetStringValue(),
		ImageRef: payload[fieldImageRef].GetStringValue(),
		HitCount: payload[fieldHitCount].GetIntegerValue(),
		Tags: semanticcache.Tags{
			VisualStyle: payload[fieldVisualStyle].GetStringValue(),
			SlideType:   payload[fieldSlideType].GetStringValue(),
			Domain:      payload[fieldDomain].GetStringValue(),
		},
	}

	for _, v := range payload[fieldTopics].GetListValue().GetValues() {
		if s := v.GetStringValue(); s != "" {
			e.Tags.Topics = append(e.Tags.Topics, s)
		}
	}

	return e
}

// pointID extracts the string form of a point id. Cache entries always use
// UUID ids, but numeric ids are rendered rather than dropped.
func pointID(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Uuid:
		return v.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num)
	default:
		return ""
	}
}
