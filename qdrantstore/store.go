package qdrantstore

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/brightwave/imagegen/semanticcache"
)

// Store implements semanticcache.Store on top of a Qdrant collection.
// Entries are points whose vector is the prompt embedding and whose payload
// carries the prompt, tags, image reference and hit counter.
type Store struct {
	client *Client
}

// NewStore wraps a connected client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

var _ semanticcache.Store = (*Store)(nil)

// CountCandidates counts entries whose tags overlap the request's. This is
// the cheap keyword pass that gates the vector search.
func (s *Store) CountCandidates(ctx context.Context, tags semanticcache.Tags) (int, error) {
	filter := buildTagFilter(tags)
	if filter == nil {
		return 0, nil
	}

	count, err := s.client.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.client.cfg.Collection,
		Filter:         filter,
		Exact:          qdrant.PtrOf(false),
	})
	if err != nil {
		return 0, fmt.Errorf("[Qdrant] count failed: %w", err)
	}
	return int(count), nil
}

// SearchSimilar runs the tag-filtered vector search and returns matches
// ordered by descending cosine similarity.
func (s *Store) SearchSimilar(ctx context.Context, vector []float32, tags semanticcache.Tags, limit int) ([]semanticcache.Match, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("[Qdrant] search limit must be positive")
	}

	lim := uint64(limit)
	resp, err := s.client.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.client.cfg.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &lim,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildTagFilter(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search failed: %w", err)
	}

	matches := make([]semanticcache.Match, 0, len(resp))
	for _, p := range resp {
		matches = append(matches, semanticcache.Match{
			Entry:      entryFromPayload(pointID(p.Id), p.Payload),
			Similarity: float64(p.Score),
		})
	}
	return matches, nil
}

// Insert stores a new cache entry. The upsert waits for persistence so a
// subsequent lookup can observe the entry.
func (s *Store) Insert(ctx context.Context, entry semanticcache.Entry, vector []float32) error {
	wait := true
	_, err := s.client.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.client.cfg.Collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(entry.ID),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(entryPayload(entry)),
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}
	return nil
}

// RecordHit increments the entry's hit counter. Read-modify-write without a
// transaction; hit counts are advisory, so a lost increment under
// concurrency is acceptable.
func (s *Store) RecordHit(ctx context.Context, id string) error {
	points, err := s.client.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.client.cfg.Collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] get failed: %w", err)
	}
	if len(points) == 0 {
		return fmt.Errorf("[Qdrant] entry %s not found", id)
	}

	hits := points[0].Payload[fieldHitCount].GetIntegerValue()

	_, err = s.client.api.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.client.cfg.Collection,
		Payload:        qdrant.NewValueMap(map[string]any{fieldHitCount: hits + 1}),
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] set payload failed: %w", err)
	}
	return nil
}

// Delete removes entries by id.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	wait := true
	_, err := s.client.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.client.cfg.Collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] delete failed: %w", err)
	}
	return nil
}
