package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"togaftutor.app/tutor/internal/model"
)

// Generator produces embedding records for chunks, consulting the cache
// before calling the embedder and writing fresh vectors back to it.
type Generator struct {
	embedder Embedder
	cache    *Cache
}

// NewGenerator builds a Generator. cache may be nil, in which case every
// chunk is embedded through the API.
func NewGenerator(embedder Embedder, cache *Cache) *Generator {
	return &Generator{embedder: embedder, cache: cache}
}

// Generate returns one embedding record per chunk, in chunk order. A
// failed API call fails the whole batch: partial results are never
// returned, so callers can retry the batch as a unit.
func (g *Generator) Generate(ctx context.Context, chunks []model.ContentChunk) ([]model.EmbeddingRecord, error) {
	records := make([]model.EmbeddingRecord, len(chunks))

	var (
		pendingTexts   []string
		pendingIndexes []int
		cached         int
	)

	for i, chunk := range chunks {
		text := EmbeddingText(chunk)
		hash := ContentHash(text)
		records[i] = model.EmbeddingRecord{
			ChunkID:     chunk.ID,
			Text:        chunk.Text,
			ContentHash: hash,
			Model:       g.embedder.Model(),
			CreatedAt:   time.Now().UTC(),
			Metadata:    chunk.Metadata,
		}

		if g.cache != nil {
			vector, ok, err := g.cache.Get(ctx, hash)
			if err != nil {
				return nil, fmt.Errorf("cache lookup: %w", err)
			}
			if ok {
				records[i].Vector = vector
				records[i].Dimensions = len(vector)
				cached++
				continue
			}
		}

		pendingTexts = append(pendingTexts, text)
		pendingIndexes = append(pendingIndexes, i)
	}

	if len(pendingTexts) > 0 {
		slog.InfoContext(ctx, "generating embeddings",
			"new", len(pendingTexts), "cached", cached, "model", g.embedder.Model())

		vectors, err := g.embedder.Embed(ctx, pendingTexts)
		if err != nil {
			return nil, fmt.Errorf("embed batch of %d: %w", len(pendingTexts), err)
		}

		for j, idx := range pendingIndexes {
			records[idx].Vector = vectors[j]
			records[idx].Dimensions = len(vectors[j])

			if g.cache != nil {
				if err := g.cache.Put(ctx, records[idx].ContentHash, g.embedder.Model(), vectors[j]); err != nil {
					// Cache writes are best effort; the vector is already in hand.
					slog.WarnContext(ctx, "embedding cache write failed",
						"hash", records[idx].ContentHash, "error", err)
				}
			}
		}
	}

	return records, nil
}
