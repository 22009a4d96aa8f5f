package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"togaftutor.app/tutor/internal/model"
)

// MemoryStore is an in-process Store used in tests and local development.
// Distances are cosine, matching the hosted store's vector metric.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

type memoryDoc struct {
	id     string
	vector []float32
	doc    map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]memoryDoc)}
}

func (s *MemoryStore) Init(ctx context.Context, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range AllCollections() {
		if _, ok := s.collections[name]; !ok {
			s.collections[name] = nil
		}
	}
	return nil
}

func (s *MemoryStore) Upsert(ctx context.Context, records []model.EmbeddingRecord) (UpsertStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := UpsertStats{}
	for _, record := range records {
		collection := CollectionFor(record)
		doc := memoryDoc{
			id:     record.ChunkID,
			vector: record.Vector,
			doc:    FlattenRecord(record),
		}

		docs := s.collections[collection]
		replaced := false
		for i := range docs {
			if docs[i].id == record.ChunkID {
				docs[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			docs = append(docs, doc)
		}
		s.collections[collection] = docs
		stats[collection]++
	}
	return stats, nil
}

func (s *MemoryStore) Search(ctx context.Context, req SearchRequest) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collections := req.Collections
	if len(collections) == 0 {
		collections = AllCollections()
	}

	var hits []Hit
	for _, name := range collections {
		var collectionHits []Hit
		for _, doc := range s.collections[name] {
			if !MatchesFilters(doc.doc, req.Filters) {
				continue
			}
			collectionHits = append(collectionHits, Hit{
				ChunkID:    doc.id,
				Text:       doc.doc["text"].(string),
				Distance:   cosineDistance(req.Vector, doc.vector),
				Collection: name,
				Document:   doc.doc,
			})
		}
		sort.Slice(collectionHits, func(i, j int) bool {
			return collectionHits[i].Distance < collectionHits[j].Distance
		})
		if req.Limit > 0 && len(collectionHits) > req.Limit {
			collectionHits = collectionHits[:req.Limit]
		}
		hits = append(hits, collectionHits...)
	}
	return hits, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.collections))
	for name, docs := range s.collections {
		counts[name] = len(docs)
	}
	return counts, nil
}

func (s *MemoryStore) Reset(ctx context.Context, dimensions int, collections []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(collections) == 0 {
		collections = AllCollections()
	}
	for _, name := range collections {
		s.collections[name] = nil
	}
	return nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
