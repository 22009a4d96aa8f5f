package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"togaftutor.app/tutor/internal/model"
)

// TypesenseStore keeps collections in a Typesense cluster and queries
// them with its native vector search.
type TypesenseStore struct {
	client *typesense.Client
}

func NewTypesenseStore(serverURL, apiKey string) *TypesenseStore {
	return &TypesenseStore{
		client: typesense.NewClient(
			typesense.WithServer(serverURL),
			typesense.WithAPIKey(apiKey),
			typesense.WithConnectionTimeout(10*time.Second),
		),
	}
}

func (s *TypesenseStore) Init(ctx context.Context, dimensions int) error {
	for _, name := range AllCollections() {
		if _, err := s.client.Collection(name).Retrieve(ctx); err == nil {
			continue
		}
		if _, err := s.client.Collections().Create(ctx, collectionSchema(name, dimensions)); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "collection created", "collection", name, "dimensions", dimensions)
	}
	return nil
}

func collectionSchema(name string, dimensions int) *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: name,
		Fields: []api.Field{
			{Name: "chunk_id", Type: "string"},
			{Name: "content_hash", Type: "string"},
			{Name: "text", Type: "string"},
			{Name: "embedding", Type: "float[]", NumDim: pointer.Int(dimensions)},

			{Name: "certification_level", Type: "string", Facet: pointer.True()},
			{Name: "content_type", Type: "string", Facet: pointer.True()},
			{Name: "difficulty_level", Type: "string", Facet: pointer.True()},

			{Name: "document_title", Type: "string", Optional: pointer.True()},
			{Name: "source_file", Type: "string", Optional: pointer.True()},
			{Name: "source_directory", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "togaf_part", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "togaf_guide_id", Type: "string", Facet: pointer.True(), Optional: pointer.True()},

			{Name: "page_number", Type: "int32", Optional: pointer.True()},
			{Name: "chapter_number", Type: "string", Optional: pointer.True()},
			{Name: "chapter_title", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "section_title", Type: "string", Optional: pointer.True()},
			{Name: "word_count", Type: "int32"},

			{Name: "foundation_part", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "practitioner_guide", Type: "string", Facet: pointer.True(), Optional: pointer.True()},

			{Name: "has_diagrams", Type: "bool", Facet: pointer.True()},
			{Name: "has_tables", Type: "bool", Facet: pointer.True()},

			{Name: "content_quality_score", Type: "float", Optional: pointer.True()},
			{Name: "extraction_confidence", Type: "float", Optional: pointer.True()},

			{Name: "embedding_model", Type: "string", Optional: pointer.True()},
			{Name: "key_concepts", Type: "string", Optional: pointer.True()},
			{Name: "adm_phases", Type: "string", Optional: pointer.True()},
			{Name: "search_tags", Type: "string", Optional: pointer.True()},
		},
	}
}

func (s *TypesenseStore) Upsert(ctx context.Context, records []model.EmbeddingRecord) (UpsertStats, error) {
	stats := UpsertStats{}
	for _, record := range records {
		collection := CollectionFor(record)

		doc := FlattenRecord(record)
		doc["embedding"] = record.Vector

		if _, err := s.client.Collection(collection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
			return stats, fmt.Errorf("upsert chunk %s into %s: %w", record.ChunkID, collection, err)
		}
		stats[collection]++
	}
	return stats, nil
}

func (s *TypesenseStore) Search(ctx context.Context, req SearchRequest) ([]Hit, error) {
	collections := req.Collections
	if len(collections) == 0 {
		collections = AllCollections()
	}

	searches := make([]api.MultiSearchCollectionParameters, 0, len(collections))
	for _, collection := range collections {
		params := api.MultiSearchCollectionParameters{
			Collection:    pointer.String(collection),
			Q:             pointer.String("*"),
			VectorQuery:   pointer.String(vectorQuery(req.Vector, req.Limit)),
			PerPage:       pointer.Int(req.Limit),
			ExcludeFields: pointer.String("embedding"),
		}
		if filter := FilterExpression(req.Filters); filter != "" {
			params.FilterBy = pointer.String(filter)
		}
		searches = append(searches, params)
	}

	result, err := s.client.MultiSearch.Perform(ctx,
		&api.MultiSearchParams{},
		api.MultiSearchSearchesParameter{Searches: searches},
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	var hits []Hit
	for i, item := range result.Results {
		if item.Hits == nil {
			continue
		}
		for _, h := range *item.Hits {
			if h.Document == nil {
				continue
			}
			doc := *h.Document
			hit := Hit{
				Collection: collections[i],
				Document:   doc,
			}
			if id, ok := doc["chunk_id"].(string); ok {
				hit.ChunkID = id
			}
			if text, ok := doc["text"].(string); ok {
				hit.Text = text
			}
			if h.VectorDistance != nil {
				hit.Distance = float64(*h.VectorDistance)
			}
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

func (s *TypesenseStore) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(AllCollections()))
	for _, name := range AllCollections() {
		resp, err := s.client.Collection(name).Retrieve(ctx)
		if err != nil {
			return nil, fmt.Errorf("retrieve collection %s: %w", name, err)
		}
		if resp.NumDocuments != nil {
			counts[name] = int(*resp.NumDocuments)
		}
	}
	return counts, nil
}

func (s *TypesenseStore) Reset(ctx context.Context, dimensions int, collections []string) error {
	if len(collections) == 0 {
		collections = AllCollections()
	}
	for _, name := range collections {
		if _, err := s.client.Collection(name).Delete(ctx); err != nil {
			slog.WarnContext(ctx, "collection delete failed", "collection", name, "error", err)
		}
		if _, err := s.client.Collections().Create(ctx, collectionSchema(name, dimensions)); err != nil {
			return fmt.Errorf("recreate collection %s: %w", name, err)
		}
	}
	return nil
}

// vectorQuery renders the typesense k-NN query expression.
func vectorQuery(vector []float32, k int) string {
	var b strings.Builder
	b.WriteString("embedding:([")
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	fmt.Fprintf(&b, "], k:%d)", k)
	return b.String()
}

// FilterExpression compiles search filters into typesense filter_by syntax.
func FilterExpression(f model.SearchFilters) string {
	var parts []string

	add := func(field, value string) {
		if value != "" {
			parts = append(parts, field+":="+value)
		}
	}
	add("certification_level", string(f.CertificationLevel))
	add("content_type", string(f.ContentType))
	add("difficulty_level", string(f.DifficultyLevel))
	add("foundation_part", string(f.FoundationPart))
	add("practitioner_guide", string(f.PractitionerGuide))

	if f.ChapterTitle != "" {
		parts = append(parts, "chapter_title:=`"+f.ChapterTitle+"`")
	}
	if f.MinWordCount > 0 {
		parts = append(parts, fmt.Sprintf("word_count:>=%d", f.MinWordCount))
	}
	if f.MaxWordCount > 0 {
		parts = append(parts, fmt.Sprintf("word_count:<=%d", f.MaxWordCount))
	}

	return strings.Join(parts, " && ")
}
