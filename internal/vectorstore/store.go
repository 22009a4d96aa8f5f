// Package vectorstore persists embedding records and serves filtered
// nearest-neighbor queries over them. Content is partitioned into one
// collection per certification level plus one for assessment material.
package vectorstore

import (
	"context"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

const (
	CollectionFoundation   = "togaf_foundation"
	CollectionPractitioner = "togaf_practitioner"
	CollectionAssessments  = "togaf_assessments"
)

// AllCollections lists every collection in search priority order.
func AllCollections() []string {
	return []string{CollectionFoundation, CollectionPractitioner, CollectionAssessments}
}

// SearchRequest is a nearest-neighbor query with metadata constraints.
type SearchRequest struct {
	Vector      []float32
	Limit       int
	Filters     model.SearchFilters
	Collections []string // empty means all
}

// Hit is one raw retrieval result before search-layer enrichment.
type Hit struct {
	ChunkID    string
	Text       string
	Distance   float64
	Collection string
	Document   map[string]any
}

// UpsertStats counts records written per collection.
type UpsertStats map[string]int

// Store is the persistence boundary for embedding records.
type Store interface {
	// Init creates missing collections sized for the given vector
	// dimensionality. Safe to call repeatedly.
	Init(ctx context.Context, dimensions int) error

	// Upsert routes each record to its collection, replacing any
	// document with the same chunk ID.
	Upsert(ctx context.Context, records []model.EmbeddingRecord) (UpsertStats, error)

	// Search returns up to Limit hits per requested collection.
	// Callers merge and rank across collections.
	Search(ctx context.Context, req SearchRequest) ([]Hit, error)

	// Counts reports the number of documents per collection.
	Counts(ctx context.Context) (map[string]int, error)

	// Reset drops and recreates the named collections.
	Reset(ctx context.Context, dimensions int, collections []string) error
}

// CollectionFor routes a record: assessment material first, then the
// certification level split.
func CollectionFor(record model.EmbeddingRecord) string {
	if record.Metadata.ContentType == model.ContentTypeAssessment ||
		record.Metadata.ContentType == model.ContentTypeReadinessAssessment {
		return CollectionAssessments
	}
	if record.Metadata.CertificationLevel == model.CertificationPractitioner {
		return CollectionPractitioner
	}
	return CollectionFoundation
}

// FlattenRecord produces the flat document stored alongside the vector.
// Nested metadata is projected into scalar fields so the store can filter
// on them directly.
func FlattenRecord(record model.EmbeddingRecord) map[string]any {
	meta := record.Metadata
	doc := map[string]any{
		"id":           record.ChunkID,
		"chunk_id":     record.ChunkID,
		"content_hash": record.ContentHash,
		"text":         record.Text,

		"certification_level": string(meta.CertificationLevel),
		"content_type":        string(meta.ContentType),
		"difficulty_level":    string(meta.DifficultyLevel),

		"document_title":   meta.Document.DocumentTitle,
		"source_file":      meta.Document.SourceFile,
		"source_directory": meta.Document.SourceDirectory,
		"togaf_part":       meta.Document.TOGAFPart,
		"togaf_guide_id":   meta.Document.TOGAFGuideID,

		"page_number":    meta.Structural.PageNumber,
		"chapter_number": meta.Structural.ChapterNumber,
		"chapter_title":  meta.Structural.ChapterTitle,
		"section_title":  meta.Structural.SectionTitle,
		"word_count":     meta.Structural.WordCount,

		"foundation_part":    string(meta.Semantic.FoundationPart),
		"practitioner_guide": string(meta.Semantic.PractitionerGuide),

		"has_diagrams": meta.HasDiagrams,
		"has_tables":   meta.HasTables,

		"content_quality_score": meta.ContentQualityScore,
		"extraction_confidence": meta.ExtractionConfidence,

		"embedding_model": record.Model,
		"search_tags":     strings.Join(meta.SearchTags(), ","),
	}

	if len(meta.Semantic.KeyConcepts) > 0 {
		doc["key_concepts"] = strings.Join(meta.Semantic.KeyConcepts, ",")
	}
	if len(meta.Semantic.ADMPhases) > 0 {
		phases := make([]string, len(meta.Semantic.ADMPhases))
		for i, p := range meta.Semantic.ADMPhases {
			phases[i] = string(p)
		}
		doc["adm_phases"] = strings.Join(phases, ",")
	}

	return doc
}

// MatchesFilters evaluates filters against a flattened document. Used by
// the memory store; the typesense store compiles the same semantics into
// a filter expression.
func MatchesFilters(doc map[string]any, f model.SearchFilters) bool {
	if f.CertificationLevel != "" && doc["certification_level"] != string(f.CertificationLevel) {
		return false
	}
	if f.ContentType != "" && doc["content_type"] != string(f.ContentType) {
		return false
	}
	if f.DifficultyLevel != "" && doc["difficulty_level"] != string(f.DifficultyLevel) {
		return false
	}
	if f.FoundationPart != "" && doc["foundation_part"] != string(f.FoundationPart) {
		return false
	}
	if f.PractitionerGuide != "" && doc["practitioner_guide"] != string(f.PractitionerGuide) {
		return false
	}
	if f.ChapterTitle != "" && doc["chapter_title"] != f.ChapterTitle {
		return false
	}
	if f.MinWordCount > 0 || f.MaxWordCount > 0 {
		wc := docInt(doc, "word_count")
		if f.MinWordCount > 0 && wc < f.MinWordCount {
			return false
		}
		if f.MaxWordCount > 0 && wc > f.MaxWordCount {
			return false
		}
	}
	return true
}

func docInt(doc map[string]any, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
