// Package search runs semantic retrieval over the content collections and
// enriches raw hits with curriculum context for presentation.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"togaftutor.app/tutor/internal/embedding"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/vectorstore"
)

const defaultLimit = 10

type Service struct {
	embedder embedding.Embedder
	store    vectorstore.Store
}

func New(embedder embedding.Embedder, store vectorstore.Store) *Service {
	return &Service{embedder: embedder, store: store}
}

// Search embeds the query text, retrieves per-collection candidates, and
// returns the merged result set ordered by relevance and truncated to the
// query limit.
func (s *Service) Search(ctx context.Context, query model.SearchQuery) ([]model.SearchResult, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	vectors, err := s.embedder.Embed(ctx, []string{query.Text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, vectorstore.SearchRequest{
		Vector:      vectors[0],
		Limit:       limit,
		Filters:     query.Filters,
		Collections: query.Collections,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]model.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = enhanceHit(hit)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}

	slog.InfoContext(ctx, "search completed",
		"query_len", len(query.Text), "results", len(results), "limit", limit)
	return results, nil
}

// SearchFoundation scopes retrieval to Foundation content, optionally to
// a single part.
func (s *Service) SearchFoundation(ctx context.Context, text string, part model.FoundationPart, difficulty model.DifficultyLevel, limit int) ([]model.SearchResult, error) {
	return s.Search(ctx, model.SearchQuery{
		Text:  text,
		Limit: limit,
		Filters: model.SearchFilters{
			CertificationLevel: model.CertificationFoundation,
			FoundationPart:     part,
			DifficultyLevel:    difficulty,
		},
		Collections: []string{vectorstore.CollectionFoundation},
	})
}

// SearchPractitioner scopes retrieval to Practitioner content, optionally
// to a single series guide.
func (s *Service) SearchPractitioner(ctx context.Context, text string, guide model.PractitionerGuide, difficulty model.DifficultyLevel, limit int) ([]model.SearchResult, error) {
	return s.Search(ctx, model.SearchQuery{
		Text:  text,
		Limit: limit,
		Filters: model.SearchFilters{
			CertificationLevel: model.CertificationPractitioner,
			PractitionerGuide:  guide,
			DifficultyLevel:    difficulty,
		},
		Collections: []string{vectorstore.CollectionPractitioner},
	})
}

// SearchForUser adapts retrieval to a user's experience level and
// certification goal. An empty goal searches both certification levels.
func (s *Service) SearchForUser(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error) {
	query := model.SearchQuery{
		Text:    text,
		Limit:   limit,
		Filters: model.SearchFilters{DifficultyLevel: difficultyForLevel(level)},
	}

	switch goal {
	case model.CertificationFoundation:
		query.Filters.CertificationLevel = goal
		query.Collections = []string{vectorstore.CollectionFoundation}
	case model.CertificationPractitioner:
		query.Filters.CertificationLevel = goal
		query.Collections = []string{vectorstore.CollectionPractitioner}
	default:
		query.Collections = []string{vectorstore.CollectionFoundation, vectorstore.CollectionPractitioner}
	}

	return s.Search(ctx, query)
}

// Stats reports per-collection document counts.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	return s.store.Counts(ctx)
}

func difficultyForLevel(level model.ExperienceLevel) model.DifficultyLevel {
	switch level {
	case model.ExperienceIntermediate:
		return model.DifficultyIntermediate
	case model.ExperienceAdvanced, model.ExperienceExpert:
		return model.DifficultyAdvanced
	default:
		return model.DifficultyBasic
	}
}

func enhanceHit(hit vectorstore.Hit) model.SearchResult {
	doc := hit.Document
	result := model.SearchResult{
		ChunkID:   hit.ChunkID,
		Text:      hit.Text,
		Distance:  hit.Distance,
		Relevance: 1 - hit.Distance,
		Metadata:  doc,
	}

	result.CertificationContext = certificationContext(doc)
	result.ChapterContext = chapterContext(doc)
	result.KeyConcepts = splitList(docString(doc, "key_concepts"))
	for _, phase := range splitList(docString(doc, "adm_phases")) {
		result.ADMPhases = append(result.ADMPhases, titleize(phase))
	}
	result.Summary = contentSummary(doc)

	return result
}

func certificationContext(doc map[string]any) string {
	level := docString(doc, "certification_level")
	partOrGuide := docString(doc, "foundation_part")
	if partOrGuide == "" {
		partOrGuide = docString(doc, "practitioner_guide")
	}

	switch level {
	case string(model.CertificationFoundation):
		return strings.TrimSpace("TOGAF Foundation - " + titleize(partOrGuide))
	case string(model.CertificationPractitioner):
		return strings.TrimSpace("TOGAF Practitioner - " + titleize(partOrGuide))
	default:
		return "TOGAF Content"
	}
}

func chapterContext(doc map[string]any) string {
	chapter := docString(doc, "chapter_title")
	section := docString(doc, "section_title")
	switch {
	case chapter != "" && section != "":
		return chapter + " > " + section
	case chapter != "":
		return chapter
	default:
		return ""
	}
}

func contentSummary(doc map[string]any) string {
	parts := []string{titleize(docString(doc, "content_type"))}
	if docBool(doc, "has_diagrams") {
		parts = append(parts, "with diagrams")
	}
	if docBool(doc, "has_tables") {
		parts = append(parts, "with tables")
	}
	parts = append(parts, fmt.Sprintf("(%d words)", docInt(doc, "word_count")))
	return strings.Join(parts, " ")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func docString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docBool(doc map[string]any, key string) bool {
	b, _ := doc[key].(bool)
	return b
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

func titleize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
