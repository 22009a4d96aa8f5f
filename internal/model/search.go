package model

// SearchFilters narrow a semantic search by flattened metadata fields.
// Zero values mean "no constraint".
type SearchFilters struct {
	CertificationLevel CertificationLevel `json:"certification_level,omitempty"`
	ContentType        ContentType        `json:"content_type,omitempty"`
	DifficultyLevel    DifficultyLevel    `json:"difficulty_level,omitempty"`
	FoundationPart     FoundationPart     `json:"foundation_part,omitempty"`
	PractitionerGuide  PractitionerGuide  `json:"practitioner_guide,omitempty"`
	ChapterTitle       string             `json:"chapter_title,omitempty"`
	MinWordCount       int                `json:"min_word_count,omitempty"`
	MaxWordCount       int                `json:"max_word_count,omitempty"`
}

// SearchQuery is a semantic search request against one or more collections.
type SearchQuery struct {
	Text        string        `json:"text"`
	Limit       int           `json:"limit"`
	Filters     SearchFilters `json:"filters"`
	Collections []string      `json:"collections,omitempty"`
}

// SearchResult is one ranked retrieval hit, enriched for presentation.
type SearchResult struct {
	ChunkID   string  `json:"chunk_id"`
	Text      string  `json:"text"`
	Distance  float64 `json:"distance"`
	Relevance float64 `json:"relevance"` // 1 - distance

	Metadata map[string]any `json:"metadata"`

	CertificationContext string   `json:"certification_context,omitempty"`
	ChapterContext       string   `json:"chapter_context,omitempty"`
	KeyConcepts          []string `json:"key_concepts,omitempty"`
	ADMPhases            []string `json:"adm_phases,omitempty"`
	Summary              string   `json:"summary,omitempty"`
}
