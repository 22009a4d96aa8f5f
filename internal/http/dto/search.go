package dto

import "togaftutor.app/tutor/internal/model"

type SearchRequest struct {
	Text  string `json:"text" binding:"required,min=1,max=1000"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=50"`

	CertificationLevel string `json:"certification_level" binding:"omitempty,oneof=foundation practitioner"`
	ContentType        string `json:"content_type" binding:"omitempty,max=64"`
	DifficultyLevel    string `json:"difficulty_level" binding:"omitempty,oneof=basic intermediate advanced"`
	ChapterTitle       string `json:"chapter_title" binding:"omitempty,max=255"`
}

func (r SearchRequest) ToQuery() model.SearchQuery {
	return model.SearchQuery{
		Text:  r.Text,
		Limit: r.Limit,
		Filters: model.SearchFilters{
			CertificationLevel: model.CertificationLevel(r.CertificationLevel),
			ContentType:        model.ContentType(r.ContentType),
			DifficultyLevel:    model.DifficultyLevel(r.DifficultyLevel),
			ChapterTitle:       r.ChapterTitle,
		},
	}
}

type SearchResponse struct {
	Results []model.SearchResult `json:"results"`
	Count   int                  `json:"count"`
}

type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}
