package dto

type IngestDocumentRequest struct {
	DocumentPath string `json:"document_path" binding:"required,max=1024"`
	SourceDir    string `json:"source_dir" binding:"omitempty,oneof=core_topics extended_topics"`
}

type IngestCorpusRequest struct {
	CorpusRoot string `json:"corpus_root" binding:"omitempty,max=1024"`
}

type IngestResponse struct {
	Enqueued  []EnqueuedDocument `json:"enqueued"`
	TaskCount int                `json:"task_count"`
}

type EnqueuedDocument struct {
	Document string `json:"document"`
	JobSlug  string `json:"job_slug"`
}

type ResetCollectionsRequest struct {
	Collections []string `json:"collections" binding:"omitempty,dive,oneof=togaf_foundation togaf_practitioner togaf_assessments"`
}
