package queue

type TaskType string

const (
	// TaskTypeDocumentIngest runs the full ingestion pipeline over one
	// source document: extract, chunk, enrich, embed, upsert.
	TaskTypeDocumentIngest TaskType = "document_ingest"

	// TaskTypeCollectionReset drops and recreates vector collections
	// before a full corpus re-ingest.
	TaskTypeCollectionReset TaskType = "collection_reset"
)
