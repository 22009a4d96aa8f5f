package model

import "time"

// EmbeddingRecord is a chunk ready for vector storage: its text, vector,
// the content hash used as the cache key, and the flattened metadata
// fields needed for filtered retrieval.
type EmbeddingRecord struct {
	ChunkID     string    `json:"chunk_id"`
	Text        string    `json:"text"`
	Vector      []float32 `json:"vector"`
	ContentHash string    `json:"content_hash"`

	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	CreatedAt  time.Time `json:"created_at"`

	Metadata ContentMetadata `json:"metadata"`
}
