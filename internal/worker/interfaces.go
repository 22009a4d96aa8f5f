package worker

import (
	"context"

	"togaftutor.app/tutor/internal/pipeline"
	"togaftutor.app/tutor/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// DocumentProcessor abstracts the ingestion pipeline for testability.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, path, sourceDir string) (*pipeline.Result, error)
	ResetCollections(ctx context.Context, collections []string) error
}
