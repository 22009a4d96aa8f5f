package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

type IngestMessage struct {
	TaskType     TaskType
	DocumentPath string
	SourceDir    string
	Collections  []string
	TraceID      *string
	Attempt      int
}

type Producer interface {
	Enqueue(ctx context.Context, msg IngestMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg IngestMessage) error {
	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	taskType := msg.TaskType
	if taskType == "" {
		taskType = TaskTypeDocumentIngest
	}

	fields := map[string]any{
		"task_type": string(taskType),
		"attempt":   attempt,
	}

	if msg.DocumentPath != "" {
		fields["document_path"] = msg.DocumentPath
	}
	if msg.SourceDir != "" {
		fields["source_dir"] = msg.SourceDir
	}
	if len(msg.Collections) > 0 {
		fields["collections"] = strings.Join(msg.Collections, ",")
	}
	if msg.TraceID != nil && *msg.TraceID != "" {
		fields["trace_id"] = *msg.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued ingestion task", "task_type", taskType, "document_path", msg.DocumentPath, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
