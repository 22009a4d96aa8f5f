// Package pipeline turns one source document into searchable vector
// records: extract pages, chunk, enrich with metadata, embed, upsert.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"togaftutor.app/tutor/common/logger"
	"togaftutor.app/tutor/internal/chunker"
	"togaftutor.app/tutor/internal/extractor"
	"togaftutor.app/tutor/internal/metadata"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/vectorstore"
)

// DefaultDimensions matches text-embedding-3-small output.
const DefaultDimensions = 1536

// Extractor pulls page text out of a source document.
type Extractor interface {
	Extract(ctx context.Context, path string) (*extractor.Result, error)
}

// Generator embeds content chunks into vector records.
type Generator interface {
	Generate(ctx context.Context, chunks []model.ContentChunk) ([]model.EmbeddingRecord, error)
}

type Config struct {
	SourceDir  string // default source directory when a task omits one
	Dimensions int    // vector dimensionality for collection setup
}

// Result summarizes one processed document.
type Result struct {
	DocumentPath string
	Title        string
	Pages        int
	Chunks       int
	Upserts      vectorstore.UpsertStats
	Method       string
}

type DocumentPipeline struct {
	extractor Extractor
	chunker   *chunker.Chunker
	generator Generator
	store     vectorstore.Store
	cfg       Config
}

func New(ext Extractor, ch *chunker.Chunker, gen Generator, store vectorstore.Store, cfg Config) *DocumentPipeline {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &DocumentPipeline{
		extractor: ext,
		chunker:   ch,
		generator: gen,
		store:     store,
		cfg:       cfg,
	}
}

// ProcessDocument runs the full ingestion pipeline over one document.
// sourceDir determines certification routing; when empty the configured
// default is used.
func (p *DocumentPipeline) ProcessDocument(ctx context.Context, path, sourceDir string) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tutor.pipeline",
		Document:  logger.Ptr(path),
	})

	if sourceDir == "" {
		sourceDir = p.cfg.SourceDir
	}

	extracted, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	slog.InfoContext(ctx, "document extracted",
		"pages", extracted.TotalPages,
		"method", extracted.Method)

	rawChunks := p.chunker.Chunk(extracted.Pages)
	if len(rawChunks) == 0 {
		return nil, fmt.Errorf("no chunks produced from %s", path)
	}

	builder := metadata.NewBuilder(sourceDir, filepath.Base(path))
	doc := metadata.DocumentContext{
		SourcePath:       path,
		DocumentTitle:    extracted.Title,
		TotalPages:       extracted.TotalPages,
		ProcessingMethod: extracted.Method,
	}

	chunks := make([]model.ContentChunk, 0, len(rawChunks))
	for _, raw := range rawChunks {
		chunk, buildErr := builder.Build(raw, doc)
		if buildErr != nil {
			return nil, fmt.Errorf("building chunk metadata: %w", buildErr)
		}
		chunks = append(chunks, chunk)
	}

	records, err := p.generator.Generate(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("generating embeddings: %w", err)
	}

	dims := p.cfg.Dimensions
	if len(records) > 0 && records[0].Dimensions > 0 {
		dims = records[0].Dimensions
	}
	if err := p.store.Init(ctx, dims); err != nil {
		return nil, fmt.Errorf("initializing vector store: %w", err)
	}

	stats, err := p.store.Upsert(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("upserting records: %w", err)
	}

	slog.InfoContext(ctx, "document indexed",
		"chunks", len(chunks),
		"upserts", stats)

	return &Result{
		DocumentPath: path,
		Title:        extracted.Title,
		Pages:        extracted.TotalPages,
		Chunks:       len(chunks),
		Upserts:      stats,
		Method:       extracted.Method,
	}, nil
}

// ResetCollections drops and recreates the named vector collections.
// Empty collections means all of them.
func (p *DocumentPipeline) ResetCollections(ctx context.Context, collections []string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "tutor.pipeline",
	})

	if len(collections) == 0 {
		collections = vectorstore.AllCollections()
	}

	if err := p.store.Reset(ctx, p.cfg.Dimensions, collections); err != nil {
		return fmt.Errorf("resetting collections: %w", err)
	}

	slog.InfoContext(ctx, "collections reset", "collections", collections)
	return nil
}
