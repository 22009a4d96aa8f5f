package handler

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"togaftutor.app/tutor/common"
	"togaftutor.app/tutor/internal/curriculum"
	"togaftutor.app/tutor/internal/http/dto"
	"togaftutor.app/tutor/internal/queue"
)

type IngestHandler struct {
	producer   queue.Producer
	corpusRoot string
}

func NewIngestHandler(producer queue.Producer, corpusRoot string) *IngestHandler {
	return &IngestHandler{producer: producer, corpusRoot: corpusRoot}
}

// Document enqueues one document for ingestion.
func (h *IngestHandler) Document(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceDir := req.SourceDir
	if sourceDir == "" {
		sourceDir = sourceDirForPath(req.DocumentPath)
	}

	msg := queue.IngestMessage{
		TaskType:     queue.TaskTypeDocumentIngest,
		DocumentPath: req.DocumentPath,
		SourceDir:    sourceDir,
	}
	if traceID := traceIDFrom(ctx); traceID != "" {
		msg.TraceID = &traceID
	}

	if err := h.producer.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue document", "error", err, "document_path", req.DocumentPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue document"})
		return
	}

	c.JSON(http.StatusAccepted, dto.IngestResponse{
		Enqueued:  []dto.EnqueuedDocument{enqueuedDocument(req.DocumentPath)},
		TaskCount: 1,
	})
}

// Corpus walks the corpus root and enqueues every PDF found under the
// known source directories.
func (h *IngestHandler) Corpus(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestCorpusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	root := req.CorpusRoot
	if root == "" {
		root = h.corpusRoot
	}

	documents, err := findCorpusDocuments(root)
	if err != nil {
		slog.ErrorContext(ctx, "failed to scan corpus", "error", err, "corpus_root", root)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan corpus"})
		return
	}
	if len(documents) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no documents found under corpus root"})
		return
	}

	traceID := traceIDFrom(ctx)
	enqueued := make([]dto.EnqueuedDocument, 0, len(documents))
	for _, doc := range documents {
		msg := queue.IngestMessage{
			TaskType:     queue.TaskTypeDocumentIngest,
			DocumentPath: doc.path,
			SourceDir:    doc.sourceDir,
		}
		if traceID != "" {
			msg.TraceID = &traceID
		}
		if err := h.producer.Enqueue(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue document", "error", err, "document_path", doc.path)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue corpus", "enqueued": len(enqueued)})
			return
		}
		enqueued = append(enqueued, enqueuedDocument(doc.path))
	}

	c.JSON(http.StatusAccepted, dto.IngestResponse{Enqueued: enqueued, TaskCount: len(enqueued)})
}

// ResetCollections enqueues a collection reset, typically ahead of a
// full corpus re-ingest.
func (h *IngestHandler) ResetCollections(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ResetCollectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := queue.IngestMessage{
		TaskType:    queue.TaskTypeCollectionReset,
		Collections: req.Collections,
	}
	if traceID := traceIDFrom(ctx); traceID != "" {
		msg.TraceID = &traceID
	}

	if err := h.producer.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue collection reset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue reset"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "enqueued", "collections": req.Collections})
}

type corpusDocument struct {
	path      string
	sourceDir string
}

func findCorpusDocuments(root string) ([]corpusDocument, error) {
	var documents []corpusDocument
	for _, dir := range []string{curriculum.DirCoreTopics, curriculum.DirExtendedTopics} {
		base := filepath.Join(root, dir)
		// A missing source directory is fine; corpora often carry only
		// one certification level.
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return nil
			}
			documents = append(documents, corpusDocument{path: path, sourceDir: dir})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return documents, nil
}

func sourceDirForPath(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if parent == curriculum.DirExtendedTopics {
		return curriculum.DirExtendedTopics
	}
	return curriculum.DirCoreTopics
}

func enqueuedDocument(path string) dto.EnqueuedDocument {
	// The "document" fallback guarantees a non-empty slug.
	slug, _ := common.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "document")
	return dto.EnqueuedDocument{Document: path, JobSlug: slug}
}

func traceIDFrom(ctx context.Context) string {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
