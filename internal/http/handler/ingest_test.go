package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/internal/http/handler"
	"togaftutor.app/tutor/internal/queue"
)

var _ = Describe("IngestHandler", func() {
	var (
		router     *gin.Engine
		producer   *mockProducer
		corpusRoot string
	)

	writeCorpusFile := func(parts ...string) {
		path := filepath.Join(append([]string{corpusRoot}, parts...)...)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("%PDF-1.4"), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		producer = &mockProducer{}
		corpusRoot = GinkgoT().TempDir()
		h := handler.NewIngestHandler(producer, corpusRoot)
		router.POST("/ingest/document", h.Document)
		router.POST("/ingest/corpus", h.Corpus)
		router.POST("/ingest/reset-collections", h.ResetCollections)
	})

	Describe("Document", func() {
		It("enqueues the document with an inferred source dir", func() {
			body, _ := json.Marshal(map[string]any{"document_path": "corpus/extended_topics/security.pdf"})
			req := httptest.NewRequest(http.MethodPost, "/ingest/document", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(producer.enqueued).To(HaveLen(1))
			Expect(producer.enqueued[0].TaskType).To(Equal(queue.TaskTypeDocumentIngest))
			Expect(producer.enqueued[0].DocumentPath).To(Equal("corpus/extended_topics/security.pdf"))
			Expect(producer.enqueued[0].SourceDir).To(Equal("extended_topics"))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["task_count"]).To(BeEquivalentTo(1))
		})

		It("slugifies the document name in the response", func() {
			body, _ := json.Marshal(map[string]any{"document_path": "corpus/core_topics/ADM Phases Overview.pdf"})
			req := httptest.NewRequest(http.MethodPost, "/ingest/document", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusAccepted))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			enqueued := resp["enqueued"].([]any)
			Expect(enqueued[0].(map[string]any)["job_slug"]).To(Equal("adm-phases-overview"))
		})

		It("returns 400 when the path is missing", func() {
			body, _ := json.Marshal(map[string]any{})
			req := httptest.NewRequest(http.MethodPost, "/ingest/document", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(producer.enqueued).To(BeEmpty())
		})

		It("returns 500 when the queue is unreachable", func() {
			producer.enqueueFn = func(ctx context.Context, msg queue.IngestMessage) error {
				return errors.New("redis down")
			}

			body, _ := json.Marshal(map[string]any{"document_path": "corpus/core_topics/intro.pdf"})
			req := httptest.NewRequest(http.MethodPost, "/ingest/document", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Corpus", func() {
		It("enqueues every pdf under the known source dirs", func() {
			writeCorpusFile("core_topics", "introduction.pdf")
			writeCorpusFile("core_topics", "adm_phases.pdf")
			writeCorpusFile("extended_topics", "security.pdf")
			writeCorpusFile("core_topics", "notes.txt")

			req := httptest.NewRequest(http.MethodPost, "/ingest/corpus", bytes.NewBufferString("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(producer.enqueued).To(HaveLen(3))

			sourceDirs := map[string]int{}
			for _, msg := range producer.enqueued {
				Expect(msg.TaskType).To(Equal(queue.TaskTypeDocumentIngest))
				sourceDirs[msg.SourceDir]++
			}
			Expect(sourceDirs["core_topics"]).To(Equal(2))
			Expect(sourceDirs["extended_topics"]).To(Equal(1))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["task_count"]).To(BeEquivalentTo(3))
		})

		It("returns 404 for an empty corpus", func() {
			req := httptest.NewRequest(http.MethodPost, "/ingest/corpus", bytes.NewBufferString("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(producer.enqueued).To(BeEmpty())
		})
	})

	Describe("ResetCollections", func() {
		It("enqueues a reset task with the requested collections", func() {
			body, _ := json.Marshal(map[string]any{"collections": []string{"togaf_foundation"}})
			req := httptest.NewRequest(http.MethodPost, "/ingest/reset-collections", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(producer.enqueued).To(HaveLen(1))
			Expect(producer.enqueued[0].TaskType).To(Equal(queue.TaskTypeCollectionReset))
			Expect(producer.enqueued[0].Collections).To(Equal([]string{"togaf_foundation"}))
		})

		It("rejects an unknown collection name", func() {
			body, _ := json.Marshal(map[string]any{"collections": []string{"togaf_everything"}})
			req := httptest.NewRequest(http.MethodPost, "/ingest/reset-collections", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
