package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/internal/http/handler"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/search"
	"togaftutor.app/tutor/internal/vectorstore"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Model() string { return "text-embedding-3-small" }

func (fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

var _ = Describe("SearchHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()

		store := vectorstore.NewMemoryStore()
		_, err := store.Upsert(context.Background(), []model.EmbeddingRecord{{
			ChunkID: "c1",
			Text:    "The ADM is TOGAF's architecture development method.",
			Vector:  []float32{1, 0, 0},
			Metadata: model.ContentMetadata{
				CertificationLevel: model.CertificationFoundation,
				ContentType:        model.ContentTypeConcept,
				DifficultyLevel:    model.DifficultyBasic,
				Structural:         model.StructuralInfo{ChapterTitle: "Introduction", WordCount: 120},
				Semantic: model.SemanticInfo{
					FoundationPart: model.Part1ArchitectureDevelopmentMethod,
					KeyConcepts:    []string{"ADM"},
				},
			},
		}})
		Expect(err).NotTo(HaveOccurred())

		h := handler.NewSearchHandler(search.New(fixedEmbedder{}, store))
		router.POST("/search", h.Search)
		router.GET("/search/suggestions", h.Suggestions)
		router.GET("/search/stats", h.Stats)
	})

	Describe("Search", func() {
		It("returns matching chunks", func() {
			body, _ := json.Marshal(map[string]any{"text": "architecture development method"})
			req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeEquivalentTo(1))
		})

		It("returns 400 when the text is missing", func() {
			req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an out-of-range limit", func() {
			body, _ := json.Marshal(map[string]any{"text": "adm", "limit": 500})
			req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Suggestions", func() {
		It("returns query expansions", func() {
			req := httptest.NewRequest(http.MethodGet, "/search/suggestions?q=adm", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["query"]).To(Equal("adm"))
		})

		It("requires the q parameter", func() {
			req := httptest.NewRequest(http.MethodGet, "/search/suggestions", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Stats", func() {
		It("reports per-collection counts", func() {
			req := httptest.NewRequest(http.MethodGet, "/search/stats", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			collections := resp["collections"].(map[string]any)
			Expect(collections[vectorstore.CollectionFoundation]).To(BeEquivalentTo(1))
		})
	})
})
