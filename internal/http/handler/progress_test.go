package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/internal/http/handler"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/store"
)

var _ = Describe("ProgressHandler", func() {
	var (
		router *gin.Engine
		svc    *mockProgressService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockProgressService{}
		h := handler.NewProgressHandler(svc)
		router.GET("/users/:userID/progress", h.Analytics)
		router.GET("/users/:userID/progress/recommendations", h.Recommendations)
		router.GET("/users/:userID/progress/history", h.History)
	})

	Describe("Analytics", func() {
		It("returns the computed analytics", func() {
			svc.analyticsFn = func(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
				return &model.ProgressAnalytics{UserID: userID, FoundationReadiness: 0.62}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/users/u-1/progress", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["foundation_readiness"]).To(BeEquivalentTo(0.62))
		})

		It("returns 404 for an unknown user", func() {
			svc.analyticsFn = func(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
				return nil, store.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/users/nobody/progress", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Recommendations", func() {
		It("caps the requested count", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/u-1/progress/recommendations?count=50", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("defaults to five recommendations", func() {
			var gotCount int
			svc.recommendationsFn = func(ctx context.Context, userID string, count int) ([]model.TopicRecommendation, error) {
				gotCount = count
				return []model.TopicRecommendation{{TopicID: "adm_phases"}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/users/u-1/progress/recommendations", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotCount).To(Equal(5))
		})
	})

	Describe("History", func() {
		It("wraps the session records with a count", func() {
			svc.historyFn = func(ctx context.Context, userID string) ([]model.LearningSession, error) {
				return []model.LearningSession{{UserID: userID}, {UserID: userID}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/users/u-1/progress/history", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeEquivalentTo(2))
		})
	})
})
