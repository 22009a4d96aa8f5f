package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/internal/http/handler"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

var _ = Describe("ProfileHandler", func() {
	var (
		router *gin.Engine
		svc    *mockProfileService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockProfileService{}
		h := handler.NewProfileHandler(svc)
		router.POST("/users", h.Create)
		router.GET("/users/:userID", h.Get)
		router.POST("/users/:userID/reset", h.Reset)
		router.POST("/users/:userID/plans", h.CreatePlan)
		router.GET("/users/:userID/current-topic", h.CurrentTopic)
		router.POST("/users/:userID/topics/:topicID/complete", h.CompleteTopic)
		router.POST("/users/:userID/topics/:topicID/skip", h.SkipTopic)
	})

	Describe("Create", func() {
		It("returns the created profile", func() {
			svc.createFn = func(ctx context.Context, username, email string) (*model.UserProfile, error) {
				return &model.UserProfile{UserID: "u-1", Username: username, Email: email}, nil
			}

			body, _ := json.Marshal(map[string]any{"username": "alice", "email": "alice@example.com"})
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["user_id"]).To(Equal("u-1"))
			Expect(resp["username"]).To(Equal("alice"))
		})

		It("returns 409 when the username is taken", func() {
			svc.createFn = func(ctx context.Context, username, email string) (*model.UserProfile, error) {
				return nil, service.ErrUsernameTaken
			}

			body, _ := json.Marshal(map[string]any{"username": "alice"})
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when the username is missing", func() {
			body, _ := json.Marshal(map[string]any{"email": "alice@example.com"})
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("returns 404 for an unknown user", func() {
			svc.getFn = func(ctx context.Context, userID string) (*model.UserProfile, error) {
				return nil, store.ErrNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/users/nobody", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 500 on store failure", func() {
			svc.getFn = func(ctx context.Context, userID string) (*model.UserProfile, error) {
				return nil, errors.New("disk on fire")
			}

			req := httptest.NewRequest(http.MethodGet, "/users/u-1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Reset", func() {
		It("passes the reset type through", func() {
			var gotType model.ResetType
			svc.resetFn = func(ctx context.Context, userID string, resetType model.ResetType) error {
				gotType = resetType
				return nil
			}

			body, _ := json.Marshal(map[string]any{"reset_type": "progress_only"})
			req := httptest.NewRequest(http.MethodPost, "/users/u-1/reset", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotType).To(Equal(model.ResetProgressOnly))
		})

		It("rejects an unknown reset type", func() {
			body, _ := json.Marshal(map[string]any{"reset_type": "everything"})
			req := httptest.NewRequest(http.MethodPost, "/users/u-1/reset", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 409 when refreshing without an active plan", func() {
			svc.resetFn = func(ctx context.Context, userID string, resetType model.ResetType) error {
				return service.ErrNoActivePlan
			}

			body, _ := json.Marshal(map[string]any{"reset_type": "refresh_current_plan"})
			req := httptest.NewRequest(http.MethodPost, "/users/u-1/reset", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("CreatePlan", func() {
		It("creates a plan of the requested type", func() {
			svc.createPlanFn = func(ctx context.Context, userID string, planType model.PlanType) (*model.LearningPlan, error) {
				Expect(planType).To(Equal(model.PlanFoundationBeginner))
				return &model.LearningPlan{PlanID: "p-1", PlanType: planType}, nil
			}

			body, _ := json.Marshal(map[string]any{"plan_type": "foundation_beginner"})
			req := httptest.NewRequest(http.MethodPost, "/users/u-1/plans", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["plan_id"]).To(Equal("p-1"))
		})
	})

	Describe("CurrentTopic", func() {
		It("returns 404 when no plan is active", func() {
			svc.currentTopicFn = func(ctx context.Context, userID string) (*service.CurrentTopicView, error) {
				return nil, service.ErrNoActivePlan
			}

			req := httptest.NewRequest(http.MethodGet, "/users/u-1/current-topic", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("CompleteTopic", func() {
		It("marks the topic as user-completed", func() {
			var gotTopic string
			var gotByUser bool
			svc.markTopicCompleteFn = func(ctx context.Context, userID, topicID string, markedByUser bool) (*model.LearningPlan, error) {
				gotTopic = topicID
				gotByUser = markedByUser
				return &model.LearningPlan{PlanID: "p-1"}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/users/u-1/topics/adm_phases/complete", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotTopic).To(Equal("adm_phases"))
			Expect(gotByUser).To(BeTrue())
		})

		It("returns 409 when prerequisites are unmet", func() {
			svc.markTopicCompleteFn = func(ctx context.Context, userID, topicID string, markedByUser bool) (*model.LearningPlan, error) {
				return nil, service.ErrPrerequisitesNotMet
			}

			req := httptest.NewRequest(http.MethodPost, "/users/u-1/topics/adm_phases/complete", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 404 when the topic is not in the plan", func() {
			svc.markTopicCompleteFn = func(ctx context.Context, userID, topicID string, markedByUser bool) (*model.LearningPlan, error) {
				return nil, service.ErrTopicNotInPlan
			}

			req := httptest.NewRequest(http.MethodPost, "/users/u-1/topics/bogus/complete", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("SkipTopic", func() {
		It("returns 409 when skipping is not allowed", func() {
			svc.skipTopicFn = func(ctx context.Context, userID, topicID string) (*model.LearningPlan, error) {
				return nil, service.ErrSkippingNotAllowed
			}

			req := httptest.NewRequest(http.MethodPost, "/users/u-1/topics/adm_phases/skip", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})
})
