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
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

var _ = Describe("SessionHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSessionService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockSessionService{}
		h := handler.NewSessionHandler(svc)
		router.POST("/sessions", h.Create)
		router.GET("/sessions/:sessionID", h.Get)
		router.POST("/sessions/:sessionID/messages", h.AddMessage)
		router.GET("/sessions/:sessionID/messages", h.History)
		router.POST("/sessions/:sessionID/pause", h.Pause)
		router.POST("/sessions/:sessionID/resume", h.Resume)
		router.POST("/sessions/:sessionID/end", h.End)
	})

	Describe("Create", func() {
		It("defaults to learning mode", func() {
			var gotMode model.ConversationMode
			svc.createFn = func(ctx context.Context, userID string, mode model.ConversationMode) (*model.ConversationSession, error) {
				gotMode = mode
				return &model.ConversationSession{SessionID: "s-1", UserID: userID, Mode: mode, State: model.SessionActive}, nil
			}

			body, _ := json.Marshal(map[string]any{"user_id": "u-1"})
			req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(gotMode).To(Equal(model.ModeLearning))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["session_id"]).To(Equal("s-1"))
		})

		It("honours an explicit mode", func() {
			var gotMode model.ConversationMode
			svc.createFn = func(ctx context.Context, userID string, mode model.ConversationMode) (*model.ConversationSession, error) {
				gotMode = mode
				return &model.ConversationSession{SessionID: "s-1", Mode: mode}, nil
			}

			body, _ := json.Marshal(map[string]any{"user_id": "u-1", "mode": "exam_prep"})
			req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(gotMode).To(Equal(model.ModeExamPrep))
		})

		It("rejects an unknown mode", func() {
			body, _ := json.Marshal(map[string]any{"user_id": "u-1", "mode": "cramming"})
			req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the user does not exist", func() {
			svc.createFn = func(ctx context.Context, userID string, mode model.ConversationMode) (*model.ConversationSession, error) {
				return nil, store.ErrNotFound
			}

			body, _ := json.Marshal(map[string]any{"user_id": "nobody"})
			req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Get", func() {
		It("returns 410 for an expired session", func() {
			svc.getFn = func(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
				return nil, service.ErrSessionExpired
			}

			req := httptest.NewRequest(http.MethodGet, "/sessions/s-1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusGone))
		})
	})

	Describe("AddMessage", func() {
		It("records the message", func() {
			var gotType model.MessageType
			svc.addMessageFn = func(ctx context.Context, sessionID string, msgType model.MessageType, content string) (*model.ConversationMessage, error) {
				gotType = msgType
				return &model.ConversationMessage{MessageID: 1, MessageType: msgType, Content: content}, nil
			}

			body, _ := json.Marshal(map[string]any{"type": "user_question", "content": "what is the ADM?"})
			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(gotType).To(Equal(model.MessageUserQuestion))
		})

		It("returns 409 when the session is paused", func() {
			svc.addMessageFn = func(ctx context.Context, sessionID string, msgType model.MessageType, content string) (*model.ConversationMessage, error) {
				return nil, service.ErrSessionNotActive
			}

			body, _ := json.Marshal(map[string]any{"type": "user_question", "content": "hello"})
			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("rejects an unknown message type", func() {
			body, _ := json.Marshal(map[string]any{"type": "telegram", "content": "hello"})
			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("History", func() {
		It("passes the limit through and wraps the result", func() {
			var gotLimit int
			svc.historyFn = func(ctx context.Context, sessionID string, limit int) ([]model.ConversationMessage, error) {
				gotLimit = limit
				return []model.ConversationMessage{{MessageID: 1}, {MessageID: 2}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/sessions/s-1/messages?limit=2", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(2))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeEquivalentTo(2))
		})

		It("rejects a negative limit", func() {
			req := httptest.NewRequest(http.MethodGet, "/sessions/s-1/messages?limit=-1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Pause and Resume", func() {
		It("returns the refreshed session after pausing", func() {
			svc.pauseFn = func(ctx context.Context, sessionID string) error { return nil }
			svc.getFn = func(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
				return &model.ConversationSession{SessionID: sessionID, State: model.SessionPaused}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/pause", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["state"]).To(Equal(string(model.SessionPaused)))
		})

		It("returns 409 when resuming a session that is not paused", func() {
			svc.resumeFn = func(ctx context.Context, sessionID string) error {
				return service.ErrSessionNotPaused
			}

			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/resume", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("End", func() {
		It("returns the ended session", func() {
			svc.endFn = func(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
				return &model.ConversationSession{SessionID: sessionID, State: model.SessionCompleted}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/end", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["state"]).To(Equal(string(model.SessionCompleted)))
		})
	})
})
