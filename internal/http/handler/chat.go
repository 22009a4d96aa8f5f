package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/dto"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
	"togaftutor.app/tutor/internal/tutor"
)

// TutorAgent is the generation surface the chat endpoints depend on.
// Implemented by tutor.Agent.
type TutorAgent interface {
	Respond(ctx context.Context, userID, sessionID, query string) (*tutor.Response, error)
	Explain(ctx context.Context, userID, sessionID, concept, detailLevel string) (*tutor.Response, error)
	ExamQuestion(ctx context.Context, userID, topicID string, difficulty model.DifficultyLevel) (*tutor.ExamQuestion, error)
}

type ChatHandler struct {
	agent    TutorAgent
	sessions service.SessionService
}

func NewChatHandler(agent TutorAgent, sessions service.SessionService) *ChatHandler {
	return &ChatHandler{agent: agent, sessions: sessions}
}

// Message runs one tutoring turn: the user message is appended to the
// session, the agent generates an adapted response, and the response is
// appended back so history stays complete.
func (h *ChatHandler) Message(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.sessions.AddMessage(ctx, req.SessionID, model.MessageUserQuestion, req.Message); err != nil {
		h.respondChatError(c, err)
		return
	}

	response, err := h.agent.Respond(ctx, req.UserID, req.SessionID, req.Message)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	if _, err := h.sessions.AddMessage(ctx, req.SessionID, model.MessageAgentResponse, response.Content); err != nil {
		// Response was generated; history write failure shouldn't discard it
		slog.WarnContext(ctx, "failed to record agent response", "error", err, "session_id", req.SessionID)
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) Explain(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.agent.Explain(ctx, req.UserID, req.SessionID, req.Concept, req.DetailLevel)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) ExamQuestion(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExamQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.agent.ExamQuestion(ctx, req.UserID, req.TopicID, model.DifficultyLevel(req.Difficulty))
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *ChatHandler) respondChatError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user or session not found"})
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "session expired"})
	case errors.Is(err, service.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": "session not active"})
	default:
		slog.ErrorContext(ctx, "tutoring request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate response"})
	}
}
