package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/dto"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

type SessionHandler struct {
	sessions service.SessionService
}

func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := model.ModeLearning
	if req.Mode != "" {
		parsed, err := model.ParseConversationMode(req.Mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mode = parsed
	}

	session, err := h.sessions.Create(ctx, req.UserID, mode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to create session", "error", err, "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

func (h *SessionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *SessionHandler) AddMessage(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	var req dto.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.sessions.AddMessage(ctx, sessionID, model.MessageType(req.Type), req.Content)
	if err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *SessionHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	messages, err := h.sessions.History(ctx, sessionID, limit)
	if err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

func (h *SessionHandler) Pause(c *gin.Context) {
	h.transition(c, h.sessions.Pause)
}

func (h *SessionHandler) Resume(c *gin.Context) {
	h.transition(c, h.sessions.Resume)
}

func (h *SessionHandler) End(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	session, err := h.sessions.End(ctx, sessionID)
	if err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *SessionHandler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	stats, err := h.sessions.Statistics(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session statistics", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *SessionHandler) transition(c *gin.Context, fn func(ctx context.Context, sessionID string) error) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	if err := fn(ctx, sessionID); err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		h.respondSessionError(c, err, sessionID)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *SessionHandler) respondSessionError(c *gin.Context, err error, sessionID string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "session expired"})
	case errors.Is(err, service.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": "session not active"})
	case errors.Is(err, service.ErrSessionNotPaused):
		c.JSON(http.StatusConflict, gin.H{"error": "session not paused"})
	default:
		slog.ErrorContext(ctx, "session operation failed", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session operation failed"})
	}
}
