package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

type ProgressHandler struct {
	progress service.ProgressService
}

func NewProgressHandler(progress service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	analytics, err := h.progress.Analytics(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to compute analytics", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics)
}

func (h *ProgressHandler) Recommendations(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	count := 5
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 20"})
			return
		}
		count = parsed
	}

	recommendations, err := h.progress.Recommendations(ctx, userID, count)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to compute recommendations", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations, "count": len(recommendations)})
}

func (h *ProgressHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	history, err := h.progress.History(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load learning history", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": history, "count": len(history)})
}
