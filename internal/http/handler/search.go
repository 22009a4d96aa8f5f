package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/dto"
	"togaftutor.app/tutor/internal/search"
)

type SearchHandler struct {
	search *search.Service
}

func NewSearchHandler(search *search.Service) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.search.Search(ctx, req.ToQuery())
	if err != nil {
		slog.ErrorContext(ctx, "search failed", "error", err, "query", req.Text)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, dto.SearchResponse{Results: results, Count: len(results)})
}

func (h *SearchHandler) Suggestions(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, dto.SuggestionsResponse{
		Query:       query,
		Suggestions: search.Suggestions(query),
	})
}

func (h *SearchHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.search.Stats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load index stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load index stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": counts})
}
