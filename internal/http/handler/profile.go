package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/dto"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

type ProfileHandler struct {
	profiles service.ProfileService
}

func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Create(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		slog.ErrorContext(ctx, "failed to create profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	if err := h.profiles.Delete(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "failed to delete profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete profile"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) Reset(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	var req dto.ResetProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profiles.Reset(ctx, userID, model.ResetType(req.ResetType)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, service.ErrNoActivePlan) {
			c.JSON(http.StatusConflict, gin.H{"error": "user has no active learning plan"})
			return
		}
		slog.ErrorContext(ctx, "failed to reset profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset", "reset_type": req.ResetType})
}

func (h *ProfileHandler) UpdateProficiency(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	var req dto.UpdateProficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.UpdateProficiency(ctx, userID, req.TopicID, req.Score)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to update proficiency", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update proficiency"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) CreatePlan(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.profiles.CreatePlan(ctx, userID, model.PlanType(req.PlanType))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to create plan", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *ProfileHandler) PlanOverview(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")
	planID := c.Param("planID")

	overview, err := h.profiles.PlanOverview(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user or plan not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load plan overview", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *ProfileHandler) CurrentTopic(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	view, err := h.profiles.CurrentTopic(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, service.ErrNoActivePlan) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user has no active learning plan"})
			return
		}
		slog.ErrorContext(ctx, "failed to load current topic", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load current topic"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) CompleteTopic(c *gin.Context) {
	h.transitionTopic(c, func(ctx *gin.Context, userID, topicID string) (*model.LearningPlan, error) {
		return h.profiles.MarkTopicComplete(ctx.Request.Context(), userID, topicID, true)
	})
}

func (h *ProfileHandler) SkipTopic(c *gin.Context) {
	h.transitionTopic(c, func(ctx *gin.Context, userID, topicID string) (*model.LearningPlan, error) {
		return h.profiles.SkipTopic(ctx.Request.Context(), userID, topicID)
	})
}

func (h *ProfileHandler) transitionTopic(c *gin.Context, transition func(*gin.Context, string, string) (*model.LearningPlan, error)) {
	ctx := c.Request.Context()
	userID := c.Param("userID")
	topicID := c.Param("topicID")

	plan, err := transition(c, userID, topicID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrNoActivePlan):
			c.JSON(http.StatusNotFound, gin.H{"error": "user has no active learning plan"})
		case errors.Is(err, service.ErrTopicNotInPlan):
			c.JSON(http.StatusNotFound, gin.H{"error": "topic not in learning plan"})
		case errors.Is(err, service.ErrPrerequisitesNotMet):
			c.JSON(http.StatusConflict, gin.H{"error": "topic prerequisites not completed"})
		case errors.Is(err, service.ErrSkippingNotAllowed):
			c.JSON(http.StatusConflict, gin.H{"error": "plan does not allow skipping topics"})
		default:
			slog.ErrorContext(ctx, "failed to transition topic", "error", err, "user_id", userID, "topic_id", topicID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update topic"})
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}
