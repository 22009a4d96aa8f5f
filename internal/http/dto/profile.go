package dto

import (
	"time"

	"togaftutor.app/tutor/internal/model"
)

type CreateProfileRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
}

type ProfileResponse struct {
	UserID              string                        `json:"user_id"`
	Username            string                        `json:"username"`
	Email               string                        `json:"email,omitempty"`
	ExperienceLevel     model.ExperienceLevel         `json:"experience_level"`
	TargetCertification model.CertificationLevel      `json:"target_certification,omitempty"`
	OverallProficiency  float64                       `json:"overall_proficiency"`
	ProficiencyScores   map[string]float64            `json:"proficiency_scores"`
	ActivePlanID        string                        `json:"active_plan_id,omitempty"`
	Preferences         model.ConversationPreferences `json:"conversation_preferences"`
	TotalStudyMinutes   int                           `json:"total_study_time_minutes"`
	SessionsCompleted   int                           `json:"sessions_completed"`
	StreakDays          int                           `json:"streak_days"`
	CreatedAt           time.Time                     `json:"created_at"`
	UpdatedAt           time.Time                     `json:"updated_at"`
}

func ToProfileResponse(p *model.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		UserID:              p.UserID,
		Username:            p.Username,
		Email:               p.Email,
		ExperienceLevel:     p.ExperienceLevel,
		TargetCertification: p.TargetCertification,
		OverallProficiency:  p.OverallProficiency,
		ProficiencyScores:   p.ProficiencyScores,
		ActivePlanID:        p.ActivePlanID,
		Preferences:         p.Preferences,
		TotalStudyMinutes:   p.TotalStudyMinutes,
		SessionsCompleted:   p.SessionsCompleted,
		StreakDays:          p.StreakDays,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type UpdateProficiencyRequest struct {
	TopicID string  `json:"topic_id" binding:"required"`
	Score   float64 `json:"score" binding:"min=0,max=1"`
}

type ResetProfileRequest struct {
	ResetType string `json:"reset_type" binding:"required,oneof=progress_only learning_plans full_reset refresh_current_plan"`
}

type CreatePlanRequest struct {
	PlanType string `json:"plan_type" binding:"required,oneof=foundation_beginner foundation_review practitioner_prep extended_practitioner"`
}
