package dto

import (
	"time"

	"togaftutor.app/tutor/internal/model"
)

type CreateSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Mode   string `json:"mode" binding:"omitempty,oneof=learning exam_prep q_and_a assessment review"`
}

type SessionResponse struct {
	SessionID      string                 `json:"session_id"`
	UserID         string                 `json:"user_id"`
	State          model.SessionState     `json:"state"`
	Mode           model.ConversationMode `json:"conversation_mode"`
	CurrentTopic   string                 `json:"current_topic,omitempty"`
	TotalMessages  int                    `json:"total_messages"`
	UserQuestions  int                    `json:"user_questions"`
	AgentResponses int                    `json:"agent_responses"`
	CreatedAt      time.Time              `json:"created_at"`
	LastActivity   time.Time              `json:"last_activity"`
	ExpiresAt      time.Time              `json:"expires_at"`
}

func ToSessionResponse(s *model.ConversationSession) *SessionResponse {
	return &SessionResponse{
		SessionID:      s.SessionID,
		UserID:         s.UserID,
		State:          s.State,
		Mode:           s.Mode,
		CurrentTopic:   s.Context.CurrentTopic,
		TotalMessages:  s.TotalMessages,
		UserQuestions:  s.UserQuestions,
		AgentResponses: s.AgentResponses,
		CreatedAt:      s.CreatedAt,
		LastActivity:   s.LastActivity,
		ExpiresAt:      s.ExpiresAt,
	}
}

type AddMessageRequest struct {
	Type    string `json:"type" binding:"required,oneof=user_question agent_response system_notification"`
	Content string `json:"content" binding:"required,min=1"`
}
