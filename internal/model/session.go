package model

import (
	"fmt"
	"time"
)

type SessionState string

const (
	SessionActive    SessionState = "active"
	SessionPaused    SessionState = "paused"
	SessionCompleted SessionState = "completed"
	SessionExpired   SessionState = "expired"
)

type ConversationMode string

const (
	ModeLearning   ConversationMode = "learning"
	ModeExamPrep   ConversationMode = "exam_prep"
	ModeQA         ConversationMode = "q_and_a"
	ModeAssessment ConversationMode = "assessment"
	ModeReview     ConversationMode = "review"
)

// ParseConversationMode validates a mode string before any state is mutated.
func ParseConversationMode(s string) (ConversationMode, error) {
	switch ConversationMode(s) {
	case ModeLearning, ModeExamPrep, ModeQA, ModeAssessment, ModeReview:
		return ConversationMode(s), nil
	}
	return "", fmt.Errorf("unknown conversation mode %q", s)
}

// ContextWindow returns the number of messages included in history queries
// for this mode. Bounds the prompt size sent to the LLM per mode.
func (m ConversationMode) ContextWindow() int {
	switch m {
	case ModeLearning:
		return 20
	case ModeExamPrep:
		return 15
	case ModeQA:
		return 10
	case ModeAssessment:
		return 5
	case ModeReview:
		return 25
	default:
		return 10
	}
}

type MessageType string

const (
	MessageUserQuestion  MessageType = "user_question"
	MessageAgentResponse MessageType = "agent_response"
	MessageSystem        MessageType = "system_notification"
)

// ConversationMessage is one ordered entry in a session transcript.
// IDs are snowflakes so per-session ordering survives serialization.
type ConversationMessage struct {
	MessageID    int64       `json:"message_id,string"`
	Timestamp    time.Time   `json:"timestamp"`
	MessageType  MessageType `json:"message_type"`
	Content      string      `json:"content"`
	TopicContext string      `json:"topic_context,omitempty"`
}

// ConversationContext is the tutor's working memory for a session.
type ConversationContext struct {
	CurrentTopic        string             `json:"current_topic,omitempty"`
	CertificationLevel  CertificationLevel `json:"certification_level,omitempty"`
	TopicsDiscussed     []string           `json:"topics_discussed,omitempty"`
	ConfusionIndicators []string           `json:"confusion_indicators,omitempty"`
	DifficultyLevel     string             `json:"difficulty_level"` // basic | moderate | challenging | advanced
	ExplanationDepth    string             `json:"explanation_depth"`
	UseExamples         bool               `json:"use_examples"`
}

// ConversationSession is a bounded-lifetime conversation. Expiry is a
// wall-clock check performed on every access, not a background sweep.
type ConversationSession struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`

	State SessionState     `json:"state"`
	Mode  ConversationMode `json:"conversation_mode"`

	Messages []ConversationMessage `json:"messages"`
	Context  ConversationContext   `json:"context"`

	TotalMessages  int `json:"total_messages"`
	UserQuestions  int `json:"user_questions"`
	AgentResponses int `json:"agent_responses"`
}

// IsExpired reports whether the session has passed its expiry deadline.
func (s *ConversationSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
