package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"togaftutor.app/tutor/common/id"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/store"
)

const sessionLifetime = 4 * time.Hour

var (
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionNotActive = errors.New("session not active")
	ErrSessionNotPaused = errors.New("session not paused")
)

// togafTopics are the keywords scanned on every message to track which
// topics a conversation has touched.
var togafTopics = []string{
	"adm", "preliminary", "architecture", "business", "data",
	"application", "technology", "governance", "implementation", "migration",
}

// confusionKeywords flag a message as a comprehension problem with the
// current topic.
var confusionKeywords = []string{
	"confused", "don't understand", "unclear", "complicated", "difficult",
}

// experienceDifficulty maps a user's experience level to the session's
// starting difficulty.
var experienceDifficulty = map[model.ExperienceLevel]string{
	model.ExperienceBeginner:     "basic",
	model.ExperienceIntermediate: "moderate",
	model.ExperienceAdvanced:     "challenging",
	model.ExperienceExpert:       "advanced",
}

// SessionStatistics summarizes a user's conversation history.
type SessionStatistics struct {
	TotalSessions             int            `json:"total_sessions"`
	TotalMessages             int            `json:"total_messages"`
	AverageMessagesPerSession float64        `json:"average_messages_per_session"`
	TotalTopicsDiscussed      int            `json:"total_topics_discussed"`
	ModeDistribution          map[string]int `json:"conversation_mode_distribution"`
	MostUsedMode              string         `json:"most_used_mode,omitempty"`
}

// SessionRecorder receives finished sessions for analytics. Implemented
// by ProgressService.
type SessionRecorder interface {
	RecordSession(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error)
}

type SessionService interface {
	Create(ctx context.Context, userID string, mode model.ConversationMode) (*model.ConversationSession, error)
	Get(ctx context.Context, sessionID string) (*model.ConversationSession, error)
	AddMessage(ctx context.Context, sessionID string, msgType model.MessageType, content string) (*model.ConversationMessage, error)
	History(ctx context.Context, sessionID string, limit int) ([]model.ConversationMessage, error)
	Pause(ctx context.Context, sessionID string) error
	Resume(ctx context.Context, sessionID string) error
	End(ctx context.Context, sessionID string) (*model.ConversationSession, error)
	CleanupExpired(ctx context.Context) (int, error)
	Statistics(ctx context.Context, userID string) (*SessionStatistics, error)
}

type sessionService struct {
	sessions store.SessionStore
	profiles store.ProfileStore
	recorder SessionRecorder
}

// NewSessionService creates the session manager. recorder may be nil;
// ended sessions are then not fed into analytics.
func NewSessionService(sessions store.SessionStore, profiles store.ProfileStore, recorder SessionRecorder) SessionService {
	return &sessionService{sessions: sessions, profiles: profiles, recorder: recorder}
}

func (s *sessionService) Create(ctx context.Context, userID string, mode model.ConversationMode) (*model.ConversationSession, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.ConversationSession{
		SessionID:    uuid.NewString(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(sessionLifetime),
		State:        model.SessionActive,
		Mode:         mode,
		Context:      seedContext(profile),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	slog.InfoContext(ctx, "session created",
		"session_id", session.SessionID,
		"user_id", userID,
		"mode", mode,
	)
	return session, nil
}

// seedContext initializes the conversation context from the profile:
// target certification, difficulty from experience level, explanation
// preferences, and the active plan's current topic when one exists.
func seedContext(profile *model.UserProfile) model.ConversationContext {
	cctx := model.ConversationContext{
		CertificationLevel: profile.TargetCertification,
		DifficultyLevel:    "moderate",
		ExplanationDepth:   profile.Preferences.ExplanationDepth,
		UseExamples:        profile.Preferences.UseExamples,
	}
	if cctx.CertificationLevel == "" {
		cctx.CertificationLevel = model.CertificationFoundation
	}
	if difficulty, ok := experienceDifficulty[profile.ExperienceLevel]; ok {
		cctx.DifficultyLevel = difficulty
	}
	if plan := profile.ActivePlan(); plan != nil {
		if topic := plan.CurrentTopic(); topic != nil {
			cctx.CurrentTopic = topic.TopicID
		}
	}
	return cctx
}

// Get loads a session, expiring it on access when past its deadline.
func (s *sessionService) Get(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.State != model.SessionCompleted && session.State != model.SessionExpired &&
		session.IsExpired(time.Now().UTC()) {
		session.State = model.SessionExpired
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("expiring session: %w", err)
		}
		return nil, ErrSessionExpired
	}
	if session.State == model.SessionExpired {
		return nil, ErrSessionExpired
	}

	return session, nil
}

func (s *sessionService) AddMessage(ctx context.Context, sessionID string, msgType model.MessageType, content string) (*model.ConversationMessage, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.SessionActive {
		return nil, ErrSessionNotActive
	}

	now := time.Now().UTC()
	message := model.ConversationMessage{
		MessageID:    id.New(),
		Timestamp:    now,
		MessageType:  msgType,
		Content:      content,
		TopicContext: session.Context.CurrentTopic,
	}

	session.Messages = append(session.Messages, message)
	session.TotalMessages++
	session.LastActivity = now

	switch msgType {
	case model.MessageUserQuestion:
		session.UserQuestions++
	case model.MessageAgentResponse:
		session.AgentResponses++
	}

	updateContextFromMessage(session, message)

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &message, nil
}

// updateContextFromMessage runs keyword topic detection on the message
// and records confusion indicators on user questions.
func updateContextFromMessage(session *model.ConversationSession, message model.ConversationMessage) {
	content := strings.ToLower(message.Content)

	for _, topic := range togafTopics {
		if strings.Contains(content, topic) && !containsString(session.Context.TopicsDiscussed, topic) {
			session.Context.TopicsDiscussed = append(session.Context.TopicsDiscussed, topic)
		}
	}

	if message.MessageType != model.MessageUserQuestion {
		return
	}
	for _, keyword := range confusionKeywords {
		if strings.Contains(content, keyword) {
			if message.TopicContext != "" && !containsString(session.Context.ConfusionIndicators, message.TopicContext) {
				session.Context.ConfusionIndicators = append(session.Context.ConfusionIndicators, message.TopicContext)
			}
			break
		}
	}
}

// History returns the most recent messages. A non-positive limit falls
// back to the conversation mode's context window.
func (s *sessionService) History(ctx context.Context, sessionID string, limit int) ([]model.ConversationMessage, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = session.Mode.ContextWindow()
	}
	if len(session.Messages) > limit {
		return session.Messages[len(session.Messages)-limit:], nil
	}
	return session.Messages, nil
}

func (s *sessionService) Pause(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.State != model.SessionActive {
		return ErrSessionNotActive
	}

	session.State = model.SessionPaused
	session.LastActivity = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *sessionService) Resume(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.State != model.SessionPaused {
		return ErrSessionNotPaused
	}

	session.State = model.SessionActive
	session.LastActivity = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.State = model.SessionCompleted
	session.LastActivity = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	if s.recorder != nil {
		if _, err := s.recorder.RecordSession(ctx, session); err != nil {
			// Analytics must not block ending the conversation.
			slog.WarnContext(ctx, "failed to record learning session",
				"error", err,
				"session_id", sessionID,
			)
		}
	}

	slog.InfoContext(ctx, "session ended",
		"session_id", sessionID,
		"user_id", session.UserID,
		"messages", session.TotalMessages,
	)
	return session, nil
}

// CleanupExpired marks every active or paused session past its deadline
// as expired and returns the count.
func (s *sessionService) CleanupExpired(ctx context.Context) (int, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing sessions: %w", err)
	}

	now := time.Now().UTC()
	expired := 0
	for _, session := range sessions {
		if session.State != model.SessionActive && session.State != model.SessionPaused {
			continue
		}
		if !session.IsExpired(now) {
			continue
		}
		session.State = model.SessionExpired
		if err := s.sessions.Save(ctx, session); err != nil {
			return expired, fmt.Errorf("expiring session %s: %w", session.SessionID, err)
		}
		expired++
	}

	if expired > 0 {
		slog.InfoContext(ctx, "expired sessions cleaned up", "count", expired)
	}
	return expired, nil
}

func (s *sessionService) Statistics(ctx context.Context, userID string) (*SessionStatistics, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	stats := &SessionStatistics{ModeDistribution: map[string]int{}}
	for _, session := range sessions {
		stats.TotalSessions++
		stats.TotalMessages += session.TotalMessages
		stats.TotalTopicsDiscussed += len(session.Context.TopicsDiscussed)
		stats.ModeDistribution[string(session.Mode)]++
	}
	if stats.TotalSessions > 0 {
		stats.AverageMessagesPerSession = float64(stats.TotalMessages) / float64(stats.TotalSessions)
	}

	modes := make([]string, 0, len(stats.ModeDistribution))
	for mode := range stats.ModeDistribution {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool {
		if stats.ModeDistribution[modes[i]] != stats.ModeDistribution[modes[j]] {
			return stats.ModeDistribution[modes[i]] > stats.ModeDistribution[modes[j]]
		}
		return modes[i] < modes[j]
	})
	if len(modes) > 0 {
		stats.MostUsedMode = modes[0]
	}

	return stats, nil
}
