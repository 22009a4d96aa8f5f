package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"togaftutor.app/tutor/common/id"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/store"
)

const (
	// baseTopicMinutes is the default study estimate before the
	// experience multiplier is applied.
	baseTopicMinutes = 45

	// gapThreshold marks a topic as a knowledge gap when its
	// proficiency score falls below it.
	gapThreshold = 0.7
)

// Recommendation priorities by source; gap priority is derived from the
// gap size instead.
const (
	priorityStructuredPlan = 0.8
	priorityAdaptive       = 0.6
)

type ProgressService interface {
	// RecordSession derives a learning-session record from a finished
	// conversation, persists it and folds duration/streak counters into
	// the profile.
	RecordSession(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error)

	Analytics(ctx context.Context, userID string) (*model.ProgressAnalytics, error)
	Recommendations(ctx context.Context, userID string, count int) ([]model.TopicRecommendation, error)
	History(ctx context.Context, userID string) ([]model.LearningSession, error)
}

type progressService struct {
	profiles store.ProfileStore
	records  store.LearningSessionStore
}

func NewProgressService(profiles store.ProfileStore, records store.LearningSessionStore) ProgressService {
	return &progressService{profiles: profiles, records: records}
}

func (s *progressService) RecordSession(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error) {
	profile, err := s.profiles.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	end := session.LastActivity
	record := model.LearningSession{
		SessionID:          id.New(),
		UserID:             session.UserID,
		StartTime:          session.CreatedAt,
		EndTime:            &end,
		DurationMinutes:    int(end.Sub(session.CreatedAt).Minutes()),
		TopicsCovered:      append([]string(nil), session.Context.TopicsDiscussed...),
		QuestionsAsked:     session.UserQuestions,
		EngagementScore:    engagementScore(session),
		ComprehensionScore: comprehensionScore(session),
	}

	if err := s.records.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("recording learning session: %w", err)
	}

	applySessionToProfile(profile, record)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	slog.InfoContext(ctx, "learning session recorded",
		"user_id", session.UserID,
		"duration_minutes", record.DurationMinutes,
		"topics", len(record.TopicsCovered),
		"engagement", record.EngagementScore,
	)
	return &record, nil
}

// engagementScore starts at 0.5 and rewards questions and topic breadth,
// capped at 1.0.
func engagementScore(session *model.ConversationSession) float64 {
	score := 0.5
	if session.UserQuestions > 0 {
		score += min(0.3, float64(session.UserQuestions)*0.1)
	}
	if n := len(session.Context.TopicsDiscussed); n > 0 {
		score += min(0.2, float64(n)*0.05)
	}
	return min(1.0, score)
}

// comprehensionScore starts at the 0.7 default and deducts for each
// confusion indicator detected during the conversation, floored at 0.2.
func comprehensionScore(session *model.ConversationSession) float64 {
	score := 0.7 - float64(len(session.Context.ConfusionIndicators))*0.1
	return max(0.2, score)
}

func applySessionToProfile(profile *model.UserProfile, record model.LearningSession) {
	profile.TotalStudyMinutes += record.DurationMinutes
	profile.SessionsCompleted++

	today := record.StartTime.Truncate(24 * time.Hour)
	switch {
	case profile.LastStudyDate == nil:
		profile.StreakDays = 1
	case today.Sub(profile.LastStudyDate.Truncate(24*time.Hour)) == 24*time.Hour:
		profile.StreakDays++
	case today.Equal(profile.LastStudyDate.Truncate(24 * time.Hour)):
		// Same day, streak unchanged.
	default:
		profile.StreakDays = 1
	}
	profile.LastStudyDate = &today
	profile.UpdatedAt = time.Now().UTC()
}

func (s *progressService) Analytics(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return computeAnalytics(profile), nil
}

func computeAnalytics(profile *model.UserProfile) *model.ProgressAnalytics {
	analytics := &model.ProgressAnalytics{
		UserID:           profile.UserID,
		AnalyzedAt:       time.Now().UTC(),
		LearningVelocity: 1.0,
		KnowledgeGaps:    map[string]float64{},
	}

	if len(profile.TopicProgress) > 0 {
		var total float64
		for _, tp := range profile.TopicProgress {
			total += tp.CompletionPercentage
		}
		analytics.OverallCompletion = total / float64(len(profile.TopicProgress))
	}

	analytics.StudyConsistency = min(1.0, float64(profile.StreakDays)/30.0)

	if profile.TotalStudyMinutes > 0 {
		hours := float64(profile.TotalStudyMinutes) / 60.0
		analytics.LearningVelocity = float64(len(profile.TopicProgress)) / hours
	}

	var quizTotal float64
	quizCount := 0
	for _, tp := range profile.TopicProgress {
		for _, score := range tp.QuizScores {
			quizTotal += score
			quizCount++
		}
	}
	if quizCount > 0 {
		analytics.RetentionRate = quizTotal / (float64(quizCount) * 100.0)
	}

	analytics.FoundationReadiness = readiness(profile, model.CertificationFoundation)
	analytics.PractitionerReadiness = readiness(profile, model.CertificationPractitioner)

	for _, tp := range profile.TopicProgress {
		if tp.ProficiencyScore < gapThreshold {
			analytics.KnowledgeGaps[tp.TopicID] = 1.0 - tp.ProficiencyScore
		}
	}
	analytics.ImprovementFocus = topGaps(analytics.KnowledgeGaps, 5)

	return analytics
}

func readiness(profile *model.UserProfile, level model.CertificationLevel) float64 {
	var total float64
	count := 0
	for _, tp := range profile.TopicProgress {
		if tp.CertificationLevel == level {
			total += tp.ProficiencyScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// topGaps returns up to n topic IDs sorted by gap size descending.
// Ties break on topic ID so the ordering is stable.
func topGaps(gaps map[string]float64, n int) []string {
	ids := make([]string, 0, len(gaps))
	for id := range gaps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if gaps[ids[i]] != gaps[ids[j]] {
			return gaps[ids[i]] > gaps[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func (s *progressService) Recommendations(ctx context.Context, userID string, count int) ([]model.TopicRecommendation, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	analytics := computeAnalytics(profile)

	var recs []model.TopicRecommendation
	seen := map[string]bool{}
	add := func(rec model.TopicRecommendation) {
		if !seen[rec.TopicID] {
			seen[rec.TopicID] = true
			recs = append(recs, rec)
		}
	}

	for _, topicID := range limitStrings(analytics.ImprovementFocus, 2) {
		gap := analytics.KnowledgeGaps[topicID]
		add(model.TopicRecommendation{
			TopicID:         topicID,
			Priority:        1.0 - gap,
			Reason:          "knowledge_gap",
			DurationMinutes: estimateTopicDuration(profile.ExperienceLevel),
		})
	}

	if plan := profile.ActivePlan(); plan != nil {
		if topic := plan.CurrentTopic(); topic != nil {
			add(model.TopicRecommendation{
				TopicID:         topic.TopicID,
				Priority:        priorityStructuredPlan,
				Reason:          "structured_plan",
				DurationMinutes: topic.DurationMinutes,
			})
		}
	}

	for _, topicID := range adaptiveSuggestions(profile, analytics) {
		add(model.TopicRecommendation{
			TopicID:         topicID,
			Priority:        priorityAdaptive,
			Reason:          "adaptive_suggestion",
			DurationMinutes: estimateTopicDuration(profile.ExperienceLevel),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority > recs[j].Priority })
	if count > 0 && len(recs) > count {
		recs = recs[:count]
	}
	return recs, nil
}

// adaptiveSuggestions proposes up to five topics: the two largest gaps
// first, then uncompleted topics from the foundation fundamentals when
// the user is working toward Foundation.
func adaptiveSuggestions(profile *model.UserProfile, analytics *model.ProgressAnalytics) []string {
	suggestions := limitStrings(analytics.ImprovementFocus, 2)

	if profile.TargetCertification == model.CertificationFoundation || profile.TargetCertification == "" {
		fundamentals := []string{"adm_overview", "preliminary_phase", "phase_a_vision", "business_architecture", "data_architecture"}

		completed := map[string]bool{}
		for _, tp := range profile.TopicProgress {
			if tp.CompletionPercentage >= 100 {
				completed[tp.TopicID] = true
			}
		}

		for _, topicID := range fundamentals {
			if len(suggestions) >= 5 {
				break
			}
			if !completed[topicID] && !containsString(suggestions, topicID) {
				suggestions = append(suggestions, topicID)
			}
		}
	}

	return suggestions
}

func estimateTopicDuration(level model.ExperienceLevel) int {
	multiplier := 1.0
	switch level {
	case model.ExperienceBeginner:
		multiplier = 1.3
	case model.ExperienceAdvanced:
		multiplier = 0.8
	case model.ExperienceExpert:
		multiplier = 0.6
	}
	return int(baseTopicMinutes * multiplier)
}

func (s *progressService) History(ctx context.Context, userID string) ([]model.LearningSession, error) {
	return s.records.ListByUser(ctx, userID)
}

func limitStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func containsString(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
