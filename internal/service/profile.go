package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/store"
)

var (
	ErrUsernameTaken       = errors.New("username already taken")
	ErrNoActivePlan        = errors.New("user has no active learning plan")
	ErrTopicNotInPlan      = errors.New("topic not in learning plan")
	ErrPrerequisitesNotMet = errors.New("topic prerequisites not completed")
	ErrSkippingNotAllowed  = errors.New("plan does not allow skipping topics")
)

// CurrentTopicView describes the topic the active plan cursor points at.
type CurrentTopicView struct {
	PlanID               string            `json:"plan_id"`
	Topic                model.PlanTopic   `json:"topic"`
	CurrentIndex         int               `json:"current_index"`
	TotalTopics          int               `json:"total_topics"`
	CompletionPercentage float64           `json:"completion_percentage"`
	CanProceed           bool              `json:"can_proceed"`
	NextAvailable        []model.PlanTopic `json:"next_available_topics"`
}

// PlanOverview groups a plan's topics by their effective status.
// "available" means not started with prerequisites satisfied; "locked"
// means blocked by unmet prerequisites.
type PlanOverview struct {
	Plan             *model.LearningPlan          `json:"plan"`
	TopicsByStatus   map[string][]model.PlanTopic `json:"topics_by_status"`
	RemainingMinutes int                          `json:"estimated_time_remaining_minutes"`
}

type ProfileService interface {
	Create(ctx context.Context, username, email string) (*model.UserProfile, error)
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	Delete(ctx context.Context, userID string) error

	CreatePlan(ctx context.Context, userID string, planType model.PlanType) (*model.LearningPlan, error)
	MarkTopicComplete(ctx context.Context, userID, topicID string, markedByUser bool) (*model.LearningPlan, error)
	SkipTopic(ctx context.Context, userID, topicID string) (*model.LearningPlan, error)
	CurrentTopic(ctx context.Context, userID string) (*CurrentTopicView, error)
	PlanOverview(ctx context.Context, userID, planID string) (*PlanOverview, error)

	UpdateProficiency(ctx context.Context, userID, topicID string, score float64) (*model.UserProfile, error)
	Reset(ctx context.Context, userID string, resetType model.ResetType) error
}

type profileService struct {
	profiles store.ProfileStore
}

func NewProfileService(profiles store.ProfileStore) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Create(ctx context.Context, username, email string) (*model.UserProfile, error) {
	taken, err := s.usernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	now := time.Now().UTC()
	profile := &model.UserProfile{
		UserID:            uuid.NewString(),
		Username:          username,
		Email:             email,
		CreatedAt:         now,
		UpdatedAt:         now,
		ExperienceLevel:   model.ExperienceBeginner,
		ProficiencyScores: map[string]float64{},
		LearningPlans:     map[string]*model.LearningPlan{},
		TopicProgress:     map[string]*model.TopicProgress{},
		Preferences:       model.DefaultConversationPreferences(),
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		slog.ErrorContext(ctx, "failed to create profile", "error", err, "username", username)
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	slog.InfoContext(ctx, "profile created", "user_id", profile.UserID, "username", username)
	return profile, nil
}

func (s *profileService) usernameTaken(ctx context.Context, username string) (bool, error) {
	ids, err := s.profiles.ListUserIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("listing profiles: %w", err)
	}
	for _, id := range ids {
		existing, err := s.profiles.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return false, fmt.Errorf("reading profile %s: %w", id, err)
		}
		if existing.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *profileService) Delete(ctx context.Context, userID string) error {
	return s.profiles.Delete(ctx, userID)
}

func (s *profileService) CreatePlan(ctx context.Context, userID string, planType model.PlanType) (*model.LearningPlan, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := NewPlanFromTemplate(planType, profile.ExperienceLevel)
	if err != nil {
		return nil, err
	}

	profile.LearningPlans[plan.PlanID] = plan
	if profile.ActivePlanID == "" {
		profile.ActivePlanID = plan.PlanID
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	slog.InfoContext(ctx, "learning plan created",
		"user_id", userID,
		"plan_id", plan.PlanID,
		"plan_type", planType,
		"topics", len(plan.Topics),
	)
	return plan, nil
}

func (s *profileService) MarkTopicComplete(ctx context.Context, userID, topicID string, markedByUser bool) (*model.LearningPlan, error) {
	return s.transitionTopic(ctx, userID, topicID, model.TopicCompleted, markedByUser)
}

func (s *profileService) SkipTopic(ctx context.Context, userID, topicID string) (*model.LearningPlan, error) {
	return s.transitionTopic(ctx, userID, topicID, model.TopicSkipped, true)
}

// transitionTopic applies a terminal status to a plan topic. The
// prerequisite check happens before any mutation, so a gated transition
// leaves the plan untouched.
func (s *profileService) transitionTopic(ctx context.Context, userID, topicID string, status model.TopicStatus, markedByUser bool) (*model.LearningPlan, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := profile.ActivePlan()
	if plan == nil {
		return nil, ErrNoActivePlan
	}
	if status == model.TopicSkipped && !plan.AllowTopicSkipping {
		return nil, ErrSkippingNotAllowed
	}

	topic := plan.Topic(topicID)
	if topic == nil {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotInPlan, topicID)
	}
	if !canProceed(plan, topic) {
		return nil, fmt.Errorf("%w: %s", ErrPrerequisitesNotMet, topicID)
	}

	now := time.Now().UTC()
	topic.Status = status
	if status == model.TopicCompleted {
		topic.CompletedAt = &now
		topic.MarkedByUser = markedByUser
	}

	progress := s.topicProgress(profile, plan, topicID)
	progress.LastAccessed = &now
	if status == model.TopicCompleted {
		progress.CompletionPercentage = 100
	}

	updatePlanProgress(plan)
	if plan.CurrentTopic() == nil || plan.CurrentTopic().TopicID == topicID {
		advanceCursor(plan)
	}
	profile.UpdatedAt = now

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	slog.InfoContext(ctx, "plan topic transitioned",
		"user_id", userID,
		"topic_id", topicID,
		"status", status,
		"plan_completion", plan.CompletionPercentage,
	)
	return plan, nil
}

func (s *profileService) topicProgress(profile *model.UserProfile, plan *model.LearningPlan, topicID string) *model.TopicProgress {
	progress, ok := profile.TopicProgress[topicID]
	if !ok {
		progress = &model.TopicProgress{
			TopicID:            topicID,
			CertificationLevel: plan.TargetCertification,
		}
		profile.TopicProgress[topicID] = progress
	}
	return progress
}

func (s *profileService) CurrentTopic(ctx context.Context, userID string) (*CurrentTopicView, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := profile.ActivePlan()
	if plan == nil {
		return nil, ErrNoActivePlan
	}
	topic := plan.CurrentTopic()
	if topic == nil {
		return nil, fmt.Errorf("%w: plan exhausted", ErrTopicNotInPlan)
	}

	return &CurrentTopicView{
		PlanID:               plan.PlanID,
		Topic:                *topic,
		CurrentIndex:         plan.CurrentTopicIndex,
		TotalTopics:          len(plan.Topics),
		CompletionPercentage: plan.CompletionPercentage,
		CanProceed:           canProceed(plan, topic),
		NextAvailable:        nextAvailableTopics(plan, 3),
	}, nil
}

func (s *profileService) PlanOverview(ctx context.Context, userID, planID string) (*PlanOverview, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if planID == "" {
		planID = profile.ActivePlanID
	}
	plan, ok := profile.LearningPlans[planID]
	if !ok {
		return nil, store.ErrNotFound
	}

	byStatus := map[string][]model.PlanTopic{
		"completed":   {},
		"in_progress": {},
		"available":   {},
		"locked":      {},
		"skipped":     {},
	}
	remaining := 0

	for i := range plan.Topics {
		topic := plan.Topics[i]
		switch {
		case topic.Status == model.TopicCompleted:
			byStatus["completed"] = append(byStatus["completed"], topic)
		case topic.Status == model.TopicSkipped:
			byStatus["skipped"] = append(byStatus["skipped"], topic)
		case topic.Status == model.TopicInProgress || i == plan.CurrentTopicIndex:
			byStatus["in_progress"] = append(byStatus["in_progress"], topic)
			remaining += topic.DurationMinutes
		case canProceed(plan, &plan.Topics[i]):
			byStatus["available"] = append(byStatus["available"], topic)
			remaining += topic.DurationMinutes
		default:
			byStatus["locked"] = append(byStatus["locked"], topic)
			remaining += topic.DurationMinutes
		}
	}

	return &PlanOverview{
		Plan:             plan,
		TopicsByStatus:   byStatus,
		RemainingMinutes: remaining,
	}, nil
}

func (s *profileService) UpdateProficiency(ctx context.Context, userID, topicID string, score float64) (*model.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	score = clamp01(score)
	profile.ProficiencyScores[topicID] = score

	var total float64
	for _, v := range profile.ProficiencyScores {
		total += v
	}
	profile.OverallProficiency = total / float64(len(profile.ProficiencyScores))
	profile.ExperienceLevel = model.ExperienceLevelForProficiency(profile.OverallProficiency)

	now := time.Now().UTC()
	progress, ok := profile.TopicProgress[topicID]
	if !ok {
		progress = &model.TopicProgress{TopicID: topicID}
		if plan := profile.ActivePlan(); plan != nil && plan.Topic(topicID) != nil {
			progress.CertificationLevel = plan.TargetCertification
		}
		profile.TopicProgress[topicID] = progress
	}
	progress.ProficiencyScore = score
	progress.Interactions++
	progress.LastAccessed = &now
	// Interactions nudge completion upward even at low scores; gap
	// analysis reads raw scores so recommendations are unaffected.
	progress.CompletionPercentage = min(100, score*100+float64(progress.Interactions)*5)

	profile.UpdatedAt = now
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	slog.InfoContext(ctx, "proficiency updated",
		"user_id", userID,
		"topic_id", topicID,
		"score", score,
		"overall", profile.OverallProficiency,
		"experience_level", profile.ExperienceLevel,
	)
	return profile, nil
}

func (s *profileService) Reset(ctx context.Context, userID string, resetType model.ResetType) error {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	switch resetType {
	case model.ResetProgressOnly:
		resetProgress(profile)
	case model.ResetLearningPlans:
		resetProgress(profile)
		profile.LearningPlans = map[string]*model.LearningPlan{}
		profile.ActivePlanID = ""
	case model.ResetFull:
		resetProgress(profile)
		profile.LearningPlans = map[string]*model.LearningPlan{}
		profile.ActivePlanID = ""
		profile.ProficiencyScores = map[string]float64{}
		profile.OverallProficiency = 0
		profile.ExperienceLevel = model.ExperienceBeginner
		profile.TargetCertification = ""
		profile.Preferences = model.DefaultConversationPreferences()
		profile.KnowledgeGaps = nil
	case model.ResetRefreshCurrentPlan:
		if err := refreshActivePlan(profile); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown reset type %q", resetType)
	}

	profile.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	slog.InfoContext(ctx, "profile reset", "user_id", userID, "reset_type", resetType)
	return nil
}

func resetProgress(profile *model.UserProfile) {
	for _, plan := range profile.LearningPlans {
		for i := range plan.Topics {
			plan.Topics[i].Status = model.TopicNotStarted
			plan.Topics[i].CompletedAt = nil
			plan.Topics[i].MarkedByUser = false
		}
		plan.CurrentTopicIndex = 0
		plan.CompletionPercentage = 0
		plan.TopicsCompleted = 0
	}
	profile.TopicProgress = map[string]*model.TopicProgress{}
	profile.TotalStudyMinutes = 0
	profile.SessionsCompleted = 0
	profile.StreakDays = 0
	profile.LastStudyDate = nil
}

// refreshActivePlan replaces the active plan's topics with a fresh
// template stamp while preserving the plan's identity.
func refreshActivePlan(profile *model.UserProfile) error {
	plan := profile.ActivePlan()
	if plan == nil {
		return ErrNoActivePlan
	}

	fresh, err := NewPlanFromTemplate(plan.PlanType, profile.ExperienceLevel)
	if err != nil {
		return err
	}

	plan.Topics = fresh.Topics
	plan.TotalDurationMinutes = fresh.TotalDurationMinutes
	plan.AllowTopicSkipping = fresh.AllowTopicSkipping
	plan.EnforcePrerequisites = fresh.EnforcePrerequisites
	plan.CurrentTopicIndex = 0
	plan.CompletionPercentage = 0
	plan.TopicsCompleted = 0
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
