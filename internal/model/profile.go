package model

import "time"

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

// ExperienceLevelForProficiency derives the experience level from an
// overall proficiency score using fixed thresholds.
func ExperienceLevelForProficiency(score float64) ExperienceLevel {
	switch {
	case score >= 0.8:
		return ExperienceExpert
	case score >= 0.6:
		return ExperienceAdvanced
	case score >= 0.4:
		return ExperienceIntermediate
	default:
		return ExperienceBeginner
	}
}

type TopicStatus string

const (
	TopicNotStarted TopicStatus = "not_started"
	TopicInProgress TopicStatus = "in_progress"
	TopicCompleted  TopicStatus = "completed"
	TopicSkipped    TopicStatus = "skipped"
)

type PlanType string

const (
	PlanFoundationBeginner   PlanType = "foundation_beginner"
	PlanFoundationReview     PlanType = "foundation_review"
	PlanPractitionerPrep     PlanType = "practitioner_prep"
	PlanExtendedPractitioner PlanType = "extended_practitioner"
)

type ResetType string

const (
	ResetProgressOnly       ResetType = "progress_only"
	ResetLearningPlans      ResetType = "learning_plans"
	ResetFull               ResetType = "full_reset"
	ResetRefreshCurrentPlan ResetType = "refresh_current_plan"
)

// PlanTopic is one entry in a structured learning plan. Prerequisites
// reference other topic IDs within the same plan, forming a DAG.
type PlanTopic struct {
	TopicID         string      `json:"topic_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	DurationMinutes int         `json:"estimated_duration_minutes"`
	Prerequisites   []string    `json:"prerequisites,omitempty"`
	OrderIndex      int         `json:"order_index"`
	Status          TopicStatus `json:"status"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	MarkedByUser    bool        `json:"marked_by_user,omitempty"`
}

// LearningPlan is an ordered, prerequisite-constrained sequence of topics.
type LearningPlan struct {
	PlanID               string             `json:"plan_id"`
	PlanName             string             `json:"plan_name"`
	PlanType             PlanType           `json:"plan_type"`
	TargetCertification  CertificationLevel `json:"target_certification"`
	Description          string             `json:"description,omitempty"`
	Topics               []PlanTopic        `json:"topics"`
	CurrentTopicIndex    int                `json:"current_topic_index"`
	CompletionPercentage float64            `json:"completion_percentage"`
	TopicsCompleted      int                `json:"topics_completed"`
	TotalDurationMinutes int                `json:"estimated_total_duration_minutes"`
	EnforcePrerequisites bool               `json:"enforce_prerequisites"`
	AllowTopicSkipping   bool               `json:"allow_topic_skipping"`
	IsActive             bool               `json:"is_active"`
	CreatedAt            time.Time          `json:"created_at"`
}

// CurrentTopic returns the topic the plan cursor points at, or nil when
// the plan is exhausted.
func (p *LearningPlan) CurrentTopic() *PlanTopic {
	if p.CurrentTopicIndex < 0 || p.CurrentTopicIndex >= len(p.Topics) {
		return nil
	}
	return &p.Topics[p.CurrentTopicIndex]
}

// Topic finds a plan topic by ID.
func (p *LearningPlan) Topic(topicID string) *PlanTopic {
	for i := range p.Topics {
		if p.Topics[i].TopicID == topicID {
			return &p.Topics[i]
		}
	}
	return nil
}

// TopicProgress tracks a user's mastery of one topic.
type TopicProgress struct {
	TopicID              string             `json:"topic_id"`
	CertificationLevel   CertificationLevel `json:"certification_level,omitempty"`
	ProficiencyScore     float64            `json:"proficiency_score"`     // [0,1]
	CompletionPercentage float64            `json:"completion_percentage"` // [0,100]
	TimeSpentMinutes     int                `json:"time_spent_minutes"`
	Interactions         int                `json:"interactions"`
	QuizScores           []float64          `json:"quiz_scores,omitempty"`
	LastAccessed         *time.Time         `json:"last_accessed,omitempty"`
}

// ConversationPreferences shape how the tutor responds.
type ConversationPreferences struct {
	ExplanationDepth   string `json:"explanation_depth"` // brief | moderate | detailed
	UseExamples        bool   `json:"use_examples"`
	UseDiagrams        bool   `json:"use_diagrams"`
	InteractiveMode    bool   `json:"interactive_mode"`
	QuestionDifficulty string `json:"question_difficulty"` // easy | moderate | hard | adaptive
}

// DefaultConversationPreferences returns the preferences applied to new profiles.
func DefaultConversationPreferences() ConversationPreferences {
	return ConversationPreferences{
		ExplanationDepth:   "moderate",
		UseExamples:        true,
		UseDiagrams:        true,
		InteractiveMode:    true,
		QuestionDifficulty: "adaptive",
	}
}

// UserProfile is the per-user state: proficiency model, learning plans,
// preferences and activity counters. Persisted as one JSON file per user,
// read-modify-write, single logical writer.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ExperienceLevel     ExperienceLevel    `json:"experience_level"`
	ProficiencyScores   map[string]float64 `json:"proficiency_scores"` // topic_id -> [0,1]
	OverallProficiency  float64            `json:"overall_proficiency"`
	TargetCertification CertificationLevel `json:"target_certification,omitempty"`

	LearningPlans map[string]*LearningPlan  `json:"learning_plans"`
	ActivePlanID  string                    `json:"active_plan_id,omitempty"`
	TopicProgress map[string]*TopicProgress `json:"topic_progress"`

	Preferences ConversationPreferences `json:"conversation_preferences"`

	TotalStudyMinutes int        `json:"total_study_time_minutes"`
	SessionsCompleted int        `json:"sessions_completed"`
	StreakDays        int        `json:"streak_days"`
	LastStudyDate     *time.Time `json:"last_study_date,omitempty"`

	KnowledgeGaps map[string]float64 `json:"knowledge_gaps,omitempty"` // topic_id -> gap [0,1]
}

// ActivePlan returns the user's active learning plan, or nil when none is set.
func (u *UserProfile) ActivePlan() *LearningPlan {
	if u.ActivePlanID == "" {
		return nil
	}
	return u.LearningPlans[u.ActivePlanID]
}
