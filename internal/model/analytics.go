package model

import "time"

// ProgressAnalytics is derived from profile state on demand; it is never
// the source of truth.
type ProgressAnalytics struct {
	UserID     string    `json:"user_id"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	OverallCompletion float64 `json:"overall_completion"` // [0,100]
	StudyConsistency  float64 `json:"study_consistency"`  // min(1, streak_days/30)
	LearningVelocity  float64 `json:"learning_velocity"`  // topics per study hour
	RetentionRate     float64 `json:"retention_rate"`     // mean quiz score / 100

	FoundationReadiness   float64 `json:"foundation_readiness"`
	PractitionerReadiness float64 `json:"practitioner_readiness"`

	KnowledgeGaps    map[string]float64 `json:"knowledge_gaps"` // topic_id -> 1 - score
	ImprovementFocus []string           `json:"improvement_focus"`
}

// TopicRecommendation is one ranked study suggestion.
type TopicRecommendation struct {
	TopicID         string  `json:"topic_id"`
	Priority        float64 `json:"priority"`
	Reason          string  `json:"reason"`
	DurationMinutes int     `json:"estimated_duration_minutes"`
}

// LearningSession is the analytics record of one completed study session.
type LearningSession struct {
	SessionID       int64      `json:"session_id,string"`
	UserID          string     `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`

	TopicsCovered  []string `json:"topics_covered,omitempty"`
	QuestionsAsked int      `json:"questions_asked"`

	EngagementScore    float64 `json:"engagement_score"`    // [0,1]
	ComprehensionScore float64 `json:"comprehension_score"` // [0,1]
}
