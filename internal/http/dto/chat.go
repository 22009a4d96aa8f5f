package dto

type ChatRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required,min=1,max=4000"`
}

type ExplainRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	SessionID   string `json:"session_id" binding:"required"`
	Concept     string `json:"concept" binding:"required,min=1,max=255"`
	DetailLevel string `json:"detail_level" binding:"omitempty,oneof=brief detailed adaptive"`
}

type ExamQuestionRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	TopicID    string `json:"topic_id" binding:"omitempty,max=128"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=basic intermediate advanced"`
}
