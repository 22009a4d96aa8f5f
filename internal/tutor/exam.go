package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"togaftutor.app/tutor/common/llm"
	"togaftutor.app/tutor/internal/model"
)

// ExamQuestion is one generated multiple-choice certification question.
type ExamQuestion struct {
	TopicID       string                `json:"topic_id"`
	Difficulty    model.DifficultyLevel `json:"difficulty"`
	Question      string                `json:"question"`
	Options       map[string]string     `json:"options"` // keyed A-D
	CorrectAnswer string                `json:"correct_answer"`
	Explanation   string                `json:"explanation"`
}

type examQuestionResponse struct {
	Question      string `json:"question" jsonschema_description:"Clear, unambiguous question text"`
	OptionA       string `json:"option_a" jsonschema_description:"Answer option A"`
	OptionB       string `json:"option_b" jsonschema_description:"Answer option B"`
	OptionC       string `json:"option_c" jsonschema_description:"Answer option C"`
	OptionD       string `json:"option_d" jsonschema_description:"Answer option D"`
	CorrectAnswer string `json:"correct_answer" jsonschema:"enum=A,enum=B,enum=C,enum=D" jsonschema_description:"The letter of the correct option"`
	Explanation   string `json:"explanation" jsonschema_description:"Why the correct answer is right and the others are wrong"`
}

var examQuestionSchema = llm.GenerateSchema[examQuestionResponse]()

// ExamQuestion generates an adaptive certification question. An empty
// topicID targets the user's largest knowledge gap; an empty difficulty
// is derived from overall completion.
func (a *Agent) ExamQuestion(ctx context.Context, userID, topicID string, difficulty model.DifficultyLevel) (*ExamQuestion, error) {
	analytics, err := a.analytics.Analytics(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if topicID == "" {
		if len(analytics.ImprovementFocus) > 0 {
			topicID = analytics.ImprovementFocus[0]
		} else {
			topicID = "adm_overview"
		}
	}
	if difficulty == "" {
		difficulty = difficultyForCompletion(analytics.OverallCompletion)
	}

	searchText := fmt.Sprintf("TOGAF %s concepts and principles", topicID)
	results, err := a.search.SearchForUser(ctx, searchText, profile.ExperienceLevel, profile.TargetCertification, 3)
	if err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}

	user := fmt.Sprintf(`Generate a TOGAF certification exam question about %s.

Difficulty Level: %s
Content Context: %s

Requirements:
1. Multiple choice question with 4 options (A, B, C, D)
2. Only one correct answer
3. Plausible distractors that test understanding
4. Clear, unambiguous wording
5. Explanation for the correct answer`,
		topicID, difficulty, formatSearchResults(results))

	var response examQuestionResponse
	_, err = a.llm.Chat(ctx, llm.Request{
		SystemPrompt: "You are an expert TOGAF exam question generator.",
		UserPrompt:   user,
		SchemaName:   "exam_question",
		Schema:       examQuestionSchema,
		MaxTokens:    800,
		Temperature:  llm.Temp(0.7),
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("generating exam question: %w", err)
	}

	slog.InfoContext(ctx, "exam question generated",
		"user_id", userID,
		"topic_id", topicID,
		"difficulty", difficulty,
	)

	return &ExamQuestion{
		TopicID:    topicID,
		Difficulty: difficulty,
		Question:   strings.TrimSpace(response.Question),
		Options: map[string]string{
			"A": response.OptionA,
			"B": response.OptionB,
			"C": response.OptionC,
			"D": response.OptionD,
		},
		CorrectAnswer: response.CorrectAnswer,
		Explanation:   response.Explanation,
	}, nil
}

// difficultyForCompletion grades question difficulty by how far along
// the user is (completion is a 0-100 percentage).
func difficultyForCompletion(completion float64) model.DifficultyLevel {
	proficiency := completion / 100.0
	switch {
	case proficiency < 0.4:
		return model.DifficultyBasic
	case proficiency < 0.7:
		return model.DifficultyIntermediate
	default:
		return model.DifficultyAdvanced
	}
}
