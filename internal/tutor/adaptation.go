package tutor

import (
	"togaftutor.app/tutor/internal/model"
)

// ResponseStyle labels how a generated response is framed.
type ResponseStyle string

const (
	StyleConcise        ResponseStyle = "concise"
	StyleDetailed       ResponseStyle = "detailed"
	StyleConversational ResponseStyle = "conversational"
	StyleInstructional  ResponseStyle = "instructional"
	StyleSocratic       ResponseStyle = "socratic"
)

// ContentAdaptation captures how generation is tuned for one user:
// complexity, presentation and interactivity knobs derived from the
// profile and preferences.
type ContentAdaptation struct {
	DifficultyLevel  model.DifficultyLevel `json:"difficulty_level"`
	ExplanationDepth string                `json:"explanation_depth"` // brief | moderate | detailed
	TechnicalDetail  string                `json:"technical_detail"`  // minimal | balanced | comprehensive

	UseExamples     bool `json:"use_examples"`
	UseAnalogies    bool `json:"use_analogies"`
	IncludeDiagrams bool `json:"include_diagrams"`

	AskFollowUpQuestions bool `json:"ask_follow_up_questions"`
	ReferenceExperience  bool `json:"reference_user_experience"`
}

// difficultyForExperience maps a user's experience level to the content
// difficulty served to them. Experts get advanced content, not a
// separate tier.
var difficultyForExperience = map[model.ExperienceLevel]model.DifficultyLevel{
	model.ExperienceBeginner:     model.DifficultyBasic,
	model.ExperienceIntermediate: model.DifficultyIntermediate,
	model.ExperienceAdvanced:     model.DifficultyAdvanced,
	model.ExperienceExpert:       model.DifficultyAdvanced,
}

// adaptationFor derives the generation strategy from the profile.
func adaptationFor(profile *model.UserProfile) ContentAdaptation {
	level := profile.ExperienceLevel

	detail := "balanced"
	if level == model.ExperienceBeginner {
		detail = "minimal"
	}

	depth := profile.Preferences.ExplanationDepth
	if depth == "" {
		depth = "moderate"
	}

	return ContentAdaptation{
		DifficultyLevel:      difficultyForExperience[level],
		ExplanationDepth:     depth,
		TechnicalDetail:      detail,
		UseExamples:          profile.Preferences.UseExamples && level != model.ExperienceExpert,
		UseAnalogies:         level == model.ExperienceBeginner,
		IncludeDiagrams:      profile.Preferences.UseDiagrams,
		AskFollowUpQuestions: profile.Preferences.InteractiveMode,
		ReferenceExperience:  level == model.ExperienceAdvanced || level == model.ExperienceExpert,
	}
}

// explanationAdaptation tunes the strategy for a single concept
// explanation. detailLevel "adaptive" resolves from the experience
// level: beginners get detailed walkthroughs, experts a brief
// comprehensive treatment.
func explanationAdaptation(profile *model.UserProfile, detailLevel string) ContentAdaptation {
	adaptation := adaptationFor(profile)

	if detailLevel == "" || detailLevel == "adaptive" {
		switch profile.ExperienceLevel {
		case model.ExperienceBeginner:
			detailLevel = "detailed"
		case model.ExperienceExpert:
			detailLevel = "brief"
		default:
			detailLevel = adaptation.ExplanationDepth
		}
	}
	adaptation.ExplanationDepth = detailLevel

	if profile.ExperienceLevel == model.ExperienceExpert {
		adaptation.TechnicalDetail = "comprehensive"
	}

	return adaptation
}

func styleFor(adaptation ContentAdaptation) ResponseStyle {
	switch {
	case adaptation.AskFollowUpQuestions:
		return StyleSocratic
	case adaptation.ExplanationDepth == "detailed":
		return StyleInstructional
	case adaptation.ExplanationDepth == "brief":
		return StyleConcise
	default:
		return StyleConversational
	}
}

// temperatureFor keeps comprehensive technical content deterministic and
// lets conversational responses vary.
func temperatureFor(adaptation ContentAdaptation) float64 {
	if adaptation.TechnicalDetail == "comprehensive" {
		return 0.3
	}
	return 0.7
}

// maxTokensFor bounds the completion by explanation depth.
func maxTokensFor(depth string) int {
	switch depth {
	case "brief":
		return 300
	case "detailed":
		return 1000
	default:
		return 600
	}
}
