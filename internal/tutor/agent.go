package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"togaftutor.app/tutor/common/llm"
	"togaftutor.app/tutor/internal/model"
)

// Searcher retrieves corpus content adapted to a user's level and goal.
// Implemented by search.Service.
type Searcher interface {
	SearchForUser(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error)
}

// ProfileReader loads user profiles. Implemented by store.ProfileStore.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
}

// SessionReader loads live conversation sessions. Implemented by
// service.SessionService, which also enforces expiry on access.
type SessionReader interface {
	Get(ctx context.Context, sessionID string) (*model.ConversationSession, error)
}

// AnalyticsProvider computes progress analytics. Implemented by
// service.ProgressService.
type AnalyticsProvider interface {
	Analytics(ctx context.Context, userID string) (*model.ProgressAnalytics, error)
}

// Agent generates personalized tutoring content: adaptive responses,
// concept explanations and exam questions.
type Agent struct {
	llm       llm.Client
	search    Searcher
	profiles  ProfileReader
	sessions  SessionReader
	analytics AnalyticsProvider
}

func New(client llm.Client, search Searcher, profiles ProfileReader, sessions SessionReader, analytics AnalyticsProvider) *Agent {
	return &Agent{
		llm:       client,
		search:    search,
		profiles:  profiles,
		sessions:  sessions,
		analytics: analytics,
	}
}

// Response is one generated tutoring turn plus the adaptation that
// produced it.
type Response struct {
	ResponseID string    `json:"response_id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	Timestamp  time.Time `json:"timestamp"`

	Content       string `json:"content"`
	VisualContent string `json:"visual_content,omitempty"` // mermaid diagram code

	TopicsAddressed []string              `json:"topics_addressed,omitempty"`
	DifficultyLevel model.DifficultyLevel `json:"difficulty_level"`
	Style           ResponseStyle         `json:"response_style"`
	Adaptation      ContentAdaptation     `json:"adaptation_applied"`

	FollowUpQuestions []string `json:"suggested_next_questions,omitempty"`
}

type tutorResponse struct {
	Response string `json:"response" jsonschema_description:"The tutoring response in markdown"`
}

type diagramResponse struct {
	Diagram string `json:"diagram" jsonschema_description:"Mermaid diagram code without surrounding code fences"`
}

type followUpResponse struct {
	Questions []string `json:"questions" jsonschema_description:"Follow-up questions that extend the learning"`
}

var (
	tutorResponseSchema = llm.GenerateSchema[tutorResponse]()
	diagramSchema       = llm.GenerateSchema[diagramResponse]()
	followUpSchema      = llm.GenerateSchema[followUpResponse]()
)

// Respond answers a user query inside a session: retrieval scoped to
// the user's level and goal, prompts shaped by the adaptation strategy,
// optional diagram and follow-up enrichment.
func (a *Agent) Respond(ctx context.Context, userID, sessionID, query string) (*Response, error) {
	session, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	profile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	adaptation := adaptationFor(profile)

	searchText := query
	if topic := session.Context.CurrentTopic; topic != "" {
		searchText = topic + " " + query
	}
	results, err := a.search.SearchForUser(ctx, searchText, profile.ExperienceLevel, profile.TargetCertification, 5)
	if err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}

	content, err := a.generate(ctx, systemPrompt(profile, adaptation), userPrompt(query, results, session), adaptation)
	if err != nil {
		return nil, err
	}

	topics := extractTopics(content)

	response := &Response{
		ResponseID:      uuid.NewString(),
		UserID:          userID,
		SessionID:       sessionID,
		Timestamp:       time.Now().UTC(),
		Content:         content,
		TopicsAddressed: topics,
		DifficultyLevel: adaptation.DifficultyLevel,
		Style:           styleFor(adaptation),
		Adaptation:      adaptation,
	}

	if adaptation.IncludeDiagrams {
		response.VisualContent = a.diagram(ctx, query, content)
	}
	if adaptation.AskFollowUpQuestions {
		response.FollowUpQuestions = a.followUps(ctx, query, topics, session)
	}

	slog.InfoContext(ctx, "adaptive response generated",
		"user_id", userID,
		"session_id", sessionID,
		"topics", len(topics),
		"style", response.Style,
	)
	return response, nil
}

// Explain produces a concept explanation. detailLevel "adaptive" (or
// empty) resolves from the user's experience level.
func (a *Agent) Explain(ctx context.Context, userID, sessionID, concept, detailLevel string) (*Response, error) {
	if _, err := a.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	profile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	adaptation := explanationAdaptation(profile, detailLevel)

	searchText := fmt.Sprintf("TOGAF %s definition explanation examples", concept)
	results, err := a.search.SearchForUser(ctx, searchText, profile.ExperienceLevel, profile.TargetCertification, 5)
	if err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}

	user := fmt.Sprintf("Explain the TOGAF concept %q using this context:\n\n%s", concept, formatSearchResults(results))
	content, err := a.generate(ctx, explanationSystemPrompt(profile, adaptation), user, adaptation)
	if err != nil {
		return nil, err
	}

	return &Response{
		ResponseID:      uuid.NewString(),
		UserID:          userID,
		SessionID:       sessionID,
		Timestamp:       time.Now().UTC(),
		Content:         content,
		TopicsAddressed: []string{concept},
		DifficultyLevel: adaptation.DifficultyLevel,
		Style:           StyleInstructional,
		Adaptation:      adaptation,
	}, nil
}

// generate runs the structured chat with exponential backoff (1s, 2s,
// 4s) on retryable errors. Temperature and token budget come from the
// adaptation strategy.
func (a *Agent) generate(ctx context.Context, system, user string, adaptation ContentAdaptation) (string, error) {
	var result tutorResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		_, err = a.llm.Chat(ctx, llm.Request{
			SystemPrompt: system,
			UserPrompt:   user,
			SchemaName:   "tutor_response",
			Schema:       tutorResponseSchema,
			MaxTokens:    maxTokensFor(adaptation.ExplanationDepth),
			Temperature:  llm.Temp(temperatureFor(adaptation)),
		}, &result)
		if err == nil {
			break
		}
		if !llm.IsRetryable(ctx, err) {
			return "", fmt.Errorf("generating response: %w", err)
		}
		slog.WarnContext(ctx, "response generation retry", "attempt", attempt+1, "error", err)
		time.Sleep(time.Duration(1<<attempt) * time.Second)
	}
	if err != nil {
		return "", fmt.Errorf("generating response after 3 attempts: %w", err)
	}
	return strings.TrimSpace(result.Response), nil
}

// diagramKeywords gate diagram generation: only content that describes
// a process or structure benefits from one.
var diagramKeywords = []string{"process", "flow", "architecture", "relationship", "structure", "phases"}

// diagram generates a mermaid visualization. Failures are swallowed;
// diagrams are an enhancement, never core content.
func (a *Agent) diagram(ctx context.Context, query, content string) string {
	haystack := strings.ToLower(query + " " + content)
	relevant := false
	for _, keyword := range diagramKeywords {
		if strings.Contains(haystack, keyword) {
			relevant = true
			break
		}
	}
	if !relevant {
		return ""
	}

	excerpt := content
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}
	user := fmt.Sprintf("Create a mermaid diagram to visualize the following TOGAF content:\n\nQuery: %s\nContent: %s", query, excerpt)

	var result diagramResponse
	_, err := a.llm.Chat(ctx, llm.Request{
		SystemPrompt: "You are an expert at creating clear, informative mermaid diagrams for TOGAF concepts. Return only the diagram code.",
		UserPrompt:   user,
		SchemaName:   "mermaid_diagram",
		Schema:       diagramSchema,
		MaxTokens:    400,
		Temperature:  llm.Temp(0.3),
	}, &result)
	if err != nil {
		slog.DebugContext(ctx, "diagram generation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(result.Diagram)
}

// followUps suggests up to three questions extending the interaction.
// On failure it falls back to templated questions about the first topic
// addressed.
func (a *Agent) followUps(ctx context.Context, query string, topics []string, session *model.ConversationSession) []string {
	topicContext := session.Context.CurrentTopic
	if topicContext == "" {
		topicContext = "general TOGAF learning"
	}
	user := fmt.Sprintf("Based on this TOGAF learning interaction, suggest 2-3 relevant follow-up questions:\n\nOriginal Question: %s\nResponse Topics: %s\nUser Context: %s",
		query, strings.Join(topics, ", "), topicContext)

	var result followUpResponse
	_, err := a.llm.Chat(ctx, llm.Request{
		SystemPrompt: "Generate helpful follow-up questions for TOGAF learning.",
		UserPrompt:   user,
		SchemaName:   "follow_up_questions",
		Schema:       followUpSchema,
		MaxTokens:    200,
		Temperature:  llm.Temp(0.7),
	}, &result)
	if err == nil && len(result.Questions) > 0 {
		if len(result.Questions) > 3 {
			return result.Questions[:3]
		}
		return result.Questions
	}

	slog.DebugContext(ctx, "follow-up generation failed, using defaults", "error", err)
	if len(topics) == 0 {
		return nil
	}
	topic := topics[0]
	return []string{
		fmt.Sprintf("Can you provide a practical example of %s?", topic),
		fmt.Sprintf("How does %s relate to other TOGAF concepts?", topic),
		fmt.Sprintf("What are common challenges with %s?", topic),
	}
}

func systemPrompt(profile *model.UserProfile, adaptation ContentAdaptation) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert TOGAF tutor specializing in enterprise architecture education.

User Context:
- Experience Level: %s
- Target Certification: %s

Content Adaptation Rules:
- Explanation Depth: %s
- Technical Detail: %s
- Difficulty Level: %s`,
		profile.ExperienceLevel, targetCertification(profile),
		adaptation.ExplanationDepth, adaptation.TechnicalDetail, adaptation.DifficultyLevel)

	switch profile.ExperienceLevel {
	case model.ExperienceBeginner:
		b.WriteString(`

Teaching Style for Beginners:
- Use simple, clear language
- Provide step-by-step explanations
- Include real-world examples and analogies
- Define technical terms when first used
- Build concepts incrementally`)
	case model.ExperienceExpert:
		b.WriteString(`

Teaching Style for Experts:
- Use precise, technical language
- Focus on advanced concepts and edge cases
- Discuss implementation challenges
- Engage in peer-level discussion`)
	}

	if adaptation.AskFollowUpQuestions {
		b.WriteString(`

Interaction Guidelines:
- Ask thoughtful follow-up questions to gauge understanding
- Encourage deeper exploration of concepts
- Suggest practical applications`)
	}

	return b.String()
}

func userPrompt(query string, results []model.SearchResult, session *model.ConversationSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Question: %s\n\n", query)

	if topic := session.Context.CurrentTopic; topic != "" {
		fmt.Fprintf(&b, "Current Topic Context: %s\n\n", topic)
	}
	if len(results) > 0 {
		b.WriteString("Relevant TOGAF Content:\n")
		b.WriteString(formatSearchResults(results))
		b.WriteString("\n")
	}
	if discussed := session.Context.TopicsDiscussed; len(discussed) > 0 {
		recent := discussed
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		fmt.Fprintf(&b, "Previously Discussed Topics: %s\n\n", strings.Join(recent, ", "))
	}

	b.WriteString("Please provide a helpful, personalized response based on the user's question and context.")
	return b.String()
}

func explanationSystemPrompt(profile *model.UserProfile, adaptation ContentAdaptation) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a TOGAF expert providing concept explanations.

User Experience Level: %s
Explanation Depth: %s
Use Examples: %t
Use Analogies: %t

Explanation Structure:
1. Clear definition
2. Context within TOGAF framework`,
		profile.ExperienceLevel, adaptation.ExplanationDepth,
		adaptation.UseExamples, adaptation.UseAnalogies)

	if adaptation.UseExamples {
		b.WriteString("\n3. Practical examples")
	}
	if adaptation.UseAnalogies {
		b.WriteString("\n4. Simple analogies to familiar concepts")
	}

	fmt.Fprintf(&b, "\n\nAdapt your language and depth to a %s level user.", profile.ExperienceLevel)
	return b.String()
}

func formatSearchResults(results []model.SearchResult) string {
	if len(results) == 0 {
		return "No specific content found.\n"
	}
	var b strings.Builder
	for i, result := range results {
		text := result.Text
		if len(text) > 300 {
			text = text[:300] + "..."
		}
		fmt.Fprintf(&b, "%d. %s", i+1, text)
		if result.ChapterContext != "" {
			fmt.Fprintf(&b, " (Source: %s)", result.ChapterContext)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func targetCertification(profile *model.UserProfile) model.CertificationLevel {
	if profile.TargetCertification == "" {
		return model.CertificationFoundation
	}
	return profile.TargetCertification
}

// togafTopicNames drive topic extraction from generated content.
var togafTopicNames = []string{
	"ADM", "Preliminary Phase", "Phase A", "Phase B", "Phase C", "Phase D",
	"Phase E", "Phase F", "Phase G", "Phase H", "Requirements Management",
	"Business Architecture", "Data Architecture", "Application Architecture",
	"Technology Architecture", "Architecture Governance", "Implementation",
	"Migration", "Architecture Board", "Architecture Compliance",
}

// extractTopics scans content for known topic names, preserving the
// catalogue order so output is deterministic.
func extractTopics(content string) []string {
	lower := strings.ToLower(content)
	var topics []string
	for _, topic := range togafTopicNames {
		if strings.Contains(lower, strings.ToLower(topic)) {
			topics = append(topics, topic)
		}
	}
	return topics
}
