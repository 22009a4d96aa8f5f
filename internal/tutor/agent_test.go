package tutor_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/common/llm"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/tutor"
)

var _ = Describe("Agent", func() {
	var (
		ctx       context.Context
		client    *mockLLM
		searcher  *mockSearcher
		profiles  *mockProfileReader
		sessions  *mockSessionReader
		analytics *mockAnalyticsProvider
		agent     *tutor.Agent

		profile *model.UserProfile
		session *model.ConversationSession
	)

	BeforeEach(func() {
		ctx = context.Background()

		profile = &model.UserProfile{
			UserID:              "alice",
			Username:            "alice",
			ExperienceLevel:     model.ExperienceBeginner,
			TargetCertification: model.CertificationFoundation,
			Preferences:         model.DefaultConversationPreferences(),
		}
		session = &model.ConversationSession{
			SessionID: "sess-1",
			UserID:    "alice",
			State:     model.SessionActive,
			Mode:      model.ModeLearning,
			Context: model.ConversationContext{
				CurrentTopic:    "adm_overview",
				TopicsDiscussed: []string{"adm", "governance"},
			},
		}

		client = &mockLLM{chatFn: func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
			switch req.SchemaName {
			case "tutor_response":
				return &llm.Response{}, fillResult(result, map[string]any{
					"response": "The ADM is the core of TOGAF. Business Architecture comes in Phase B.",
				})
			case "mermaid_diagram":
				return &llm.Response{}, fillResult(result, map[string]any{
					"diagram": "graph TD; A-->B",
				})
			case "follow_up_questions":
				return &llm.Response{}, fillResult(result, map[string]any{
					"questions": []string{"What happens in Phase C?", "How does the ADM iterate?"},
				})
			}
			return &llm.Response{}, nil
		}}
		searcher = &mockSearcher{searchFn: func(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error) {
			return []model.SearchResult{
				{ChunkID: "c1", Text: "The ADM describes a method for developing enterprise architecture.", ChapterContext: "Part II, Chapter 4"},
			}, nil
		}}
		profiles = &mockProfileReader{getFn: func(ctx context.Context, userID string) (*model.UserProfile, error) {
			return profile, nil
		}}
		sessions = &mockSessionReader{getFn: func(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
			return session, nil
		}}
		analytics = &mockAnalyticsProvider{}

		agent = tutor.New(client, searcher, profiles, sessions, analytics)
	})

	Describe("Respond", func() {
		It("adapts generation to a beginner profile", func() {
			response, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())

			Expect(response.Content).To(ContainSubstring("The ADM is the core of TOGAF"))
			Expect(response.DifficultyLevel).To(Equal(model.DifficultyBasic))
			Expect(response.Adaptation.TechnicalDetail).To(Equal("minimal"))
			Expect(response.Adaptation.UseAnalogies).To(BeTrue())
			// Interactive mode on, so the style is question-driven.
			Expect(response.Style).To(Equal(tutor.StyleSocratic))

			var main llm.Request
			for _, req := range client.requests {
				if req.SchemaName == "tutor_response" {
					main = req
				}
			}
			Expect(*main.Temperature).To(Equal(0.7))
			Expect(main.MaxTokens).To(Equal(600))
			Expect(main.UserPrompt).To(ContainSubstring("Current Topic Context: adm_overview"))
			Expect(main.UserPrompt).To(ContainSubstring("Relevant TOGAF Content"))
			Expect(main.UserPrompt).To(ContainSubstring("Previously Discussed Topics: adm, governance"))
			Expect(main.SystemPrompt).To(ContainSubstring("Teaching Style for Beginners"))
		})

		It("scopes retrieval by the session's current topic", func() {
			var searched string
			searcher.searchFn = func(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error) {
				searched = text
				return nil, nil
			}

			_, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(searched).To(Equal("adm_overview What is the ADM?"))
		})

		It("extracts addressed topics in catalogue order", func() {
			response, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.TopicsAddressed).To(Equal([]string{"ADM", "Phase B", "Business Architecture"}))
		})

		It("attaches a diagram when preferences ask for one", func() {
			response, err := agent.Respond(ctx, "alice", "sess-1", "Explain the ADM process flow")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.VisualContent).To(Equal("graph TD; A-->B"))
		})

		It("swallows diagram failures", func() {
			inner := client.chatFn
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				if req.SchemaName == "mermaid_diagram" {
					return nil, context.Canceled
				}
				return inner(ctx, req, result)
			}

			response, err := agent.Respond(ctx, "alice", "sess-1", "Explain the ADM process flow")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.VisualContent).To(BeEmpty())
		})

		It("skips the diagram when no structural keywords appear", func() {
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				if req.SchemaName == "mermaid_diagram" {
					Fail("diagram generation should not run")
				}
				return &llm.Response{}, fillResult(result, map[string]any{"response": "Short answer.", "questions": []string{}})
			}

			response, err := agent.Respond(ctx, "alice", "sess-1", "Who publishes TOGAF?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.VisualContent).To(BeEmpty())
		})

		It("uses generated follow-up questions", func() {
			response, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.FollowUpQuestions).To(Equal([]string{"What happens in Phase C?", "How does the ADM iterate?"}))
		})

		It("falls back to templated follow-ups when generation fails", func() {
			inner := client.chatFn
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				if req.SchemaName == "follow_up_questions" {
					return nil, context.Canceled
				}
				return inner(ctx, req, result)
			}

			response, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.FollowUpQuestions).To(HaveLen(3))
			Expect(response.FollowUpQuestions[0]).To(Equal("Can you provide a practical example of ADM?"))
		})

		It("fails fast on non-retryable generation errors", func() {
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				return nil, context.Canceled
			}

			_, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).To(MatchError(context.Canceled))
			Expect(client.requests).To(HaveLen(1))
		})

		It("retries retryable generation errors", func() {
			attempts := 0
			inner := client.chatFn
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				if req.SchemaName == "tutor_response" {
					attempts++
					if attempts == 1 {
						return nil, errors.New("connection reset")
					}
				}
				return inner(ctx, req, result)
			}

			response, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(Equal(2))
			Expect(response.Content).NotTo(BeEmpty())
		})

		It("propagates session lookup failures", func() {
			wantErr := errors.New("session expired")
			sessions.getFn = func(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
				return nil, wantErr
			}

			_, err := agent.Respond(ctx, "alice", "sess-1", "What is the ADM?")
			Expect(err).To(MatchError(wantErr))
		})
	})

	Describe("Explain", func() {
		It("resolves adaptive depth for a beginner to detailed", func() {
			response, err := agent.Explain(ctx, "alice", "sess-1", "Architecture Governance", "adaptive")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Adaptation.ExplanationDepth).To(Equal("detailed"))
			Expect(response.Style).To(Equal(tutor.StyleInstructional))
			Expect(response.TopicsAddressed).To(Equal([]string{"Architecture Governance"}))

			main := client.requests[len(client.requests)-1]
			Expect(main.MaxTokens).To(Equal(1000))
			Expect(main.UserPrompt).To(ContainSubstring(`Explain the TOGAF concept "Architecture Governance"`))
		})

		It("gives experts a brief comprehensive treatment at low temperature", func() {
			profile.ExperienceLevel = model.ExperienceExpert

			response, err := agent.Explain(ctx, "alice", "sess-1", "ADM", "adaptive")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Adaptation.ExplanationDepth).To(Equal("brief"))
			Expect(response.Adaptation.TechnicalDetail).To(Equal("comprehensive"))

			main := client.requests[len(client.requests)-1]
			Expect(*main.Temperature).To(Equal(0.3))
			Expect(main.MaxTokens).To(Equal(300))
		})

		It("honors an explicit detail level", func() {
			response, err := agent.Explain(ctx, "alice", "sess-1", "ADM", "brief")
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Adaptation.ExplanationDepth).To(Equal("brief"))
		})
	})

	Describe("ExamQuestion", func() {
		BeforeEach(func() {
			analytics.analyticsFn = func(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
				return &model.ProgressAnalytics{
					UserID:            "alice",
					OverallCompletion: 55,
					ImprovementFocus:  []string{"architecture_governance", "phase_b_business"},
				}, nil
			}
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				Expect(req.SchemaName).To(Equal("exam_question"))
				return &llm.Response{}, fillResult(result, map[string]any{
					"question":       "Which phase establishes the architecture vision?",
					"option_a":       "Preliminary Phase",
					"option_b":       "Phase A",
					"option_c":       "Phase B",
					"option_d":       "Phase H",
					"correct_answer": "B",
					"explanation":    "Phase A produces the Architecture Vision.",
				})
			}
		})

		It("targets the largest knowledge gap by default", func() {
			question, err := agent.ExamQuestion(ctx, "alice", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(question.TopicID).To(Equal("architecture_governance"))
			// 55% completion lands in the intermediate band.
			Expect(question.Difficulty).To(Equal(model.DifficultyIntermediate))
			Expect(question.Options).To(HaveKeyWithValue("B", "Phase A"))
			Expect(question.CorrectAnswer).To(Equal("B"))
			Expect(question.Explanation).NotTo(BeEmpty())
		})

		It("defaults to the ADM overview when no gaps exist", func() {
			analytics.analyticsFn = func(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
				return &model.ProgressAnalytics{UserID: "alice"}, nil
			}

			question, err := agent.ExamQuestion(ctx, "alice", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(question.TopicID).To(Equal("adm_overview"))
			Expect(question.Difficulty).To(Equal(model.DifficultyBasic))
		})

		It("honors explicit topic and difficulty", func() {
			question, err := agent.ExamQuestion(ctx, "alice", "migration_planning", model.DifficultyAdvanced)
			Expect(err).NotTo(HaveOccurred())
			Expect(question.TopicID).To(Equal("migration_planning"))
			Expect(question.Difficulty).To(Equal(model.DifficultyAdvanced))
		})

		It("grades difficulty advanced once completion passes 70%", func() {
			analytics.analyticsFn = func(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
				return &model.ProgressAnalytics{UserID: "alice", OverallCompletion: 85, ImprovementFocus: []string{"adm_overview"}}, nil
			}

			question, err := agent.ExamQuestion(ctx, "alice", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(question.Difficulty).To(Equal(model.DifficultyAdvanced))
		})

		It("propagates generation failures", func() {
			client.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
				return nil, errors.New("rate limited")
			}

			_, err := agent.ExamQuestion(ctx, "alice", "", "")
			Expect(err).To(MatchError(ContainSubstring("generating exam question")))
		})
	})
})
