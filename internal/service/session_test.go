package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/common/id"
	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
	"togaftutor.app/tutor/internal/store"
)

var _ = Describe("SessionService", func() {
	var (
		ctx      context.Context
		profiles map[string]*model.UserProfile
		sessions map[string]*model.ConversationSession
		recorded []*model.ConversationSession
		recorder *recorderFn
		svc      service.SessionService
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		profiles = map[string]*model.UserProfile{
			"alice": {
				UserID:              "alice",
				Username:            "alice",
				ExperienceLevel:     model.ExperienceBeginner,
				TargetCertification: model.CertificationFoundation,
				ProficiencyScores:   map[string]float64{},
				LearningPlans:       map[string]*model.LearningPlan{},
				TopicProgress:       map[string]*model.TopicProgress{},
				Preferences:         model.DefaultConversationPreferences(),
			},
		}
		sessions = map[string]*model.ConversationSession{}
		recorded = nil
		recorder = &recorderFn{fn: func(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error) {
			recorded = append(recorded, session)
			return &model.LearningSession{}, nil
		}}
		svc = service.NewSessionService(inMemorySessions(sessions), inMemoryProfiles(profiles), recorder)
	})

	Describe("Create", func() {
		It("seeds the context from the profile", func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.State).To(Equal(model.SessionActive))
			Expect(session.Context.CertificationLevel).To(Equal(model.CertificationFoundation))
			Expect(session.Context.DifficultyLevel).To(Equal("basic"))
			Expect(session.Context.ExplanationDepth).To(Equal("moderate"))
			Expect(session.Context.UseExamples).To(BeTrue())
			Expect(session.ExpiresAt.Sub(session.CreatedAt)).To(Equal(4 * time.Hour))
			Expect(sessions).To(HaveKey(session.SessionID))
		})

		It("maps the experience level to a difficulty", func() {
			profiles["alice"].ExperienceLevel = model.ExperienceExpert

			session, err := svc.Create(ctx, "alice", model.ModeQA)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Context.DifficultyLevel).To(Equal("advanced"))
		})

		It("points the context at the active plan's current topic", func() {
			plan, err := service.NewPlanFromTemplate(model.PlanFoundationBeginner, model.ExperienceBeginner)
			Expect(err).NotTo(HaveOccurred())
			profiles["alice"].LearningPlans[plan.PlanID] = plan
			profiles["alice"].ActivePlanID = plan.PlanID

			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Context.CurrentTopic).To(Equal("togaf_introduction"))
		})

		It("fails for an unknown user", func() {
			_, err := svc.Create(ctx, "nobody", model.ModeLearning)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Get", func() {
		It("expires a stale session on access", func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			sessions[session.SessionID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

			_, err = svc.Get(ctx, session.SessionID)
			Expect(err).To(MatchError(service.ErrSessionExpired))
			Expect(sessions[session.SessionID].State).To(Equal(model.SessionExpired))

			_, err = svc.Get(ctx, session.SessionID)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("returns a live session untouched", func() {
			session, err := svc.Create(ctx, "alice", model.ModeReview)
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.Get(ctx, session.SessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SessionID).To(Equal(session.SessionID))
			Expect(got.State).To(Equal(model.SessionActive))
		})
	})

	Describe("AddMessage", func() {
		var sessionID string

		BeforeEach(func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			sessionID = session.SessionID
		})

		It("appends the message and bumps the counters", func() {
			msg, err := svc.AddMessage(ctx, sessionID, model.MessageUserQuestion, "What is the ADM?")
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.MessageID).NotTo(BeZero())

			session := sessions[sessionID]
			Expect(session.Messages).To(HaveLen(1))
			Expect(session.TotalMessages).To(Equal(1))
			Expect(session.UserQuestions).To(Equal(1))
			Expect(session.AgentResponses).To(BeZero())

			_, err = svc.AddMessage(ctx, sessionID, model.MessageAgentResponse, "The ADM is...")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.AgentResponses).To(Equal(1))
		})

		It("detects topics by keyword without duplicates", func() {
			_, err := svc.AddMessage(ctx, sessionID, model.MessageUserQuestion, "Tell me about governance and data governance")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddMessage(ctx, sessionID, model.MessageUserQuestion, "More on governance please")
			Expect(err).NotTo(HaveOccurred())

			Expect(sessions[sessionID].Context.TopicsDiscussed).To(Equal([]string{"data", "governance"}))
		})

		It("records confusion against the current topic on user questions", func() {
			sessions[sessionID].Context.CurrentTopic = "adm_overview"

			_, err := svc.AddMessage(ctx, sessionID, model.MessageUserQuestion, "I'm confused about this phase")
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions[sessionID].Context.ConfusionIndicators).To(Equal([]string{"adm_overview"}))

			// Agent responses never count as confusion.
			_, err = svc.AddMessage(ctx, sessionID, model.MessageAgentResponse, "This can seem complicated at first")
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions[sessionID].Context.ConfusionIndicators).To(HaveLen(1))
		})

		It("rejects messages on a paused session", func() {
			Expect(svc.Pause(ctx, sessionID)).To(Succeed())

			_, err := svc.AddMessage(ctx, sessionID, model.MessageUserQuestion, "hello?")
			Expect(err).To(MatchError(service.ErrSessionNotActive))
		})
	})

	Describe("History", func() {
		It("limits assessment mode to its five-message window", func() {
			session, err := svc.Create(ctx, "alice", model.ModeAssessment)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 8; i++ {
				_, err := svc.AddMessage(ctx, session.SessionID, model.MessageUserQuestion, fmt.Sprintf("question %d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			history, err := svc.History(ctx, session.SessionID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(5))
			Expect(history[0].Content).To(Equal("question 3"))
			Expect(history[4].Content).To(Equal("question 7"))
		})

		It("honors an explicit limit", func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 4; i++ {
				_, err := svc.AddMessage(ctx, session.SessionID, model.MessageUserQuestion, fmt.Sprintf("q%d", i))
				Expect(err).NotTo(HaveOccurred())
			}

			history, err := svc.History(ctx, session.SessionID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[1].Content).To(Equal("q3"))
		})
	})

	Describe("Pause and Resume", func() {
		var sessionID string

		BeforeEach(func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			sessionID = session.SessionID
		})

		It("round-trips through the paused state", func() {
			Expect(svc.Pause(ctx, sessionID)).To(Succeed())
			Expect(sessions[sessionID].State).To(Equal(model.SessionPaused))

			Expect(svc.Resume(ctx, sessionID)).To(Succeed())
			Expect(sessions[sessionID].State).To(Equal(model.SessionActive))
		})

		It("rejects pausing a paused session", func() {
			Expect(svc.Pause(ctx, sessionID)).To(Succeed())
			Expect(svc.Pause(ctx, sessionID)).To(MatchError(service.ErrSessionNotActive))
		})

		It("rejects resuming an active session", func() {
			Expect(svc.Resume(ctx, sessionID)).To(MatchError(service.ErrSessionNotPaused))
		})
	})

	Describe("End", func() {
		It("completes the session and records it for analytics", func() {
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddMessage(ctx, session.SessionID, model.MessageUserQuestion, "architecture basics?")
			Expect(err).NotTo(HaveOccurred())

			ended, err := svc.End(ctx, session.SessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ended.State).To(Equal(model.SessionCompleted))
			Expect(recorded).To(HaveLen(1))
			Expect(recorded[0].SessionID).To(Equal(session.SessionID))
		})

		It("still ends the session when recording fails", func() {
			recorder.fn = func(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error) {
				return nil, errors.New("analytics down")
			}
			session, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())

			ended, err := svc.End(ctx, session.SessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ended.State).To(Equal(model.SessionCompleted))
		})
	})

	Describe("CleanupExpired", func() {
		It("expires only stale active or paused sessions", func() {
			stale, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			sessions[stale.SessionID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

			pausedStale, err := svc.Create(ctx, "alice", model.ModeQA)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Pause(ctx, pausedStale.SessionID)).To(Succeed())
			sessions[pausedStale.SessionID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

			live, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())

			done, err := svc.End(ctx, live.SessionID)
			Expect(err).NotTo(HaveOccurred())
			doneCopy := *done
			doneCopy.ExpiresAt = time.Now().UTC().Add(-time.Minute)
			sessions[done.SessionID] = &doneCopy

			fresh, err := svc.Create(ctx, "alice", model.ModeReview)
			Expect(err).NotTo(HaveOccurred())

			count, err := svc.CleanupExpired(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
			Expect(sessions[stale.SessionID].State).To(Equal(model.SessionExpired))
			Expect(sessions[pausedStale.SessionID].State).To(Equal(model.SessionExpired))
			Expect(sessions[done.SessionID].State).To(Equal(model.SessionCompleted))
			Expect(sessions[fresh.SessionID].State).To(Equal(model.SessionActive))
		})
	})

	Describe("Statistics", func() {
		It("aggregates the user's sessions", func() {
			first, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddMessage(ctx, first.SessionID, model.MessageUserQuestion, "governance question")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddMessage(ctx, first.SessionID, model.MessageAgentResponse, "answer")
			Expect(err).NotTo(HaveOccurred())

			second, err := svc.Create(ctx, "alice", model.ModeLearning)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddMessage(ctx, second.SessionID, model.MessageUserQuestion, "adm question")
			Expect(err).NotTo(HaveOccurred())

			third, err := svc.Create(ctx, "alice", model.ModeQA)
			Expect(err).NotTo(HaveOccurred())
			_ = third

			stats, err := svc.Statistics(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalSessions).To(Equal(3))
			Expect(stats.TotalMessages).To(Equal(3))
			Expect(stats.AverageMessagesPerSession).To(BeNumerically("~", 1.0, 1e-9))
			Expect(stats.TotalTopicsDiscussed).To(Equal(2))
			Expect(stats.ModeDistribution).To(Equal(map[string]int{"learning": 2, "q_and_a": 1}))
			Expect(stats.MostUsedMode).To(Equal("learning"))
		})

		It("returns zero values for a user with no sessions", func() {
			stats, err := svc.Statistics(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalSessions).To(BeZero())
			Expect(stats.MostUsedMode).To(BeEmpty())
		})
	})
})

// recorderFn adapts a function to the SessionRecorder interface.
type recorderFn struct {
	fn func(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error)
}

func (r *recorderFn) RecordSession(ctx context.Context, session *model.ConversationSession) (*model.LearningSession, error) {
	if r.fn != nil {
		return r.fn(ctx, session)
	}
	return &model.LearningSession{}, nil
}
