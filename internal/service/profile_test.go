package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"togaftutor.app/tutor/internal/model"
	"togaftutor.app/tutor/internal/service"
)

var _ = Describe("ProfileService", func() {
	var (
		ctx      context.Context
		profiles map[string]*model.UserProfile
		svc      service.ProfileService
	)

	BeforeEach(func() {
		ctx = context.Background()
		profiles = map[string]*model.UserProfile{}
		svc = service.NewProfileService(inMemoryProfiles(profiles))
	})

	Describe("Create", func() {
		It("creates a beginner profile with defaults", func() {
			profile, err := svc.Create(ctx, "alice", "alice@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.UserID).NotTo(BeEmpty())
			Expect(profile.ExperienceLevel).To(Equal(model.ExperienceBeginner))
			Expect(profile.Preferences.ExplanationDepth).To(Equal("moderate"))
			Expect(profiles).To(HaveKey(profile.UserID))
		})

		It("rejects duplicate usernames", func() {
			_, err := svc.Create(ctx, "alice", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Create(ctx, "alice", "")
			Expect(err).To(MatchError(service.ErrUsernameTaken))
		})
	})

	Describe("CreatePlan", func() {
		var userID string

		BeforeEach(func() {
			profile, err := svc.Create(ctx, "bob", "")
			Expect(err).NotTo(HaveOccurred())
			userID = profile.UserID
		})

		It("stamps out the foundation beginner template with a prerequisite chain", func() {
			plan, err := svc.CreatePlan(ctx, userID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Topics).To(HaveLen(5))
			Expect(plan.EnforcePrerequisites).To(BeTrue())
			Expect(plan.TargetCertification).To(Equal(model.CertificationFoundation))
			Expect(plan.Topics[0].TopicID).To(Equal("togaf_introduction"))
			Expect(plan.Topics[1].Prerequisites).To(ConsistOf("togaf_introduction"))
		})

		It("inflates topic durations by 20% for beginners", func() {
			plan, err := svc.CreatePlan(ctx, userID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
			// Template base is 45 minutes for the first topic.
			Expect(plan.Topics[0].DurationMinutes).To(Equal(54))
		})

		It("relaxes gating and shortens durations for advanced users", func() {
			profiles[userID].ExperienceLevel = model.ExperienceAdvanced

			plan, err := svc.CreatePlan(ctx, userID, model.PlanPractitionerPrep)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.EnforcePrerequisites).To(BeFalse())
			Expect(plan.AllowTopicSkipping).To(BeTrue())
			Expect(plan.Topics[0].DurationMinutes).To(Equal(72))
		})

		It("activates the first plan only", func() {
			first, err := svc.CreatePlan(ctx, userID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreatePlan(ctx, userID, model.PlanFoundationReview)
			Expect(err).NotTo(HaveOccurred())

			Expect(profiles[userID].ActivePlanID).To(Equal(first.PlanID))
			Expect(profiles[userID].LearningPlans).To(HaveLen(2))
		})

		It("rejects unknown plan types", func() {
			_, err := svc.CreatePlan(ctx, userID, model.PlanType("mystery"))
			Expect(err).To(HaveOccurred())
		})

		It("builds the extended practitioner catalogue", func() {
			plan, err := svc.CreatePlan(ctx, userID, model.PlanExtendedPractitioner)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Topics).To(HaveLen(19))
			Expect(plan.TargetCertification).To(Equal(model.CertificationPractitioner))
		})
	})

	Describe("MarkTopicComplete", func() {
		var userID string

		BeforeEach(func() {
			profile, err := svc.Create(ctx, "carol", "")
			Expect(err).NotTo(HaveOccurred())
			userID = profile.UserID
			_, err = svc.CreatePlan(ctx, userID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
		})

		It("blocks completion when prerequisites are incomplete", func() {
			_, err := svc.MarkTopicComplete(ctx, userID, "adm_overview", true)
			Expect(err).To(MatchError(service.ErrPrerequisitesNotMet))

			plan := profiles[userID].ActivePlan()
			Expect(plan.Topic("adm_overview").Status).To(Equal(model.TopicNotStarted))
			Expect(plan.TopicsCompleted).To(BeZero())
		})

		It("completes topics in prerequisite order and advances the cursor", func() {
			plan, err := svc.MarkTopicComplete(ctx, userID, "togaf_introduction", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Topic("togaf_introduction").Status).To(Equal(model.TopicCompleted))
			Expect(plan.CurrentTopic().TopicID).To(Equal("enterprise_architecture_concepts"))
			Expect(plan.CompletionPercentage).To(BeNumerically("~", 20.0, 0.01))

			_, err = svc.MarkTopicComplete(ctx, userID, "enterprise_architecture_concepts", true)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.MarkTopicComplete(ctx, userID, "adm_overview", true)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reaches 100% on a fully completed plan", func() {
			for _, topicID := range []string{
				"togaf_introduction",
				"enterprise_architecture_concepts",
				"adm_overview",
				"preliminary_phase",
				"phase_a_vision",
			} {
				_, err := svc.MarkTopicComplete(ctx, userID, topicID, true)
				Expect(err).NotTo(HaveOccurred())
			}

			plan := profiles[userID].ActivePlan()
			Expect(plan.CompletionPercentage).To(Equal(100.0))
			Expect(plan.TopicsCompleted).To(Equal(5))
		})

		It("records topic progress with the plan's certification level", func() {
			_, err := svc.MarkTopicComplete(ctx, userID, "togaf_introduction", true)
			Expect(err).NotTo(HaveOccurred())

			progress := profiles[userID].TopicProgress["togaf_introduction"]
			Expect(progress).NotTo(BeNil())
			Expect(progress.CompletionPercentage).To(Equal(100.0))
			Expect(progress.CertificationLevel).To(Equal(model.CertificationFoundation))
		})

		It("rejects topics outside the plan", func() {
			_, err := svc.MarkTopicComplete(ctx, userID, "soa_guide", true)
			Expect(err).To(MatchError(service.ErrTopicNotInPlan))
		})
	})

	Describe("SkipTopic", func() {
		It("fails when the plan forbids skipping", func() {
			profile, err := svc.Create(ctx, "dave", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreatePlan(ctx, profile.UserID, model.PlanPractitionerPrep)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.SkipTopic(ctx, profile.UserID, "practitioners_approach_adm")
			Expect(err).To(MatchError(service.ErrSkippingNotAllowed))
		})

		It("skips and advances on skippable plans", func() {
			profile, err := svc.Create(ctx, "erin", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreatePlan(ctx, profile.UserID, model.PlanFoundationReview)
			Expect(err).NotTo(HaveOccurred())

			plan, err := svc.SkipTopic(ctx, profile.UserID, "part_0_introduction_core_concepts")
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Topics[0].Status).To(Equal(model.TopicSkipped))
			Expect(plan.CurrentTopicIndex).To(Equal(1))
		})
	})

	Describe("CurrentTopic", func() {
		It("reports the cursor topic with availability", func() {
			profile, err := svc.Create(ctx, "frank", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreatePlan(ctx, profile.UserID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())

			view, err := svc.CurrentTopic(ctx, profile.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Topic.TopicID).To(Equal("togaf_introduction"))
			Expect(view.CanProceed).To(BeTrue())
			Expect(view.TotalTopics).To(Equal(5))
			// Only the unprerequisited first topic is available initially.
			Expect(view.NextAvailable).To(HaveLen(1))
		})

		It("fails without an active plan", func() {
			profile, err := svc.Create(ctx, "grace", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CurrentTopic(ctx, profile.UserID)
			Expect(err).To(MatchError(service.ErrNoActivePlan))
		})
	})

	Describe("PlanOverview", func() {
		It("groups topics by effective status", func() {
			profile, err := svc.Create(ctx, "heidi", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreatePlan(ctx, profile.UserID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.MarkTopicComplete(ctx, profile.UserID, "togaf_introduction", true)
			Expect(err).NotTo(HaveOccurred())

			overview, err := svc.PlanOverview(ctx, profile.UserID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.TopicsByStatus["completed"]).To(HaveLen(1))
			Expect(overview.TopicsByStatus["in_progress"]).To(HaveLen(1))
			Expect(overview.TopicsByStatus["locked"]).To(HaveLen(3))
			Expect(overview.RemainingMinutes).To(BeNumerically(">", 0))
		})
	})

	Describe("UpdateProficiency", func() {
		var userID string

		BeforeEach(func() {
			profile, err := svc.Create(ctx, "ivan", "")
			Expect(err).NotTo(HaveOccurred())
			userID = profile.UserID
		})

		It("recomputes the overall mean and experience level", func() {
			_, err := svc.UpdateProficiency(ctx, userID, "adm_overview", 0.9)
			Expect(err).NotTo(HaveOccurred())
			profile, err := svc.UpdateProficiency(ctx, userID, "preliminary_phase", 0.7)
			Expect(err).NotTo(HaveOccurred())

			Expect(profile.OverallProficiency).To(BeNumerically("~", 0.8, 1e-9))
			Expect(profile.ExperienceLevel).To(Equal(model.ExperienceExpert))
		})

		DescribeTable("experience thresholds",
			func(score float64, expected model.ExperienceLevel) {
				profile, err := svc.UpdateProficiency(ctx, userID, "adm_overview", score)
				Expect(err).NotTo(HaveOccurred())
				Expect(profile.ExperienceLevel).To(Equal(expected))
			},
			Entry("expert at 0.8", 0.8, model.ExperienceExpert),
			Entry("advanced at 0.6", 0.6, model.ExperienceAdvanced),
			Entry("intermediate at 0.4", 0.4, model.ExperienceIntermediate),
			Entry("beginner below 0.4", 0.39, model.ExperienceBeginner),
		)

		It("clamps scores into [0,1]", func() {
			profile, err := svc.UpdateProficiency(ctx, userID, "adm_overview", 1.7)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.ProficiencyScores["adm_overview"]).To(Equal(1.0))
		})

		It("caps completion percentage at 100", func() {
			var profile *model.UserProfile
			var err error
			for i := 0; i < 10; i++ {
				profile, err = svc.UpdateProficiency(ctx, userID, "adm_overview", 0.9)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(profile.TopicProgress["adm_overview"].CompletionPercentage).To(Equal(100.0))
		})
	})

	Describe("Reset", func() {
		var userID string

		BeforeEach(func() {
			profile, err := svc.Create(ctx, "judy", "")
			Expect(err).NotTo(HaveOccurred())
			userID = profile.UserID
			_, err = svc.CreatePlan(ctx, userID, model.PlanFoundationBeginner)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.MarkTopicComplete(ctx, userID, "togaf_introduction", true)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.UpdateProficiency(ctx, userID, "togaf_introduction", 0.9)
			Expect(err).NotTo(HaveOccurred())
		})

		It("progress_only clears progress but keeps plans and proficiency", func() {
			Expect(svc.Reset(ctx, userID, model.ResetProgressOnly)).To(Succeed())

			profile := profiles[userID]
			Expect(profile.LearningPlans).To(HaveLen(1))
			Expect(profile.TopicProgress).To(BeEmpty())
			Expect(profile.ActivePlan().CompletionPercentage).To(BeZero())
			Expect(profile.ActivePlan().Topics[0].Status).To(Equal(model.TopicNotStarted))
			Expect(profile.ProficiencyScores).NotTo(BeEmpty())
		})

		It("learning_plans drops all plans", func() {
			Expect(svc.Reset(ctx, userID, model.ResetLearningPlans)).To(Succeed())

			profile := profiles[userID]
			Expect(profile.LearningPlans).To(BeEmpty())
			Expect(profile.ActivePlanID).To(BeEmpty())
		})

		It("full_reset returns the profile to beginner defaults", func() {
			Expect(svc.Reset(ctx, userID, model.ResetFull)).To(Succeed())

			profile := profiles[userID]
			Expect(profile.Username).To(Equal("judy"))
			Expect(profile.ExperienceLevel).To(Equal(model.ExperienceBeginner))
			Expect(profile.OverallProficiency).To(BeZero())
			Expect(profile.ProficiencyScores).To(BeEmpty())
		})

		It("refresh_current_plan re-stamps topics but keeps plan identity", func() {
			planID := profiles[userID].ActivePlanID
			Expect(svc.Reset(ctx, userID, model.ResetRefreshCurrentPlan)).To(Succeed())

			profile := profiles[userID]
			Expect(profile.ActivePlanID).To(Equal(planID))
			plan := profile.ActivePlan()
			Expect(plan.Topics[0].Status).To(Equal(model.TopicNotStarted))
			Expect(plan.CompletionPercentage).To(BeZero())
		})

		It("rejects unknown reset types", func() {
			err := svc.Reset(ctx, userID, model.ResetType("partial"))
			Expect(err).To(HaveOccurred())
		})
	})
})
