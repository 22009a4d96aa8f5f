package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"togaftutor.app/tutor/internal/model"
)

// planTopicSpec is one row of a plan template. Templates are data; a
// fresh LearningPlan is stamped out per user so mutations never leak
// between profiles.
type planTopicSpec struct {
	id            string
	title         string
	description   string
	minutes       int
	prerequisites []string
}

type planSpec struct {
	name                 string
	description          string
	target               model.CertificationLevel
	allowTopicSkipping   bool
	enforcePrerequisites bool
	topics               []planTopicSpec
}

var planSpecs = map[model.PlanType]planSpec{
	model.PlanFoundationBeginner: {
		name:                 "TOGAF Foundation for Beginners",
		description:          "Structured learning path for TOGAF Foundation certification - beginner level",
		target:               model.CertificationFoundation,
		allowTopicSkipping:   true,
		enforcePrerequisites: true,
		topics: []planTopicSpec{
			{id: "togaf_introduction", title: "Introduction to TOGAF", description: "Overview of enterprise architecture and TOGAF framework", minutes: 45},
			{id: "enterprise_architecture_concepts", title: "Enterprise Architecture Core Concepts", description: "Fundamental EA concepts and terminology", minutes: 60, prerequisites: []string{"togaf_introduction"}},
			{id: "adm_overview", title: "Architecture Development Method (ADM) Overview", description: "Introduction to TOGAF ADM phases and approach", minutes: 90, prerequisites: []string{"enterprise_architecture_concepts"}},
			{id: "preliminary_phase", title: "Preliminary Phase", description: "Preparing for architecture work", minutes: 75, prerequisites: []string{"adm_overview"}},
			{id: "phase_a_vision", title: "Phase A: Architecture Vision", description: "Creating and validating architecture vision", minutes: 90, prerequisites: []string{"preliminary_phase"}},
		},
	},
	model.PlanFoundationReview: {
		name:               "TOGAF Foundation Review",
		description:        "Quick review of key TOGAF Foundation concepts",
		target:             model.CertificationFoundation,
		allowTopicSkipping: true,
		topics: []planTopicSpec{
			{id: "part_0_introduction_core_concepts", title: "Introduction and Core Concepts", description: "TOGAF framework overview and fundamental enterprise architecture concepts", minutes: 45},
			{id: "part_1_architecture_development_method", title: "Architecture Development Method", description: "Complete ADM lifecycle and phase-by-phase approach", minutes: 60},
			{id: "part_2_adm_techniques", title: "ADM Techniques", description: "Key techniques, guidelines, and best practices for ADM phases", minutes: 50},
			{id: "part_3_applying_adm", title: "Applying the ADM", description: "Practical application of ADM in different contexts and scenarios", minutes: 45},
			{id: "part_4_architecture_content", title: "Architecture Content", description: "Architecture artifacts, deliverables, and enterprise continuum", minutes: 50},
			{id: "part_5_enterprise_capability_governance", title: "Enterprise Architecture Capability & Governance", description: "Architecture governance, capability management, and organizational structures", minutes: 50},
		},
	},
	model.PlanPractitionerPrep: {
		name:                 "TOGAF Practitioner Preparation",
		description:          "Advanced topics for TOGAF Practitioner certification",
		target:               model.CertificationPractitioner,
		enforcePrerequisites: true,
		topics: []planTopicSpec{
			{id: "practitioners_approach_adm", title: "Practitioner's Approach to ADM", description: "Practical guidance for implementing the Architecture Development Method", minutes: 90},
			{id: "business_capabilities", title: "Business Capabilities", description: "Business capability modeling and management techniques", minutes: 75},
			{id: "risk_security_integration", title: "Risk and Security Integration", description: "Integrating risk management and security into enterprise architecture", minutes: 80},
			{id: "digital_enterprise", title: "Digital Enterprise Architecture", description: "Architecture approaches for digital transformation and modern enterprises", minutes: 85},
			{id: "value_streams", title: "Value Streams and Value Stream Mapping", description: "Value stream identification, mapping, and optimization techniques", minutes: 70},
			{id: "business_scenarios", title: "Business Scenarios", description: "Using business scenarios to drive architecture requirements", minutes: 65},
			{id: "ea_capability_guide", title: "Enterprise Architecture Capability", description: "Building and managing enterprise architecture capability", minutes: 80},
			{id: "architecture_maturity_models", title: "Architecture Maturity Models", description: "Assessing and improving architecture maturity in organizations", minutes: 75},
		},
	},
	model.PlanExtendedPractitioner: {
		name:               "Extended Practitioner Guides",
		description:        "Comprehensive coverage of specialized TOGAF Practitioner guides and advanced topics",
		target:             model.CertificationPractitioner,
		allowTopicSkipping: true,
		topics: []planTopicSpec{
			{id: "information_mapping", title: "Information Mapping", description: "Advanced techniques for mapping and managing enterprise information", minutes: 70},
			{id: "enterprise_agility", title: "Enterprise Agility", description: "Architecture approaches for achieving organizational agility", minutes: 75},
			{id: "business_models", title: "Business Models in Enterprise Architecture", description: "Modeling and analyzing business models within EA framework", minutes: 65},
			{id: "adm_agile_sprints", title: "ADM with Agile Development Sprints", description: "Integrating TOGAF ADM with agile development methodologies", minutes: 80},
			{id: "organization_mapping", title: "Organization Mapping", description: "Mapping organizational structures and relationships in EA", minutes: 60},
			{id: "soa_guide", title: "Service-Oriented Architecture (SOA)", description: "SOA principles and implementation within TOGAF framework", minutes: 85},
			{id: "trm_guide", title: "Technical Reference Model (TRM)", description: "Understanding and applying the TOGAF Technical Reference Model", minutes: 70},
			{id: "iii_rm_guide", title: "Integrated Information Infrastructure Reference Model", description: "III-RM for information systems architecture planning", minutes: 75},
			{id: "digital_technology_adoption", title: "Digital Technology Adoption", description: "Strategies for adopting and integrating digital technologies", minutes: 80},
			{id: "microservices_architecture", title: "Microservices Architecture", description: "Microservices patterns and principles in enterprise architecture", minutes: 90},
			{id: "government_reference_model", title: "Government Reference Model", description: "TOGAF adaptation for government and public sector organizations", minutes: 65},
			{id: "architecture_skills_framework", title: "Architecture Skills Framework", description: "Building and managing architecture team capabilities", minutes: 60},
			{id: "business_capability_planning", title: "Business Capability Planning", description: "Advanced business capability planning and roadmapping", minutes: 70},
			{id: "digital_business_reference_model", title: "Digital Business Reference Model", description: "Reference models for digital business transformation", minutes: 75},
			{id: "information_arch_metadata", title: "Information Architecture and Metadata", description: "Advanced information architecture and metadata management", minutes: 65},
			{id: "bi_analytics", title: "Business Intelligence and Analytics", description: "BI and analytics architecture within enterprise context", minutes: 80},
			{id: "sustainable_is", title: "Sustainable Information Systems", description: "Green IT and sustainable information systems architecture", minutes: 60},
			{id: "customer_mdm", title: "Customer Master Data Management", description: "Customer MDM strategies and implementation approaches", minutes: 70},
			{id: "architecture_project_management", title: "Architecture Project Management", description: "Managing architecture projects and transformation initiatives", minutes: 85},
		},
	},
}

// NewPlanFromTemplate stamps out a fresh learning plan for the given
// type, adjusted for the user's experience level. Beginners get 20%
// more time per topic; advanced and expert users get 20% less plus
// relaxed gating.
func NewPlanFromTemplate(planType model.PlanType, level model.ExperienceLevel) (*model.LearningPlan, error) {
	spec, ok := planSpecs[planType]
	if !ok {
		return nil, fmt.Errorf("unknown plan type %q", planType)
	}

	plan := &model.LearningPlan{
		PlanID:               uuid.NewString(),
		PlanName:             spec.name,
		PlanType:             planType,
		TargetCertification:  spec.target,
		Description:          spec.description,
		Topics:               make([]model.PlanTopic, 0, len(spec.topics)),
		AllowTopicSkipping:   spec.allowTopicSkipping,
		EnforcePrerequisites: spec.enforcePrerequisites,
		IsActive:             true,
		CreatedAt:            time.Now().UTC(),
	}

	for i, t := range spec.topics {
		plan.Topics = append(plan.Topics, model.PlanTopic{
			TopicID:         t.id,
			Title:           t.title,
			Description:     t.description,
			DurationMinutes: t.minutes,
			Prerequisites:   append([]string(nil), t.prerequisites...),
			OrderIndex:      i,
			Status:          model.TopicNotStarted,
		})
	}

	adjustPlanForExperience(plan, level)

	for i := range plan.Topics {
		plan.TotalDurationMinutes += plan.Topics[i].DurationMinutes
	}

	return plan, nil
}

func adjustPlanForExperience(plan *model.LearningPlan, level model.ExperienceLevel) {
	switch level {
	case model.ExperienceBeginner:
		for i := range plan.Topics {
			plan.Topics[i].DurationMinutes = int(float64(plan.Topics[i].DurationMinutes) * 1.2)
		}
	case model.ExperienceAdvanced, model.ExperienceExpert:
		for i := range plan.Topics {
			plan.Topics[i].DurationMinutes = int(float64(plan.Topics[i].DurationMinutes) * 0.8)
		}
		plan.AllowTopicSkipping = true
		plan.EnforcePrerequisites = false
	}
}

// canProceed reports whether every prerequisite of the topic is
// completed. Gating is a no-op when the plan does not enforce it.
func canProceed(plan *model.LearningPlan, topic *model.PlanTopic) bool {
	if !plan.EnforcePrerequisites {
		return true
	}
	for _, prereqID := range topic.Prerequisites {
		prereq := plan.Topic(prereqID)
		if prereq == nil || prereq.Status != model.TopicCompleted {
			return false
		}
	}
	return true
}

// nextAvailableTopics returns up to limit not-started topics whose
// prerequisites are satisfied, in plan order.
func nextAvailableTopics(plan *model.LearningPlan, limit int) []model.PlanTopic {
	var available []model.PlanTopic
	for i := range plan.Topics {
		topic := &plan.Topics[i]
		if topic.Status == model.TopicNotStarted && canProceed(plan, topic) {
			available = append(available, *topic)
			if len(available) == limit {
				break
			}
		}
	}
	return available
}

// updatePlanProgress recomputes the plan's completion rollups.
func updatePlanProgress(plan *model.LearningPlan) {
	completed := 0
	for i := range plan.Topics {
		if plan.Topics[i].Status == model.TopicCompleted {
			completed++
		}
	}
	plan.TopicsCompleted = completed
	if len(plan.Topics) > 0 {
		plan.CompletionPercentage = float64(completed) / float64(len(plan.Topics)) * 100
	}
}

// advanceCursor moves the plan cursor to the next not-started topic
// with satisfied prerequisites, scanning forward from the current
// position.
func advanceCursor(plan *model.LearningPlan) {
	for i := plan.CurrentTopicIndex + 1; i < len(plan.Topics); i++ {
		topic := &plan.Topics[i]
		if topic.Status == model.TopicNotStarted && canProceed(plan, topic) {
			plan.CurrentTopicIndex = i
			return
		}
	}
}
