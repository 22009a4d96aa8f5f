package curriculum

import (
	"strings"

	"togaftutor.app/tutor/internal/model"
)

var partChapters = map[model.FoundationPart][]string{
	model.Part0IntroductionCoreConcepts: {
		"Introduction",
		"1 Introduction",
		"2 The TOGAF Documentation Set",
		"3 Core Concepts",
		"4 Definitions",
		"A Referenced Documents",
		"B Glossary of Supplementary Definitions",
		"C Abbreviations",
	},
	model.Part1ArchitectureDevelopmentMethod: {
		"ADM",
		"1 Introduction",
		"2 Preliminary Phase",
		"3 Phase A: Architecture Vision",
		"4 Phase B: Business Architecture",
		"5 Phase C: Information Systems Architectures",
		"6 Phase C: Information Systems Architectures – Data Architecture",
		"7 Phase C: Information Systems Architectures – Application Architecture",
		"8 Phase D: Technology Architecture",
		"9 Phase E: Opportunities & Solutions",
		"10 Phase F: Migration Planning",
		"11 Phase G: Implementation Governance",
		"12 Phase H: Architecture Change Management",
		"13 ADM Architecture Requirements Management",
	},
	model.Part2ADMTechniques: {
		"1 Introduction",
		"2 Architecture Principles",
		"3 Stakeholder Management",
		"4 Architecture Patterns",
		"5 Gap Analysis",
		"6 Migration Planning Techniques",
		"7 Interoperability Requirements",
		"8 Business Transformation Readiness Assessment",
		"9 Risk Management",
		"10 Architecture Alternatives and Trade-Offs",
	},
	model.Part3ApplyingADM: {
		"1 Introduction",
		"2 Applying Iteration to the ADM",
		"3 Applying the ADM Across the Architecture Landscape",
		"4 Architecture Partitioning",
	},
	model.Part4ArchitectureContent: {
		"Architecture-Content",
		"1 Introduction",
		"2 TOGAF Content Framework and Enterprise Metamodel",
		"3 Architectural Artifacts",
		"4 Architecture Deliverables",
		"5 Building Blocks",
		"6 Enterprise Continuum",
		"7 Architecture Repository",
	},
	model.Part5EnterpriseCapabilityGovernance: {
		"EA-Capability-Governance",
		"1 Introduction",
		"2 Establishing an Architecture Capability",
		"3 Architecture Governance",
		"4 Architecture Board",
		"5 Architecture Contracts",
		"6 Architecture Compliance",
	},
}

var partPrerequisites = map[model.FoundationPart][]model.FoundationPart{
	model.Part0IntroductionCoreConcepts:       {},
	model.Part1ArchitectureDevelopmentMethod:  {model.Part0IntroductionCoreConcepts},
	model.Part2ADMTechniques:                  {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod},
	model.Part3ApplyingADM:                    {model.Part1ArchitectureDevelopmentMethod, model.Part2ADMTechniques},
	model.Part4ArchitectureContent:            {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod},
	model.Part5EnterpriseCapabilityGovernance: {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod},
}

var partKeyConcepts = map[model.FoundationPart][]string{
	model.Part0IntroductionCoreConcepts: {
		"TOGAF Framework", "Enterprise Architecture", "Architecture Development",
		"Business Architecture", "Data Architecture", "Application Architecture",
		"Technology Architecture", "Architecture Governance",
	},
	model.Part1ArchitectureDevelopmentMethod: {
		"ADM", "Architecture Vision", "Business Architecture", "Information Systems Architecture",
		"Technology Architecture", "Opportunities & Solutions", "Migration Planning",
		"Implementation Governance", "Architecture Change Management", "Requirements Management",
	},
	model.Part2ADMTechniques: {
		"Architecture Principles", "Stakeholder Management", "Architecture Patterns",
		"Gap Analysis", "Migration Planning", "Interoperability", "Business Transformation",
		"Risk Management", "Trade-off Analysis",
	},
	model.Part3ApplyingADM: {
		"ADM Iteration", "Architecture Landscape", "Architecture Partitioning",
		"Security Architecture", "SOA",
	},
	model.Part4ArchitectureContent: {
		"Content Framework", "Enterprise Metamodel", "Architectural Artifacts",
		"Architecture Deliverables", "Building Blocks", "Enterprise Continuum",
		"Architecture Repository", "Standards Information Base",
	},
	model.Part5EnterpriseCapabilityGovernance: {
		"Architecture Capability", "Architecture Governance", "Architecture Board",
		"Architecture Contracts", "Architecture Compliance", "Architecture Maturity",
	},
}

// Most series guides assume the first two Foundation parts.
var commonGuidePrerequisites = []model.FoundationPart{
	model.Part0IntroductionCoreConcepts,
	model.Part1ArchitectureDevelopmentMethod,
}

var guidePrerequisites = map[model.PractitionerGuide][]model.FoundationPart{
	model.GuideRiskSecurityIntegration:       {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part2ADMTechniques},
	model.GuideBusinessScenarios:             {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part2ADMTechniques},
	model.GuideADMAgileSprints:               {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part3ApplyingADM},
	model.GuidePractitionersApproachADM:      {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part2ADMTechniques, model.Part3ApplyingADM},
	model.GuideEACapability:                  {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part5EnterpriseCapabilityGovernance},
	model.GuideArchitectureProjectManagement: {model.Part0IntroductionCoreConcepts, model.Part1ArchitectureDevelopmentMethod, model.Part5EnterpriseCapabilityGovernance},
}

// An ordered table so substring checks are deterministic.
var chapterPhasePatterns = []struct {
	keyword string
	phase   model.ADMPhase
}{
	{"preliminary phase", model.PhasePreliminary},
	{"phase a", model.PhaseA},
	{"architecture vision", model.PhaseA},
	{"phase b", model.PhaseB},
	{"business architecture", model.PhaseB},
	{"phase c", model.PhaseC},
	{"information systems", model.PhaseC},
	{"data architecture", model.PhaseC},
	{"application architecture", model.PhaseC},
	{"phase d", model.PhaseD},
	{"technology architecture", model.PhaseD},
	{"phase e", model.PhaseE},
	{"opportunities", model.PhaseE},
	{"solutions", model.PhaseE},
	{"phase f", model.PhaseF},
	{"migration planning", model.PhaseF},
	{"phase g", model.PhaseG},
	{"implementation governance", model.PhaseG},
	{"phase h", model.PhaseH},
	{"architecture change management", model.PhaseH},
	{"requirements management", model.PhaseRequirements},
}

// Chapters returns the chapter list of a Foundation part.
func Chapters(part model.FoundationPart) []string {
	return partChapters[part]
}

// PartPrerequisites returns the Foundation parts that should be completed
// before studying the given part.
func PartPrerequisites(part model.FoundationPart) []model.FoundationPart {
	return partPrerequisites[part]
}

// KeyConcepts returns the key concepts attached to a Foundation part.
func KeyConcepts(part model.FoundationPart) []string {
	return partKeyConcepts[part]
}

// GuidePrerequisites returns the Foundation parts a series guide builds on.
func GuidePrerequisites(guide model.PractitionerGuide) []model.FoundationPart {
	if prereqs, ok := guidePrerequisites[guide]; ok {
		return prereqs
	}
	return commonGuidePrerequisites
}

// ADMPhaseForChapter maps a chapter title to its ADM phase, if any.
func ADMPhaseForChapter(chapterTitle string) (model.ADMPhase, bool) {
	lower := strings.ToLower(chapterTitle)
	for _, p := range chapterPhasePatterns {
		if strings.Contains(lower, p.keyword) {
			return p.phase, true
		}
	}
	return "", false
}
