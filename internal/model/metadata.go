package model

import (
	"fmt"
	"strings"
	"time"
)

type CertificationLevel string

const (
	CertificationFoundation   CertificationLevel = "foundation"
	CertificationPractitioner CertificationLevel = "practitioner"
)

type DifficultyLevel string

const (
	DifficultyBasic        DifficultyLevel = "basic"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ContentType classifies a chunk for learning purposes.
type ContentType string

const (
	ContentTypeConcept             ContentType = "concept"
	ContentTypeProcess             ContentType = "process"
	ContentTypeDiagram             ContentType = "diagram"
	ContentTypeExample             ContentType = "example"
	ContentTypeChecklist           ContentType = "checklist"
	ContentTypeDeliverable         ContentType = "deliverable"
	ContentTypeQuestion            ContentType = "question"
	ContentTypeAssessment          ContentType = "assessment"
	ContentTypeTable               ContentType = "table"
	ContentTypeDefinition          ContentType = "definition"
	ContentTypeGuideline           ContentType = "guideline"
	ContentTypeProcedure           ContentType = "procedure"
	ContentTypeTemplate            ContentType = "template"
	ContentTypeTechnique           ContentType = "technique"
	ContentTypePattern             ContentType = "pattern"
	ContentTypeReferenceModel      ContentType = "reference_model"
	ContentTypeMethodology         ContentType = "methodology"
	ContentTypeFramework           ContentType = "framework"
	ContentTypeMetamodel           ContentType = "metamodel"
	ContentTypeReadinessAssessment ContentType = "readiness_assessment"
	ContentTypeMaturityModel       ContentType = "maturity_model"
)

// ADMPhase is one of the TOGAF Architecture Development Method phases.
type ADMPhase string

const (
	PhasePreliminary  ADMPhase = "preliminary"
	PhaseA            ADMPhase = "phase_a" // Architecture Vision
	PhaseB            ADMPhase = "phase_b" // Business Architecture
	PhaseC            ADMPhase = "phase_c" // Information Systems Architecture
	PhaseD            ADMPhase = "phase_d" // Technology Architecture
	PhaseE            ADMPhase = "phase_e" // Opportunities & Solutions
	PhaseF            ADMPhase = "phase_f" // Migration Planning
	PhaseG            ADMPhase = "phase_g" // Implementation Governance
	PhaseH            ADMPhase = "phase_h" // Architecture Change Management
	PhaseRequirements ADMPhase = "requirements_management"
)

type ArchitectureDomain string

const (
	DomainBusiness    ArchitectureDomain = "business"
	DomainData        ArchitectureDomain = "data"
	DomainApplication ArchitectureDomain = "application"
	DomainTechnology  ArchitectureDomain = "technology"
)

// FoundationPart identifies one of the six TOGAF Foundation documents.
type FoundationPart string

const (
	Part0IntroductionCoreConcepts       FoundationPart = "part_0_introduction_core_concepts"
	Part1ArchitectureDevelopmentMethod  FoundationPart = "part_1_architecture_development_method"
	Part2ADMTechniques                  FoundationPart = "part_2_adm_techniques"
	Part3ApplyingADM                    FoundationPart = "part_3_applying_adm"
	Part4ArchitectureContent            FoundationPart = "part_4_architecture_content"
	Part5EnterpriseCapabilityGovernance FoundationPart = "part_5_enterprise_capability_governance"
)

// PractitionerGuide identifies one of the TOGAF Series Guides.
type PractitionerGuide string

const (
	GuideRiskSecurityIntegration       PractitionerGuide = "risk_security_integration"
	GuideInformationMapping            PractitionerGuide = "information_mapping"
	GuidePractitionersApproachADM      PractitionerGuide = "practitioners_approach_adm"
	GuideDigitalEnterprise             PractitionerGuide = "digital_enterprise"
	GuideEnterpriseAgility             PractitionerGuide = "enterprise_agility"
	GuideBusinessModels                PractitionerGuide = "business_models"
	GuideADMAgileSprints               PractitionerGuide = "adm_agile_sprints"
	GuideValueStreams                  PractitionerGuide = "value_streams"
	GuideOrganizationMapping           PractitionerGuide = "organization_mapping"
	GuideSOA                           PractitionerGuide = "soa_guide"
	GuideTRM                           PractitionerGuide = "trm_guide"
	GuideIIIRM                         PractitionerGuide = "iii_rm_guide"
	GuideBusinessCapabilities          PractitionerGuide = "business_capabilities"
	GuideDigitalTechnologyAdoption     PractitionerGuide = "digital_technology_adoption"
	GuideMicroservicesArchitecture     PractitionerGuide = "microservices_architecture"
	GuideBusinessScenarios             PractitionerGuide = "business_scenarios"
	GuideGovernmentReferenceModel      PractitionerGuide = "government_reference_model"
	GuideArchitectureSkillsFramework   PractitionerGuide = "architecture_skills_framework"
	GuideBusinessCapabilityPlanning    PractitionerGuide = "business_capability_planning"
	GuideDigitalBusinessReferenceModel PractitionerGuide = "digital_business_reference_model"
	GuideInformationArchMetadata       PractitionerGuide = "information_arch_metadata"
	GuideBIAnalytics                   PractitionerGuide = "bi_analytics"
	GuideEACapability                  PractitionerGuide = "ea_capability_guide"
	GuideSustainableIS                 PractitionerGuide = "sustainable_is"
	GuideArchitectureMaturityModels    PractitionerGuide = "architecture_maturity_models"
	GuideCustomerMDM                   PractitionerGuide = "customer_mdm"
	GuideArchitectureProjectManagement PractitionerGuide = "architecture_project_management"
)

// DocumentInfo carries document-level identity for a chunk.
type DocumentInfo struct {
	SourceFile       string    `json:"source_file"`
	SourceDirectory  string    `json:"source_directory"` // "core_topics" or "extended_topics"
	DocumentTitle    string    `json:"document_title"`
	OfficialTitle    string    `json:"official_title,omitempty"`
	PartDescription  string    `json:"part_description,omitempty"`
	SeriesTitle      string    `json:"series_title,omitempty"`
	TOGAFPart        string    `json:"togaf_part,omitempty"`     // Foundation: "Part 0".."Part 5"
	TOGAFGuideID     string    `json:"togaf_guide_id,omitempty"` // Practitioner: "G152e" etc.
	TotalPages       int       `json:"total_pages"`
	ProcessingMethod string    `json:"processing_method"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// StructuralInfo locates a chunk within its document.
type StructuralInfo struct {
	PageNumber    int    `json:"page_number"`
	ChapterNumber string `json:"chapter_number,omitempty"`
	ChapterTitle  string `json:"chapter_title,omitempty"`
	SectionNumber string `json:"section_number,omitempty"`
	SectionTitle  string `json:"section_title,omitempty"`
	WordCount     int    `json:"word_count"`
}

// SemanticInfo carries curriculum enrichment for a chunk.
type SemanticInfo struct {
	KeyConcepts         []string             `json:"key_concepts,omitempty"`
	RelatedTopics       []string             `json:"related_topics,omitempty"`
	ADMPhases           []ADMPhase           `json:"adm_phases,omitempty"`
	ArchitectureDomains []ArchitectureDomain `json:"architecture_domains,omitempty"`
	FoundationPart      FoundationPart       `json:"foundation_part,omitempty"`
	PractitionerGuide   PractitionerGuide    `json:"practitioner_guide,omitempty"`
}

// ContentMetadata is the classification record attached to every chunk.
// Built once per chunk and never mutated after storage.
type ContentMetadata struct {
	CertificationLevel CertificationLevel `json:"certification_level"`
	ContentType        ContentType        `json:"content_type"`
	DifficultyLevel    DifficultyLevel    `json:"difficulty_level"`

	Document   DocumentInfo   `json:"document"`
	Structural StructuralInfo `json:"structural"`
	Semantic   SemanticInfo   `json:"semantic"`

	HasDiagrams bool `json:"has_diagrams"`
	HasTables   bool `json:"has_tables"`

	ContentQualityScore  float64 `json:"content_quality_score"`
	ExtractionConfidence float64 `json:"extraction_confidence"`
}

// Validate rejects metadata whose certification level is inconsistent with
// its part/guide assignment. Foundation chunks may only carry a foundation
// part; practitioner chunks may only carry a series guide.
func (m ContentMetadata) Validate() error {
	switch m.CertificationLevel {
	case CertificationFoundation:
		if m.Semantic.PractitionerGuide != "" {
			return fmt.Errorf("foundation content cannot carry practitioner guide %q", m.Semantic.PractitionerGuide)
		}
	case CertificationPractitioner:
		if m.Semantic.FoundationPart != "" {
			return fmt.Errorf("practitioner content cannot carry foundation part %q", m.Semantic.FoundationPart)
		}
	default:
		return fmt.Errorf("unknown certification level %q", m.CertificationLevel)
	}

	if m.ContentQualityScore < 0 || m.ContentQualityScore > 1 {
		return fmt.Errorf("content quality score %f out of [0,1]", m.ContentQualityScore)
	}
	if m.ExtractionConfidence < 0 || m.ExtractionConfidence > 1 {
		return fmt.Errorf("extraction confidence %f out of [0,1]", m.ExtractionConfidence)
	}
	return nil
}

// CertificationContext returns a human-readable summary of where this chunk
// sits in the certification curriculum.
func (m ContentMetadata) CertificationContext() string {
	if m.CertificationLevel == CertificationFoundation {
		if m.Semantic.FoundationPart != "" {
			return "TOGAF Foundation - " + titleize(string(m.Semantic.FoundationPart))
		}
		return "TOGAF Foundation"
	}
	if m.Semantic.PractitionerGuide != "" {
		return "TOGAF Practitioner - " + titleize(string(m.Semantic.PractitionerGuide))
	}
	return "TOGAF Practitioner"
}

// SearchTags flattens the classification into filterable tags.
func (m ContentMetadata) SearchTags() []string {
	tags := []string{
		string(m.CertificationLevel),
		string(m.ContentType),
		string(m.DifficultyLevel),
	}
	if m.Semantic.FoundationPart != "" {
		tags = append(tags, "foundation_part:"+string(m.Semantic.FoundationPart))
	}
	if m.Semantic.PractitionerGuide != "" {
		tags = append(tags, "practitioner_guide:"+string(m.Semantic.PractitionerGuide))
	}
	if m.Structural.ChapterTitle != "" {
		tags = append(tags, "chapter:"+tagify(m.Structural.ChapterTitle))
	}
	if m.Structural.SectionTitle != "" {
		tags = append(tags, "section:"+tagify(m.Structural.SectionTitle))
	}
	for _, c := range m.Semantic.KeyConcepts {
		tags = append(tags, "concept:"+tagify(c))
	}
	for _, p := range m.Semantic.ADMPhases {
		tags = append(tags, "phase:"+string(p))
	}
	for _, d := range m.Semantic.ArchitectureDomains {
		tags = append(tags, "domain:"+string(d))
	}
	return tags
}

func tagify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

func titleize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
