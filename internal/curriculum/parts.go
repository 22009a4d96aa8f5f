// Package curriculum holds the TOGAF document taxonomy: which file belongs
// to which certification part or guide, the chapter structure of each part,
// prerequisite ordering, and the keyword tables used for classification.
package curriculum

import "togaftutor.app/tutor/internal/model"

// Source directory names the corpus is partitioned into.
const (
	DirCoreTopics     = "core_topics"     // Foundation
	DirExtendedTopics = "extended_topics" // Practitioner
)

// PartInfo carries the official identity of a Foundation document.
type PartInfo struct {
	Part            model.FoundationPart
	OfficialTitle   string
	PartDescription string
	TOGAFPart       string
}

var foundationFiles = map[string]PartInfo{
	"C220-Part0e.pdf": {
		Part:            model.Part0IntroductionCoreConcepts,
		OfficialTitle:   "TOGAF® Standard – Introduction and Core Concepts",
		PartDescription: "Part 0: Introduction and Core Concepts",
		TOGAFPart:       "Part 0",
	},
	"C220-Part1e.pdf": {
		Part:            model.Part1ArchitectureDevelopmentMethod,
		OfficialTitle:   "TOGAF® Standard – Architecture Development Method",
		PartDescription: "Part 1: Architecture Development Method",
		TOGAFPart:       "Part 1",
	},
	"C220-Part2e.pdf": {
		Part:            model.Part2ADMTechniques,
		OfficialTitle:   "TOGAF® Standard – ADM Techniques",
		PartDescription: "Part 2: ADM Techniques",
		TOGAFPart:       "Part 2",
	},
	"C220-Part3e.pdf": {
		Part:            model.Part3ApplyingADM,
		OfficialTitle:   "TOGAF® Standard – Applying the ADM",
		PartDescription: "Part 3: Applying the ADM",
		TOGAFPart:       "Part 3",
	},
	"C220-Part4e.pdf": {
		Part:            model.Part4ArchitectureContent,
		OfficialTitle:   "TOGAF® Standard – Architecture Content",
		PartDescription: "Part 4: Architecture Content",
		TOGAFPart:       "Part 4",
	},
	"C220-Part5e.pdf": {
		Part:            model.Part5EnterpriseCapabilityGovernance,
		OfficialTitle:   "TOGAF® Standard – Enterprise Architecture Capability and Governance",
		PartDescription: "Part 5: Enterprise Architecture Capability and Governance",
		TOGAFPart:       "Part 5",
	},
}

var practitionerFiles = map[string]model.PractitionerGuide{
	"G152e.pdf": model.GuideRiskSecurityIntegration,
	"G190e.pdf": model.GuideInformationMapping,
	"G186e.pdf": model.GuidePractitionersApproachADM,
	"G217e.pdf": model.GuideDigitalEnterprise,
	"G20Fe.pdf": model.GuideEnterpriseAgility,
	"G18Ae.pdf": model.GuideBusinessModels,
	"G210e.pdf": model.GuideADMAgileSprints,
	"G178e.pdf": model.GuideValueStreams,
	"G206e.pdf": model.GuideOrganizationMapping,
	"G174e.pdf": model.GuideSOA,
	"G175e.pdf": model.GuideTRM,
	"G179e.pdf": model.GuideIIIRM,
	"G211e.pdf": model.GuideBusinessCapabilities,
	"G212e.pdf": model.GuideDigitalTechnologyAdoption,
	"G21Ie.pdf": model.GuideMicroservicesArchitecture,
	"G176e.pdf": model.GuideBusinessScenarios,
	"G21De.pdf": model.GuideGovernmentReferenceModel,
	"G198e.pdf": model.GuideArchitectureSkillsFramework,
	"G233e.pdf": model.GuideBusinessCapabilityPlanning,
	"G21He.pdf": model.GuideDigitalBusinessReferenceModel,
	"G234e.pdf": model.GuideInformationArchMetadata,
	"G238e.pdf": model.GuideBIAnalytics,
	"G184e.pdf": model.GuideEACapability,
	"G242e.pdf": model.GuideSustainableIS,
	"G203e.pdf": model.GuideArchitectureMaturityModels,
	"G21Be.pdf": model.GuideCustomerMDM,
	"G188e.pdf": model.GuideArchitectureProjectManagement,
}

// FoundationPartForFile maps a Foundation file name to its part.
// Unknown files map to nothing.
func FoundationPartForFile(fileName string) (PartInfo, bool) {
	info, ok := foundationFiles[fileName]
	return info, ok
}

// PractitionerGuideForFile maps a Practitioner file name to its series guide.
func PractitionerGuideForFile(fileName string) (model.PractitionerGuide, bool) {
	g, ok := practitionerFiles[fileName]
	return g, ok
}

// CertificationLevelForDirectory maps a source directory to the
// certification level its documents belong to.
func CertificationLevelForDirectory(dir string) model.CertificationLevel {
	if dir == DirExtendedTopics {
		return model.CertificationPractitioner
	}
	return model.CertificationFoundation
}
