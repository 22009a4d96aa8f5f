package curriculum

import (
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// contentTypeRule is one classification rule. Rules are evaluated in
// order; the first match wins. allOf patterns must all be present,
// anyOf patterns need one.
type contentTypeRule struct {
	contentType model.ContentType
	allOf       []string
	anyOf       []string
}

// Compound rules first: they are more specific than single-keyword rules.
var contentTypeRules = []contentTypeRule{
	{contentType: model.ContentTypeReadinessAssessment, allOf: []string{"assessment", "readiness"}},
	{contentType: model.ContentTypeMaturityModel, allOf: []string{"maturity", "model"}},
	{contentType: model.ContentTypeReferenceModel, anyOf: []string{"reference model"}},
	{contentType: model.ContentTypeDefinition, anyOf: []string{"definition", "means"}},
	{contentType: model.ContentTypeChecklist, anyOf: []string{"checklist", "check list"}},
	{contentType: model.ContentTypeExample, anyOf: []string{"example", "for example"}},
	{contentType: model.ContentTypeDeliverable, anyOf: []string{"deliverable"}},
	{contentType: model.ContentTypeTechnique, anyOf: []string{"technique", "method"}},
	{contentType: model.ContentTypePattern, anyOf: []string{"pattern"}},
	{contentType: model.ContentTypeFramework, anyOf: []string{"framework"}},
	{contentType: model.ContentTypeMetamodel, anyOf: []string{"metamodel"}},
}

// ClassifyContentType assigns a content type to a chunk. Structural cues
// (images, tables) take priority over textual keyword cues; the textual
// rules run in fixed order so classification is reproducible.
func ClassifyContentType(text string, hasImages, hasTables bool) model.ContentType {
	if hasImages {
		return model.ContentTypeDiagram
	}
	if hasTables {
		return model.ContentTypeTable
	}

	lower := strings.ToLower(text)
	for _, rule := range contentTypeRules {
		if matches(lower, rule) {
			return rule.contentType
		}
	}
	return model.ContentTypeConcept
}

func matches(lower string, rule contentTypeRule) bool {
	if len(rule.allOf) > 0 {
		for _, p := range rule.allOf {
			if !strings.Contains(lower, p) {
				return false
			}
		}
		return true
	}
	for _, p := range rule.anyOf {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

var advancedTermsTechniques = []string{"advanced", "complex", "enterprise", "governance"}

var advancedTermsContent = []string{"compliance", "governance", "metamodel"}

// DifficultyForChapter assigns difficulty to Foundation content by part
// and chapter title. Practitioner content is handled by the caller and
// defaults to intermediate.
func DifficultyForChapter(part model.FoundationPart, chapterTitle string) model.DifficultyLevel {
	lower := strings.ToLower(chapterTitle)

	if part == model.Part0IntroductionCoreConcepts {
		return model.DifficultyBasic
	}
	if strings.Contains(lower, "introduction") {
		return model.DifficultyBasic
	}

	switch part {
	case model.Part2ADMTechniques, model.Part3ApplyingADM:
		if containsAny(lower, advancedTermsTechniques) {
			return model.DifficultyAdvanced
		}
		return model.DifficultyIntermediate
	case model.Part4ArchitectureContent, model.Part5EnterpriseCapabilityGovernance:
		if containsAny(lower, advancedTermsContent) {
			return model.DifficultyAdvanced
		}
		return model.DifficultyIntermediate
	}
	return model.DifficultyBasic
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
