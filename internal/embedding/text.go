package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// keyConceptLimit bounds how many key concepts are appended to the
// embedding text; beyond a handful they dilute the content signal.
const keyConceptLimit = 5

// EmbeddingText combines chunk content with its classification context so
// the resulting vector encodes where the chunk sits in the curriculum,
// not just what it says.
func EmbeddingText(chunk model.ContentChunk) string {
	meta := chunk.Metadata
	parts := []string{chunk.Text}

	if meta.CertificationLevel != "" {
		parts = append(parts, "TOGAF "+string(meta.CertificationLevel)+" level content")
	}
	if meta.Semantic.FoundationPart != "" {
		parts = append(parts, "From "+titleize(string(meta.Semantic.FoundationPart)))
	}
	if meta.Semantic.PractitionerGuide != "" {
		parts = append(parts, "From TOGAF Series Guide: "+titleize(string(meta.Semantic.PractitionerGuide)))
	}
	if meta.Structural.ChapterTitle != "" {
		parts = append(parts, "Chapter: "+meta.Structural.ChapterTitle)
	}
	if meta.Structural.SectionTitle != "" {
		parts = append(parts, "Section: "+meta.Structural.SectionTitle)
	}
	if len(meta.Semantic.KeyConcepts) > 0 {
		concepts := meta.Semantic.KeyConcepts
		if len(concepts) > keyConceptLimit {
			concepts = concepts[:keyConceptLimit]
		}
		parts = append(parts, "Key concepts: "+strings.Join(concepts, ", "))
	}
	if len(meta.Semantic.ADMPhases) > 0 {
		phases := make([]string, len(meta.Semantic.ADMPhases))
		for i, p := range meta.Semantic.ADMPhases {
			phases[i] = titleize(string(p))
		}
		parts = append(parts, "ADM phases: "+strings.Join(phases, ", "))
	}
	parts = append(parts, "Content type: "+titleize(string(meta.ContentType)))

	return strings.Join(parts, " | ")
}

// ContentHash is the cache key for an embedding text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
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
