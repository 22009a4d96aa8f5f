// Package metadata enriches raw chunks with curriculum classification:
// certification level, content type, difficulty, and document identity.
package metadata

import (
	"time"

	"github.com/google/uuid"

	"togaftutor.app/tutor/internal/chunker"
	"togaftutor.app/tutor/internal/curriculum"
	"togaftutor.app/tutor/internal/model"
)

// DocumentContext is the per-document input to metadata construction,
// shared across every chunk of the same source file.
type DocumentContext struct {
	SourcePath       string
	DocumentTitle    string
	TotalPages       int
	ProcessingMethod string
}

// Builder constructs chunk metadata for one source document. Certification
// level and part/guide identity are fixed by the source directory and file
// name at construction time.
type Builder struct {
	sourceDir string
	fileName  string
	level     model.CertificationLevel
	part      *curriculum.PartInfo
	guide     model.PractitionerGuide

	now func() time.Time
}

func NewBuilder(sourceDirectory, fileName string) *Builder {
	b := &Builder{
		sourceDir: sourceDirectory,
		fileName:  fileName,
		level:     curriculum.CertificationLevelForDirectory(sourceDirectory),
		now:       time.Now,
	}
	switch sourceDirectory {
	case curriculum.DirCoreTopics:
		if info, ok := curriculum.FoundationPartForFile(fileName); ok {
			b.part = &info
		}
	case curriculum.DirExtendedTopics:
		if guide, ok := curriculum.PractitionerGuideForFile(fileName); ok {
			b.guide = guide
		}
	}
	return b
}

// Build turns a raw chunk into a stored content chunk with validated
// metadata and a fresh chunk ID.
func (b *Builder) Build(chunk chunker.RawChunk, doc DocumentContext) (model.ContentChunk, error) {
	meta := model.ContentMetadata{
		CertificationLevel:   b.level,
		ContentType:          curriculum.ClassifyContentType(chunk.Text, len(chunk.Images) > 0, len(chunk.Tables) > 0),
		DifficultyLevel:      b.difficulty(chunk),
		Document:             b.documentInfo(doc),
		Structural:           structuralInfo(chunk),
		Semantic:             b.semanticInfo(chunk),
		HasDiagrams:          len(chunk.Images) > 0,
		HasTables:            len(chunk.Tables) > 0,
		ContentQualityScore:  1.0,
		ExtractionConfidence: 1.0,
	}

	if err := meta.Validate(); err != nil {
		return model.ContentChunk{}, err
	}

	return model.ContentChunk{
		ID:        uuid.NewString(),
		Text:      chunk.Text,
		ChunkType: chunk.ChunkType,
		StartPage: chunk.StartPage,
		EndPage:   chunk.EndPage,
		Images:    chunk.Images,
		Tables:    chunk.Tables,
		Metadata:  meta,
	}, nil
}

func (b *Builder) documentInfo(doc DocumentContext) model.DocumentInfo {
	info := model.DocumentInfo{
		SourceFile:       doc.SourcePath,
		SourceDirectory:  b.sourceDir,
		DocumentTitle:    doc.DocumentTitle,
		TotalPages:       doc.TotalPages,
		ProcessingMethod: doc.ProcessingMethod,
		ProcessedAt:      b.now(),
	}
	if info.DocumentTitle == "" {
		info.DocumentTitle = b.fileName
	}

	switch b.sourceDir {
	case curriculum.DirCoreTopics:
		if b.part != nil {
			info.OfficialTitle = b.part.OfficialTitle
			info.PartDescription = b.part.PartDescription
			info.TOGAFPart = b.part.TOGAFPart
		}
	case curriculum.DirExtendedTopics:
		info.TOGAFGuideID = guideID(b.fileName)
		info.SeriesTitle = "TOGAF® Series Guide"
	}
	return info
}

func structuralInfo(chunk chunker.RawChunk) model.StructuralInfo {
	info := model.StructuralInfo{
		PageNumber: chunk.StartPage,
		WordCount:  chunk.WordCount(),
	}
	if chunk.Section != nil {
		info.ChapterNumber = chunk.Section.Number
		info.ChapterTitle = chunk.Section.Title
	}
	return info
}

func (b *Builder) semanticInfo(chunk chunker.RawChunk) model.SemanticInfo {
	info := model.SemanticInfo{
		PractitionerGuide: b.guide,
	}
	if b.part != nil {
		info.FoundationPart = b.part.Part
		info.KeyConcepts = curriculum.KeyConcepts(b.part.Part)
	}
	if chunk.Section != nil {
		if phase, ok := curriculum.ADMPhaseForChapter(chunk.Section.Title); ok {
			info.ADMPhases = []model.ADMPhase{phase}
		}
	}
	return info
}

// difficulty follows the directory split: series guides read as
// intermediate across the board, foundation parts grade per chapter.
func (b *Builder) difficulty(chunk chunker.RawChunk) model.DifficultyLevel {
	if b.sourceDir == curriculum.DirExtendedTopics {
		return model.DifficultyIntermediate
	}
	if b.part != nil && chunk.Section != nil {
		return curriculum.DifficultyForChapter(b.part.Part, chunk.Section.Title)
	}
	return model.DifficultyBasic
}

func guideID(fileName string) string {
	if len(fileName) > 4 && fileName[len(fileName)-4:] == ".pdf" {
		return fileName[:len(fileName)-4]
	}
	return fileName
}
