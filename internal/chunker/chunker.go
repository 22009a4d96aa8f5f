// Package chunker turns extracted document pages into semantically bounded
// content chunks, splitting on detected section headers and size limits.
package chunker

import (
	"regexp"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

const (
	DefaultTargetSize = 2000
	DefaultOverlap    = 200
	DefaultMaxSize    = 3000

	// Buffers with fewer meaningful characters than this are dropped
	// instead of flushed when a new section starts.
	minChunkChars = 50

	// Pages open with headers within their first few lines; scanning
	// deeper produces false positives on body text.
	headerScanLines = 10
)

var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+\.?\d*\.?\d*)\s+(.+)$`), // numbered sections: "2.1 Architecture Principles"
	regexp.MustCompile(`^([A-Z]\.?\d*)\s+(.+)$`),     // appendix sections: "A.1 Referenced Documents"
}

// SectionInfo is a detected section header.
type SectionInfo struct {
	Number     string
	Title      string
	FullHeader string
}

// RawChunk is the chunker's output: a bounded text span with its source
// pages and structural attribution, before metadata enrichment.
type RawChunk struct {
	Text      string
	ChunkType model.ChunkType
	StartPage int
	EndPage   int
	Images    []model.PageImage
	Tables    []model.PageTable
	Section   *SectionInfo
}

// WordCount returns the number of whitespace-separated words.
func (c RawChunk) WordCount() int {
	return len(strings.Fields(c.Text))
}

type Config struct {
	TargetSize int // target characters per chunk
	Overlap    int // characters carried across forced boundaries
	MaxSize    int // hard upper bound per chunk
}

type Chunker struct {
	cfg Config
}

func New(cfg Config) *Chunker {
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = DefaultTargetSize
	}
	if cfg.Overlap <= 0 {
		cfg.Overlap = DefaultOverlap
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	// Overlap must stay below MaxSize or the re-seed after a forced
	// boundary never advances past the cut point.
	if cfg.Overlap >= cfg.MaxSize {
		cfg.Overlap = cfg.MaxSize / 10
	}
	return &Chunker{cfg: cfg}
}

// Chunk splits extracted pages into chunks. Output order matches input
// page order, and after the optimization pass every chunk is at most
// MaxSize characters.
func (c *Chunker) Chunk(pages []model.ExtractedPage) []RawChunk {
	var (
		chunks         []RawChunk
		currentSection *SectionInfo
		text           strings.Builder
		images         []model.PageImage
		tables         []model.PageTable
		startPage      = 1
	)

	flush := func(endPage int) {
		chunk := c.newChunk(text.String(), currentSection, startPage, endPage, images, tables)
		chunks = append(chunks, chunk)
		text.Reset()
		images = nil
		tables = nil
	}

	for _, page := range pages {
		section := DetectSection(page.Text)

		switch {
		case section != nil && text.Len() > 0:
			// New section: flush the accumulated buffer if it holds
			// meaningful content, then start fresh.
			if len(strings.TrimSpace(text.String())) > minChunkChars {
				flush(page.PageNumber - 1)
			} else {
				text.Reset()
				images = nil
				tables = nil
			}
			startPage = page.PageNumber
			currentSection = section
		case section != nil:
			currentSection = section
			startPage = page.PageNumber
		}

		if page.Text != "" {
			text.WriteString("\n\n")
			text.WriteString(page.Text)
		}
		images = append(images, page.Images...)
		tables = append(tables, page.Tables...)

		// Force a boundary before the buffer outgrows the hard limit,
		// keeping the trailing overlap as the seed for the next chunk.
		if text.Len() > c.cfg.MaxSize {
			full := text.String()
			chunk := c.newChunk(full[:c.cfg.MaxSize], currentSection, startPage, page.PageNumber, images, tables)
			chunks = append(chunks, chunk)

			overlapStart := c.cfg.MaxSize - c.cfg.Overlap
			if overlapStart < 0 {
				overlapStart = 0
			}
			text.Reset()
			text.WriteString(full[overlapStart:])
			images = nil
			tables = nil
			startPage = page.PageNumber
		}
	}

	if strings.TrimSpace(text.String()) != "" {
		endPage := 1
		if len(pages) > 0 {
			endPage = pages[len(pages)-1].PageNumber
		}
		flush(endPage)
	}

	return c.optimize(chunks)
}

// DetectSection scans the leading lines of page text for a section header.
func DetectSection(text string) *SectionInfo {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, pattern := range sectionPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return &SectionInfo{
					Number:     m[1],
					Title:      strings.TrimSpace(m[2]),
					FullHeader: line,
				}
			}
		}
	}
	return nil
}

func (c *Chunker) newChunk(text string, section *SectionInfo, startPage, endPage int, images []model.PageImage, tables []model.PageTable) RawChunk {
	chunk := RawChunk{
		Text:      strings.TrimSpace(text),
		StartPage: startPage,
		EndPage:   endPage,
		Images:    append([]model.PageImage(nil), images...),
		Tables:    append([]model.PageTable(nil), tables...),
		Section:   section,
	}
	chunk.ChunkType = classifyChunk(chunk)
	return chunk
}

// classifyChunk assigns the chunk type by priority: structural cues first,
// then section attribution, then size.
func classifyChunk(chunk RawChunk) model.ChunkType {
	switch {
	case len(chunk.Tables) > 0:
		return model.ChunkTypeTable
	case len(chunk.Images) > 0:
		return model.ChunkTypeDiagram
	case chunk.Section != nil:
		return model.ChunkTypeSection
	case chunk.WordCount() < 100:
		return model.ChunkTypeParagraph
	default:
		return model.ChunkTypeContent
	}
}
