package model

type ChunkType string

const (
	ChunkTypeSection   ChunkType = "section"
	ChunkTypeParagraph ChunkType = "paragraph"
	ChunkTypeTable     ChunkType = "table"
	ChunkTypeDiagram   ChunkType = "diagram"
	ChunkTypeContent   ChunkType = "content"
)

// PageImage is an image extracted from a document page.
type PageImage struct {
	PageNumber int    `json:"page_number"`
	Index      int    `json:"index"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Data       []byte `json:"-"`
	SavedPath  string `json:"saved_path,omitempty"`
}

// PageTable is a detected table as a grid of cell strings.
type PageTable struct {
	PageNumber int        `json:"page_number"`
	Rows       [][]string `json:"rows"`
}

// ExtractedPage is one page's raw extraction output. Produced by the
// extractor, consumed once by the chunker, never persisted.
type ExtractedPage struct {
	PageNumber int         `json:"page_number"`
	Text       string      `json:"text"`
	Images     []PageImage `json:"images,omitempty"`
	Tables     []PageTable `json:"tables,omitempty"`
	Fonts      []string    `json:"fonts,omitempty"`
	Method     string      `json:"method"`
}

// ContentChunk is a bounded span of document text prepared for embedding.
// Immutable once the chunker's optimization pass has run.
type ContentChunk struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	ChunkType ChunkType       `json:"chunk_type"`
	StartPage int             `json:"start_page"`
	EndPage   int             `json:"end_page"`
	Images    []PageImage     `json:"images,omitempty"`
	Tables    []PageTable     `json:"tables,omitempty"`
	Metadata  ContentMetadata `json:"metadata"`
}

// WordCount returns the number of whitespace-separated words in the chunk text.
func (c ContentChunk) WordCount() int {
	return countWords(c.Text)
}
