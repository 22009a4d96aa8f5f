package extractor

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"togaftutor.app/tutor/internal/model"
)

// mupdfStrategy extracts text through MuPDF. It is the primary strategy:
// fast, layout aware, and it exposes document metadata.
type mupdfStrategy struct{}

func (s *mupdfStrategy) Name() string { return "mupdf" }

func (s *mupdfStrategy) Extract(ctx context.Context, path string) (*Result, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	pages := make([]model.ExtractedPage, 0, total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		pages = append(pages, model.ExtractedPage{
			PageNumber: i + 1,
			Text:       text,
			Tables:     detectTables(i+1, text),
			Method:     s.Name(),
		})
	}

	return &Result{
		Pages:      pages,
		Title:      doc.Metadata()["title"],
		TotalPages: total,
	}, nil
}
