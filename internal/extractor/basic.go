package extractor

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"togaftutor.app/tutor/internal/model"
)

// basicTextStrategy is the last-resort fallback: plain text only, no
// images, no structure. It tolerates documents MuPDF rejects.
type basicTextStrategy struct{}

func (s *basicTextStrategy) Name() string { return "basic" }

func (s *basicTextStrategy) Extract(ctx context.Context, path string) (*Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]model.ExtractedPage, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, model.ExtractedPage{PageNumber: i, Method: s.Name()})
			continue
		}

		// A single unreadable page is not fatal; validation decides
		// whether the document as a whole is usable.
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, model.ExtractedPage{
			PageNumber: i,
			Text:       text,
			Method:     s.Name(),
		})
	}

	return &Result{Pages: pages, TotalPages: total}, nil
}
