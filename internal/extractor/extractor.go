// Package extractor pulls text, images, and structure out of source PDFs.
// Extraction runs a cascade of strategies: each is tried in order and its
// output validated before the next one is consulted.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// ErrNoUsableContent is returned when every strategy failed or produced
// output that did not pass validation.
var ErrNoUsableContent = errors.New("extractor: no strategy produced usable content")

// Result is the full extraction output for one document.
type Result struct {
	Pages      []model.ExtractedPage
	Title      string
	TotalPages int
	Method     string
}

// Strategy extracts a document with one particular backend.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (*Result, error)
}

type Options struct {
	// ImageDir receives extracted page images as PNG files. Empty
	// disables image extraction.
	ImageDir string
}

// Extractor runs the strategy cascade and attaches extracted images to
// the winning result.
type Extractor struct {
	strategies []Strategy
	images     *ImageExtractor
}

// New builds the default cascade: mupdf first, content-stream decoding
// through pdfcpu second, basic text extraction as the last resort.
func New(opts Options) *Extractor {
	e := &Extractor{
		strategies: []Strategy{
			&mupdfStrategy{},
			&pdfcpuStrategy{},
			&basicTextStrategy{},
		},
	}
	if opts.ImageDir != "" {
		e.images = NewImageExtractor(opts.ImageDir)
	}
	return e
}

// NewWithStrategies builds an extractor with an explicit cascade.
func NewWithStrategies(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract runs the cascade over the document at path. The first strategy
// whose output validates wins; its result is enriched with images when
// image extraction is configured.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	var lastErr error

	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := strategy.Extract(ctx, path)
		if err != nil {
			slog.WarnContext(ctx, "extraction strategy failed",
				"strategy", strategy.Name(), "path", path, "error", err)
			lastErr = err
			continue
		}
		if !Validate(result.Pages) {
			slog.WarnContext(ctx, "extraction validation failed",
				"strategy", strategy.Name(), "path", path, "pages", len(result.Pages))
			lastErr = fmt.Errorf("strategy %s produced unusable content", strategy.Name())
			continue
		}

		result.Method = strategy.Name()
		if e.images != nil {
			e.attachImages(ctx, path, result)
		}

		slog.InfoContext(ctx, "document extracted",
			"strategy", strategy.Name(), "path", path, "pages", len(result.Pages))
		return result, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoUsableContent, lastErr)
	}
	return nil, ErrNoUsableContent
}

func (e *Extractor) attachImages(ctx context.Context, path string, result *Result) {
	images, err := e.images.Extract(ctx, path)
	if err != nil {
		// Image extraction is best effort; text content already won.
		slog.WarnContext(ctx, "image extraction failed", "path", path, "error", err)
		return
	}

	byPage := make(map[int][]model.PageImage, len(images))
	for _, img := range images {
		byPage[img.PageNumber] = append(byPage[img.PageNumber], img)
	}
	for i := range result.Pages {
		result.Pages[i].Images = byPage[result.Pages[i].PageNumber]
	}
}

// Validate accepts an extraction when at least half of the pages carry
// meaningful text, defined as more than 50 characters after trimming.
func Validate(pages []model.ExtractedPage) bool {
	if len(pages) == 0 {
		return false
	}

	meaningful := 0
	for _, page := range pages {
		if len(strings.TrimSpace(page.Text)) > 50 {
			meaningful++
		}
	}
	return meaningful*2 >= len(pages)
}
