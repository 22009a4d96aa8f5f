package extractor

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"togaftutor.app/tutor/internal/model"
)

// pdfcpu names extracted files <document>_<page>_<resource>.<ext>.
var imageFilePattern = regexp.MustCompile(`_(\d+)_[^_]+\.(png|jpe?g|tiff?)$`)

// ImageExtractor pulls embedded images out of a document into a directory
// and reports them per page.
type ImageExtractor struct {
	dir string
}

func NewImageExtractor(dir string) *ImageExtractor {
	return &ImageExtractor{dir: dir}
}

// Extract writes every embedded image of the document to a subdirectory
// named after the document, and returns one record per image.
func (e *ImageExtractor) Extract(ctx context.Context, path string) ([]model.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(e.dir, base)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}

	if err := api.ExtractImagesFile(path, outDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	var (
		images  []model.PageImage
		indexes = map[int]int{}
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := imageFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		saved := filepath.Join(outDir, entry.Name())
		img := model.PageImage{
			PageNumber: page,
			Index:      indexes[page],
			SavedPath:  saved,
		}
		if w, h, err := imageBounds(saved); err == nil {
			img.Width, img.Height = w, h
		}
		indexes[page]++
		images = append(images, img)
	}

	return images, nil
}

func imageBounds(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
