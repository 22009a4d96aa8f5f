package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"togaftutor.app/tutor/internal/model"
)

// pdfcpu names extracted content streams with a trailing page number.
var contentFilePattern = regexp.MustCompile(`_(\d+)\.txt$`)

// pdfcpuStrategy decodes text directly out of raw page content streams.
// It sits between mupdf and the basic fallback: layout blind, but it
// handles files whose cross-reference structure MuPDF rejects.
type pdfcpuStrategy struct{}

func (s *pdfcpuStrategy) Name() string { return "pdfcpu" }

func (s *pdfcpuStrategy) Extract(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	outDir, err := os.MkdirTemp("", "tutor-content-*")
	if err != nil {
		return nil, fmt.Errorf("create content directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	texts, err := readContentDir(outDir)
	if err != nil {
		return nil, err
	}

	pages := make([]model.ExtractedPage, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := texts[i]
		pages = append(pages, model.ExtractedPage{
			PageNumber: i,
			Text:       text,
			Tables:     detectTables(i, text),
			Method:     s.Name(),
		})
	}

	return &Result{Pages: pages, TotalPages: total}, nil
}

func readContentDir(dir string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	texts := make(map[int]string, len(entries))
	for _, entry := range entries {
		m := contentFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read content stream: %w", err)
		}
		texts[page] = decodeContentText(data)
	}
	return texts, nil
}

// decodeContentText recovers readable text from a decoded page content
// stream. Literal strings are unescaped and concatenated; the text
// positioning operators Td, TD and T* become line breaks. Hex strings
// are skipped: without the font's code map they decode to garbage.
func decodeContentText(data []byte) string {
	var (
		out  strings.Builder
		word strings.Builder
	)

	flushWord := func() {
		switch word.String() {
		case "Td", "TD", "T*", "ET", "'", `"`:
			out.WriteByte('\n')
		}
		word.Reset()
	}

	for i := 0; i < len(data); i++ {
		switch c := data[i]; {
		case c == '(':
			flushWord()
			text, next := parseLiteralString(data, i)
			out.WriteString(text)
			i = next
		case c == '<':
			flushWord()
			for i < len(data) && data[i] != '>' {
				i++
			}
		case c == '%':
			flushWord()
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '[' || c == ']' || c == '/':
			flushWord()
		default:
			word.WriteByte(c)
		}
	}
	flushWord()

	return out.String()
}

// parseLiteralString decodes the literal string starting at the opening
// parenthesis data[start] and returns the decoded text together with the
// index of the closing parenthesis. Balanced inner parentheses, the
// standard escapes and octal codes are handled per the PDF string syntax.
func parseLiteralString(data []byte, start int) (string, int) {
	var (
		text  strings.Builder
		depth = 1
	)

	i := start + 1
	for ; i < len(data); i++ {
		switch c := data[i]; c {
		case '\\':
			if i+1 >= len(data) {
				return text.String(), i
			}
			i++
			switch e := data[i]; e {
			case 'n':
				text.WriteByte('\n')
			case 'r':
				text.WriteByte('\r')
			case 't':
				text.WriteByte('\t')
			case 'b', 'f':
				// Backspace and form feed carry no text.
			case '\n':
				// Escaped newline continues the string.
			default:
				if e >= '0' && e <= '7' {
					code := int(e - '0')
					for n := 0; n < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; n++ {
						i++
						code = code*8 + int(data[i]-'0')
					}
					text.WriteByte(byte(code))
				} else {
					text.WriteByte(e)
				}
			}
		case '(':
			depth++
			text.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return text.String(), i
			}
			text.WriteByte(c)
		default:
			text.WriteByte(c)
		}
	}
	return text.String(), i - 1
}
