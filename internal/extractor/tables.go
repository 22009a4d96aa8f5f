package extractor

import (
	"regexp"
	"strings"

	"togaftutor.app/tutor/internal/model"
)

// cellSeparator matches the gap between table cells in extracted text:
// a tab run or two or more consecutive spaces.
var cellSeparator = regexp.MustCompile(`\t+| {2,}`)

const minTableRows = 2

// detectTables finds table-shaped regions in page text. Extraction
// backends render table cells separated by tabs or aligned space runs,
// so a run of consecutive lines sharing the same cell count reads as
// one table. Runs shorter than minTableRows are discarded.
func detectTables(pageNumber int, text string) []model.PageTable {
	var (
		tables []model.PageTable
		rows   [][]string
	)

	flush := func() {
		if len(rows) >= minTableRows {
			tables = append(tables, model.PageTable{
				PageNumber: pageNumber,
				Rows:       rows,
			})
		}
		rows = nil
	}

	for _, line := range strings.Split(text, "\n") {
		cells := splitCells(line)
		switch {
		case len(cells) < 2:
			flush()
		case len(rows) > 0 && len(cells) != len(rows[0]):
			flush()
			rows = append(rows, cells)
		default:
			rows = append(rows, cells)
		}
	}
	flush()

	return tables
}

func splitCells(line string) []string {
	var cells []string
	for _, cell := range cellSeparator.Split(strings.TrimSpace(line), -1) {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}
