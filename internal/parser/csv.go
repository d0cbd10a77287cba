package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mglynch/sectree/internal/section"
)

// CSVParser handles CSV files. Rows become flat top-level sections in
// batches, each carrying its values labeled by the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*section.Tree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &section.Tree{Title: baseTitle(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	headers := records[0]
	dataRows := records[1:]

	// Batches of 20 rows keep sections a manageable size.
	const batchSize = 20
	for i := 0; i < len(dataRows); i += batchSize {
		end := min(i+batchSize, len(dataRows))
		batch := dataRows[i:end]

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range batch {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}

		tree.Sections = append(tree.Sections, &section.Section{
			Title: fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, skip header
			Body:  strings.TrimSpace(text.String()),
			Depth: 1,
		})
	}

	return tree, nil
}
