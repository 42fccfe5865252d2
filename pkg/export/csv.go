package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// UTF-8 BOM for Excel compatibility.
const utf8BOM = "\xEF\xBB\xBF"

// findingColumns defines the unified findings CSV header.
var findingColumns = []string{
	"title",
	"severity",
	"category",
	"path",
	"snippet",
	"cwe",
	"recommendation",
	"source",
}

// CSVOptions configures the findings CSV output.
type CSVOptions struct {
	// ExcelCompatible adds a UTF-8 BOM so Excel renders Unicode correctly.
	ExcelCompatible bool

	// SanitizeFormulas prevents CSV injection by prefixing fields that
	// start with = + - @ TAB CR with a single quote.
	SanitizeFormulas bool

	// TruncateAt limits field length in runes (0 = no limit).
	TruncateAt int
}

// WriteCSV writes the unified findings table as CSV with a header row.
func WriteCSV(w io.Writer, findings []Finding, opts CSVOptions) error {
	if opts.ExcelCompatible {
		if _, err := w.Write([]byte(utf8BOM)); err != nil {
			return fmt.Errorf("csv: write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(findingColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, f := range findings {
		row := []string{
			f.Title,
			string(f.Severity),
			f.Category,
			f.Path,
			f.Snippet,
			f.CWE,
			f.Recommendation,
			f.Source,
		}
		for i, field := range row {
			if opts.SanitizeFormulas {
				field = sanitizeForCSV(field)
			}
			if opts.TruncateAt > 0 {
				field = truncateField(field, opts.TruncateAt)
			}
			row[i] = field
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// sanitizeForCSV prevents formula execution when the CSV is opened in a
// spreadsheet by prefixing dangerous leading characters.
func sanitizeForCSV(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// truncateField truncates a field to maxLen runes, adding an ellipsis
// when there is room for one.
func truncateField(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}
