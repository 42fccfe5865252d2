package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// MarkdownConfig configures the findings Markdown report.
type MarkdownConfig struct {
	// Title is the report title (default: "Unveil Findings").
	Title string

	// MaxSnippetLen truncates snippet display (default: 120).
	MaxSnippetLen int
}

// WriteMarkdown writes the unified findings table as a Markdown report:
// a title, a severity tally line, and a pipe table.
func WriteMarkdown(w io.Writer, r *report.Report, findings []Finding, cfg MarkdownConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Unveil Findings"
	}
	if cfg.MaxSnippetLen <= 0 {
		cfg.MaxSnippetLen = 120
	}

	var b strings.Builder
	b.WriteString("# " + cfg.Title + "\n\n")
	if target := r.Target(); target != "" {
		b.WriteString("Target: `" + target + "`\n\n")
	}
	fmt.Fprintf(&b, "Exploitability: **%s**\n\n", r.Verdict().Band())

	counts := map[report.Band]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	fmt.Fprintf(&b, "%d finding(s): %d high, %d medium, %d low\n\n",
		len(findings), counts[report.High], counts[report.Medium], counts[report.Low])

	b.WriteString("| Severity | Title | Path | Snippet | Recommendation |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			f.Severity,
			mdEscape(f.Title),
			mdEscape(f.Path),
			mdEscape(truncateField(f.Snippet, cfg.MaxSnippetLen)),
			mdEscape(f.Recommendation),
		)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("markdown: write: %w", err)
	}
	return nil
}

// mdEscape makes a value safe inside a Markdown table cell.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
