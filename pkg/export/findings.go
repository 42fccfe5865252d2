// Package export builds the unified findings table and writes it out
// as CSV or Markdown, alongside raw-report and path-list exports. The
// table folds checklist hits and matched attack chains into one
// severity-sorted sheet for client reports.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// DefaultMaxRows caps the unified table size.
const DefaultMaxRows = 200

// Finding is one row of the unified findings table.
type Finding struct {
	Title          string      `json:"title"`
	Severity       report.Band `json:"severity"`
	Category       string      `json:"category"`
	Path           string      `json:"path"`
	Snippet        string      `json:"snippet"`
	CWE            string      `json:"cwe"`
	Recommendation string      `json:"recommendation"`
	Source         string      `json:"source"`
}

// BuildFindings assembles the unified table from a report: checklist
// findings first, then chains that matched concrete artifacts
// (hypothesis-only chains are hunt-plan material, not findings).
// Rows de-duplicate on (title, path, snippet) and sort by severity,
// highest first, title as tiebreak. maxRows <= 0 uses DefaultMaxRows.
func BuildFindings(r *report.Report, maxRows int) []Finding {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	var out []Finding
	seen := make(map[[3]string]struct{})
	add := func(f Finding) {
		key := [3]string{truncateField(f.Title, 200), truncateField(f.Path, 200), truncateField(f.Snippet, 200)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if len(out) < maxRows {
			out = append(out, f)
		}
	}

	for _, c := range r.ChecklistFindings() {
		add(Finding{
			Title:          "Checklist: " + orDefault(c.Pattern, "finding"),
			Severity:       c.Band(),
			Category:       "Checklist",
			Path:           c.File,
			Snippet:        truncateField(c.Snippet, 500),
			Recommendation: "Verify in config; remove or restrict if in production.",
			Source:         "checklist",
		})
	}

	for _, c := range r.Chains() {
		if !c.Matched() {
			continue
		}
		add(Finding{
			Title:          "Chain: " + c.Subject(),
			Severity:       report.High,
			Category:       "Attack graph",
			Path:           c.MatchedPaths[0],
			Snippet:        truncateField(fmt.Sprintf("%d path(s) matched. Hunt: %s", len(c.MatchedPaths), c.HuntTargets), 400),
			Recommendation: orDefault(c.Reason, "Test this surface first; use suggested payloads."),
			Source:         "attack_graph",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Score() != out[j].Severity.Score() {
			return out[i].Severity.Score() > out[j].Severity.Score()
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
