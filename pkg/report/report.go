// Package report parses the scanner's JSON report into typed, optional
// sections. Every section is optional: a structurally valid but sparse
// document parses cleanly and each accessor degrades to an empty
// collection. The raw source text is retained verbatim for export.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/pa7ch3s/unveilctl/pkg/jsonutil"
)

// ErrEmpty is returned by Parse for empty or whitespace-only input.
var ErrEmpty = errors.New("report: empty document")

// document is the wire shape of the scanner report. All fields are
// optional; absence is not an error.
type document struct {
	Metadata         Metadata            `json:"metadata"`
	Verdict          Verdict             `json:"verdict"`
	Specifications   map[string]any      `json:"specifications"`
	DiscoveredHTML   []string            `json:"discovered_html"`
	DiscoveredAssets map[string][]string `json:"discovered_assets"`
	Chainability     []ChainRow          `json:"chainability"`
	ExtractedRefs    []ExtractedRef      `json:"extracted_refs"`
	Checklist        []ChecklistFinding  `json:"checklist_findings"`
	AttackGraph      AttackGraph         `json:"attack_graph"`
	PayloadLibrary   []Payload           `json:"payload_library"`
	CVELookup        struct {
		Queries []CVEQuery `json:"queries"`
	} `json:"cve_lookup"`
	Diff *Diff `json:"diff"`
}

// Report is the parsed result of one scan. It is immutable after
// Parse; a new scan supersedes it with a fresh Report rather than
// mutating it in place.
type Report struct {
	// Sequence is the monotonically increasing scan number, assigned
	// by the engine when the report is applied.
	Sequence uint64

	raw []byte
	doc document

	// normalized collections, built once at parse time
	html   []string
	assets []Asset
}

// Parse decodes text into a Report. The input is kept verbatim and is
// retrievable via Raw even when later accessors return empty sections.
// A document carrying metadata.error still parses successfully; callers
// check Degraded to tell the two apart.
func Parse(text []byte) (*Report, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, ErrEmpty
	}
	r := &Report{raw: append([]byte(nil), text...)}
	if err := jsonutil.Unmarshal(text, &r.doc); err != nil {
		return nil, fmt.Errorf("report: parse: %w", err)
	}
	r.html = dedupe(r.doc.DiscoveredHTML)
	r.assets = flattenAssets(r.doc.DiscoveredAssets)
	return r, nil
}

// dedupe removes exact duplicate strings, preserving first-seen order.
// Identity within a section is exact string equality; no normalization.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// flattenAssets turns the type→paths map into a flat slice with a
// stable order: types alphabetically, paths in document order,
// duplicates within a type dropped by exact string match.
func flattenAssets(m map[string][]string) []Asset {
	if len(m) == 0 {
		return nil
	}
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	var out []Asset
	for _, t := range types {
		for _, p := range dedupe(m[t]) {
			out = append(out, Asset{Path: p, Type: t})
		}
	}
	return out
}

// Raw returns the verbatim source text the report was parsed from.
func (r *Report) Raw() []byte {
	return r.raw
}

// CompactJSON re-serializes the parsed document without whitespace.
// The verbatim source remains available via Raw.
func (r *Report) CompactJSON() ([]byte, error) {
	var v any
	if err := jsonutil.Unmarshal(r.raw, &v); err != nil {
		return nil, fmt.Errorf("report: compact: %w", err)
	}
	return jsonutil.Marshal(v)
}

// Target returns the scanned target path, or "" when absent.
func (r *Report) Target() string {
	return r.doc.Metadata.Target
}

// Error returns the scanner's own error string for degraded runs.
func (r *Report) Error() string {
	return r.doc.Metadata.Error
}

// Degraded reports whether the scanner embedded an error in the
// document. Degraded reports still expose their partial sections.
func (r *Report) Degraded() bool {
	return r.doc.Metadata.Error != ""
}

// Verdict returns the verdict section, zero-valued when absent.
func (r *Report) Verdict() Verdict {
	return r.doc.Verdict
}

// Specifications returns the opaque specifications subtree.
func (r *Report) Specifications() map[string]any {
	return r.doc.Specifications
}

// DiscoveredHTML returns the de-duplicated HTML path list.
func (r *Report) DiscoveredHTML() []string {
	return r.html
}

// DiscoveredAssets returns all discovered assets in stable order.
func (r *Report) DiscoveredAssets() []Asset {
	return r.assets
}

// AssetTypes returns the distinct asset types present, sorted.
func (r *Report) AssetTypes() []string {
	var out []string
	last := ""
	for _, a := range r.assets {
		if a.Type != last {
			out = append(out, a.Type)
			last = a.Type
		}
	}
	return out
}

// Chainability returns the in-scope/out-of-scope reference rows.
func (r *Report) Chainability() []ChainRow {
	return r.doc.Chainability
}

// ExtractedRefs returns the per-file raw reference lists.
func (r *Report) ExtractedRefs() []ExtractedRef {
	return r.doc.ExtractedRefs
}

// ChecklistFindings returns the static-analysis checklist hits.
func (r *Report) ChecklistFindings() []ChecklistFinding {
	return r.doc.Checklist
}

// Chains returns the attack-graph chains.
func (r *Report) Chains() []Chain {
	return r.doc.AttackGraph.Chains
}

// SendableURLs returns the live-probeable URL entries. Entries are
// intentionally not de-duplicated: the same URL under two labels means
// two probe slots.
func (r *Report) SendableURLs() []SendableURL {
	return r.doc.AttackGraph.SendableURLs
}

// PayloadLibrary returns the preconfigured payload entries.
func (r *Report) PayloadLibrary() []Payload {
	return r.doc.PayloadLibrary
}

// CVEQueries returns the CVE lookup results.
func (r *Report) CVEQueries() []CVEQuery {
	return r.doc.CVELookup.Queries
}

// Diff returns the baseline diff section, or nil when absent.
func (r *Report) Diff() *Diff {
	return r.doc.Diff
}
