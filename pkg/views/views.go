// Package views projects a parsed report into named, independently
// filterable row collections. An Index is built from one report and
// never mixes rows across reports: applying a new report means
// building a new Index, so stale rows cannot survive a rescan.
package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// Name identifies one derived view.
type Name string

// The views the index knows how to project. Each maps to one report
// section; a missing section projects to an empty collection.
const (
	HuntPlan         Name = "hunt_plan"
	DiscoveredHTML   Name = "discovered_html"
	DiscoveredAssets Name = "discovered_assets"
	Chainability     Name = "chainability"
	Checklist        Name = "checklist_findings"
	PayloadLibrary   Name = "payload_library"
	CVEResults       Name = "cve_results"
	SendableURLs     Name = "sendable_urls"
	BaselineDiff     Name = "baseline_diff"
)

// AllViews lists every view name in presentation order.
var AllViews = []Name{
	HuntPlan, DiscoveredHTML, DiscoveredAssets, Chainability,
	Checklist, PayloadLibrary, CVEResults, SendableURLs, BaselineDiff,
}

// Row is one element of a derived view. Columns hold the display
// cells and are what text filters match against. Identity is the
// artifact string exactly as stored in the report, so open/copy
// operations resolve the same entity the scanner named; it is never
// re-derived from the display cells.
type Row struct {
	Columns  []string
	Facet    string
	Identity string
}

// Filter is the active predicate for one view. Query matches
// case-insensitively: as a regular expression when it compiles as
// one, as a plain substring otherwise. Facet is an exact categorical
// match ("" selects all).
type Filter struct {
	Query string
	Facet string
}

// Index holds the unfiltered projections of one report plus the
// per-view filters. The zero filter passes every row. Built rows are
// immutable; filtering returns fresh slices.
type Index struct {
	base    map[Name][]Row
	facets  map[Name][]string
	filters map[Name]Filter
}

// NewIndex builds every view from r. A nil report yields an index
// whose views are all empty, which keeps consumers total.
func NewIndex(r *report.Report) *Index {
	ix := &Index{
		base:    make(map[Name][]Row, len(AllViews)),
		facets:  make(map[Name][]string),
		filters: make(map[Name]Filter, len(AllViews)),
	}
	if r == nil {
		return ix
	}
	ix.base[HuntPlan] = huntPlanRows(r)
	ix.base[DiscoveredHTML] = htmlRows(r)
	ix.base[DiscoveredAssets] = assetRows(r)
	ix.base[Chainability] = chainabilityRows(r)
	ix.base[Checklist] = checklistRows(r)
	ix.base[PayloadLibrary] = payloadRows(r)
	ix.base[CVEResults] = cveRows(r)
	ix.base[SendableURLs] = sendableRows(r)
	ix.base[BaselineDiff] = diffRows(r)
	ix.facets[DiscoveredAssets] = r.AssetTypes()
	if len(ix.base[BaselineDiff]) > 0 {
		ix.facets[BaselineDiff] = []string{"added", "removed"}
	}
	ix.facets[Chainability] = []string{"in scope", "out of scope"}
	ix.facets[Checklist] = []string{
		report.High.String(), report.Medium.String(),
		report.Low.String(), report.Unknown.String(),
	}
	return ix
}

// Project returns the full unfiltered row sequence for a view.
// Unknown or absent views project to an empty sequence.
func (ix *Index) Project(name Name) []Row {
	rows := ix.base[name]
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// Facets returns the categorical facet values available for a view,
// or nil when the view has no facet dimension.
func (ix *Index) Facets(name Name) []string {
	return ix.facets[name]
}

// SetFilter replaces the text predicate for a view. Setting the same
// filter twice is a no-op; the underlying rows are never mutated.
func (ix *Index) SetFilter(name Name, query string) {
	f := ix.filters[name]
	f.Query = query
	ix.filters[name] = f
}

// SetFacet replaces the categorical predicate for a view.
func (ix *Index) SetFacet(name Name, facet string) {
	f := ix.filters[name]
	f.Facet = facet
	ix.filters[name] = f
}

// Rows returns the view's rows with its current filter applied, in
// the view's stable order.
func (ix *Index) Rows(name Name) []Row {
	f := ix.filters[name]
	match := newMatcher(f.Query)
	var out []Row
	for _, row := range ix.base[name] {
		if f.Facet != "" && row.Facet != f.Facet {
			continue
		}
		if !match(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func huntPlanRows(r *report.Report) []Row {
	var out []Row
	for _, c := range r.Chains() {
		identity := ""
		if c.Matched() {
			identity = c.MatchedPaths[0]
		}
		out = append(out, Row{
			Columns: []string{
				c.Subject(), c.HuntTargets, c.Reason,
				strings.Join(c.MatchedPaths, " "), c.Confidence,
			},
			Facet:    chainFacet(c),
			Identity: identity,
		})
	}
	return out
}

// chainFacet distinguishes confirmed chains from hypotheses.
func chainFacet(c report.Chain) string {
	if c.Matched() {
		return "matched"
	}
	return "hypothesis"
}

func htmlRows(r *report.Report) []Row {
	var out []Row
	for _, p := range r.DiscoveredHTML() {
		out = append(out, Row{Columns: []string{p}, Identity: p})
	}
	return out
}

func assetRows(r *report.Report) []Row {
	var out []Row
	for _, a := range r.DiscoveredAssets() {
		out = append(out, Row{
			Columns:  []string{a.Path, a.Type},
			Facet:    a.Type,
			Identity: a.Path,
		})
	}
	return out
}

func chainabilityRows(r *report.Report) []Row {
	var out []Row
	for _, c := range r.Chainability() {
		facet := "out of scope"
		if c.InScope {
			facet = "in scope"
		}
		out = append(out, Row{
			Columns:  []string{c.File, c.Ref, facet, c.MatchedType, c.Confidence},
			Facet:    facet,
			Identity: c.Ref,
		})
	}
	return out
}

func checklistRows(r *report.Report) []Row {
	var out []Row
	for _, f := range r.ChecklistFindings() {
		out = append(out, Row{
			Columns: []string{
				f.File, f.Pattern, f.Snippet,
				strconv.Itoa(f.Line), f.Band().String(),
			},
			Facet:    f.Band().String(),
			Identity: f.File,
		})
	}
	return out
}

func payloadRows(r *report.Report) []Row {
	var out []Row
	for _, p := range r.PayloadLibrary() {
		out = append(out, Row{
			Columns: []string{p.Name, p.Category, p.Type, p.Reference, p.Description},
			Facet:   p.Category,
		})
	}
	return out
}

func cveRows(r *report.Report) []Row {
	var out []Row
	for _, q := range r.CVEQueries() {
		for _, c := range q.CVEs {
			out = append(out, Row{
				Columns: []string{
					c.ID, q.Query,
					strconv.FormatFloat(c.Score, 'f', 1, 64),
					c.Published, c.Summary,
				},
				Facet:    q.Query,
				Identity: c.ID,
			})
		}
	}
	return out
}

func sendableRows(r *report.Report) []Row {
	var out []Row
	for _, u := range r.SendableURLs() {
		out = append(out, Row{
			Columns:  []string{u.URL, u.Source, u.Label},
			Facet:    u.Source,
			Identity: u.URL,
		})
	}
	return out
}

func diffRows(r *report.Report) []Row {
	d := r.Diff()
	if d == nil {
		return nil
	}
	var out []Row
	add := func(findings []report.ChecklistFinding, facet string) {
		for _, f := range findings {
			out = append(out, Row{
				Columns: []string{
					facet, f.File, f.Pattern, f.Snippet, f.Band().String(),
				},
				Facet:    facet,
				Identity: f.File,
			})
		}
	}
	add(d.AddedFindings, "added")
	add(d.RemovedFindings, "removed")
	return out
}

// Summary returns "shown/total" counts for a view, for status lines.
func (ix *Index) Summary(name Name) string {
	return fmt.Sprintf("%d/%d", len(ix.Rows(name)), len(ix.base[name]))
}
