package views

import (
	"reflect"
	"testing"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

func mustParse(t *testing.T, doc string) *report.Report {
	t.Helper()
	r, err := report.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return r
}

const viewsDoc = `{
  "metadata": {"target": "/opt/app"},
  "discovered_html": ["index.html", "admin.html"],
  "discovered_assets": {"script": ["boot.sh"], "config": ["app.conf"]},
  "chainability": [
    {"file": "boot.sh", "ref": "init.sh", "in_scope": true, "matched_type": "script"},
    {"file": "boot.sh", "ref": "http://cdn.example/x.js", "in_scope": false}
  ],
  "checklist_findings": [
    {"file": "app.conf", "pattern": "debug=true", "snippet": "debug=true", "line": 3, "severity": "HIGH"},
    {"file": "web.xml", "pattern": "trace", "snippet": "<trace>", "line": 9, "severity": "LOW"}
  ],
  "attack_graph": {
    "chains": [
      {"component_label": "preload", "matched_paths": ["boot.sh", "init.sh"]},
      {"missing_role": "writable path", "hunt_targets": "/etc/ld.so.preload"}
    ],
    "sendable_urls": [
      {"url": "http://x/y", "source": "chainability", "label": "L1"},
      {"url": "http://x/y", "source": "refs", "label": "L2"}
    ]
  }
}`

// TestNilIndex verifies an index over no report projects every view as
// empty rather than failing.
func TestNilIndex(t *testing.T) {
	t.Parallel()

	ix := NewIndex(nil)
	for _, name := range AllViews {
		if rows := ix.Project(name); len(rows) != 0 {
			t.Errorf("Project(%s) = %d rows on nil report", name, len(rows))
		}
		if rows := ix.Rows(name); len(rows) != 0 {
			t.Errorf("Rows(%s) = %d rows on nil report", name, len(rows))
		}
	}
}

// TestProjections verifies each populated view projects the expected
// rows with report-stored identities.
func TestProjections(t *testing.T) {
	t.Parallel()

	ix := NewIndex(mustParse(t, viewsDoc))

	tests := []struct {
		view Name
		rows int
	}{
		{HuntPlan, 2},
		{DiscoveredHTML, 2},
		{DiscoveredAssets, 2},
		{Chainability, 2},
		{Checklist, 2},
		{PayloadLibrary, 0},
		{CVEResults, 0},
		{SendableURLs, 2},
		{BaselineDiff, 0},
	}
	for _, tt := range tests {
		if got := len(ix.Project(tt.view)); got != tt.rows {
			t.Errorf("Project(%s) = %d rows, want %d", tt.view, got, tt.rows)
		}
	}

	// identity is the stored artifact string, not a display cell
	hunt := ix.Project(HuntPlan)
	if hunt[0].Identity != "boot.sh" {
		t.Errorf("matched chain identity = %q, want boot.sh", hunt[0].Identity)
	}
	if hunt[1].Identity != "" {
		t.Errorf("hypothesis chain identity = %q, want empty", hunt[1].Identity)
	}

	chain := ix.Project(Chainability)
	if chain[1].Identity != "http://cdn.example/x.js" {
		t.Errorf("chainability identity = %q", chain[1].Identity)
	}
}

// TestFacetFilter verifies facet predicates are exact categorical
// matches and "" selects all.
func TestFacetFilter(t *testing.T) {
	t.Parallel()

	ix := NewIndex(mustParse(t, viewsDoc))

	ix.SetFacet(Chainability, "in scope")
	rows := ix.Rows(Chainability)
	if len(rows) != 1 || rows[0].Identity != "init.sh" {
		t.Fatalf("in-scope facet rows = %v", rows)
	}

	ix.SetFacet(Chainability, "")
	if got := len(ix.Rows(Chainability)); got != 2 {
		t.Errorf("cleared facet rows = %d, want 2", got)
	}

	ix.SetFacet(Checklist, report.High.String())
	rows = ix.Rows(Checklist)
	if len(rows) != 1 || rows[0].Identity != "app.conf" {
		t.Fatalf("HIGH facet rows = %v", rows)
	}
}

// TestTextFilter verifies the query matches case-insensitively, as a
// regexp when it compiles and as a substring otherwise.
func TestTextFilter(t *testing.T) {
	t.Parallel()

	ix := NewIndex(mustParse(t, viewsDoc))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"substring", "ADMIN", 1},
		{"regexp", "^index", 1},
		{"invalid regexp falls back to substring", "admin.html(", 0},
		{"empty matches all", "", 2},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix.SetFilter(DiscoveredHTML, tt.query)
			if got := len(ix.Rows(DiscoveredHTML)); got != tt.want {
				t.Errorf("Rows with query %q = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

// TestFilterIndependence verifies filters are per-view: narrowing one
// view leaves the others untouched.
func TestFilterIndependence(t *testing.T) {
	t.Parallel()

	ix := NewIndex(mustParse(t, viewsDoc))
	ix.SetFilter(DiscoveredHTML, "zzz")
	if got := len(ix.Rows(Checklist)); got != 2 {
		t.Errorf("Checklist rows = %d after filtering another view", got)
	}
	if got := ix.Summary(DiscoveredHTML); got != "0/2" {
		t.Errorf("Summary = %q, want 0/2", got)
	}
}

// TestDiffView verifies added and removed baseline findings project
// into one faceted view, absent diff projecting to empty.
func TestDiffView(t *testing.T) {
	t.Parallel()

	withDiff := mustParse(t, `{
	  "diff": {
	    "added_findings": [{"file": "new.conf", "pattern": "debug", "severity": "HIGH"}],
	    "removed_findings": [{"file": "old.conf", "pattern": "trace"}],
	    "verdict_changed": true
	  }
	}`)
	ix := NewIndex(withDiff)
	rows := ix.Project(BaselineDiff)
	if len(rows) != 2 {
		t.Fatalf("diff rows = %d, want 2", len(rows))
	}
	if rows[0].Facet != "added" || rows[1].Facet != "removed" {
		t.Errorf("facets = %q, %q", rows[0].Facet, rows[1].Facet)
	}

	ix.SetFacet(BaselineDiff, "added")
	filtered := ix.Rows(BaselineDiff)
	if len(filtered) != 1 || filtered[0].Identity != "new.conf" {
		t.Fatalf("added facet rows = %v", filtered)
	}

	if rows := NewIndex(mustParse(t, viewsDoc)).Project(BaselineDiff); len(rows) != 0 {
		t.Errorf("no-diff report projected %d diff rows", len(rows))
	}
}

// TestRebuildReplacesRows verifies building a new index from a new
// report carries no rows from the old one.
func TestRebuildReplacesRows(t *testing.T) {
	t.Parallel()

	old := NewIndex(mustParse(t, viewsDoc))
	if len(old.Project(DiscoveredHTML)) == 0 {
		t.Fatal("old index unexpectedly empty")
	}

	next := NewIndex(mustParse(t, `{"discovered_html": ["other.html"]}`))
	got := next.Project(DiscoveredHTML)
	want := []Row{{Columns: []string{"other.html"}, Identity: "other.html"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("new index rows = %v, want %v", got, want)
	}
	for _, name := range AllViews {
		if name == DiscoveredHTML {
			continue
		}
		if rows := next.Project(name); len(rows) != 0 {
			t.Errorf("new index leaked %d rows into %s", len(rows), name)
		}
	}
}
