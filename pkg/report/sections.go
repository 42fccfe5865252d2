package report

// Metadata identifies the scan target and carries the scanner's own
// error string when the run degraded.
type Metadata struct {
	Target string `json:"target"`
	Error  string `json:"error"`
}

// Verdict is the scanner's exploitability assessment for the target.
type Verdict struct {
	ExploitabilityBand string   `json:"exploitability_band"`
	KillchainComplete  bool     `json:"killchain_complete"`
	ChainCompletion    float64  `json:"chain_completion"`
	MissingRoles       []string `json:"missing_roles"`
	Families           []string `json:"families"`
}

// Band returns the exploitability band as a parsed severity band.
func (v Verdict) Band() Band {
	return ParseBand(v.ExploitabilityBand)
}

// Asset is one discovered file inside the target, tagged with the
// asset type bucket it was found under.
type Asset struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ChainRow links an extracted reference back to the discovered asset
// inventory: "file A references B; B is in scope".
type ChainRow struct {
	File        string `json:"file"`
	Ref         string `json:"ref"`
	InScope     bool   `json:"in_scope"`
	MatchedType string `json:"matched_type"`
	Confidence  string `json:"confidence"`
}

// ExtractedRef holds the raw references pulled out of one file.
type ExtractedRef struct {
	File string   `json:"file"`
	Refs []string `json:"refs"`
}

// ChecklistFinding is one static-analysis checklist hit.
type ChecklistFinding struct {
	File     string `json:"file"`
	Pattern  string `json:"pattern"`
	Snippet  string `json:"snippet"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
}

// Band returns the finding severity as a parsed band.
// Missing severity parses to Unknown, never an empty string.
func (f ChecklistFinding) Band() Band {
	return ParseBand(f.Severity)
}

// Chain is one hypothesized or confirmed exploitation path.
// A chain with no matched paths is a hypothesis, not a hit; callers
// distinguish the two via Matched.
type Chain struct {
	ComponentLabel    string   `json:"component_label"`
	MissingRole       string   `json:"missing_role"`
	HuntTargets       string   `json:"hunt_targets"`
	Reason            string   `json:"reason"`
	MatchedPaths      []string `json:"matched_paths"`
	Confidence        string   `json:"confidence"`
	SuggestedPayloads []string `json:"suggested_payloads"`
}

// Subject returns the chain's display label: the component label when
// present, otherwise the missing role.
func (c Chain) Subject() string {
	if c.ComponentLabel != "" {
		return c.ComponentLabel
	}
	return c.MissingRole
}

// Matched reports whether the chain has at least one matched artifact.
func (c Chain) Matched() bool {
	return len(c.MatchedPaths) > 0
}

// SendableURL is one live-probeable URL surfaced by the scanner,
// with the report section it came from and a short display label.
type SendableURL struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	Label  string `json:"label"`
}

// AttackGraph groups chains and sendable URLs.
type AttackGraph struct {
	Chains       []Chain       `json:"chains"`
	SendableURLs []SendableURL `json:"sendable_urls"`
}

// Payload is one entry of the preconfigured payload library.
type Payload struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Reference   string `json:"reference"`
	Payload     string `json:"payload"`
	Description string `json:"description"`
}

// CVE is one CVE returned by the scanner's NVD lookup.
type CVE struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Published string  `json:"published"`
	Summary   string  `json:"summary"`
}

// CVEQuery is one hunt query with its CVE results.
type CVEQuery struct {
	Query string `json:"query"`
	CVEs  []CVE  `json:"cves"`
}

// Diff summarizes the comparison against a baseline report.
type Diff struct {
	AddedFindings   []ChecklistFinding `json:"added_findings"`
	RemovedFindings []ChecklistFinding `json:"removed_findings"`
	VerdictChanged  bool               `json:"verdict_changed"`
}
