package scanner

import "strconv"

// Options is the immutable per-scan configuration. It is passed whole
// to a Transport and never mutated mid-scan; a changed setting means a
// new Options value on the next submission.
type Options struct {
	// Target is the path to the app, folder, or binary to scan.
	Target string

	// Analysis flags.
	Extended   bool // -e: deep persistence and lateral surfaces
	Offensive  bool // -O: exploit-chain modeling and hunt plan
	Force      bool // -f: analyze unsigned or malformed binaries
	CVEQueries bool // --cve: emit hunt queries
	CVELookup  bool // --cve-lookup: resolve queries against NVD

	// Limits; zero means scanner default.
	MaxFiles   int
	MaxSizeMB  int
	MaxPerType int

	// Baseline is an optional prior report path for diff/suppression.
	Baseline string

	// Extra export paths handed to the scanner (-xh, -xs). The JSON
	// report path is owned by the transport, not the caller.
	HTMLExport  string
	SARIFExport string
}

// Args renders the scanner command line for a local run, with the
// JSON report directed at jsonPath. Flag spelling follows the
// scanner's CLI contract exactly.
func (o Options) Args(jsonPath string) []string {
	args := []string{"-C", o.Target, "-q"}
	if o.Extended {
		args = append(args, "-e")
	}
	if o.Offensive {
		args = append(args, "-O")
	}
	if o.Force {
		args = append(args, "-f")
	}
	if o.CVEQueries {
		args = append(args, "--cve")
	}
	if o.CVELookup {
		args = append(args, "--cve-lookup")
	}
	if o.MaxFiles > 0 {
		args = append(args, "--max-files", strconv.Itoa(o.MaxFiles))
	}
	if o.MaxSizeMB > 0 {
		args = append(args, "--max-size-mb", strconv.Itoa(o.MaxSizeMB))
	}
	if o.MaxPerType > 0 {
		args = append(args, "--max-per-type", strconv.Itoa(o.MaxPerType))
	}
	if o.Baseline != "" {
		args = append(args, "--baseline", o.Baseline)
	}
	args = append(args, "-xj", jsonPath)
	if o.HTMLExport != "" {
		args = append(args, "-xh", o.HTMLExport)
	}
	if o.SARIFExport != "" {
		args = append(args, "-xs", o.SARIFExport)
	}
	return args
}
