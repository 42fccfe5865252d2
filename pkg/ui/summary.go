package ui

import (
	"fmt"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// Summary renders the post-scan report panel: target, verdict band,
// killchain state, section counts. Falls back to plain text when the
// terminal cannot render color.
func Summary(r *report.Report, scannerVersion string) string {
	if r == nil {
		return "no report loaded\n"
	}
	plain := !ColorTerminal()

	var b strings.Builder
	title := "unveil report"
	if plain {
		b.WriteString(title + "\n")
	} else {
		b.WriteString(TitleStyle.Render(title) + "\n")
	}

	row := func(label, value string) {
		if plain {
			fmt.Fprintf(&b, "%-16s %s\n", label, value)
		} else {
			b.WriteString(LabelStyle.Render(label) + " " + ValueStyle.Render(value) + "\n")
		}
	}

	row("target", r.Target())
	if scannerVersion != "" {
		row("scanner", scannerVersion)
	}
	if r.Degraded() {
		msg := "degraded: " + r.Error()
		if plain {
			row("status", msg)
		} else {
			b.WriteString(LabelStyle.Render("status") + " " + DegradedStyle.Render(msg) + "\n")
		}
	}

	v := r.Verdict()
	band := v.Band()
	if plain {
		row("exploitability", string(band))
	} else {
		b.WriteString(LabelStyle.Render("exploitability") + " " + BandStyle(band).Render(string(band)) + "\n")
	}
	row("killchain", killchainLine(v))
	if len(v.MissingRoles) > 0 {
		row("missing roles", strings.Join(v.MissingRoles, ", "))
	}
	if len(v.Families) > 0 {
		row("families", strings.Join(v.Families, ", "))
	}

	if d := r.Diff(); d != nil {
		line := fmt.Sprintf("%d added, %d removed vs baseline", len(d.AddedFindings), len(d.RemovedFindings))
		if d.VerdictChanged {
			line += ", verdict changed"
		}
		row("diff", line)
	}

	row("findings", fmt.Sprintf("%d checklist, %d chains, %d sendable URLs",
		len(r.ChecklistFindings()), len(r.Chains()), len(r.SendableURLs())))
	row("assets", fmt.Sprintf("%d html, %d other", len(r.DiscoveredHTML()), len(r.DiscoveredAssets())))

	return b.String()
}

func killchainLine(v report.Verdict) string {
	state := "incomplete"
	if v.KillchainComplete {
		state = "complete"
	}
	if v.ChainCompletion > 0 {
		return fmt.Sprintf("%s (%.0f%%)", state, v.ChainCompletion*100)
	}
	return state
}

// RecentTargets renders the most-recent-first target list.
func RecentTargets(targets []string) string {
	if len(targets) == 0 {
		return ""
	}
	var b strings.Builder
	if ColorTerminal() {
		b.WriteString(SectionStyle.Render("recent targets") + "\n")
	} else {
		b.WriteString("recent targets\n")
	}
	for i, t := range targets {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, t)
	}
	return b.String()
}
