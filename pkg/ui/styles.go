// Package ui renders terminal output: the severity palette, the report
// summary panel, and TTY detection for color degradation.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// Color palette. Severity colors match OWASP/Nuclei conventions.
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Cyan/Teal

	// Severity colors
	HighColor    = lipgloss.Color("#FF6B6B") // Red/Orange
	MediumColor  = lipgloss.Color("#FFD93D") // Yellow
	LowColor     = lipgloss.Color("#6BCB77") // Green
	UnknownColor = lipgloss.Color("#6B7280") // Gray

	// Status colors
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	DegradedStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
)

// BandStyle returns the badge style for a severity band.
func BandStyle(b report.Band) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch b {
	case report.High:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(HighColor)
	case report.Medium:
		return base.Foreground(lipgloss.Color("#000000")).Background(MediumColor)
	case report.Low:
		return base.Foreground(lipgloss.Color("#000000")).Background(LowColor)
	default:
		return base.Foreground(lipgloss.Color("#FAFAFA")).Background(UnknownColor)
	}
}
