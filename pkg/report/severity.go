package report

import "strings"

// Band represents the severity band of a finding or verdict.
// The scanner emits uppercase strings; unrecognized or missing
// values parse to Unknown so downstream formatting never sees
// an empty severity.
type Band string

const (
	// High represents directly exploitable surfaces (writable preload,
	// credential material, complete kill chains).
	High Band = "HIGH"

	// Medium represents surfaces needing one more link (dangerous
	// config, partial chains).
	Medium Band = "MEDIUM"

	// Low represents informational or hypothesis-only findings.
	Low Band = "LOW"

	// Unknown is the neutral band for missing or unrecognized values.
	Unknown Band = "UNKNOWN"
)

// ParseBand maps a raw severity string to a Band.
// Matching is case-insensitive and accepts the scanner's short "MED"
// spelling. Anything unrecognized, including the empty string, maps
// to Unknown.
func ParseBand(s string) Band {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "CRITICAL":
		return High
	case "MEDIUM", "MED":
		return Medium
	case "LOW", "INFO", "INFORMATIONAL":
		return Low
	default:
		return Unknown
	}
}

// IsValid reports whether b is one of the defined bands.
func (b Band) IsValid() bool {
	switch b {
	case High, Medium, Low, Unknown:
		return true
	}
	return false
}

// Score returns a numeric score for sorting and comparison.
// High=3, Medium=2, Low=1, Unknown=0.
func (b Band) Score() int {
	switch b {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// String returns the band as a string.
func (b Band) String() string {
	return string(b)
}
