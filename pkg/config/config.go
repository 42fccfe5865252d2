// Package config holds CLI configuration: flag parsing plus an optional
// YAML settings file for values that persist between runs (scanner
// path, daemon URL, proxy).
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all CLI configuration options.
type Config struct {
	// Target settings
	Target string // File or directory to scan

	// Scan mode settings
	Extended   bool   // Extended analysis pass
	Offensive  bool   // Offensive enrichment (payloads, attack graph)
	Force      bool   // Rescan even when a cached report exists
	CVEQueries bool   // Emit CVE hunt queries
	CVELookup  bool   // Query CVE data for detected components
	Baseline   string // Baseline report path for diffing

	// Scan limit settings
	MaxFiles   int // Max files walked (0 = scanner default)
	MaxSizeMB  int // Max file size in MB (0 = scanner default)
	MaxPerType int // Max findings kept per type (0 = scanner default)

	// Scanner settings
	ScannerPath string        // Path to the scanner executable (empty = auto-detect)
	DaemonURL   string        // Scan daemon base URL (empty = local executable)
	ScanTimeout time.Duration // Per-scan deadline (default: 10m)

	// Output settings
	OutputFile   string // Export file path (empty = stdout)
	OutputFormat string // Export format: summary, json, compact, csv, md, paths
	Verbose      bool   // Verbose output
	NoColor      bool   // Disable colored output

	// Network settings (for slot sends)
	Proxy      string // HTTP proxy URL
	SkipVerify bool   // Skip TLS verification
}

// FileConfig is the subset of settings read from the YAML config file.
// Flags take precedence over file values.
type FileConfig struct {
	ScannerPath string `yaml:"scanner_path"`
	DaemonURL   string `yaml:"daemon_url"`
	Proxy       string `yaml:"proxy"`
	SkipVerify  bool   `yaml:"skip_verify"`
	ScanTimeout string `yaml:"scan_timeout"`
}

// DefaultPath returns the default config file location,
// ~/.config/unveilctl/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "unveilctl", "config.yaml")
}

// LoadFile reads a YAML config file. A missing file is not an error and
// returns a zero FileConfig.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return fc, nil
}

// ParseFlags parses command line arguments, merges the YAML config
// file underneath them, and returns the effective Config.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	// === TARGET ===
	flag.StringVar(&cfg.Target, "t", "", "Target file or directory to scan")
	flag.StringVar(&cfg.Target, "target", "", "Target file or directory (alias)")

	// === SCAN MODE ===
	flag.BoolVar(&cfg.Extended, "extended", false, "Extended analysis pass")
	flag.BoolVar(&cfg.Extended, "e", false, "Extended (alias)")
	flag.BoolVar(&cfg.Offensive, "offensive", false, "Offensive enrichment: payloads and attack graph")
	flag.BoolVar(&cfg.Offensive, "O", false, "Offensive (alias)")
	flag.BoolVar(&cfg.Force, "force", false, "Rescan even if a cached report exists")
	flag.BoolVar(&cfg.Force, "f", false, "Force (alias)")
	flag.BoolVar(&cfg.CVEQueries, "cve", false, "Emit CVE hunt queries")
	flag.BoolVar(&cfg.CVELookup, "cve-lookup", false, "Query CVE data for detected components")
	flag.StringVar(&cfg.Baseline, "baseline", "", "Baseline report path for diffing")

	// === LIMITS ===
	flag.IntVar(&cfg.MaxFiles, "max-files", 0, "Max files walked (0 = scanner default)")
	flag.IntVar(&cfg.MaxSizeMB, "max-size-mb", 0, "Max file size in MB (0 = scanner default)")
	flag.IntVar(&cfg.MaxPerType, "max-per-type", 0, "Max findings per type (0 = scanner default)")

	// === SCANNER ===
	flag.StringVar(&cfg.ScannerPath, "scanner", "", "Scanner executable path (empty = auto-detect)")
	flag.StringVar(&cfg.DaemonURL, "daemon", "", "Scan daemon base URL (empty = run locally)")
	timeout := flag.Int("scan-timeout", 0, "Per-scan timeout in seconds (0 = default 10m)")
	configPath := flag.String("config", DefaultPath(), "Config file path")

	// === OUTPUT ===
	flag.StringVar(&cfg.OutputFile, "output", "", "Export file path")
	flag.StringVar(&cfg.OutputFile, "o", "", "Export file (alias)")
	flag.StringVar(&cfg.OutputFormat, "format", "summary", "Output format: summary,json,compact,csv,md,paths")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose (alias)")
	flag.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&cfg.NoColor, "nc", false, "No color (alias)")

	// === NETWORK ===
	flag.StringVar(&cfg.Proxy, "proxy", "", "HTTP proxy URL for slot sends")
	flag.StringVar(&cfg.Proxy, "x", "", "Proxy (alias)")
	flag.BoolVar(&cfg.SkipVerify, "skip-verify", false, "Skip TLS verification")
	flag.BoolVar(&cfg.SkipVerify, "k", false, "Skip TLS (alias)")

	flag.Parse()

	fc, err := LoadFile(*configPath)
	if err != nil {
		return nil, err
	}
	cfg.applyFile(fc)

	if *timeout > 0 {
		cfg.ScanTimeout = time.Duration(*timeout) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile fills in settings from the YAML file where flags left them
// at their zero value.
func (c *Config) applyFile(fc FileConfig) {
	if c.ScannerPath == "" {
		c.ScannerPath = fc.ScannerPath
	}
	if c.DaemonURL == "" {
		c.DaemonURL = fc.DaemonURL
	}
	if c.Proxy == "" {
		c.Proxy = fc.Proxy
	}
	if fc.SkipVerify {
		c.SkipVerify = true
	}
	if c.ScanTimeout == 0 && fc.ScanTimeout != "" {
		if d, err := time.ParseDuration(fc.ScanTimeout); err == nil && d > 0 {
			c.ScanTimeout = d
		}
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("%w: target (use -t)", ErrMissingRequired)
	}
	switch c.OutputFormat {
	case "summary", "json", "compact", "csv", "md", "paths":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}
