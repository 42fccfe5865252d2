package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// WriteRawJSON writes the report exactly as the scanner emitted it.
func WriteRawJSON(w io.Writer, r *report.Report) error {
	if _, err := w.Write(r.Raw()); err != nil {
		return fmt.Errorf("export: write raw json: %w", err)
	}
	return nil
}

// WriteCompactJSON writes the report re-serialized without whitespace.
func WriteCompactJSON(w io.Writer, r *report.Report) error {
	data, err := r.CompactJSON()
	if err != nil {
		return fmt.Errorf("export: compact json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: write compact json: %w", err)
	}
	return nil
}

// WritePathList writes one path per line, preserving order.
// Used for hunt-plan matches, discovered assets, and sendable URLs.
func WritePathList(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, strings.Join(paths, "\n")+"\n"); err != nil {
		return fmt.Errorf("export: write path list: %w", err)
	}
	return nil
}

// ToFile renders an export into path atomically: write to a temp file
// in the same directory, then rename over the destination.
func ToFile(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("export: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("export: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}
