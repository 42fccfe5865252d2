// Package history persists a compact record of each applied scan as a
// JSON index on disk. It exists for cross-session recall ("what did
// this target look like last week"), not for rebuilding reports; the
// raw report text is not stored here.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pa7ch3s/unveilctl/pkg/jsonutil"
	"github.com/pa7ch3s/unveilctl/pkg/report"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("history: scan not found")

// Record summarizes one applied scan.
type Record struct {
	// Sequence is the engine's scan number for the session that
	// produced this record. Uniqueness across sessions comes from the
	// (Timestamp, Target) pair, not Sequence.
	Sequence uint64 `json:"sequence"`

	Timestamp time.Time `json:"timestamp"`
	Target    string    `json:"target"`

	// Band is the verdict's exploitability band.
	Band report.Band `json:"band"`

	// Degraded marks scans whose report carried a scanner error.
	Degraded bool `json:"degraded"`

	// Section sizes, for trend display without reloading reports.
	Findings  int `json:"findings"`
	Chains    int `json:"chains"`
	Matched   int `json:"matched_chains"`
	Sendables int `json:"sendables"`
}

// Store is a JSON-file backed record store. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	basePath string
	records  []Record
}

// NewStore opens (or creates) a store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{basePath: dir}
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := jsonutil.Unmarshal(data, &s.records); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.basePath, "scans.json")
}

// saveLocked writes the index atomically: temp file then rename, so a
// crash mid-write cannot corrupt the existing index.
func (s *Store) saveLocked() error {
	data, err := jsonutil.MarshalIndent(s.records, "  ")
	if err != nil {
		return err
	}
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Append stores one record.
func (s *Store) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return s.saveLocked()
}

// FromReport builds a record from an applied report.
func FromReport(r *report.Report, now time.Time) Record {
	matched := 0
	for _, c := range r.Chains() {
		if c.Matched() {
			matched++
		}
	}
	return Record{
		Sequence:  r.Sequence,
		Timestamp: now,
		Target:    r.Target(),
		Band:      r.Verdict().Band(),
		Degraded:  r.Degraded(),
		Findings:  len(r.ChecklistFindings()),
		Chains:    len(r.Chains()),
		Matched:   matched,
		Sendables: len(r.SendableURLs()),
	}
}

// List returns records, newest first, optionally filtered by exact
// target and bounded by limit (limit <= 0 means all).
func (s *Store) List(target string, limit int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if target != "" && r.Target != target {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Latest returns the most recent record for target.
func (s *Store) Latest(target string) (Record, error) {
	if recs := s.List(target, 1); len(recs) > 0 {
		return recs[0], nil
	}
	return Record{}, ErrNotFound
}

// Prune drops records older than cutoff and reports how many went.
func (s *Store) Prune(olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	kept := s.records[:0]
	removed := 0
	for _, r := range s.records {
		if r.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.saveLocked()
}
