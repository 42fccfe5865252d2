// Package slots owns the ordered collection of editable
// (request, response) pairs backing the live-probe workflow. One slot
// exists per sendable URL surfaced by a scan or per imported proxy
// history entry. At most one slot is "current"; switching the current
// slot flushes the previous slot's staged edits first, so edits are
// never attributed to the wrong slot.
package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pa7ch3s/unveilctl/pkg/requestgen"
)

// ErrNoSlot is returned for an index outside the slot collection.
var ErrNoSlot = errors.New("slots: no such slot")

// Provenance records where a slot's origin URL came from.
type Provenance string

const (
	// ProvenanceScanner marks slots created from a scan's sendable URLs.
	ProvenanceScanner Provenance = "scanner"

	// ProvenanceImported marks slots created by bulk proxy-history import.
	ProvenanceImported Provenance = "imported"
)

// Slot is one editable, addressable (request, response) pair.
type Slot struct {
	ID           string
	OriginURL    string
	Provenance   Provenance
	Label        string
	RequestText  string
	ResponseText string

	// original request text as loaded, for Reset
	initial string
}

// Entry describes one slot to load.
type Entry struct {
	URL        string
	Provenance Provenance
	Label      string
	Request    string
}

// Sender is the host's HTTP-send capability. It receives raw request
// text plus the slot's origin URL (for addressing) and returns raw
// response text.
type Sender interface {
	Send(ctx context.Context, requestText, originURL string) (string, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, requestText, originURL string) (string, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, requestText, originURL string) (string, error) {
	return f(ctx, requestText, originURL)
}

// Manager owns the slot collection and the current-slot invariant.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	slots   []Slot
	current int // index into slots, -1 when none selected
	sender  Sender

	// staged edits for the current slot, applied on flush
	pendingRequest  *string
	pendingResponse *string
}

// NewManager returns an empty manager sending through sender.
func NewManager(sender Sender) *Manager {
	return &Manager{current: -1, sender: sender}
}

// Load replaces the whole slot collection with entries. Entries are
// additive: duplicate URLs under different labels each get their own
// slot. Staged edits and the previous selection are discarded; slot 0
// becomes current when any slot resulted.
func (m *Manager) Load(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(entries)
}

func (m *Manager) replaceLocked(entries []Entry) {
	m.slots = make([]Slot, 0, len(entries))
	for _, e := range entries {
		m.slots = append(m.slots, Slot{
			ID:          uuid.NewString(),
			OriginURL:   e.URL,
			Provenance:  e.Provenance,
			Label:       e.Label,
			RequestText: e.Request,
			initial:     e.Request,
		})
	}
	m.pendingRequest = nil
	m.pendingResponse = nil
	m.current = -1
	if len(m.slots) > 0 {
		m.current = 0
	}
}

// Len returns the number of slots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// Slots returns a copy of the slot collection with staged edits of
// the current slot overlaid.
func (m *Manager) Slots() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Slot, len(m.slots))
	copy(out, m.slots)
	if m.current >= 0 {
		out[m.current] = m.viewLocked(m.current)
	}
	return out
}

// Slot returns a copy of slot i, with staged edits overlaid when i is
// the current slot.
func (m *Manager) Slot(i int) (Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.slots) {
		return Slot{}, fmt.Errorf("%w: index %d of %d", ErrNoSlot, i, len(m.slots))
	}
	return m.viewLocked(i), nil
}

// Current returns the current slot and its index, or ok=false when
// no slot is selected.
func (m *Manager) Current() (Slot, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current < 0 {
		return Slot{}, -1, false
	}
	return m.viewLocked(m.current), m.current, true
}

// viewLocked returns slot i with staged edits overlaid when current.
func (m *Manager) viewLocked(i int) Slot {
	s := m.slots[i]
	if i == m.current {
		if m.pendingRequest != nil {
			s.RequestText = *m.pendingRequest
		}
		if m.pendingResponse != nil {
			s.ResponseText = *m.pendingResponse
		}
	}
	return s
}

// Select makes slot i current. Staged edits of the previously current
// slot are flushed into its storage before the switch completes, as a
// single atomic step. Selecting the already-current slot only flushes.
func (m *Manager) Select(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.slots) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSlot, i, len(m.slots))
	}
	m.flushLocked()
	m.current = i
	return nil
}

// EditRequest stages new request text for the current slot. Staged
// text persists into the slot on the next Select, Send, or Flush.
// Editing with no current slot is a no-op: slots are never created
// implicitly by editing.
func (m *Manager) EditRequest(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current < 0 {
		return
	}
	m.pendingRequest = &text
}

// EditResponse stages new response text for the current slot.
func (m *Manager) EditResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current < 0 {
		return
	}
	m.pendingResponse = &text
}

// Flush persists staged edits into the current slot.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
}

func (m *Manager) flushLocked() {
	if m.current >= 0 {
		if m.pendingRequest != nil {
			m.slots[m.current].RequestText = *m.pendingRequest
		}
		if m.pendingResponse != nil {
			m.slots[m.current].ResponseText = *m.pendingResponse
		}
	}
	m.pendingRequest = nil
	m.pendingResponse = nil
}

// Reset restores slot i to its as-loaded request text and clears its
// response. Staged edits are dropped when i is current.
func (m *Manager) Reset(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.slots) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSlot, i, len(m.slots))
	}
	if i == m.current {
		m.pendingRequest = nil
		m.pendingResponse = nil
	}
	m.slots[i].RequestText = m.slots[i].initial
	m.slots[i].ResponseText = ""
	return nil
}

// ResetAll restores every slot and drops all staged edits.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingRequest = nil
	m.pendingResponse = nil
	for i := range m.slots {
		m.slots[i].RequestText = m.slots[i].initial
		m.slots[i].ResponseText = ""
	}
}

// Send flushes staged edits, then sends slot i's request through the
// Sender. On success the slot's response is overwritten with the
// received text; on failure it is overwritten with an error marker,
// never left stale.
func (m *Manager) Send(ctx context.Context, i int) (string, error) {
	m.mu.Lock()
	if i < 0 || i >= len(m.slots) {
		m.mu.Unlock()
		return "", fmt.Errorf("%w: index %d of %d", ErrNoSlot, i, len(m.slots))
	}
	m.flushLocked()
	id := m.slots[i].ID
	requestText := m.slots[i].RequestText
	originURL := m.slots[i].OriginURL
	sender := m.sender
	m.mu.Unlock()

	if sender == nil {
		err := errors.New("slots: no sender configured")
		m.storeResponse(i, id, "! send failed: "+err.Error())
		return "", err
	}

	// The network round-trip happens outside the lock; slot state is
	// re-resolved by index afterwards, guarded by the slot ID in case a
	// load replaced the collection mid-flight.
	response, err := sender.Send(ctx, requestText, originURL)
	if err != nil {
		m.storeResponse(i, id, "! send failed: "+err.Error())
		return "", fmt.Errorf("slots: send: %w", err)
	}
	m.storeResponse(i, id, response)
	return response, nil
}

// storeResponse writes text into slot i only when that slot is still
// the one the send started against. A response for a slot that no
// longer exists is dropped, never attributed to its successor.
func (m *Manager) storeResponse(i int, id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.slots) || m.slots[i].ID != id {
		return
	}
	m.slots[i].ResponseText = text
	if i == m.current {
		m.pendingResponse = nil
	}
}

// ImportHistory replaces the slot collection with entries from proxy
// history. Entries whose URL does not contain hostFilter are skipped
// (empty filter keeps all); at most max entries are imported (max <= 0
// means no bound). Replacement is wholesale: no merging with existing
// slots, the selection is cleared, and slot 0 is selected when any
// slot resulted.
func (m *Manager) ImportHistory(history []requestgen.HistoryEntry, max int, hostFilter string) int {
	var entries []Entry
	for _, h := range history {
		if hostFilter != "" && !strings.Contains(h.URL, hostFilter) {
			continue
		}
		if max > 0 && len(entries) >= max {
			break
		}
		request := h.Request
		if request == "" {
			request = requestgen.Synthesize(h.URL, nil)
		}
		entries = append(entries, Entry{
			URL:        h.URL,
			Provenance: ProvenanceImported,
			Label:      h.URL,
			Request:    request,
		})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(entries)
	return len(entries)
}

// FromSendables builds load entries from a scan's sendable URLs,
// synthesizing each request with lookup. A malformed URL degrades to
// a best-effort request for that row only; it never aborts the rest
// of the collection.
func FromSendables(urls []SendableURL, lookup requestgen.HistoryLookup) []Entry {
	entries := make([]Entry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, Entry{
			URL:        u.URL,
			Provenance: ProvenanceScanner,
			Label:      u.Label,
			Request:    requestgen.Synthesize(u.URL, lookup),
		})
	}
	return entries
}

// SendableURL mirrors the report's sendable-URL shape without
// importing the report package, keeping this package usable for
// imported collections alone.
type SendableURL struct {
	URL    string
	Source string
	Label  string
}
