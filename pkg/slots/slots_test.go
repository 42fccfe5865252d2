package slots

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pa7ch3s/unveilctl/pkg/requestgen"
)

func testEntries() []Entry {
	return []Entry{
		{URL: "http://x/a", Provenance: ProvenanceScanner, Label: "A", Request: "GET /a HTTP/1.1\r\nHost: x\r\n\r\n"},
		{URL: "http://x/b", Provenance: ProvenanceScanner, Label: "B", Request: "GET /b HTTP/1.1\r\nHost: x\r\n\r\n"},
	}
}

// TestLoadSelectsFirst verifies loading a collection selects slot 0
// and assigns distinct IDs.
func TestLoadSelectsFirst(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	if _, _, ok := m.Current(); ok {
		t.Fatal("empty manager has a current slot")
	}

	m.Load(testEntries())
	cur, idx, ok := m.Current()
	if !ok || idx != 0 || cur.Label != "A" {
		t.Fatalf("Current() = %+v, %d, %v", cur, idx, ok)
	}
	all := m.Slots()
	if len(all) != 2 || all[0].ID == all[1].ID || all[0].ID == "" {
		t.Errorf("slot IDs not distinct: %q, %q", all[0].ID, all[1].ID)
	}
}

// TestEditFlushOnSelect verifies staged edits land in the slot they
// were typed into, never the one switched to.
func TestEditFlushOnSelect(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.Load(testEntries())

	edited := "GET /a?mutated=1 HTTP/1.1\r\nHost: x\r\n\r\n"
	m.EditRequest(edited)

	// the staged edit is visible on the current slot before any flush
	cur, _, _ := m.Current()
	if cur.RequestText != edited {
		t.Fatalf("staged edit not overlaid: %q", cur.RequestText)
	}
	// and not yet persisted on slot B's neighbor view
	if s, _ := m.Slot(1); s.RequestText != testEntries()[1].Request {
		t.Fatalf("edit leaked into slot 1: %q", s.RequestText)
	}

	if err := m.Select(1); err != nil {
		t.Fatalf("Select(1) failed: %v", err)
	}

	// slot 0 kept the edit, slot 1 is untouched
	s0, _ := m.Slot(0)
	s1, _ := m.Slot(1)
	if s0.RequestText != edited {
		t.Errorf("slot 0 lost its edit: %q", s0.RequestText)
	}
	if s1.RequestText != testEntries()[1].Request {
		t.Errorf("slot 1 received the edit: %q", s1.RequestText)
	}
}

// TestEditWithoutSelection verifies editing with no current slot is a
// no-op rather than creating a phantom slot.
func TestEditWithoutSelection(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.EditRequest("GET / HTTP/1.1\r\n\r\n")
	m.EditResponse("stray")
	if m.Len() != 0 {
		t.Errorf("Len() = %d after editing empty manager", m.Len())
	}
}

// TestReset verifies Reset restores the as-loaded request, clears the
// response, and drops staged edits on the current slot.
func TestReset(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.Load(testEntries())
	m.EditRequest("mutated")
	m.EditResponse("old response")

	if err := m.Reset(0); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	s, _ := m.Slot(0)
	if s.RequestText != testEntries()[0].Request {
		t.Errorf("request not restored: %q", s.RequestText)
	}
	if s.ResponseText != "" {
		t.Errorf("response not cleared: %q", s.ResponseText)
	}

	if err := m.Reset(9); !errors.Is(err, ErrNoSlot) {
		t.Errorf("Reset(9) = %v, want ErrNoSlot", err)
	}
}

// TestSend verifies a send flushes staged edits first and records the
// response on success, and overwrites with an error marker on failure.
func TestSend(t *testing.T) {
	t.Parallel()

	var sentRequest, sentOrigin string
	sender := SenderFunc(func(ctx context.Context, requestText, originURL string) (string, error) {
		sentRequest, sentOrigin = requestText, originURL
		return "HTTP/1.1 200 OK\r\n\r\nok", nil
	})
	m := NewManager(sender)
	m.Load(testEntries())
	m.EditRequest("GET /a?edited=1 HTTP/1.1\r\nHost: x\r\n\r\n")

	resp, err := m.Send(context.Background(), 0)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !strings.Contains(sentRequest, "edited=1") {
		t.Errorf("send used stale request: %q", sentRequest)
	}
	if sentOrigin != "http://x/a" {
		t.Errorf("origin = %q", sentOrigin)
	}
	s, _ := m.Slot(0)
	if s.ResponseText != resp {
		t.Errorf("response not stored: %q", s.ResponseText)
	}
}

// TestSendFailure verifies the response pane shows the failure rather
// than a stale success.
func TestSendFailure(t *testing.T) {
	t.Parallel()

	sender := SenderFunc(func(ctx context.Context, requestText, originURL string) (string, error) {
		return "", errors.New("connection refused")
	})
	m := NewManager(sender)
	m.Load(testEntries())
	m.slots[0].ResponseText = "previous response"

	if _, err := m.Send(context.Background(), 0); err == nil {
		t.Fatal("Send succeeded, want error")
	}
	s, _ := m.Slot(0)
	if !strings.HasPrefix(s.ResponseText, "! send failed:") {
		t.Errorf("response = %q, want failure marker", s.ResponseText)
	}
}

// TestSendDuringReload verifies a response from a send that was in
// flight when a new collection loaded is dropped, not written into
// whichever slot now occupies the same index.
func TestSendDuringReload(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	sender := SenderFunc(func(ctx context.Context, requestText, originURL string) (string, error) {
		close(started)
		<-release
		return "HTTP/1.1 200 OK\r\n\r\nresponse for the old slot", nil
	})
	m := NewManager(sender)
	m.Load(testEntries()[:1])

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Send(context.Background(), 0)
	}()

	<-started
	m.Load([]Entry{
		{URL: "http://new/b", Provenance: ProvenanceScanner, Label: "new-B", Request: "GET /b HTTP/1.1\r\nHost: new\r\n\r\n"},
	})
	close(release)
	<-done

	s, err := m.Slot(0)
	if err != nil {
		t.Fatalf("Slot(0) failed: %v", err)
	}
	if s.Label != "new-B" {
		t.Fatalf("Slot(0).Label = %q, want the reloaded slot", s.Label)
	}
	if s.ResponseText != "" {
		t.Errorf("reloaded slot holds the old slot's response: %q", s.ResponseText)
	}
}

// TestImportHistory verifies host filtering, the import bound, and
// wholesale replacement of the previous collection.
func TestImportHistory(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.Load(testEntries())

	history := []requestgen.HistoryEntry{
		{URL: "http://target/1", Request: "GET /1 HTTP/1.1\r\nHost: target\r\n\r\n"},
		{URL: "http://other/2", Request: "GET /2 HTTP/1.1\r\nHost: other\r\n\r\n"},
		{URL: "http://target/3"}, // no captured request: synthesized
		{URL: "http://target/4", Request: "GET /4 HTTP/1.1\r\nHost: target\r\n\r\n"},
	}

	n := m.ImportHistory(history, 2, "target")
	if n != 2 {
		t.Fatalf("ImportHistory = %d, want 2", n)
	}
	all := m.Slots()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2 (wholesale replacement)", len(all))
	}
	if all[0].OriginURL != "http://target/1" || all[1].OriginURL != "http://target/3" {
		t.Errorf("imported URLs = %q, %q", all[0].OriginURL, all[1].OriginURL)
	}
	if all[0].Provenance != ProvenanceImported {
		t.Errorf("provenance = %q", all[0].Provenance)
	}
	if !strings.HasPrefix(all[1].RequestText, "GET /3 HTTP/1.1\r\n") {
		t.Errorf("missing synthesized request: %q", all[1].RequestText)
	}
	if _, idx, ok := m.Current(); !ok || idx != 0 {
		t.Errorf("current after import = %d, %v", idx, ok)
	}
}

// TestFromSendables verifies duplicate URLs under different labels
// each produce their own slot.
func TestFromSendables(t *testing.T) {
	t.Parallel()

	entries := FromSendables([]SendableURL{
		{URL: "http://x/y", Source: "chainability", Label: "L1"},
		{URL: "http://x/y", Source: "refs", Label: "L2"},
	}, nil)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Label != "L1" || entries[1].Label != "L2" {
		t.Errorf("labels = %q, %q", entries[0].Label, entries[1].Label)
	}
	if entries[0].Provenance != ProvenanceScanner {
		t.Errorf("provenance = %q", entries[0].Provenance)
	}
	if !strings.HasPrefix(entries[0].Request, "GET /y HTTP/1.1\r\nHost: x\r\n") {
		t.Errorf("synthesized request = %q", entries[0].Request)
	}
}
