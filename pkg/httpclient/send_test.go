package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestSendRaw verifies raw request text reaches the origin server and
// the raw response text comes back, status line included.
func TestSendRaw(t *testing.T) {
	t.Parallel()

	var gotPath, gotHost, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHost = r.Host
		gotHeader = r.Header.Get("X-Probe")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	requestText := "GET /y?q=1 HTTP/1.1\r\nHost: x\r\nX-Probe: slot\r\n\r\n"
	out, err := SendRaw(context.Background(), srv.Client(), requestText, srv.URL+"/y")
	if err != nil {
		t.Fatalf("SendRaw failed: %v", err)
	}

	if gotPath != "/y" {
		t.Errorf("server saw path %q", gotPath)
	}
	// the edited Host header travels as-is; addressing comes from the origin URL
	if gotHost != "x" {
		t.Errorf("server saw host %q, want x", gotHost)
	}
	if gotHeader != "slot" {
		t.Errorf("custom header lost: %q", gotHeader)
	}
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK") {
		t.Errorf("response = %q, want raw status line", out)
	}
	if !strings.HasSuffix(out, "hello") {
		t.Errorf("response body missing: %q", out)
	}
}

// TestSendRawErrors verifies bad origins and malformed request text
// fail without touching the network.
func TestSendRawErrors(t *testing.T) {
	t.Parallel()

	client := New(ProbeConfig(""))

	if _, err := SendRaw(context.Background(), client, "GET / HTTP/1.1\r\n\r\n", "not-a-url"); err == nil {
		t.Error("SendRaw accepted relative origin")
	}
	if _, err := SendRaw(context.Background(), client, "garbage without request line", "http://127.0.0.1:1/"); err == nil {
		t.Error("SendRaw accepted malformed request text")
	}
}

// TestNewRedirectPolicy verifies the probe client surfaces redirects
// instead of following them; the analyst needs to see the 302.
func TestNewRedirectPolicy(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/from" {
			http.Redirect(w, r, "/to", http.StatusFound)
			return
		}
		w.Write([]byte("landed"))
	}))
	defer srv.Close()

	client := New(ProbeConfig(""))
	out, err := SendRaw(context.Background(), client,
		"GET /from HTTP/1.1\r\nHost: x\r\n\r\n", srv.URL)
	if err != nil {
		t.Fatalf("SendRaw failed: %v", err)
	}
	if !strings.HasPrefix(out, "HTTP/1.1 302") {
		t.Errorf("response = %q, want unfollowed 302", out)
	}
}
