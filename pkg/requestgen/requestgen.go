// Package requestgen turns bare URL strings discovered by the scanner
// into well-formed, replayable HTTP request text. Discovered URLs are
// heuristically extracted from binaries and may be malformed
// fragments, so synthesis never fails: it degrades from a captured
// proxy request, to a minimal synthesized request, to a best-effort
// request built from the raw string.
package requestgen

import (
	"fmt"
	"net/url"
	"strings"
)

// HistoryEntry is one captured (url, request) pair from proxy history.
type HistoryEntry struct {
	URL     string
	Request string
}

// HistoryLookup supplies captured proxy traffic to match against.
// A nil lookup means no history is available.
type HistoryLookup func() []HistoryEntry

// Synthesize produces request text for rawURL, preferring real
// captured traffic over synthesis:
//
//  1. A history entry whose URL prefix-or-suffix matches rawURL
//     (either direction, trailing-slash-insensitive) is returned
//     verbatim; captured requests carry cookies and headers a
//     synthesized one cannot.
//  2. Otherwise a minimal GET is built from the URL's path/query
//     with a Host header from its authority.
//  3. If rawURL does not parse, the raw string serves as both the
//     path and the Host source.
func Synthesize(rawURL string, lookup HistoryLookup) string {
	if lookup != nil {
		for _, entry := range lookup() {
			if entry.Request != "" && urlsMatch(entry.URL, rawURL) {
				return entry.Request
			}
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fallbackRequest(rawURL)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return buildRequest(path, u.Host)
}

// urlsMatch reports whether two URL strings refer to the same
// endpoint for replay purposes. Comparison is trailing-slash
// insensitive and accepts either string being a prefix or suffix of
// the other, since history URLs often carry an extra query string or
// omit the scheme.
func urlsMatch(a, b string) bool {
	a = strings.TrimSuffix(strings.TrimSpace(a), "/")
	b = strings.TrimSuffix(strings.TrimSpace(b), "/")
	if a == "" || b == "" {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a) ||
		strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}

// fallbackRequest builds a request from an unparseable URL string.
// The raw string becomes the request path and the Host value so the
// analyst can see and repair what the scanner actually extracted.
func fallbackRequest(raw string) string {
	path := raw
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	host := strings.TrimPrefix(strings.TrimPrefix(raw, "http://"), "https://")
	if i := strings.IndexByte(host, '/'); i > 0 {
		host = host[:i]
	}
	if host == "" {
		host = raw
	}
	return buildRequest(path, host)
}

func buildRequest(path, host string) string {
	return fmt.Sprintf(
		"GET %s HTTP/1.1\r\nHost: %s\r\nAccept: */*\r\nConnection: close\r\n\r\n",
		path, host)
}
