// Package httpclient builds the HTTP clients used for daemon scans
// and live probes. Probe traffic is commonly routed through an
// intercepting proxy with its own CA, so verification is off by
// default and redirects are never followed; the analyst needs to see
// the redirect response itself.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Config holds client construction options.
type Config struct {
	// Timeout is the total request timeout. Scan calls against the
	// daemon should use minutes; probe sends can afford less.
	Timeout time.Duration

	// InsecureSkipVerify skips TLS verification (default true; probe
	// targets and intercepting proxies rarely present trusted certs).
	InsecureSkipVerify bool

	// Proxy is an optional HTTP/HTTPS proxy URL, e.g. a local
	// intercepting proxy at http://127.0.0.1:8080.
	Proxy string

	// DialTimeout bounds connection establishment (default 10s).
	DialTimeout time.Duration
}

// ScanConfig returns the configuration for daemon scan calls: a long
// read timeout, since scans of large binaries run for minutes.
func ScanConfig() Config {
	return Config{
		Timeout:            10 * time.Minute,
		InsecureSkipVerify: true,
	}
}

// ProbeConfig returns the configuration for live-probe sends.
func ProbeConfig(proxy string) Config {
	return Config{
		Timeout:            30 * time.Second,
		InsecureSkipVerify: true,
		Proxy:              proxy,
	}
}

// New creates an HTTP client from cfg. Malformed proxy URLs are
// ignored and the client proceeds without a proxy.
func New(cfg Config) *http.Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: cfg.DialTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}
	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
