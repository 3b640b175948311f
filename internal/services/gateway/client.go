package gateway

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig tunes the HTTP client used for checks
type ClientConfig struct {
	// Total timeout for one request including reading the body
	Timeout time.Duration

	DialTimeout    time.Duration
	TLSHandshake   time.Duration
	ResponseHeader time.Duration
}

// DefaultClientConfig bounds every check at 10 seconds
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:        10 * time.Second,
		DialTimeout:    5 * time.Second,
		TLSHandshake:   5 * time.Second,
		ResponseHeader: 10 * time.Second,
	}
}

// NewClient builds a client with no connection reuse; each check is a fresh attempt
func NewClient(cfg ClientConfig) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		DisableKeepAlives:     true,
		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
