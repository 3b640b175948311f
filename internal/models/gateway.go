package models

import "time"

// Endpoint is a relative path probed on the gateway together with a display name
type Endpoint struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
}

// DefaultEndpoints are the checks run when no checks file is configured
var DefaultEndpoints = []Endpoint{
	{Path: "/", Name: "Root endpoint"},
	{Path: "/docs", Name: "FastAPI Documentation"},
	{Path: "/openapi.json", Name: "OpenAPI spec"},
	{Path: "/api/visitors/phone/1234567890", Name: "Public visitor lookup"},
}

// Verdict classifies a single endpoint check
type Verdict string

const (
	// VerdictGatewayMisconfigured: the routing layer answered 404 before the app was reached
	VerdictGatewayMisconfigured Verdict = "gateway-misconfigured"
	// VerdictServiceResponding: the application logic was reached (200/401/403/422)
	VerdictServiceResponding Verdict = "service-responding"
	VerdictUnexpectedStatus  Verdict = "unexpected-status"
	VerdictRequestError      Verdict = "request-error"
)

// EndpointResult is the outcome of one GET against the gateway
type EndpointResult struct {
	Endpoint   Endpoint `json:"endpoint"`
	URL        string   `json:"url"`
	Verdict    Verdict  `json:"verdict"`
	StatusCode int      `json:"status_code,omitempty"`
	Error      string   `json:"error,omitempty"`
	LatencyMS  int64    `json:"latency_ms"`
}

// GatewayRun is the full report of one smoke-test invocation
type GatewayRun struct {
	ID        string           `json:"id"`
	BaseURL   string           `json:"base_url"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at"`
	Results   []EndpointResult `json:"results"`
}

// Healthy reports whether every check reached the application
func (r GatewayRun) Healthy() bool {
	for _, res := range r.Results {
		if res.Verdict != VerdictServiceResponding {
			return false
		}
	}
	return true
}
