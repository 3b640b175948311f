package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xelth-com/eckcheckin/internal/models"
)

const defaultMaxBodyBytes = 256 * 1024 // 256KB

// Checker probes gateway endpoints one at a time
type Checker struct {
	baseURL      string
	client       *http.Client
	logger       *zap.Logger
	maxBodyBytes int64
}

// Option configures a Checker
type Option func(*Checker)

// WithClient replaces the default 10s-timeout client
func WithClient(c *http.Client) Option {
	return func(ch *Checker) { ch.client = c }
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(ch *Checker) { ch.logger = l }
}

// WithMaxBodyBytes limits how much of each response body is read
func WithMaxBodyBytes(n int64) Option {
	return func(ch *Checker) { ch.maxBodyBytes = n }
}

// NewChecker creates a checker for the service rooted at baseURL
func NewChecker(baseURL string, opts ...Option) *Checker {
	ch := &Checker{
		baseURL:      baseURL,
		client:       NewClient(DefaultClientConfig()),
		logger:       zap.NewNop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(ch)
	}
	if ch.logger == nil {
		ch.logger = zap.NewNop()
	}
	return ch
}

// BaseURL returns the service root being checked
func (c *Checker) BaseURL() string { return c.baseURL }

// Run checks endpoints sequentially in order. onResult is called as soon as each
// check finishes; a failed check never stops the ones after it.
func (c *Checker) Run(ctx context.Context, endpoints []models.Endpoint, onResult func(models.EndpointResult)) models.GatewayRun {
	run := models.GatewayRun{
		ID:        uuid.NewString(),
		BaseURL:   c.baseURL,
		StartedAt: time.Now().UTC(),
		Results:   make([]models.EndpointResult, 0, len(endpoints)),
	}
	log := c.logger.With(zap.String("run_id", run.ID))
	log.Info("gateway check started", zap.String("base_url", c.baseURL), zap.Int("checks", len(endpoints)))

	for _, ep := range endpoints {
		res := c.check(ctx, ep, log)
		if onResult != nil {
			onResult(res)
		}
		run.Results = append(run.Results, res)
	}

	run.EndedAt = time.Now().UTC()
	log.Info("gateway check finished", zap.Bool("healthy", run.Healthy()), zap.Duration("took", run.EndedAt.Sub(run.StartedAt)))
	return run
}

// Check performs a single GET and classifies it
func (c *Checker) Check(ctx context.Context, ep models.Endpoint) models.EndpointResult {
	return c.check(ctx, ep, c.logger)
}

func (c *Checker) check(ctx context.Context, ep models.Endpoint, log *zap.Logger) models.EndpointResult {
	res := models.EndpointResult{
		Endpoint: ep,
		URL:      c.baseURL + ep.Path,
	}

	start := time.Now()
	status, body, err := c.get(ctx, res.URL)
	res.LatencyMS = time.Since(start).Milliseconds()
	res.StatusCode = status

	if err != nil {
		res.Verdict = models.VerdictRequestError
		res.Error = err.Error()
		log.Warn("check failed", zap.String("endpoint", ep.Name), zap.String("url", res.URL), zap.Error(err))
		return res
	}

	verdict, err := Classify(status, body)
	res.Verdict = verdict
	if err != nil {
		res.Error = err.Error()
	}

	log.Debug("check classified",
		zap.String("endpoint", ep.Name),
		zap.String("url", res.URL),
		zap.Int("status", status),
		zap.String("verdict", string(verdict)),
		zap.Int64("latency_ms", res.LatencyMS),
	)
	return res
}

func (c *Checker) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return resp.StatusCode, body, nil
}
