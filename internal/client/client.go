package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manufgue/Monitor/internal/model"
)

// DefaultTimeout bounds one counter fetch when the configuration names no
// other value. A stalled host must never stall a whole sweep.
const DefaultTimeout = 15 * time.Second

const maxResponseBytes = 4 * 1024 * 1024 // hard cap on response reads

// RegionClient issues the active-PCT query against one region of one host.
// Implementations classify every result into an Outcome; per-endpoint
// failures never surface as Go errors.
type RegionClient interface {
	ActivePCT(ctx context.Context, target model.HostTarget, region, token string) Outcome
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	Timeout time.Duration // per-call bound; DefaultTimeout when unset
}

// DefaultClient implements RegionClient using the standard net/http package.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
}

// NewDefaultClient constructs a DefaultClient from the given config.
func NewDefaultClient(cfg ClientConfig) *DefaultClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	// The per-call bound rides on the request context, not http.Client.Timeout,
	// so a caller-supplied ctx can still cancel earlier.
	return &DefaultClient{
		http:   &http.Client{},
		config: cfg,
	}
}

// ActivePCT fetches the active PCT counters for one region. A token, when
// present, is replayed as the session cookie; classification follows the
// status code and body shape, with the per-call timeout reported as a
// transport failure.
func (c *DefaultClient) ActivePCT(ctx context.Context, target model.HostTarget, region, token string) Outcome {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	port := target.EffectivePort()
	url := activePCTURL(target.Host, port, region)
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, url, nil)
	if err != nil {
		return Transport(fmt.Errorf("create request: %w", err))
	}

	SetAdminHeaders(req.Header, target.Host, port)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Transport(fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Transport(fmt.Errorf("read body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Unauthorized()
	case resp.StatusCode == http.StatusNotFound:
		title, message := extractAPIError(body)
		return NotFound(title, message)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return ServerError(resp.StatusCode, truncate(body, 200))
	}

	records, err := decodeRecords(body)
	if err != nil {
		return Malformed(err)
	}
	return Success(records)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
