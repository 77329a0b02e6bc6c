// Package portal talks to the IRD portals: CBMS for report templates (behind
// a login token) and the public taxpayer portal for the above-threshold
// ledger template.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	maxAttempts   = 4
	backoffFactor = 2 * time.Second
)

// retryable status codes, mirroring the portals' flaky reverse proxies.
var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Authenticator attaches credentials to an outgoing request.
type Authenticator interface {
	Apply(ctx context.Context, req *http.Request) error
}

// Client is an HTTP client bound to one portal: base URL, fixed headers,
// retry with exponential backoff, and a request-rate limiter so batch runs
// do not hammer the portal.
type Client struct {
	baseURL string
	headers map[string]string
	http    *http.Client
	limiter *rate.Limiter
	backoff time.Duration
}

// NewClient creates a portal client for the given base URL.
func NewClient(baseURL string, headers map[string]string) *Client {
	return &Client{
		baseURL: baseURL,
		headers: headers,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		backoff: backoffFactor,
	}
}

// Get fetches a path relative to the portal's base URL.
func (c *Client) Get(ctx context.Context, path string, auth Authenticator) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", auth)
}

// PostJSON posts a JSON body to a path relative to the portal's base URL.
func (c *Client) PostJSON(ctx context.Context, path string, body any, auth Authenticator) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, payload, "application/json", auth)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, auth Authenticator) ([]byte, error) {
	// Plain concatenation: template endpoints arrive pre-escaped and must not
	// be escaped again.
	target := strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if auth != nil {
			if err := auth.Apply(ctx, req); err != nil {
				return nil, err
			}
		}

		started := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		log.Info().
			Str("method", method).
			Str("url", target).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(started)).
			Msg("Portal request")

		if retryStatus[resp.StatusCode] {
			lastErr = fmt.Errorf("portal returned %d for %s", resp.StatusCode, target)
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("portal returned %d for %s", resp.StatusCode, target)
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("portal request failed after %d attempts: %w", maxAttempts, lastErr)
}
