// Package llm queries model providers for PGN-to-FEN translations. Clients in
// this package are thin HTTP wrappers; scoring the answers lives in pkg/fen.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Client asks one model to translate a PGN transcript into a FEN string and
// returns the raw response text.
type Client interface {
	Provider() string
	Model() string
	FEN(ctx context.Context, pgnText string) (string, error)
}

type httpCore struct {
	http           *fasthttp.Client
	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*httpCore)

func WithTimeout(d time.Duration) Option {
	return func(c *httpCore) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *httpCore) { c.retryMax = max }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *httpCore) { c.http.MaxConnsPerHost = n }
}

func newHTTPCore(opts ...Option) *httpCore {
	c := &httpCore{
		http:           &fasthttp.Client{ReadTimeout: 120 * time.Second, WriteTimeout: 30 * time.Second, MaxConnsPerHost: 32},
		defaultTimeout: 900 * time.Second,
		retryMax:       6,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpCore) postJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")
	for k, v := range headers {
		if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req.SetBody(payload)

	attempts := c.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			if attempt == attempts {
				return fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			body := string(resp.Body())
			err := fmt.Errorf("provider api error: status=%d body=%s", status, truncate(body, 512))
			if attempt == attempts || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *httpCore) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(c.defaultTimeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(c.defaultTimeout)
}

func (c *httpCore) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := time.Second
	return time.Duration(1<<uint(attempt-1)) * base // 1s, 2s, 4s ...
}

// 429 is the common rate-limit answer from every provider here; the rest are
// transient upstream failures.
func shouldRetryStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
