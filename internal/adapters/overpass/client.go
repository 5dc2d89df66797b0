package overpass

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/llSiddharthll/Leads-Generator/internal/adapters/observability"
)

// Error taxonomy. The first three classify a single failed attempt and are
// retried; ErrFetchFailed is terminal, returned once the attempt cap is
// exhausted (or on a non-retriable response).
var (
	ErrTimeout     = errors.New("overpass: timeout")
	ErrHTTPStatus  = errors.New("overpass: http error")
	ErrConnection  = errors.New("overpass: connection error")
	ErrFetchFailed = errors.New("overpass: fetch failed")
)

type Client struct {
	url        string
	ua         string
	hc         *http.Client
	rl         *rate.Limiter
	maxRetries int
}

func New(url, userAgent string, timeout time.Duration, maxRetries, rps int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 3
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		url:        url,
		ua:         userAgent,
		hc:         &http.Client{Timeout: timeout},
		rl:         rate.NewLimiter(rate.Limit(rps), rps),
		maxRetries: maxRetries,
	}
}

// Query POSTs an Overpass QL query and decodes the JSON response. Timeouts,
// connection errors, 429 and transient 5xx are retried with exponential
// backoff (honoring Retry-After) up to the configured cap.
func (c *Client) Query(ctx context.Context, ql string) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		start := time.Now()
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(ql))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.ua)
		req.Header.Set("Accept", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = classify(err)
			observability.ObserveExternal("overpass", "interpreter", 0, time.Since(start))
			if i < c.maxRetries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
		}

		observability.ObserveExternal("overpass", "interpreter", resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			var out map[string]any
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
			}
			return out, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: status %d", ErrHTTPStatus, resp.StatusCode)
			if i < c.maxRetries && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed,
				resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
}

func classify(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms…) with up to
// +50% jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
