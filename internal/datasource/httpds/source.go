// Package httpds serves raw exports over HTTP: a file name is resolved
// against a base URL and fetched with GET, with retry and exponential backoff
// on transient failures.
//
// The operator publishes quarterly exports under a single bucket URL, so a
// run can read them directly instead of from a local raw directory.
package httpds

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config configures a Source.
//
// Zero values are given defaults:
//   - HeaderTimeout:  60s
//   - Timeout:        none
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// BaseURL is the directory-like URL the file names are resolved against,
	// e.g. "https://example.com/tripdata/". Required.
	BaseURL string

	// HeaderTimeout bounds the wait for response headers. It does not cover
	// reading the body, so a large export on a slow link is not cut off.
	HeaderTimeout time.Duration

	// Timeout bounds a whole request, body download included. Zero means no
	// limit.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	// Zero means the default; a negative value disables retries.
	MaxRetries int

	// InitialBackoff is the wait before the first retry; each later retry
	// doubles it up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Headers are added to every request.
	Headers http.Header

	// Transport is an optional custom RoundTripper.
	Transport http.RoundTripper
}

// Source fetches named files from a base URL.
type Source struct {
	base           *url.URL
	httpClient     *http.Client
	headerTimeout  time.Duration
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	headers        http.Header
}

// NewSource validates cfg and returns a Source.
func NewSource(cfg Config) (*Source, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("httpds: base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("httpds: base url %q must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("httpds: base url %q has no host", cfg.BaseURL)
	}

	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = 60 * time.Second
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	switch {
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	return &Source{
		base: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		headerTimeout:  cfg.HeaderTimeout,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		headers:        cfg.Headers.Clone(),
	}, nil
}

// URL returns the address name is fetched from.
func (s *Source) URL(name string) string {
	return s.base.JoinPath(name).String()
}

// Open fetches name and returns the response body, which the caller must
// close. A 404 or 410 response matches errors.Is(err, os.ErrNotExist), the
// same as a missing local file.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("httpds: file name must not be empty")
	}
	u := s.URL(name)

	attempts := s.maxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reqCtx, cancel := context.WithCancel(ctx)
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}
		for k, vs := range s.headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		timer := time.AfterFunc(s.headerTimeout, cancel)
		resp, err := s.httpClient.Do(req)
		timedOut := !timer.Stop()
		switch {
		case err != nil && ctx.Err() != nil:
			cancel()
			return nil, ctx.Err()
		case timedOut:
			if resp != nil {
				_ = resp.Body.Close()
			}
			cancel()
			lastErr = fmt.Errorf("httpds: GET %s: no response headers within %s", u, s.headerTimeout)
		case err != nil:
			cancel()
			lastErr = fmt.Errorf("httpds: GET %s: %w", u, err)
		case resp.StatusCode >= 200 && resp.StatusCode <= 299:
			return &body{ReadCloser: resp.Body, cancel: cancel}, nil
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			_ = resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("httpds: GET %s: status %d: %w", u, resp.StatusCode, os.ErrNotExist)
		case isRetryableStatus(resp.StatusCode):
			_ = resp.Body.Close()
			cancel()
			lastErr = fmt.Errorf("httpds: GET %s: retryable status %d", u, resp.StatusCode)
		default:
			_ = resp.Body.Close()
			cancel()
			return nil, fmt.Errorf("httpds: GET %s: status %d", u, resp.StatusCode)
		}

		if attempt+1 >= attempts {
			break
		}
		backoff := backoffDuration(s.initialBackoff, attempt, s.maxBackoff)
		log.Printf("httpds: retry file=%s attempt=%d backoff=%s err=%v", name, attempt+1, backoff, lastErr)
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// body releases the request context when the response body is closed.
type body struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *body) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// isRetryableStatus reports whether code is transient: 429 or any 5xx.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns initial * 2^attempt, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	d := initial
	for i := 0; i < attempt && d < max; i++ {
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

// sleepWithContext waits for d or until ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
