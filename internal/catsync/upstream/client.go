// Package upstream provides the rate-limited, retrying HTTP client used to
// talk to catalog data providers. A Client is scoped to one upstream and
// strictly serializes its requests; it knows nothing about catalog semantics.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// Config holds the pacing and retry policy for one upstream.
type Config struct {
	// Name identifies the upstream in logs.
	Name string
	// MinInterval is the minimum gap between the start times of consecutive
	// outbound requests. Zero means no artificial throttling.
	MinInterval time.Duration
	// RequestTimeout bounds each individual attempt.
	RequestTimeout time.Duration
	// MaxAttempts bounds the total number of attempts per request.
	MaxAttempts uint
	// InitialBackoff is the first retry delay for server-side failures; it
	// doubles each attempt up to MaxBackoff. It is also the fallback when a
	// 429 carries no usable Retry-After value.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential backoff delay.
	MaxBackoff time.Duration
}

// Client is a single-lane queue in front of one upstream. Concurrent callers
// queue behind each other in submission order; a new request does not begin
// until the previous one has completed and MinInterval has elapsed since the
// previous request's start.
type Client struct {
	cfg  Config
	http *http.Client

	mu        sync.Mutex
	lastStart time.Time
}

// New creates a Client for one upstream. An optional transport override is
// used by tests.
func New(cfg Config, overrideTransport ...http.RoundTripper) *Client {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 60 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	// a cookie jar keeps upstream session cookies alive across requests
	jar, _ := cookiejar.New(nil)
	hc := &http.Client{Timeout: cfg.RequestTimeout, Jar: jar}
	if len(overrideTransport) > 0 {
		hc.Transport = overrideTransport[0]
	}
	return &Client{cfg: cfg, http: hc}
}

// retryAfterError carries the server-requested delay from a 429 response.
type retryAfterError struct {
	delay time.Duration
}

func (e *retryAfterError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.delay)
}

// statusError is a retryable server-side failure.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.code)
}

// Do sends the request through the single-lane queue, applying the pacing
// and retry policy. On success the caller owns the response body. Client-side
// failures (4xx other than 429) are returned without retry; exhausted retries
// surface as ErrSourceUnavailable.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Buffer the body once so retries can replay it.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, ErrRequestRejected.MsgErr("unable to read request body", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := retry.DoWithData(
		func() (*http.Response, error) {
			return c.attempt(ctx, req, bodyBytes)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxAttempts),
		retry.Delay(c.cfg.InitialBackoff),
		retry.MaxDelay(c.cfg.MaxBackoff),
		retry.DelayType(c.delayType),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().Err(err).Uint("attempt", n+1).
				Str("source", c.cfg.Name).
				Str("url", RedactURL(req.URL.String())).
				Msg("retrying upstream request")
		}),
	)
	if err != nil {
		if errors.Is(err, ErrRequestRejected) {
			return nil, err
		}
		return nil, ErrSourceUnavailable.New(fmt.Sprintf("source %s unavailable", c.cfg.Name)).Err(err)
	}
	return resp, nil
}

// delayType honors a server-requested Retry-After delay and falls back to
// exponential backoff for everything else.
func (c *Client) delayType(n uint, err error, config *retry.Config) time.Duration {
	var ra *retryAfterError
	if errors.As(err, &ra) {
		return ra.delay
	}
	return retry.BackOffDelay(n, err, config)
}

func (c *Client) attempt(ctx context.Context, req *http.Request, bodyBytes []byte) (*http.Response, error) {
	if err := c.pace(ctx); err != nil {
		return nil, retry.Unrecoverable(err)
	}

	attempt := req.Clone(ctx)
	if bodyBytes != nil {
		attempt.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		attempt.ContentLength = int64(len(bodyBytes))
	}

	log.Ctx(ctx).Debug().
		Str("source", c.cfg.Name).
		Str("method", attempt.Method).
		Str("url", RedactURL(attempt.URL.String())).
		Interface("headers", RedactHeaders(attempt.Header)).
		Msg("upstream request")

	resp, err := c.http.Do(attempt)
	if err != nil {
		// timeouts and connection failures are retryable
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		delay := parseRetryAfter(resp.Header.Get("Retry-After"), c.cfg.InitialBackoff)
		drainBody(resp)
		return nil, &retryAfterError{delay: delay}
	case resp.StatusCode >= 500:
		drainBody(resp)
		return nil, &statusError{code: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		drainBody(resp)
		return nil, retry.Unrecoverable(ErrAuthFailed.New(fmt.Sprintf("source %s: HTTP %d", c.cfg.Name, resp.StatusCode)))
	case resp.StatusCode >= 400:
		drainBody(resp)
		return nil, retry.Unrecoverable(ErrRequestRejected.New(fmt.Sprintf("source %s: HTTP %d", c.cfg.Name, resp.StatusCode)))
	}

	return resp, nil
}

// pace blocks until MinInterval has elapsed since the previous request start.
func (c *Client) pace(ctx context.Context) error {
	if c.cfg.MinInterval > 0 && !c.lastStart.IsZero() {
		wait := c.cfg.MinInterval - time.Since(c.lastStart)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastStart = time.Now()
	return nil
}

// parseRetryAfter interprets a Retry-After header as either delay seconds or
// an HTTP-date. A missing or unparseable value falls back to the configured
// initial backoff.
func parseRetryAfter(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		delay := time.Until(at)
		if delay < 0 {
			return fallback
		}
		return delay
	}
	return fallback
}

func drainBody(resp *http.Response) {
	if resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
