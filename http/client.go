package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RequestParams holds parameters for HTTP requests
type RequestParams struct {
	URL     string
	Referer string
	Headers http.Header
}

// Fetcher returns the body of a page as a string
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (string, error)
}

// Options configures a Client
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// RateLimit caps requests per second, 0 means no cap
	RateLimit  float64
	Logger     *slog.Logger
}

// Client is an HTTP client retrying transient failures
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	RetryDelay time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a client from opts, filling in defaults
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mangafeed/1.0"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		HTTP:       &http.Client{Timeout: opts.Timeout},
		UserAgent:  opts.UserAgent,
		MaxRetries: opts.MaxRetries,
		RetryDelay: opts.RetryDelay,
		logger:     opts.Logger,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// Get performs a GET request, retrying network errors, 429 and 5xx
// responses with exponential backoff. The caller must close the body.
func (c *Client) Get(ctx context.Context, params RequestParams) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.RetryDelay << (attempt - 1)
			c.logger.Debug("retrying request", "url", params.URL, "attempt", attempt, "delay", delay, "err", lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := c.do(ctx, params)
		if err == nil {
			return body, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", c.MaxRetries+1, lastErr)
}

func (c *Client) do(ctx context.Context, params RequestParams) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		return nil, err
	}

	// Set default headers
	req.Header.Set("User-Agent", c.UserAgent)

	if params.Referer != "" {
		req.Header.Set("Referer", params.Referer)
	}

	for key, values := range params.Headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        params.URL,
		}
	}

	return resp.Body, nil
}

// Fetch implements Fetcher
func (c *Client) Fetch(ctx context.Context, url string, headers http.Header) (string, error) {
	body, err := c.Get(ctx, RequestParams{URL: url, Headers: headers})
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	return string(data), nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusTooManyRequests || herr.StatusCode >= 500
	}

	return true
}

// HTTPError represents an HTTP error
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return "HTTP " + e.Status + " for URL: " + e.URL
}
