// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by fetchers.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// RetryBaseDelay is the wait before the first retry when the configuration
// does not set one. Resty doubles it on each attempt with jitter. Tests
// override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// StatusError reports a response that was not successful after retries.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// NewClient returns a resty client configured from cfg. Requests are retried
// on transport errors, HTTP 429 and 5xx responses. A negative MaxRetries
// disables retries; zero uses the default (3).
func NewClient(cfg types.HTTPConfig) *resty.Client {
	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = defaultMaxRetries
	case retries < 0:
		retries = 0
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = RetryBaseDelay
	}

	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(wait)
	client.SetRetryMaxWaitTime(8 * wait)
	client.AddRetryCondition(Retryable)
	return client
}

// Throttle spaces the requests made through client, retries included, at
// least delay apart. The first request is not delayed. A zero delay leaves
// client unthrottled.
func Throttle(client *resty.Client, delay time.Duration) *resty.Client {
	if delay <= 0 {
		return client
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})
	return client
}

// Retryable reports whether a request should be attempted again.
func Retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Get fetches url and returns the response body. Non-2xx responses that
// remain after retries are returned as *StatusError. If ctx is cancelled
// during a retry wait, ctx.Err() is returned.
func Get(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}
