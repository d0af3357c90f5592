// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// RetryBaseDelay controls the base duration for exponential backoff when a
// rate-limited response carries no Retry-After header. Tests override this
// to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

// MaxRetryAfter caps the wait requested by a Retry-After header.
var MaxRetryAfter = 5 * time.Minute

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries when the server asks the
// client to slow down: HTTP 429, or HTTP 503 with a Retry-After header. The
// wait is the Retry-After value when present, otherwise RetryBaseDelay
// doubled on each attempt.
//
// When maxRetries is 0 the default (5) is used. On each retry the response
// body is drained and closed, and the request body is rebuilt from
// req.GetBody. If the context is cancelled during a backoff wait the
// function returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, logger hclog.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rebuilding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		retryAfter, retryable := retryDelay(resp)
		if !retryable || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := retryAfter
		if backoff <= 0 {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}
		logger.Warn("rate limited, retrying",
			"status", resp.StatusCode, "wait", backoff, "attempt", attempt+1, "max", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryDelay reports whether resp asks for a retry and how long the server
// wants the client to wait (0 when unspecified).
func retryDelay(resp *http.Response) (time.Duration, bool) {
	after := parseRetryAfter(resp.Header.Get("Retry-After"))
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return after, true
	case http.StatusServiceUnavailable:
		return after, after > 0
	}
	return 0, false
}

// parseRetryAfter accepts delay-seconds only; the API does not send dates.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d
}
