package switcher

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/vrchat"
)

// RetryPolicy defines retry behavior for switch attempts. Only transport
// failures are retried; an answer from the API, success or not, ends the
// loop on the attempt that produced it.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
}

// NewRetryPolicy creates a default retry policy
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 10,
		Wait:        2 * time.Second,
	}
}

// ExecuteWithRetry wraps a function with the retry loop. The wait
// between attempts is fixed, and the error from the final attempt is
// returned unchanged.
func (p *RetryPolicy) ExecuteWithRetry(ctx context.Context, logger arbor.ILogger, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isTransportError(lastErr) {
			return lastErr
		}

		if attempt < p.MaxAttempts {
			logger.Warn().
				Int("attempt", attempt).
				Err(lastErr).
				Str("wait", p.Wait.String()).
				Msg("Transport error, retrying")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Wait):
				// Continue to next attempt
			}
		}
	}

	logger.Error().
		Int("max_attempts", p.MaxAttempts).
		Err(lastErr).
		Msg("All retry attempts exhausted")

	return lastErr
}

// isTransportError checks if an error is retryable. Errors carrying an
// API status code are answers, not transport failures, and are never
// retried.
func isTransportError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *vrchat.APIError
	if errors.As(err, &apiErr) {
		return false
	}

	// Context deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Malformed response bodies
	var decodeErr *vrchat.DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}

	// Temporary network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Connection errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// Failures wrapped by the http client
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	return false
}
