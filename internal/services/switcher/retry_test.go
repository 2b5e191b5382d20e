package switcher

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/vrchat"
)

func transportErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func TestNewRetryPolicy_Defaults(t *testing.T) {
	policy := NewRetryPolicy()
	assert.Equal(t, 10, policy.MaxAttempts)
	assert.Equal(t, 2*time.Second, policy.Wait)
}

func TestExecuteWithRetry_SucceedsWithoutRetry(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 10, Wait: time.Millisecond}

	calls := 0
	err := policy.ExecuteWithRetry(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_RecoversFromTransportErrors(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 10, Wait: time.Millisecond}

	calls := 0
	err := policy.ExecuteWithRetry(context.Background(), arbor.NewLogger(), func() error {
		calls++
		if calls < 10 {
			return transportErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 10, calls)
}

func TestExecuteWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 3, Wait: time.Millisecond}

	calls := 0
	failure := &url.Error{Op: "Put", URL: "https://vrchat.com/api/1", Err: errors.New("connection reset")}
	err := policy.ExecuteWithRetry(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return failure
	})

	// The original error comes back unchanged after the last attempt
	assert.Equal(t, failure, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_APIAnswersAreNeverRetried(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 10, Wait: time.Millisecond}

	calls := 0
	apiErr := &vrchat.APIError{StatusCode: 500, Message: "internal error", Endpoint: "/avatars/x/select"}
	err := policy.ExecuteWithRetry(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return apiErr
	})

	assert.Equal(t, apiErr, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_DecodeErrorsAreRetried(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 5, Wait: time.Millisecond}

	calls := 0
	err := policy.ExecuteWithRetry(context.Background(), arbor.NewLogger(), func() error {
		calls++
		if calls == 1 {
			return &vrchat.DecodeError{Endpoint: "/avatars/favorites", Err: errors.New("invalid character '<'")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteWithRetry_ContextCancelStopsWaiting(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 10, Wait: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := policy.ExecuteWithRetry(ctx, arbor.NewLogger(), func() error {
		calls++
		cancel()
		return transportErr()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsTransportError(t *testing.T) {
	assert.False(t, isTransportError(nil))
	assert.False(t, isTransportError(errors.New("plain error")))
	assert.False(t, isTransportError(&vrchat.APIError{StatusCode: 503}))

	assert.True(t, isTransportError(transportErr()))
	assert.True(t, isTransportError(context.DeadlineExceeded))
	assert.True(t, isTransportError(&vrchat.DecodeError{Endpoint: "/auth/user", Err: errors.New("unexpected EOF")}))
	assert.True(t, isTransportError(&url.Error{Op: "Get", URL: "x", Err: errors.New("reset")}))
}
