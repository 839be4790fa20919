package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestNewProxy_InvalidConfig(t *testing.T) {
	_, err := ratelimit.NewProxy(ratelimit.Config{})
	assert.Error(t, err)
}

func TestProxy_RequestReturnsResult(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 100, Burst: 1})
	require.NoError(t, err)

	got, err := ratelimit.Request(context.Background(), p, "acct-1", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = ratelimit.Request(context.Background(), p, "acct-1", func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestProxy_ThrottlesPerKey(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 5, Burst: 1})
	require.NoError(t, err)

	call := func(key string) {
		_, err := p.Request(context.Background(), key, func(ctx context.Context) (interface{}, error) {
			return nil, nil
		})
		require.NoError(t, err)
	}

	// Different keys do not share a bucket
	start := time.Now()
	call("acct-1")
	call("acct-2")
	assert.Less(t, time.Since(start), 150*time.Millisecond)

	// The second request on the same key waits for a new token (200ms at 5 rps)
	start = time.Now()
	call("acct-1")
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestProxy_QueueTimeExceeded(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 0.1, Burst: 1, MaxQueueTime: 50 * time.Millisecond})
	require.NoError(t, err)

	noop := func(ctx context.Context) (interface{}, error) { return nil, nil }

	_, err = p.Request(context.Background(), "acct-1", noop)
	require.NoError(t, err)

	called := false
	_, err = p.Request(context.Background(), "acct-1", func(ctx context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestProxy_CancelledContext(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 0.1, Burst: 1})
	require.NoError(t, err)

	noop := func(ctx context.Context) (interface{}, error) { return nil, nil }
	_, err = p.Request(context.Background(), "acct-1", noop)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Request(ctx, "acct-1", noop)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProxy_Close(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 10})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Request(context.Background(), "acct-1", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ratelimit.ErrProxyClosed)
}

func TestRequest_NilProxyRunsDirectly(t *testing.T) {
	got, err := ratelimit.Request(context.Background(), nil, "acct-1", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
