package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// ErrProxyClosed is returned for requests submitted after Close
var ErrProxyClosed = errors.New("rate limit proxy is closed")

// Config holds the limits applied to every key
type Config struct {
	// RequestsPerSecond is the sustained rate allowed per key
	RequestsPerSecond float64
	// Burst is the number of requests allowed at once per key
	Burst int
	// MaxQueueTime bounds how long a request may wait for a token
	MaxQueueTime time.Duration
}

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

// Proxy defines the interface for rate-limiting proxy
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request waits for a token of key and then runs fn
	Request(ctx context.Context, key string, fn RequestFunc) (interface{}, error)

	// Close rejects further requests
	Close() error
}

// proxy keeps one token bucket per key, so marketplace accounts are throttled independently
type proxy struct {
	config   Config
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	closed   atomic.Bool
}

// NewProxy creates a new rate-limiting proxy
func NewProxy(cfg Config) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("Rate limit proxy initialized",
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
		zap.Duration("max_queue_time", cfg.MaxQueueTime))

	return &proxy{
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

// Request submits a rate-limited request for execution and returns the result with type safety
func Request[T any](ctx context.Context, p Proxy, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	// If proxy is nil, execute the function directly
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request blocks until a token for key is available, the context is done or the
// maximum queue time is exceeded, then runs fn with the caller's context
func (p *proxy) Request(ctx context.Context, key string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	queueCtx, cancel := context.WithTimeout(ctx, p.config.MaxQueueTime)
	defer cancel()

	if err := p.limiter(key).Wait(queueCtx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limit token for %s unavailable: %w", key, err)
	}

	return fn(ctx)
}

func (p *proxy) limiter(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(p.config.RequestsPerSecond), p.config.Burst)
		p.limiters[key] = l
	}
	return l
}

// Close rejects further requests
func (p *proxy) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		logger.Info("Rate limit proxy closed")
	}
	return nil
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *Config) error {
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}

	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.RequestsPerSecond), 1)
	}

	if cfg.MaxQueueTime <= 0 {
		cfg.MaxQueueTime = 5 * time.Minute
	}

	return nil
}
