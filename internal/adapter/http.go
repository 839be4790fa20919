package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// ErrRequestFailed wraps transport level failures (DNS, connect, timeout, body read)
var ErrRequestFailed = errors.New("http request failed")

// HTTPResponse is a fully read HTTP response
type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Get performs a GET request with the given headers and returns the final response.
	// 429 and 5xx responses are retried with exponential backoff; once retries are
	// exhausted the last response is returned without error so the caller can classify it.
	Get(ctx context.Context, url string, header http.Header) (*HTTPResponse, error)
}

// RetryConfig configures the backoff applied to retryable responses
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig returns the backoff used when none is configured
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  1 * time.Minute,
	}
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client *http.Client
	retry  RetryConfig
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration, retry RetryConfig) HTTPClient {
	defaults := DefaultRetryConfig()
	if retry.InitialInterval <= 0 {
		retry.InitialInterval = defaults.InitialInterval
	}
	if retry.MaxInterval <= 0 {
		retry.MaxInterval = defaults.MaxInterval
	}
	// zero would mean retry forever
	if retry.MaxElapsedTime <= 0 {
		retry.MaxElapsedTime = defaults.MaxElapsedTime
	}

	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry for rate limiting
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, req *http.Request) (*HTTPResponse, error) {
	var last *HTTPResponse

	operation := func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrRequestFailed, err))
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: failed to read response body: %w", ErrRequestFailed, err))
		}

		last = &HTTPResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}

		if isRetryableStatus(resp.StatusCode) {
			logger.Warn("retryable response, retrying with backoff",
				zap.String("url", req.URL.Redacted()),
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("retryable status code %d", resp.StatusCode)
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = c.retry.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	if err == nil {
		return last, nil
	}
	if errors.Is(err, ErrRequestFailed) {
		return nil, err
	}
	if last != nil {
		// retries exhausted on a retryable status
		return last, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
}

// Get performs a GET request with the given headers
func (c *RealHTTPClient) Get(ctx context.Context, url string, header http.Header) (*HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	return c.doRequestWithRetry(ctx, req)
}
