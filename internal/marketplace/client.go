package marketplace

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/ratelimit"
)

const (
	DefaultPageSize         = 200
	DefaultOrderByField     = "PackageLastModifiedDate"
	DefaultOrderByDirection = "DESC"

	// maxErrorBodyLength bounds how much of an error response is kept for logs
	maxErrorBodyLength = 512
)

// PageResult is one page of the order listing
type PageResult struct {
	Content       []domain.Order
	Page          int
	TotalPages    int
	TotalElements int
	StatusCode    int
}

// pageResponse is the wire format of the order listing.
// Content is a pointer so that an absent or null content is distinguishable from an empty page.
type pageResponse struct {
	Content       *[]domain.Order `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int             `json:"totalElements"`
}

// Client defines the interface for the marketplace order listing of one account
//
//go:generate mockgen -source=client.go -destination=../mocks/marketplace_client.go -package=mocks -mock_names=Client=MockMarketplaceClient,ClientFactory=MockMarketplaceClientFactory
type Client interface {
	// FetchPage fetches one page of orders in status modified within window.
	// Failures are returned as *FetchError.
	FetchPage(ctx context.Context, status domain.OrderStatus, window domain.FetchWindow, page int) (*PageResult, error)
}

// ClientFactory builds a Client bound to one account's credentials
type ClientFactory interface {
	NewClient(creds domain.Credentials) Client
}

// Options holds the listing parameters shared by every account
type Options struct {
	BaseURL          string
	PageSize         int
	OrderByField     string
	OrderByDirection string
}

type clientFactory struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	json           adapter.JSON
	opts           Options
}

// NewClientFactory creates a factory for per-account marketplace clients
func NewClientFactory(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, json adapter.JSON, opts Options) ClientFactory {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.OrderByField == "" {
		opts.OrderByField = DefaultOrderByField
	}
	if opts.OrderByDirection == "" {
		opts.OrderByDirection = DefaultOrderByDirection
	}

	return &clientFactory{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		json:           json,
		opts:           opts,
	}
}

// NewClient builds a client for one account
func (f *clientFactory) NewClient(creds domain.Credentials) Client {
	header := http.Header{}
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds.APIKey+":"+creds.APISecret)))
	header.Set("User-Agent", creds.ExternalAccountID+domain.UserAgentSuffix)
	header.Set("Accept", "application/json")

	return &OrderClient{
		httpClient:     f.httpClient,
		rateLimitProxy: f.rateLimitProxy,
		json:           f.json,
		opts:           f.opts,
		accountID:      creds.ExternalAccountID,
		header:         header,
	}
}

// OrderClient implements Client over the marketplace REST API
type OrderClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	json           adapter.JSON
	opts           Options
	accountID      string
	header         http.Header
}

// buildURL returns the listing URL. Window bounds are passed through as given;
// the marketplace expects the most recent bound as startDate.
func (c *OrderClient) buildURL(status domain.OrderStatus, window domain.FetchWindow, page int) string {
	q := url.Values{}
	q.Set("status", string(status))
	q.Set("startDate", strconv.FormatInt(window.Start, 10))
	q.Set("endDate", strconv.FormatInt(window.End, 10))
	q.Set("orderByField", c.opts.OrderByField)
	q.Set("orderByDirection", c.opts.OrderByDirection)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(c.opts.PageSize))

	return fmt.Sprintf("%s/suppliers/%s/orders?%s", c.opts.BaseURL, url.PathEscape(c.accountID), q.Encode())
}

// FetchPage fetches one page of orders
func (c *OrderClient) FetchPage(ctx context.Context, status domain.OrderStatus, window domain.FetchWindow, page int) (*PageResult, error) {
	if !domain.IsValidOrderStatus(status) {
		return nil, &FetchError{Kind: FailureRequest, Err: fmt.Errorf("%w: %q", ErrInvalidStatus, status)}
	}
	if page < 0 {
		return nil, &FetchError{Kind: FailureRequest, Err: fmt.Errorf("%w: %d", ErrInvalidPage, page)}
	}

	reqURL := c.buildURL(status, window, page)
	logger.DebugCtx(ctx, "Fetching order page",
		zap.String("status", string(status)),
		zap.Int("page", page),
		zap.String("account", c.accountID))

	resp, err := ratelimit.Request(ctx, c.rateLimitProxy, c.accountID, func(ctx context.Context) (*adapter.HTTPResponse, error) {
		return c.httpClient.Get(ctx, reqURL, c.header)
	})
	if err != nil {
		return nil, &FetchError{Kind: FailureTransport, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Kind:       FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body: %s", truncate(resp.Body, maxErrorBodyLength)),
		}
	}

	var body pageResponse
	if err := c.json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &FetchError{Kind: FailureDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if body.Content == nil {
		return nil, &FetchError{Kind: FailureDecode, StatusCode: resp.StatusCode, Err: fmt.Errorf("page has no content")}
	}

	return &PageResult{
		Content:       *body.Content,
		Page:          body.Page,
		TotalPages:    body.TotalPages,
		TotalElements: body.TotalElements,
		StatusCode:    resp.StatusCode,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
