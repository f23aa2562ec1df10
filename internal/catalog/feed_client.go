package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

const (
	DefaultFeedURL             = "https://rijonshahariar.github.io/json-ecom/products.json"
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 1024
	maxFeedBytes         int64 = 8 << 20
	productNotFoundError       = "product not found"
)

var errFeedURLRequired = errors.New("catalog feed url is required")

// FeedClient reads the static product feed over HTTP. Every call re-fetches the feed, so
// price or name changes show up on the next add.
type FeedClient struct {
	httpClient *http.Client
	feedURL    string
}

// Option configures optional client behavior.
type Option func(*FeedClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *FeedClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithFeedURL points the client at a different feed.
func WithFeedURL(feedURL string) Option {
	return func(c *FeedClient) {
		if trimmed := strings.TrimSpace(feedURL); trimmed != "" {
			c.feedURL = trimmed
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *FeedClient) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewFeedClient builds a client for the given feed URL.
func NewFeedClient(feedURL string, opts ...Option) (*FeedClient, error) {
	trimmed := strings.TrimSpace(feedURL)
	if trimmed == "" {
		return nil, errFeedURLRequired
	}

	client := &FeedClient{
		feedURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchProduct fetches the feed and returns the product with the given id.
func (c *FeedClient) FetchProduct(ctx context.Context, id int) (*Product, error) {
	feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	product, ok := findProduct(feed.Products, id)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeProductLookup, productNotFoundError).
			WithDetails(map[string]any{"product_id": id})
	}
	if err := product.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "invalid product in feed").
			WithDetails(map[string]any{"product_id": id})
	}
	return product, nil
}

// ListProducts returns every product in the feed.
func (c *FeedClient) ListProducts(ctx context.Context) ([]Product, error) {
	feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return feed.Products, nil
}

func (c *FeedClient) fetch(ctx context.Context) (*Feed, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeProductLookup, "catalog client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "fetch product feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.New(pkgerrors.CodeProductLookup, "failed to fetch products").
			WithDetails(map[string]any{
				"status": resp.StatusCode,
				"body":   strings.TrimSpace(string(body)),
			})
	}

	var feed Feed
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&feed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "decode product feed")
	}
	if feed.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeProductLookup, fmt.Sprintf("invalid products data from %s", c.feedURL))
	}
	return &feed, nil
}
