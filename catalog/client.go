// Package catalog talks to the remote catalog API and owns the
// client-side product set the query engine filters over.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdulhalimzhr/tokotok/config"
	"github.com/abdulhalimzhr/tokotok/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Client fetches products and categories from the remote catalog API.
type Client struct {
	cfg     *config.Config
	http    *http.Client
	metrics *Metrics
	idCache *lru.Cache[int, models.Product]
	baseURL *url.URL
}

// NewClient builds a catalog API client configured from cfg.
func NewClient(cfg *config.Config, metrics *Metrics) (*Client, error) {
	parsed, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api base url must include a host")
	}

	idCache, err := lru.New[int, models.Product](cfg.IDCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create id cache: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		metrics: metrics,
		idCache: idCache,
		baseURL: parsed,
	}, nil
}

// WithTransport swaps the underlying round tripper. Tests inject a mock
// transport here.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.http.Transport = rt
}

// FetchAll retrieves the full product catalog.
func (c *Client) FetchAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "products", "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchByCategory retrieves the products of a single category. The
// category name is escaped, matching what the remote route expects.
func (c *Client) FetchByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}
	path := "/products/category/" + url.PathEscape(category)
	var products []models.Product
	if err := c.getJSON(ctx, "products_by_category", path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchByID retrieves a single product, consulting the LRU cache first.
func (c *Client) FetchByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("product id must be positive")
	}

	if cached, ok := c.idCache.Get(id); ok {
		c.metrics.IncIDCacheHit()
		return &cached, nil
	}
	c.metrics.IncIDCacheMiss()

	var product models.Product
	if err := c.getJSON(ctx, "product_by_id", fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		classified := ErrBadPayload{Err: err}
		c.metrics.IncError(errorTypeLabel(classified))
		return nil, classified
	}

	c.idCache.Add(id, product)
	return &product, nil
}

// FetchCategories retrieves the distinct category labels.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "categories", "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	target := strings.TrimSuffix(c.baseURL.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.metrics.IncRequest(endpoint)
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		classified := Classify(err, 0)
		c.metrics.IncError(errorTypeLabel(classified))
		return classified
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		classified := Classify(nil, resp.StatusCode)
		c.metrics.IncError(errorTypeLabel(classified))
		return classified
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		classified := ErrBadPayload{Err: err}
		c.metrics.IncError(errorTypeLabel(classified))
		return classified
	}
	return nil
}
