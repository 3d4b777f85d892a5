package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/freshtrack/backend/internal/domain"
)

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts API client.
// Open Food Facts asks for ~100 product requests per minute and a descriptive
// User-Agent; the limiter stays under that with a small burst.
func NewClient(baseURL, userAgent string) *Client {
	limiter := rate.NewLimiter(rate.Limit(1.5), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// GetProduct fetches a product record by barcode
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.OFFProduct, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp domain.OFFProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Status != 1 {
		if c.debug {
			log.Printf("[OFF] unknown barcode: %s", barcode)
		}
		return nil, domain.ErrProductNotFound
	}
	return &resp.Product, nil
}

// SearchProducts runs a free-text product search and returns up to 10 results
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.OFFProduct, error) {
	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("search_simple", "1")
	params.Add("json", "1")
	params.Add("page_size", "10")
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp domain.OFFSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Products) == 0 {
		if c.debug {
			log.Printf("[OFF] no products found for query: %q", query)
		}
		return nil, domain.ErrProductNotFound
	}
	return resp.Products, nil
}

// getWithRetry executes a rate-limited GET with up to 3 attempts for
// transient failures. A 404 is terminal (unknown barcode), other non-200
// statuses are retried with linear backoff.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[OFF] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[OFF] API error (attempt %d) - status: %d", attempt, resp.StatusCode)
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOFFAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}
		return body, nil
	}
	return nil, lastErr
}
