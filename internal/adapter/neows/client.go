package neows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
)

// DefaultBaseURL is the public NeoWs REST endpoint.
const DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"

// Client implements domain.Catalog using the NASA NeoWs API.
// It owns one *http.Client for the process lifetime; call Close on shutdown.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs client. The timeout bounds every outbound call.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchFeed returns objects with close approaches between start and end.
func (c *Client) FetchFeed(ctx context.Context, start, end time.Time) (domain.RawFeed, error) {
	params := url.Values{
		"start_date": {start.Format(domain.DateLayout)},
		"end_date":   {end.Format(domain.DateLayout)},
	}
	var feed domain.RawFeed
	err := c.get(ctx, "feed", "/feed", params, &feed)
	return feed, err
}

// FetchByID returns a single object by its NeoWs id.
func (c *Client) FetchByID(ctx context.Context, id string) (domain.RawNEO, error) {
	var neo domain.RawNEO
	err := c.get(ctx, "lookup", "/neo/"+url.PathEscape(id), nil, &neo)
	return neo, err
}

// FetchBrowsePage returns one zero-based page of the catalog.
func (c *Client) FetchBrowsePage(ctx context.Context, page, size int) (domain.RawBrowsePage, error) {
	params := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var p domain.RawBrowsePage
	err := c.get(ctx, "browse", "/neo/browse", params, &p)
	return p, err
}

// Close releases idle upstream connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.CatalogDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		// url.Error repeats the request URL, which carries the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.observe(operation, "timeout")
		c.logger.Warn("neows request failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: %s request: %w", domain.ErrUpstreamTimeout, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		outcome, kind := classifyStatus(resp.StatusCode)
		c.observe(operation, outcome)
		if !errors.Is(kind, domain.ErrNotFound) {
			c.logger.Warn("neows error response", "operation", operation, "status", resp.StatusCode, "body", string(body))
		}
		return fmt.Errorf("%w: neows API error: status %d", kind, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(operation, "unavailable")
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrUpstreamUnavailable, operation, err)
	}

	c.observe(operation, "success")
	return nil
}

func (c *Client) observe(operation, outcome string) {
	c.metrics.CatalogRequests.WithLabelValues(operation, outcome).Inc()
}

func classifyStatus(status int) (outcome string, kind error) {
	switch status {
	case http.StatusNotFound:
		return "not_found", domain.ErrNotFound
	case http.StatusTooManyRequests:
		return "rate_limited", domain.ErrRateLimited
	default:
		return "unavailable", domain.ErrUpstreamUnavailable
	}
}
