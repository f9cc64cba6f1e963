// Package crossref provides a client for the Crossref works API.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/refsift/refsift/internal/record"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultInterval spaces successive lookups. Crossref asks polite
	// clients to bound their request rate; the throttle stays on by
	// default and is configurable, not removable.
	DefaultInterval = 500 * time.Millisecond
)

// Errors.
var (
	ErrNotFound     = errors.New("DOI not found (404)")
	ErrRateLimited  = errors.New("Crossref API rate limit exceeded")
	ErrAPIError     = errors.New("Crossref API error")
	ErrNetworkError = errors.New("network error connecting to Crossref")
)

// Client is a rate-limited HTTP client for the Crossref works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithInterval sets the minimum spacing between lookups.
// A non-positive interval disables the throttle (tests only).
func WithInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMailto sets the contact address sent in the User-Agent, which moves
// requests into Crossref's polite pool.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultInterval), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// worksResponse is the subset of the works payload we care about.
type worksResponse struct {
	Message struct {
		Type string `json:"type"`
	} `json:"message"`
}

// WorkType fetches the work type string for a DOI (e.g. "journal-article").
// The DOI is normalized first, so URL forms like https://doi.org/10.1/x work.
func (c *Client) WorkType(ctx context.Context, doi string) (string, error) {
	doi = record.NormalizeDOI(doi)
	if doi == "" {
		return "", fmt.Errorf("%w: empty DOI", ErrAPIError)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, doi)
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrAPIError, err)
	}
	if works.Message.Type == "" {
		return "", fmt.Errorf("%w: response has no work type", ErrAPIError)
	}

	return works.Message.Type, nil
}

// userAgent builds the UA string, including the mailto when configured.
func (c *Client) userAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("refsift/1.0 (mailto:%s)", c.mailto)
	}
	return "refsift/1.0"
}
