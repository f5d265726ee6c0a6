package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/refenrich/internal/reference"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRows is the number of candidates requested per search. Only the
	// first one is scored.
	DefaultRows = 5

	// UserAgent identifies refenrich to the metadata APIs.
	UserAgent = "refenrich"
)

// Query is the metadata searched for in the external sources.
type Query struct {
	Author string
	Title  string
	Year   string
}

// QueryFromMetadata builds a Query from extracted metadata.
func QueryFromMetadata(m reference.ExtractedMetadata) Query {
	return Query{Author: m.Author, Title: m.Title, Year: m.Year}
}

// Text renders the free-text search string "title author year". A year
// holding the Unknown sentinel is left out.
func (q Query) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.Title, q.Author} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if y := strings.TrimSpace(q.Year); y != "" && y != reference.Unknown {
		parts = append(parts, y)
	}
	return strings.Join(parts, " ")
}

// client holds the transport shared by the OpenAlex and Crossref clients.
type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	email      string
	timeout    time.Duration
}

// ClientOption configures a metadata client.
type ClientOption func(*client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed with
// WithHTTPClient is copied rather than modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *client) {
		c.timeout = timeout
	}
}

// WithEmail sets the contact address sent to the API's polite pool.
func WithEmail(email string) ClientOption {
	return func(c *client) {
		c.email = email
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func newClient(baseURL string, perSecond float64, opts []ClientOption) client {
	c := client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// getJSON performs one rate-limited GET and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, source, path string, params url.Values, header http.Header, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(source, resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
