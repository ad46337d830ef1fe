package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/stockboard/internal/inventory"
)

// Client fetches the inventory document from a single configured URL.
type Client struct {
	url       *url.URL
	http      *http.Client
	userAgent string
	maxBytes  int64
	now       func() time.Time
}

const (
	defaultUserAgent = "stockboard/0.1"
	defaultTimeout   = 10 * time.Second
	defaultMaxBytes  = 4 << 20

	// cacheBustParam carries the request time in epoch millis.
	cacheBustParam = "t"
)

// Option adjusts a Client built by NewClient.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBytes caps the accepted response body size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithClock sets the time source used for the cache-busting parameter.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a Client for rawURL, which must be an absolute http(s) URL.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	u, err := parseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		url:       u,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the configured source URL without the cache-busting parameter.
func (c *Client) URL() string {
	if c == nil || c.url == nil {
		return ""
	}
	return c.url.String()
}

// Fetch retrieves and decodes the current inventory document.
func (c *Client) Fetch(ctx context.Context) (inventory.Snapshot, error) {
	if c == nil {
		return inventory.Snapshot{}, fmt.Errorf("client is nil")
	}

	reqURL := c.requestURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return inventory.Snapshot{}, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return inventory.Snapshot{}, &HTTPStatusError{StatusCode: resp.StatusCode, URL: c.URL()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return inventory.Snapshot{}, &TransportError{Err: err}
		}
		return inventory.Snapshot{}, &inventory.DecodeError{Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.maxBytes {
		return inventory.Snapshot{}, &inventory.DecodeError{Err: fmt.Errorf("body exceeds %d bytes", c.maxBytes)}
	}

	return inventory.Decode(body)
}

func (c *Client) requestURL() string {
	u := *c.url
	values := u.Query()
	values.Set(cacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = values.Encode()
	return u.String()
}

func parseSourceURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, errors.New("source url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse source url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("source url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("source url %q: host is empty", rawURL)
	}
	u.Fragment = ""
	return u, nil
}
