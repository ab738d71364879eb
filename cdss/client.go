// Package cdss is a client for the Colorado Division of Water Resources
// (CDSS) REST API. It builds query URLs for the v2 resources, walks the
// API's pageSize/pageIndex pagination, and returns the accumulated
// records as a Frame.
package cdss

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the CDSS REST API root.
const DefaultBaseURL = "https://dwr.state.co.us/Rest/GET/api/v2"

// defaultPageSize is the maximum record count the API returns per page.
const defaultPageSize = 50000

// defaultPageLimit caps the pagination loop. The API has no explicit
// end-of-data marker, so a misbehaving server that keeps returning full
// pages would otherwise loop forever.
const defaultPageLimit = 1000

// Client queries the CDSS REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	log        zerolog.Logger
	pageSize   int
	pageLimit  int
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default outbound HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different API root, typically a
// test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithAPIKey appends the given CDSS API token to every request. Without
// a key the caller is subject to the API's unauthenticated rate limits.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger attaches a zerolog logger; by default the client is silent.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithPageLimit overrides the maximum number of pages fetched per query.
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithPageSize overrides the records-per-page constant. Only useful for
// tests; the production API expects 50000.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithClock injects the time source used for default end dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a Client with a pooled outbound transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: newOutbound(),
		log:        zerolog.Nop(),
		pageSize:   defaultPageSize,
		pageLimit:  defaultPageLimit,
		now:        time.Now,
	}
	for _, f := range opts {
		f(c)
	}
	return c
}

func newOutbound() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}
