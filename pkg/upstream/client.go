// Package upstream provides the HTTP client used to call the geocoding, forecast and news
// services. Each request is bounded by its own timeout and is never retried.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/metricskey"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"golang.org/x/net/html/charset"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel/pkg", "upstream")

const (
	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 10 * time.Second
	// MaxBodySize limits the size of the response body
	MaxBodySize = 8 << 20
)

// Client performs GET requests against a single upstream service.
type Client struct {
	name        string
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the limit of the response body,
// larger responses fail with ErrUpstream
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// New returns a client for the upstream identified by name,
// the name is used in logs, errors and metrics.
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:        name,
		httpClient:  http.DefaultClient,
		timeout:     DefaultTimeout,
		maxBodySize: MaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the upstream name
func (c *Client) Name() string {
	return c.name
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Response is a fully read upstream response
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Text returns the body decoded to UTF-8,
// using the charset from Content-Type, a BOM, or content sniffing.
func (r *Response) Text() ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(r.Body, r.ContentType)
	bs, err := enc.NewDecoder().Bytes(r.Body)
	if err != nil {
		return nil, name, errors.Wrapf(err, "failed to decode %s body", name)
	}
	return bs, name, nil
}

// Get issues a GET request to baseURL with the query parameters.
// Non-2xx responses return ErrUpstream, expired deadlines return ErrUpstreamTimeout.
func (c *Client) Get(ctx context.Context, baseURL string, query url.Values) (*Response, error) {
	started := time.Now()
	defer metricskey.PerfUpstreamRequest.MeasureSince(started, c.name)
	metricskey.StatsUpstreamRequests.IncrCounter(1, c.name)

	res, err := c.get(ctx, baseURL, query)
	if err != nil {
		kind := errkind.Kind(err)
		metricskey.StatsUpstreamFailures.IncrCounter(1, c.name, kind)
		logger.ContextKV(ctx, xlog.ERROR,
			"upstream", c.name,
			"status", "request_failed",
			"kind", kind,
			"elapsed", time.Since(started).String(),
			"err", err.Error(),
		)
		return nil, err
	}

	metricskey.StatsUpstreamBytesReceived.IncrCounter(float64(len(res.Body)), c.name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"upstream", c.name,
		"status_code", res.StatusCode,
		"content_type", res.ContentType,
		"size", len(res.Body),
		"elapsed", time.Since(started).String(),
	)
	return res, nil
}

// GetJSON issues a GET request and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, baseURL string, query url.Values, v any) error {
	res, err := c.Get(ctx, baseURL, query)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(res.Body, v); err != nil {
		return errors.Mark(errors.Wrapf(err, "%s: failed to decode response", c.name), errkind.ErrUpstream)
	}
	return nil
}

func (c *Client) get(ctx context.Context, baseURL string, query url.Values) (*Response, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse base URL", c.name)
	}
	u.RawQuery = query.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to create request", c.name)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err, "request failed")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, c.transportError(err, "failed to read response")
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, errkind.Upstream("%s: response exceeds %d bytes", c.name, c.maxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errkind.Upstream("%s: returned status %d: %s",
			c.name, resp.StatusCode, slices.StringUpto(string(body), 256))
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) transportError(err error, msg string) error {
	if isTimeout(err) {
		return errkind.Timeout(err, c.name+": "+msg)
	}
	return errors.Mark(errors.Wrapf(err, "%s: %s", c.name, msg), errkind.ErrUpstream)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
