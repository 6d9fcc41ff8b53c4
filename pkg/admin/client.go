// Package admin is a client for the feature-flag service's admin API.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.flipt.io/flagseed/pkg/model"
)

const maxErrorBody = 512

// StatusError is returned when the admin API responds with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status: %q", e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}

	return msg
}

// Client issues requests against the admin API of a single project.
// Its headers are fixed at construction and it is safe for concurrent use.
type Client struct {
	client   *http.Client
	features *url.URL
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	timeout   time.Duration
	wrappers  []func(http.RoundTripper) http.RoundTripper
}

// WithTransport sets the base round tripper. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMiddleware wraps the transport, for example with request logging.
// Middleware runs after the fixed headers have been applied.
func WithMiddleware(mw func(http.RoundTripper) http.RoundTripper) Option {
	return func(o *options) {
		o.wrappers = append(o.wrappers, mw)
	}
}

// New returns a Client for project on the service at base.
// Every request carries token as its Authorization header.
func New(base *url.URL, project, token string, opts ...Option) *Client {
	o := options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	rt := o.transport
	for _, mw := range o.wrappers {
		rt = mw(rt)
	}

	header := http.Header{}
	header.Set("Authorization", token)
	header.Set("Content-Type", "application/json")

	return &Client{
		client: &http.Client{
			Transport: &headerTransport{header: header, next: rt},
			Timeout:   o.timeout,
		},
		features: FeaturesURL(base, project),
	}
}

// FeaturesURL returns the endpoint features are created on.
func (c *Client) FeaturesURL() *url.URL {
	return c.features
}

// CreateFeature posts feature to the features endpoint.
func (c *Client) CreateFeature(ctx context.Context, feature model.Feature) error {
	return c.post(ctx, c.features, feature)
}

// CreateStrategy attaches strategy to feature in environment.
func (c *Client) CreateStrategy(ctx context.Context, feature, environment string, strategy model.Strategy) error {
	return c.post(ctx, StrategiesURL(c.features, feature, environment), strategy)
}

// EnableEnvironment switches feature on in environment.
func (c *Client) EnableEnvironment(ctx context.Context, feature, environment string) error {
	return c.post(ctx, EnableURL(c.features, feature, environment), nil)
}

func (c *Client) post(ctx context.Context, u *url.URL, v any) error {
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bytes.TrimSpace(msg)),
		}
	}

	return nil
}

// headerTransport sets a fixed set of headers on every request.
type headerTransport struct {
	header http.Header
	next   http.RoundTripper
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	r = r.Clone(r.Context())
	for k, v := range t.header {
		r.Header[k] = v
	}

	return t.next.RoundTrip(r)
}
