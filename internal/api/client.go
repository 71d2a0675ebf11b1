// Package api is the shared HTTP transport used by every service facade.
//
// A Client is always constructed explicitly and handed to the facades that
// need it. It owns the base URL, the bearer token, and the request timeout,
// and it turns non-2xx responses into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/grantdesk/internal/logging"
)

// DefaultTimeout bounds a single backend call when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the caller's trace ID to the backend.
const RequestIDHeader = "X-Request-ID"

// Options configure a Client.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
	Logger    zerolog.Logger

	// HTTPClient overrides the underlying transport (tests, proxies).
	HTTPClient *http.Client
}

// Client issues JSON calls against the grant backend.
type Client struct {
	rc      *resty.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a Client. BaseURL is required.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base URL cannot be empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base URL %q: %w", base, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}

	logger := logging.ComponentLogger(opts.Logger, "api")

	rc.SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})
	if opts.Token != "" {
		rc.SetAuthToken(opts.Token)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{rc: rc, baseURL: base, logger: logger}, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// GetOne issues a GET for a single entity. An empty or null body is
// reported as ErrEmptyBody instead of leaving out at its zero value.
func (c *Client) GetOne(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out, true)
}

// PostOne is Post for calls that must return the created entity.
func (c *Client) PostOne(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one call. out may be nil when the body is not needed. An empty
// body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, requireBody bool) error {
	if path == "" {
		return ErrEmptyPath
	}

	req := c.rc.R().SetContext(ctx)
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		req.SetHeader(RequestIDHeader, traceID)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("component", "api").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("backend call completed")

	if resp.IsError() || resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return newError(method, path, resp.StatusCode(), resp.Body())
	}

	if out == nil {
		return nil
	}
	raw := bytes.TrimSpace(resp.Body())
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if requireBody {
			return fmt.Errorf("%s %s: %w", method, path, ErrEmptyBody)
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// Path joins escaped path segments onto a resource root, e.g. Path("requests", id).
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// restyLogger routes resty's internal warnings through zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
