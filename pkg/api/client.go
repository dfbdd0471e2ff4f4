// Package api is the HTTP client for the job-application tracker REST API.
//
// Every request carries the bearer token, a JSON content type and a fresh
// X-Request-ID. Non-2xx responses are decoded from the server's
// {status, message, timestamp} payload and marked with one of the sentinel
// kinds in internal/errors so callers can branch with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/internal/version"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to one API server.
type Client struct {
	base    *url.URL
	http    *http.Client
	token   string
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithRateLimit paces outgoing requests. perSecond <= 0 disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger overrides the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the server at baseURL. The "/api" prefix is
// appended unless baseURL already ends with it.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parse API URL %q", baseURL), errors.ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, errors.Validationf("API URL %q must be an absolute http(s) URL", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/api") {
		u.Path += "/api"
	}

	c := &Client{
		base: u,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  logger.Named("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the resolved API root, including the /api prefix.
func (c *Client) BaseURL() string { return c.base.String() }

// errorBody is the server's error payload.
type errorBody struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
	Timestamp string            `json:"timestamp"`
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Mark(errors.Wrapf(err, "%s %s", method, path), errors.ErrNetwork)
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return errors.Mark(errors.Wrapf(err, "%s %s", method, path), errors.ErrNetwork)
	}
	defer resp.Body.Close()
	c.log.Debugw("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(start))

	if resp.StatusCode >= 300 {
		return decodeError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Mark(errors.Wrapf(err, "decode %s %s", method, path), errors.ErrServer)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorBody
	_ = json.Unmarshal(raw, &payload)

	msg := strings.TrimSpace(payload.Message)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	err := errors.Newf("%s %s: %d %s", method, path, resp.StatusCode, msg)
	for field, problem := range payload.Errors {
		err = errors.WithDetailf(err, "%s: %s", field, problem)
	}
	return errors.Mark(err, kindOf(resp.StatusCode))
}

func kindOf(code int) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusNotFound:
		return errors.ErrNotFound
	default:
		return errors.ErrServer
	}
}

func escape(id string) string { return url.PathEscape(id) }
