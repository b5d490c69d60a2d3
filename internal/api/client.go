// Package api is a typed client for the job-board REST backend.
//
// Every list endpoint answers {success, data} and every mutation answers
// {success, message}. Sessions are cookie based: the CLI keeps cookies in a
// jar, while the page server forwards the browser's cookies per request via
// WithCookies.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 15 * time.Second

// RequestIDHeader carries a per-call correlation id to the backend.
const RequestIDHeader = "X-Request-ID"

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Jar        http.CookieJar // nil creates an empty jar
	HTTPClient *http.Client   // optional transport override, mainly for tests
}

// Client talks to the backend.
type Client struct {
	rc   *resty.Client
	base *url.URL
	jar  http.CookieJar
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	jar := cfg.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimSuffix(base.String(), "/")).
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json")

	return &Client{rc: rc, base: base, jar: jar}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Cookies returns the cookies the jar holds for the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// SetCookies stores cookies for the backend in the jar.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.base, cookies)
}

// DiscardJar is a cookie jar that stores nothing. A Client shared between
// browser sessions uses it so that one session's cookies never leak into
// another's requests; cookies then travel only via WithCookies.
type DiscardJar struct{}

func (DiscardJar) SetCookies(*url.URL, []*http.Cookie) {}

func (DiscardJar) Cookies(*url.URL) []*http.Cookie { return nil }

type cookiesKey struct{}

// WithCookies returns a context whose backend calls carry cookies, in
// addition to anything in the jar.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.rc.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if cookies := cookiesFrom(ctx); len(cookies) > 0 {
		r.SetCookies(cookies)
	}
	return r
}

// do executes r and turns transport failures, non-2xx statuses and
// success:false envelopes into *Error.
func (c *Client) do(op string, r *resty.Request, method, path string) (*resty.Response, error) {
	start := time.Now()
	resp, err := r.Execute(method, path)
	if err != nil {
		if ctxErr := r.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("backend request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("err", err))
		return nil, &Error{Op: op, Kind: ErrTransport, Cause: err}
	}

	logger.Debug("backend request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode()),
		slog.String("request_id", r.Header.Get(RequestIDHeader)),
		slog.Duration("elapsed", time.Since(start)))

	body := resp.Body()
	message := envelopeMessage(body)

	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return resp, &Error{
			Op:      op,
			Status:  resp.StatusCode(),
			Message: message,
			Kind:    kindForStatus(resp.StatusCode()),
		}
	}

	if success := gjson.GetBytes(body, "success"); success.Exists() && !success.Bool() {
		return resp, &Error{
			Op:      op,
			Status:  resp.StatusCode(),
			Message: message,
			Kind:    ErrBackend,
		}
	}

	return resp, nil
}

func envelopeMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error", "msg"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(op string, resp *resty.Response, out any) error {
	return decodeField(op, resp, "data", out)
}

func decodeField(op string, resp *resty.Response, path string, out any) error {
	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return &Error{Op: op, Status: resp.StatusCode(), Kind: ErrDecode}
	}
	field := gjson.GetBytes(body, path)
	if !field.Exists() || field.Type == gjson.Null {
		return nil
	}
	if err := json.Unmarshal([]byte(field.Raw), out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode(), Kind: ErrDecode, Cause: err}
	}
	return nil
}

// get fetches path and decodes its data field into out.
func (c *Client) get(ctx context.Context, op, path string, out any, params url.Values) error {
	r := c.request(ctx)
	if len(params) > 0 {
		r.SetQueryParamsFromValues(params)
	}
	resp, err := c.do(op, r, http.MethodGet, path)
	if err != nil {
		return err
	}
	return decodeData(op, resp, out)
}

// mutate sends body with method and returns the envelope message.
func (c *Client) mutate(ctx context.Context, op, method, path string, body any) (string, error) {
	r := c.request(ctx)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := c.do(op, r, method, path)
	if err != nil {
		return "", err
	}
	return envelopeMessage(resp.Body()), nil
}

// IsAuthError reports whether err means the session is missing or rejected.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
