package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
)

type Config struct {
	// BaseURL may be absolute or a path such as "/api"; paths are
	// resolved against Origin.
	BaseURL    string
	Origin     string
	Timeout    time.Duration
	Sessions   session.SessionStore
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.SessionStore
	logger     *slog.Logger
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	l := cfg.Logger
	if l == nil {
		l = logging.Discard()
	}
	return &Client{
		baseURL:    resolveBase(cfg.BaseURL, cfg.Origin),
		httpClient: hc,
		sessions:   cfg.Sessions,
		logger:     l.With("component", "apiclient"),
	}
}

func resolveBase(base, origin string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	return strings.TrimRight(origin, "/") + base
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type Options struct {
	RequiresAuth bool
	Method       string
	Header       http.Header
	Query        url.Values
	Body         any
}

type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) JSON() bool {
	return strings.Contains(strings.ToLower(r.Header.Get(echo.HeaderContentType)), echo.MIMEApplicationJSON)
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Decode parses a JSON response into v.
func (r *Response) Decode(v any) error {
	if !r.JSON() {
		return fmt.Errorf("content type %q: %w", r.Header.Get(echo.HeaderContentType), ErrUnexpectedBody)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (r *Response) statusError(fallback bool) *StatusError {
	return &StatusError{
		Code:     r.StatusCode,
		Status:   r.Status,
		Body:     strings.TrimSpace(string(r.Body)),
		Fallback: fallback,
	}
}

// shouldFallback reports whether an unauthenticated JSON POST rejected with
// 400 or 415 gets one form-encoded retry.
func shouldFallback(method string, requiresAuth, jsonBody bool, status int) bool {
	return method == http.MethodPost && !requiresAuth && jsonBody &&
		(status == http.StatusBadRequest || status == http.StatusUnsupportedMediaType)
}

func (c *Client) Do(ctx context.Context, path string, opts Options) (*Response, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	target := c.url(path, opts.Query)

	header := http.Header{}
	for k, v := range opts.Header {
		header[k] = append([]string(nil), v...)
	}

	body, err := encodeBody(opts.Body, header.Get(echo.HeaderContentType))
	if err != nil {
		return nil, err
	}
	if body.contentType != "" {
		header.Set(echo.HeaderContentType, body.contentType)
	}
	if opts.RequiresAuth && c.sessions != nil {
		if tok := session.Token(ctx, c.sessions); tok != "" {
			header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		}
	}

	res, err := c.send(ctx, method, target, header, body.payload)
	if err != nil {
		return nil, err
	}
	if res.OK() {
		return res, nil
	}

	if shouldFallback(method, opts.RequiresAuth, body.json, res.StatusCode) {
		form, ferr := formValues(opts.Body)
		if ferr == nil {
			c.logger.Warn("form_fallback", "url", target, "status", res.StatusCode)
			header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			retry, err := c.send(ctx, method, target, header, []byte(form.Encode()))
			if err != nil {
				return nil, err
			}
			if !retry.OK() {
				return nil, retry.statusError(true)
			}
			return retry, nil
		}
		c.logger.Warn("form_fallback_skipped", "url", target, "error", ferr)
	}

	return nil, res.statusError(false)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + query.Encode()
}

func (c *Client) send(ctx context.Context, method, target string, header http.Header, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = header.Clone()
	rid := uuid.NewString()
	req.Header.Set(echo.HeaderXRequestID, rid)

	l := logging.FromContextOr(ctx, c.logger).With("method", method, "url", target, "request_id", rid)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error("request_failed", "error", err)
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		l.Error("read_body_failed", "status", resp.StatusCode, "error", err)
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}

	l.Debug("request_completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		s = http.StatusText(resp.StatusCode)
	}
	return s
}
