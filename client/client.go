package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/BryceLarsen/Requestwave-sub001/client/internal/api"
	clienterrors "github.com/BryceLarsen/Requestwave-sub001/client/internal/errors"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Identity is the musician the current token belongs to.
type Identity struct {
	MusicianID string
	Slug       string
}

// Client talks to a Requestwave API deployment. After a successful Login
// every request carries "Authorization: Bearer <token>"; before that no
// Authorization header is sent. A Client is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	retries   int

	mu       sync.RWMutex
	token    string
	identity Identity

	closedOnce uint32
}

// New constructs a Client for baseURL (e.g. "https://app.example.com").
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "requestqa/1",
	}

	// Auto-enable debug via env variable without changing code.
	if DebugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransportWithBearer()
	return c, nil
}

// BaseURL returns the API root the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

// HTTPClient exposes the underlying http.Client, e.g. for fetching static
// pages that are not part of the JSON API.
func (c *Client) HTTPClient() *http.Client { return c.http }

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the token and identity; later requests go out anonymous.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.identity = Identity{}
	c.mu.Unlock()
}

// Token returns the current bearer token, or "" when not logged in.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Identity returns the musician learned at Login.
func (c *Client) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Anonymous returns a client for the same deployment and transport that
// never carries a token, regardless of later logins on c.
func (c *Client) Anonymous() *Client {
	hc := *c.http
	if bt, ok := hc.Transport.(*bearerTransport); ok {
		hc.Transport = bt.base
	}
	out := &Client{
		baseURL:   c.baseURL,
		http:      &hc,
		userAgent: c.userAgent,
		retries:   c.retries,
	}
	out.wrapTransportWithBearer()
	return out
}

func (c *Client) setSession(token string, id Identity) {
	c.mu.Lock()
	c.token = token
	c.identity = id
	c.mu.Unlock()
}

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Raw requests
// --------------------------------------------------------------------

// Do sends req and returns the raw response whatever its status. Callers
// own the response body. Transport failures come back as recoverable
// classified errors.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	attempts := 1
	if c.retries > 0 && replayable(req) {
		attempts += c.retries
	}

	var exp *backoff.ExponentialBackOff
	for attempt := 1; ; attempt++ {
		resp, err := c.send(ctx, req)
		if attempt >= attempts || !shouldRetry(resp, err) {
			return resp, err
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		if exp == nil {
			exp = backoff.NewExponentialBackOff()
			exp.InitialInterval = 200 * time.Millisecond
			exp.MaxInterval = 2 * time.Second
			exp.Reset()
		}
		wait := exp.NextBackOff()
		log.Debug().Str("method", req.Method).Str("path", req.Path).Int("attempt", attempt).Dur("wait", wait).Msg("retrying request")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := api.NewHTTPRequest(ctx, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	observeRequest(httpReq.Method, resp, time.Since(start))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, clienterrors.NewNetworkError(httpReq.Method+" "+req.Path, err)
	}
	return resp, nil
}

// replayable reports whether req may be sent again: idempotent methods whose
// body can be rebuilt.
func replayable(req Request) bool {
	if req.File != nil {
		return false
	}
	switch strings.ToUpper(req.Method) {
	case "", http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return clienterrors.IsRecoverable(err)
	}
	return clienterrors.RecoverableStatus(resp.StatusCode)
}

// Get sends a GET to path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path})
}

// PostJSON sends body JSON-encoded as a POST.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body})
}

// PutJSON sends body JSON-encoded as a PUT.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, JSON: body})
}

// Delete sends a DELETE to path.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Upload POSTs file as multipart/form-data. The only Content-Type sent is
// the multipart one carrying the boundary.
func (c *Client) Upload(ctx context.Context, path string, file File) (*http.Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, File: &file})
}

// DecodeJSON decodes resp's body into v and closes it.
func DecodeJSON(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ReadBody reads resp's body in full and closes it.
func ReadBody(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}
