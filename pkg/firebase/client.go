// Package firebase is a client for the Firebase Realtime Database REST API.
//
// A Client is bound to one database location (host + path) and issues one-shot
// read/write requests against it. Streaming change notifications for the same
// location are handled by the stream subpackage; Client.Listen wires the two
// together.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rediaas/firewatch/pkg/firebase/stream"
)

// DefaultVerb is the write verb used when the caller does not specify one.
const DefaultVerb = http.MethodPatch

// defaultTimeout bounds one-shot REST calls. Streaming requests are exempt;
// the stream session manages its own lifetime.
const defaultTimeout = 30 * time.Second

// Client issues requests against one Realtime Database location.
type Client struct {
	locator      Locator
	functionHost string
	httpClient   *http.Client
	logger       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for one-shot requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithFunctionHost sets the host that accepts function calls.
func WithFunctionHost(host string) Option {
	return func(c *Client) {
		c.functionHost = host
	}
}

// WithLogger sets the client logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the database at host, scoped to dbPath.
// Host looks like "https://[PROJECT_ID].firebaseio.com" and may be empty when
// operating on the whole database; ".json" is appended to request paths as
// needed at render time.
func New(host, dbPath string, opts ...Option) *Client {
	c := &Client{
		locator: NewLocator(host, dbPath),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return c
}

// SetHost rebinds the client to a new host and database path. Any stream
// sessions opened earlier keep their original target; call Listen again to
// stream from the new location.
func (c *Client) SetHost(host, dbPath string) {
	c.locator = NewLocator(host, dbPath)
}

// Path returns the request URL that would be used for the given query string.
// Informational only, useful for debugging.
func (c *Client) Path(query string) string {
	return c.locator.Render(query)
}

// GetValue reads the value at the client's location. Query choices include
// access_token, shallow, print, format and download.
func (c *Client) GetValue(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.locator.Render(query), nil)
	if err != nil {
		return nil, fmt.Errorf("building read request: %w", err)
	}

	return c.do(req)
}

// SetValue writes doc to the client's location using the given verb
// (PUT, POST, PATCH or DELETE; DefaultVerb when empty). The document is sent
// as compact JSON. The response body is returned so callers can inspect the
// value the database reports back.
func (c *Client) SetValue(ctx context.Context, doc any, verb, query string) ([]byte, error) {
	if verb == "" {
		verb = DefaultVerb
	}

	var body io.Reader
	if verb != http.MethodDelete {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding document: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(verb), c.locator.Render(query), body)
	if err != nil {
		return nil, fmt.Errorf("building write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// CallFunction invokes the named function on the configured function host and
// returns the raw response body.
func (c *Client) CallFunction(ctx context.Context, name string) ([]byte, error) {
	if c.functionHost == "" {
		return nil, ErrNoFunctionHost
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.functionHost+name, nil)
	if err != nil {
		return nil, fmt.Errorf("building function request: %w", err)
	}

	return c.do(req)
}

// Listen opens a streaming session against the client's location and begins
// delivering decoded change events to sink. The returned session is already
// open; the caller owns its lifecycle from here (Close, reopen on Closed).
func (c *Client) Listen(ctx context.Context, query string, sink stream.Sink, opts ...stream.Option) (*stream.Session, error) {
	opts = append([]stream.Option{stream.WithLogger(c.logger)}, opts...)

	session := stream.NewSession(sink, opts...)
	if err := session.Open(ctx, c.locator.Render(query)); err != nil {
		return nil, err
	}

	return session, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	c.logger.Debug("firebase request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
