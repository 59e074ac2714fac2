package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flowci-console/internal/application/dispatch"
	"flowci-console/internal/application/request"
	"flowci-console/pkg/log"
)

// Client performs descriptor calls against the flow.ci HTTP API.
// It implements dispatch.Transport.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sends token as a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds a single call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new HTTP client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Perform sends call and returns the reply whatever its status; only a failure
// to obtain a reply is an error.
func (c *Client) Perform(ctx context.Context, call request.Call) (dispatch.Response, error) {
	body, contentType, err := encodeBody(call.Body)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to encode request body: %w", err)
	}

	url := c.url(call)
	log.Debug("Sending request", "method", call.Method, "url", url)

	req, err := http.NewRequestWithContext(ctx, string(call.Method), url, body)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug("Response status", "status_code", resp.StatusCode)
	log.Debug("Response body", "body", string(data))

	return dispatch.Response{Status: resp.StatusCode, Data: data}, nil
}

func (c *Client) url(call request.Call) string {
	u := c.baseURL + call.Path
	if len(call.Query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(call.Path, "?") {
		sep = "&"
	}
	return u + sep + call.Query.Encode()
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "text/plain; charset=utf-8", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
