package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const userAgent = "sharepoint-go/0.1"

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer
// (graph package) per Go convention "accept interfaces, return structs".
// See ClientCredentials for the app-only implementation.
type TokenSource interface {
	Token() (string, error)
}

// Client is an HTTP client for the Microsoft Graph API.
// It handles request construction, authentication, and error
// classification. Requests are never retried: a failure surfaces to the
// caller on first occurrence.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
}

// NewClient creates a Graph API client.
// baseURL is typically graph.BaseURL.
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
	}
}

// Do executes a single HTTP request against the Graph API.
// The path is appended to the client's base URL.
// For non-nil bodies, Content-Type is set to application/json.
// The caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, "application/json", body)
	if err != nil {
		return nil, err
	}

	// 2xx — success.
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	return nil, c.errorFromResponse(method, path, resp)
}

// doRaw executes a request whose body is not JSON (content uploads).
// The given Content-Type is set even for nil bodies.
func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	c.logger.Debug("preparing raw request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("content_type", contentType),
	)

	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	return nil, c.errorFromResponse(method, path, resp)
}

// send builds and executes one authenticated request. contentType is
// applied only when body is non-nil for JSON calls; doRaw passes its own.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("graph: creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("graph: obtaining token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", userAgent)
	// Correlates client and service logs; echoed back by Graph support.
	req.Header.Set("client-request-id", uuid.NewString())

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("graph: request canceled: %w", ctx.Err())
		}

		return nil, fmt.Errorf("graph: %s %s: %w", method, path, err)
	}

	return resp, nil
}

// errorFromResponse reads and closes the body of a non-2xx response and
// converts it into an *APIError carrying the classified sentinel.
func (c *Client) errorFromResponse(method, path string, resp *http.Response) error {
	errBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if readErr != nil {
		errBody = []byte("(failed to read response body)")
	}

	reqID := resp.Header.Get("request-id")

	c.logger.Debug("request failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", reqID),
	)

	return &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  reqID,
		Message:    string(errBody),
		Err:        classifyStatus(resp.StatusCode),
	}
}

// drainBody discards and closes a response body so the underlying
// connection can be reused.
func drainBody(resp *http.Response) error {
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("graph: draining response body: %w", err)
	}

	return nil
}
