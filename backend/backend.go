package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client represents a client to communicate with the generative-language API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewBackendClient creates a new Client for the given API root and model.
// timeout bounds every outbound call.
func NewBackendClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// GenerateContent posts payload to the model's generateContent endpoint,
// authorized by apiKey. The caller owns the returned response body.
func (c *Client) GenerateContent(ctx context.Context, apiKey string, payload GenerateContentRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	query := url.Values{}
	query.Set("key", apiKey)
	path := fmt.Sprintf("/models/%s:generateContent?%s", url.PathEscape(c.model), query.Encode())

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	return c.Forward(ctx, http.MethodPost, path, headers, bytes.NewReader(body))
}

// Forward sends the HTTP request to the backend server and returns the response.
func (c *Client) Forward(ctx context.Context, method, path string, headers http.Header, body io.Reader) (*http.Response, error) {
	// Construct the full URL.
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	// Create a new HTTP request with context.
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Copy headers.
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// Send the request to the backend.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
