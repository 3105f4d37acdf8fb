// Package transport provides the HTTP client the network providers share,
// with a request timeout and optional bearer authentication.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
)

// Client wraps http.Client with the headers upstream systems expect.
type Client struct {
	http   *http.Client
	apiKey string
}

// New creates a transport client. apiKey may be empty for public endpoints.
func New(apiKey string) *Client {
	return &Client{
		http:   &http.Client{Timeout: constants.DefaultHTTPTimeout},
		apiKey: apiKey,
	}
}

// Get performs a GET request and returns the response body reader. The
// caller owns closing it.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json, text/html")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &errors.APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    http.StatusText(resp.StatusCode),
		}
	}
	return resp.Body, nil
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.WrapParse("json", url, err)
	}
	return nil
}
