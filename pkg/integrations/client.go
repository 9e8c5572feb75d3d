package integrations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/httputil"
)

// Client provides shared HTTP functionality for feed API clients.
// It applies default headers and maps transport, status, and decoding
// failures onto the relfetch error codes.
type Client struct {
	http    *http.Client
	headers map[string]string
	logger  *log.Logger
}

// NewClient creates a Client that sends requests through httpClient.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed; a nil httpClient
// uses [NewHTTPClient] and a nil logger uses log.Default().
func NewClient(httpClient *http.Client, headers map[string]string, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:    httpClient,
		headers: headers,
		logger:  logger,
	}
}

// SetHeader adds a default header. Call it before the client is shared.
func (c *Client) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[key] = value
}

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger { return c.logger }

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeMalformed, err, "decode %s", url)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)
	}
	c.logger.Debug("feed request", "url", url, "status", resp.StatusCode, "cached", httputil.FromCache(resp))

	if code := checkStatus(resp.StatusCode); code != "" {
		resp.Body.Close()
		return nil, errors.New(code, "GET %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// checkStatus maps a response status to an error code, or "" for success.
func checkStatus(status int) errors.Code {
	switch {
	case status == http.StatusOK:
		return ""
	case status == http.StatusNotFound:
		return errors.ErrCodeNotFound
	default:
		return errors.ErrCodeNetwork
	}
}
