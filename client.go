package bigquery

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
)

// HTTPClient is the interface for the HTTP transport collaborator.
type HTTPClient interface {
	// Get sends a GET request to the BigQuery server with the given bearer token.
	Get(ctx context.Context, u *url.URL, token string) (*http.Response, error)
	// Post sends a POST request to the BigQuery server with the given bearer
	// token and JSON body.
	Post(ctx context.Context, u *url.URL, token string, body []byte) (*http.Response, error)
}

type httpClient struct {
	client *http.Client
}

// NewHTTPClient creates a new internal HTTP client.
func NewHTTPClient() HTTPClient {
	return &httpClient{
		client: http.DefaultClient,
	}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) Get(ctx context.Context, u *url.URL, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.client.Do(req)
}

func (c *httpClient) Post(ctx context.Context, u *url.URL, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Client is the major entrance to interact with the BigQuery service.
type Client struct {
	config *Config
	http   HTTPClient
}

// NewClient creates a new client with the given configuration.
func NewClient(config *Config) *Client {
	cfg := config.withDefaults()
	transport := cfg.HTTPClient
	if transport == nil {
		transport = NewHTTPClient()
	}
	return &Client{
		config: cfg,
		http:   transport,
	}
}

// bearer obtains a fresh bearer token from the configured token source. It is
// called before every request, including each result page fetch.
func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.config.TokenSource == nil {
		return "", errors.New("bigquery: Config.TokenSource is not set")
	}
	return c.config.TokenSource.Token(ctx)
}
