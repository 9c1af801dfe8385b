package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/amaumene/testenv/pkg/config"
	"github.com/amaumene/testenv/pkg/handlers"
	"github.com/amaumene/testenv/pkg/models"
)

const defaultTimeout = 30 * time.Second

var ErrBaseURLNotSet = errors.New("testenv base URL not set")

type Config struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Client talks to a running `testenv serve`.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("testenv API %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("testenv API %d: %s", e.StatusCode, e.Message)
}

// RunsQuery filters GET /api/runs. Device takes a DEVICE value such as
// "ios71_ipad".
type RunsQuery struct {
	Device   string `url:"device,omitempty"`
	Platform string `url:"platform,omitempty"`
	Limit    int    `url:"limit,omitempty"`
}

type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Device    string `json:"device"`
}

func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLNotSet
	}

	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, query string) (*http.Response, error) {
	target := c.baseURL + endpoint
	if query != "" {
		target += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// getJSON decodes the response body into result. When wrapped is set the
// body is a success envelope and only its data member is decoded.
func (c *Client) getJSON(ctx context.Context, endpoint, query string, wrapped bool, result interface{}) error {
	resp, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if !wrapped {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload handlers.ResponseError
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Details = payload.Message
	}
	return apiErr
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, "/health", "", true, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Config returns the server's resolved configuration. Credentials arrive
// redacted.
func (c *Client) Config(ctx context.Context) (*config.Config, error) {
	var cfg config.Config
	if err := c.getJSON(ctx, "/api/config", "", true, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) Capabilities(ctx context.Context) (*models.Capabilities, error) {
	var caps models.Capabilities
	if err := c.getJSON(ctx, "/api/capabilities", "", false, &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}

func (c *Client) Endpoints(ctx context.Context) (*handlers.EndpointsResponse, error) {
	var endpoints handlers.EndpointsResponse
	if err := c.getJSON(ctx, "/api/endpoints", "", true, &endpoints); err != nil {
		return nil, err
	}
	return &endpoints, nil
}

func (c *Client) Runs(ctx context.Context, q RunsQuery) ([]*models.RunRecord, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	var result struct {
		Count int                 `json:"count"`
		Runs  []*models.RunRecord `json:"runs"`
	}
	if err := c.getJSON(ctx, "/api/runs", values.Encode(), true, &result); err != nil {
		return nil, err
	}
	return result.Runs, nil
}
