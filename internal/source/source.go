// Package source fetches the pricing dataset from the upstream pricing endpoint.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
)

// RequestTimeout bounds a single pricing request end to end.
const RequestTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// ErrNoEndpoint is reported when no pricing endpoint is configured.
var ErrNoEndpoint = errors.New("pricing endpoint not configured")

// pricingResponse is the wire shape of the pricing endpoint.
type pricingResponse struct {
	Success bool                `json:"success"`
	Data    schema.PriceDataset `json:"data"`
	Error   string              `json:"error"`
}

// Client talks to the pricing endpoint. It satisfies contract.PriceSource.
type Client struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a pricing client with a fixed request timeout.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: RequestTimeout},
	}
}

// Fetch issues exactly one POST with an empty JSON body and reports the outcome.
// Any failure yields an empty dataset together with the reason.
func (c *Client) Fetch(ctx context.Context) schema.FetchResult {
	data, err := c.fetch(ctx)
	if err != nil {
		contract.Logger.Warn().Err(err).Str("endpoint", c.Endpoint).Msg("Pricing fetch degraded to empty dataset")
		return schema.FetchResult{Data: schema.PriceDataset{}, Err: err}
	}
	series, points := data.Counts()
	contract.Logger.Debug().Int("series", series).Int("points", points).Msg("Pricing fetch succeeded")
	return schema.FetchResult{Data: data}
}

// FetchPriceDataset returns the dataset, or an empty one on any failure.
// It never reports an error to the caller.
func (c *Client) FetchPriceDataset(ctx context.Context) schema.PriceDataset {
	return c.Fetch(ctx).Data
}

func (c *Client) fetch(ctx context.Context) (schema.PriceDataset, error) {
	if c.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("build pricing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pricing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read pricing body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("pricing endpoint returned status %d", resp.StatusCode)
	}

	var payload pricingResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode pricing body: %w", err)
	}
	if !payload.Success {
		if payload.Error != "" {
			return nil, fmt.Errorf("pricing endpoint reported failure: %s", payload.Error)
		}
		return nil, errors.New("pricing endpoint reported failure")
	}
	if payload.Data == nil {
		payload.Data = schema.PriceDataset{}
	}
	return payload.Data, nil
}
