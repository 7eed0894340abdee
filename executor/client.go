// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-cart/models"
)

// CartPath is the cart service endpoint, relative to its base URL.
const CartPath = "/api/cart"

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses from the cart service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cart service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("cart service returned %d: %s", e.StatusCode, e.Body)
}

// CartClient talks to the cart service on behalf of a signed-in user.
type CartClient struct {
	baseURL string
	http    *http.Client
}

// NewCartClient creates a client for the service at baseURL.
// A nil httpClient uses http.DefaultClient.
func NewCartClient(baseURL string, httpClient *http.Client) *CartClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CartClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// AddItem handles POST /api/cart
func (c *CartClient) AddItem(ctx context.Context, token string, item models.AddToCartRequest) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CartPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GetCart handles GET /api/cart and returns the raw JSON document
func (c *CartClient) GetCart(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CartPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart response: %w", err)
	}
	return data, nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}
