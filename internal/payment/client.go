package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the payment service has no matching payment.
var ErrNotFound = errors.New("payment: not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Create registers a new payment and returns it with the service-assigned ID.
// The caller must not assume the payment exists when an error is returned.
func (c *Client) Create(ctx context.Context, p Payment) (Payment, error) {
	p.ID = ""
	body, err := json.Marshal(p)
	if err != nil {
		return Payment{}, fmt.Errorf("marshal payment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return Payment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Payment{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Payment{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var created Payment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Payment{}, fmt.Errorf("decode response: %w", err)
	}
	if created.ID == "" {
		return Payment{}, fmt.Errorf("payment service returned no ID")
	}
	return created, nil
}

// UpdateStatus moves the payment to a new status and returns the updated
// record. ErrNotFound means no payment matched the ID.
func (c *Client) UpdateStatus(ctx context.Context, id string, status Status) (Payment, error) {
	body, err := json.Marshal(map[string]Status{"status": status})
	if err != nil {
		return Payment{}, fmt.Errorf("marshal status: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		fmt.Sprintf("%s/%s/", c.baseURL, id),
		bytes.NewReader(body),
	)
	if err != nil {
		return Payment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Payment{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Payment{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return Payment{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var updated Payment
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return Payment{}, fmt.Errorf("decode response: %w", err)
	}
	return updated, nil
}
