package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the catalog has no plan with the given ID.
var ErrNotFound = errors.New("catalog: plan not found")

// TrainingPlan is an immutable snapshot of a plan owned by the catalog service.
type TrainingPlan struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	URL        string  `json:"url"`
	ContentURL string  `json:"content_url"`
}

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

// Plans lists the plans matching the fixed kinds of the selection.
func (c *Client) Plans(ctx context.Context, sel Selection) ([]TrainingPlan, error) {
	var plans []TrainingPlan
	err := c.getJSON(ctx, c.baseURL+"/", selectionQuery(sel), &plans)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Plan fetches one plan by ID.
func (c *Client) Plan(ctx context.Context, id string) (TrainingPlan, error) {
	var plan TrainingPlan
	err := c.getJSON(ctx, fmt.Sprintf("%s/%s/", c.baseURL, id), nil, &plan)
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	return plan, nil
}

// ReachableValues returns the subset of kind's domain that still yields at
// least one plan given the other fixed selections. The result follows the
// kind's canonical declaration order, not the catalog response order.
func (c *Client) ReachableValues(ctx context.Context, kind Kind, sel Selection) ([]Value, error) {
	params := selectionQuery(sel)
	params.Set("property", string(kind))

	var raw []Value
	if err := c.getJSON(ctx, c.baseURL+"/existing-property-values/", params, &raw); err != nil {
		return nil, fmt.Errorf("reachable %s values: %w", kind, err)
	}

	reachable := make(map[Value]bool, len(raw))
	for _, v := range raw {
		reachable[v] = true
	}

	var values []Value
	for _, v := range kind.Values() {
		if reachable[v] {
			values = append(values, v)
		}
	}
	return values, nil
}

// Refresh asks the catalog service to reload its plan data.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// getJSON performs an idempotent GET with bounded exponential backoff and
// decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Warn("Catalog request failed",
			zap.String("url", rawURL),
			zap.Error(err))
		return err
	}
	return nil
}

func selectionQuery(sel Selection) url.Values {
	params := url.Values{}
	for _, kind := range Kinds() {
		if value, ok := sel.Get(kind); ok {
			params.Set(string(kind), string(value))
		}
	}
	return params
}
