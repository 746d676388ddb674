package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// User mirrors the user service's record for a Telegram account.
type User struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
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

// CreateOrGet registers the Telegram account with the user service, or fetches
// the existing record when the account is already known.
func (c *Client) CreateOrGet(ctx context.Context, u User) (User, error) {
	body, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("marshal user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return User{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var record User
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return User{}, fmt.Errorf("decode response: %w", err)
	}
	return record, nil
}
