// Package review persists the correlation between a payment and the reviewer
// messages created for it. Entries outlive the process: a reviewer may act on
// a payment long after it was dispatched.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitplan-bot/pkg/redis"
)

// ErrNotFound is returned when no correlation entry exists for a payment.
// After a decision is relayed the entry is gone, so a replayed decision
// surfaces as ErrNotFound and must be treated as already processed.
var ErrNotFound = errors.New("review: correlation entry not found")

// ChannelMessage identifies one reviewer notification message.
type ChannelMessage struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

type Store struct {
	redis *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Save records the reviewer messages created for a payment. Entries never
// expire; they are consumed by Take.
func (s *Store) Save(ctx context.Context, paymentID string, messages []ChannelMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := s.redis.Set(ctx, reviewKey(paymentID), data, 0); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// Take returns and removes the entry for a payment as one atomic step, so a
// double-tapped decision is processed at most once.
func (s *Store) Take(ctx context.Context, paymentID string) ([]ChannelMessage, error) {
	data, err := s.redis.GetDel(ctx, reviewKey(paymentID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take entry: %w", err)
	}

	var messages []ChannelMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return messages, nil
}

func reviewKey(paymentID string) string {
	return fmt.Sprintf("review:%s", paymentID)
}
