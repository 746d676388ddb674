// Package session holds the per-conversation state bag. A session is owned by
// exactly one user's chat and is mutated one update at a time, so it needs no
// locking, only durability across the request/response round-trips of the
// survey.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/payment"
	"fitplan-bot/pkg/redis"
)

// Step names one state of the conversation state machine.
type Step string

// Session is the in-progress survey state for one chat.
type Session struct {
	Step     Step                  `json:"step"`
	Filters  catalog.Selection     `json:"filters"`
	AgeGroup string                `json:"age_group,omitempty"`
	Plan     *catalog.TrainingPlan `json:"plan,omitempty"`
	Payment  *payment.Payment      `json:"payment,omitempty"`
}

// Store keeps sessions in redis, keyed by chat ID, with a TTL so abandoned
// surveys expire on their own.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		redis: client,
		ttl:   ttl,
	}
}

// Get loads the chat's session. A missing key yields a zero session so a new
// conversation starts at the zero step.
func (s *Store) Get(ctx context.Context, chatID int64) (Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(chatID))
	if errors.Is(err, redis.ErrNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// Save persists the chat's session.
func (s *Store) Save(ctx context.Context, chatID int64, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(chatID), data, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear drops the chat's session.
func (s *Store) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, sessionKey(chatID)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
