package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
	"fitplan-bot/internal/session"
	"fitplan-bot/internal/user"
)

// Sender is the outbound half of the Telegram transport.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)

type SessionStore interface {
	Get(ctx context.Context, chatID int64) (session.Session, error)
	Save(ctx context.Context, chatID int64, sess session.Session) error
	Clear(ctx context.Context, chatID int64) error
}

var _ SessionStore = (*session.Store)(nil)

type ReviewStore interface {
	Save(ctx context.Context, paymentID string, messages []review.ChannelMessage) error
	Take(ctx context.Context, paymentID string) ([]review.ChannelMessage, error)
}

var _ ReviewStore = (*review.Store)(nil)

type CatalogService interface {
	Plans(ctx context.Context, sel catalog.Selection) ([]catalog.TrainingPlan, error)
	Plan(ctx context.Context, id string) (catalog.TrainingPlan, error)
	ReachableValues(ctx context.Context, kind catalog.Kind, sel catalog.Selection) ([]catalog.Value, error)
	Refresh(ctx context.Context) error
}

var _ CatalogService = (*catalog.Client)(nil)

type UserService interface {
	CreateOrGet(ctx context.Context, u user.User) (user.User, error)
}

var _ UserService = (*user.Client)(nil)

type PaymentService interface {
	Create(ctx context.Context, p payment.Payment) (payment.Payment, error)
	UpdateStatus(ctx context.Context, id string, status payment.Status) (payment.Payment, error)
}

var _ PaymentService = (*payment.Client)(nil)
