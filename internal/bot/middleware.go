package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/session"
	"fitplan-bot/internal/user"
)

// Request carries one inbound message through the middleware pipeline and
// into a step handler.
type Request struct {
	Message *tgbotapi.Message
	ChatID  int64
	From    *tgbotapi.User

	Locale  string
	T       i18n.Translator
	User    *user.User
	Session session.Session
}

type HandlerFunc func(ctx context.Context, req *Request) error

type Middleware func(HandlerFunc) HandlerFunc

// chain wraps a handler so the first middleware is outermost.
func chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withRecovery converts a panic in a handler into a logged error so no
// failure escapes the update-handling task.
func (b *Bot) withRecovery(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return next(ctx, req)
	}
}

func (b *Bot) withUpdateLog(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		b.logger.Debug("Processing message",
			zap.Int64("chat_id", req.ChatID),
			zap.String("text", req.Message.Text))
		return next(ctx, req)
	}
}

// withLocale resolves the sender's locale and injects the translator.
func (b *Bot) withLocale(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		req.Locale = i18n.DefaultLocale
		if req.From != nil {
			req.Locale = b.loc.UserLocale(ctx, req.From.ID)
		}
		req.T = b.loc.Translate(req.Locale)
		return next(ctx, req)
	}
}

// withTyping shows the typing indicator while the step runs.
func (b *Bot) withTyping(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		action := tgbotapi.NewChatAction(req.ChatID, tgbotapi.ChatTyping)
		if _, err := b.api.Request(action); err != nil {
			b.logger.Debug("Failed to send typing action",
				zap.Int64("chat_id", req.ChatID),
				zap.Error(err))
		}
		return next(ctx, req)
	}
}

// authenticate registers the sender with the user service and attaches the
// record to the request. Steps that create payments need the record; other
// steps do not call this.
func (b *Bot) authenticate(ctx context.Context, req *Request) error {
	if req.User != nil || req.From == nil {
		return nil
	}

	record, err := b.users.CreateOrGet(ctx, user.User{
		TelegramID: req.From.ID,
		FirstName:  req.From.FirstName,
		LastName:   req.From.LastName,
		Username:   req.From.UserName,
	})
	if err != nil {
		return fmt.Errorf("authenticate user: %w", err)
	}

	req.User = &record
	return nil
}

// requireAdmin guards admin-only handlers.
func (b *Bot) requireAdmin(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		if req.From == nil || !b.isAdmin(req.From.ID) {
			b.logger.Warn("Admin command from non-admin",
				zap.Int64("chat_id", req.ChatID))
			return nil
		}
		return next(ctx, req)
	}
}

func (b *Bot) isAdmin(id int64) bool {
	for _, adminID := range b.cfg.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}
