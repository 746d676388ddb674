package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/config"
	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/session"
)

// Conversation steps in fixed forward order. Back-navigation always returns
// to the immediately preceding step; the only permitted skips are the
// single-reachable-frequency auto-advance and the early exit on a negative
// health answer.
const (
	StepMainMenu          session.Step = "main_menu"
	StepSurveyStart       session.Step = "survey_start"
	StepSex               session.Step = "sex"
	StepAgeGroup          session.Step = "age_group"
	StepHealthCondition   session.Step = "health_condition"
	StepGoal              session.Step = "goal"
	StepEnvironment       session.Step = "environment"
	StepLevel             session.Step = "level"
	StepFrequency         session.Step = "frequency"
	StepPaymentScreenshot session.Step = "payment_screenshot"
)

type Bot struct {
	api      Sender
	logger   *zap.Logger
	sessions SessionStore
	reviews  ReviewStore
	catalog  CatalogService
	users    UserService
	payments PaymentService
	loc      *i18n.Localizer
	cfg      *config.Config

	handlers map[session.Step]HandlerFunc
	pipeline []Middleware
}

func New(
	api Sender,
	sessions SessionStore,
	reviews ReviewStore,
	catalogSvc CatalogService,
	users UserService,
	payments PaymentService,
	loc *i18n.Localizer,
	cfg *config.Config,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		api:      api,
		logger:   logger,
		sessions: sessions,
		reviews:  reviews,
		catalog:  catalogSvc,
		users:    users,
		payments: payments,
		loc:      loc,
		cfg:      cfg,
	}

	b.registerHandlers()
	b.pipeline = []Middleware{
		b.withRecovery,
		b.withUpdateLog,
		b.withLocale,
		b.withTyping,
	}
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[session.Step]HandlerFunc{
		StepMainMenu:          b.handleMenuButton,
		StepSurveyStart:       b.handleSurveyStart,
		StepSex:               b.saveFilterStep(filterSex),
		StepAgeGroup:          b.saveAgeGroup,
		StepHealthCondition:   b.saveHealthCondition,
		StepGoal:              b.saveFilterStep(filterGoal),
		StepEnvironment:       b.saveFilterStep(filterEnvironment),
		StepLevel:             b.saveFilterStep(filterLevel),
		StepFrequency:         b.saveFilterStep(filterFrequency),
		StepPaymentScreenshot: b.savePaymentScreenshot,
	}
}

// HandleUpdate processes one inbound Telegram update. Every failure is
// logged and converted into a user-facing notice or a silent skip; nothing
// propagates to the webhook handler.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)

	case update.Message != nil:
		req := &Request{
			Message: update.Message,
			ChatID:  update.Message.Chat.ID,
			From:    update.Message.From,
		}

		handler := chain(b.routeMessage, b.pipeline...)
		if err := handler(ctx, req); err != nil {
			b.logger.Error("Failed to handle message",
				zap.Int64("chat_id", req.ChatID),
				zap.Error(err))
		}
	}
}

func (b *Bot) routeMessage(ctx context.Context, req *Request) error {
	if req.Message.IsCommand() {
		return b.handleCommand(ctx, req)
	}

	sess, err := b.sessions.Get(ctx, req.ChatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}
	req.Session = sess

	step := req.Session.Step
	if step == "" {
		step = StepMainMenu
	}

	handler, ok := b.handlers[step]
	if !ok {
		b.logger.Warn("Unknown conversation step",
			zap.Int64("chat_id", req.ChatID),
			zap.String("step", string(step)))
		return b.sendMainMenu(ctx, req)
	}
	return handler(ctx, req)
}

func (b *Bot) handleCommand(ctx context.Context, req *Request) error {
	switch req.Message.Command() {
	case "start":
		return b.sendMainMenu(ctx, req)
	case "refresh":
		return b.handleRefresh(ctx, req)
	default:
		b.reply(req, req.T("invalid_input_text"))
		return nil
	}
}

// saveSession persists the request's session under its chat.
func (b *Bot) saveSession(ctx context.Context, req *Request) error {
	return b.sessions.Save(ctx, req.ChatID, req.Session)
}

// send delivers a message, logging delivery failures instead of failing the
// update.
func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

// reply sends plain text to the request's chat.
func (b *Bot) reply(req *Request, text string) {
	b.send(tgbotapi.NewMessage(req.ChatID, text))
}
