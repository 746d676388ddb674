package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
)

// handleCallback acknowledges every callback action and routes reviewer
// decisions to the relay. Malformed or unknown actions are ignored after the
// acknowledgment.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Debug("Failed to answer callback",
			zap.String("callback_id", query.ID),
			zap.Error(err))
	}

	if query.Data == "" || query.Data == callbackNoop {
		return
	}

	verb, paymentID, ok := strings.Cut(query.Data, ";")
	if !ok || paymentID == "" {
		b.logger.Debug("Malformed callback action",
			zap.String("data", query.Data))
		return
	}

	var status payment.Status
	var outcomeKey string
	switch verb {
	case callbackAccept:
		status, outcomeKey = payment.StatusAccepted, "review_confirmed_button"
	case callbackReject:
		status, outcomeKey = payment.StatusRejected, "review_rejected_button"
	default:
		b.logger.Debug("Unknown callback verb",
			zap.String("verb", verb))
		return
	}

	b.relayDecision(ctx, query, paymentID, status, outcomeKey)
}

// relayDecision applies a reviewer's verdict: payment status first, then the
// payer notification, then the close-out of all reviewer messages. The three
// stages fail independently; the correlation entry is consumed exactly once,
// so a replayed decision performs no second pass.
func (b *Bot) relayDecision(
	ctx context.Context,
	query *tgbotapi.CallbackQuery,
	paymentID string,
	status payment.Status,
	outcomeKey string,
) {
	updated, err := b.payments.UpdateStatus(ctx, paymentID, status)
	if errors.Is(err, payment.ErrNotFound) {
		b.logger.Warn("Decision for unknown payment",
			zap.String("payment_id", paymentID))
		return
	}
	if err != nil {
		b.logger.Error("Failed to update payment status",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return
	}

	b.notifyPayer(ctx, query, updated, status)
	b.closeReviewMessages(ctx, paymentID, outcomeKey)
}

// notifyPayer tells the paying user the outcome in their own locale. Delivery
// failure is logged and echoed to the acting reviewer but blocks nothing.
func (b *Bot) notifyPayer(
	ctx context.Context,
	query *tgbotapi.CallbackQuery,
	pay payment.Payment,
	status payment.Status,
) {
	payerID := pay.User.TelegramID
	t := b.loc.Translate(b.loc.UserLocale(ctx, payerID))

	var msg tgbotapi.MessageConfig
	if status == payment.StatusAccepted {
		msg = tgbotapi.NewMessage(payerID, t("training_plan_payment_accepted"))

		if len(pay.Items) > 0 && pay.Items[0].TrainingPlanID != "" {
			plan, err := b.catalog.Plan(ctx, pay.Items[0].TrainingPlanID)
			if err != nil {
				b.logger.Error("Failed to resolve plan for confirmation",
					zap.String("payment_id", pay.ID),
					zap.Error(err))
			} else {
				msg.ReplyMarkup = urlInlineKeyboard(t("training_plan_url"), plan.ContentURL)
			}
		}
	} else {
		msg = tgbotapi.NewMessage(payerID, t("training_plan_payment_rejected"))
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to notify payer",
			zap.String("payment_id", pay.ID),
			zap.Int64("payer_id", payerID),
			zap.Error(err))

		if query.Message != nil {
			b.send(tgbotapi.NewMessage(
				query.Message.Chat.ID,
				"Помилка відправки повідомлення користувачу",
			))
		}
	}
}

// closeReviewMessages consumes the correlation entry once and rewrites every
// recorded reviewer message's controls to a single inert outcome label.
func (b *Bot) closeReviewMessages(ctx context.Context, paymentID, outcomeKey string) {
	messages, err := b.reviews.Take(ctx, paymentID)
	if errors.Is(err, review.ErrNotFound) {
		b.logger.Debug("Decision already processed",
			zap.String("payment_id", paymentID))
		return
	}
	if err != nil {
		b.logger.Error("Failed to take correlation entry",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return
	}

	label := b.loc.Translate(i18n.DefaultLocale)(outcomeKey)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackNoop),
		),
	)

	for _, m := range messages {
		edit := tgbotapi.NewEditMessageReplyMarkup(m.ChatID, m.MessageID, markup)
		if _, err := b.api.Request(edit); err != nil {
			b.logger.Error("Failed to close review message",
				zap.String("payment_id", paymentID),
				zap.Int64("review_chat_id", m.ChatID),
				zap.Error(err))
		}
	}
}
