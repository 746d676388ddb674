package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
)

const (
	callbackAccept = "accept"
	callbackReject = "reject"
	callbackNoop   = "noop"
)

// dispatchReview forwards the payment proof to every configured reviewer
// chat. Each send is independent: an unreachable reviewer is logged and
// skipped. After the loop the correlation entry is persisted for the chats
// that succeeded and the payment moves to PROCESSING.
func (b *Bot) dispatchReview(ctx context.Context, req *Request, proofFileID string) {
	plan := req.Session.Plan
	pay := req.Session.Payment

	caption := fmt.Sprintf(
		"*Оплата індивідуального плану*\n"+
			"*Сума:* _%.2f грн_\n"+
			"*План:* [Notion-сторінка](%s)\n"+
			"*Користувач:* [Telegram-профіль](tg://user?id=%d)",
		plan.Price, plan.URL, req.From.ID,
	)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("OK", fmt.Sprintf("%s;%s", callbackAccept, pay.ID)),
			tgbotapi.NewInlineKeyboardButtonData("не OK", fmt.Sprintf("%s;%s", callbackReject, pay.ID)),
		),
	)

	var recorded []review.ChannelMessage
	for _, chatID := range b.cfg.ReviewChatIDs {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(proofFileID))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = markup

		sent, err := b.api.Send(photo)
		if err != nil {
			b.logger.Error("Failed to send review notification",
				zap.String("payment_id", pay.ID),
				zap.Int64("review_chat_id", chatID),
				zap.Error(err))
			continue
		}

		recorded = append(recorded, review.ChannelMessage{
			ChatID:    chatID,
			MessageID: sent.MessageID,
		})

		b.logger.Debug("Sent review notification",
			zap.String("payment_id", pay.ID),
			zap.Int64("review_chat_id", chatID))
	}

	if err := b.reviews.Save(ctx, pay.ID, recorded); err != nil {
		b.logger.Error("Failed to save correlation entry",
			zap.String("payment_id", pay.ID),
			zap.Error(err))
	}

	if _, err := b.payments.UpdateStatus(ctx, pay.ID, payment.StatusProcessing); err != nil {
		b.logger.Error("Failed to move payment to processing",
			zap.String("payment_id", pay.ID),
			zap.Error(err))
	}
}
