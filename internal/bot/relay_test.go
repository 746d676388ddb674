package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
)

const payerChatID = int64(55)

// seedProcessingPayment installs a payment awaiting review together with its
// correlation entry, as dispatchReview would have left them.
func seedProcessingPayment(fx *fixtures, paymentID string) {
	fx.payments.byID[paymentID] = payment.Payment{
		ID:   paymentID,
		User: payment.User{TelegramID: payerChatID},
		Items: []payment.Item{
			{
				Price:          testPlan.Price,
				ItemType:       payment.ItemTypeTrainingPlan,
				TrainingPlanID: testPlan.ID,
			},
		},
		Status: payment.StatusProcessing,
	}
	fx.reviews.m[paymentID] = []review.ChannelMessage{
		{ChatID: reviewChatOne, MessageID: 11},
		{ChatID: reviewChatTwo, MessageID: 12},
	}
}

func TestRelayAcceptDecision(t *testing.T) {
	b, fx := newTestBot(t)
	seedProcessingPayment(fx, "pay-9")

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, "accept;pay-9"))

	if got := fx.payments.byID["pay-9"].Status; got != payment.StatusAccepted {
		t.Errorf("payment status = %d, want %d", got, payment.StatusAccepted)
	}

	var payerMsg *tgbotapi.MessageConfig
	for _, c := range fx.sender.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == payerChatID {
			payerMsg = &msg
			break
		}
	}
	if payerMsg == nil {
		t.Fatal("payer not notified")
	}
	if payerMsg.Text != fx.t("training_plan_payment_accepted") {
		t.Errorf("payer text = %q", payerMsg.Text)
	}
	markup, ok := payerMsg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatal("accepted notification carries no inline keyboard")
	}
	if got := *markup.InlineKeyboard[0][0].URL; got != testPlan.ContentURL {
		t.Errorf("content link = %q, want %q", got, testPlan.ContentURL)
	}

	edits := fx.sender.markupEdits()
	if len(edits) != 2 {
		t.Fatalf("rewrote %d reviewer messages, want 2", len(edits))
	}
	for _, edit := range edits {
		button := edit.ReplyMarkup.InlineKeyboard[0][0]
		if button.Text != fx.t("review_confirmed_button") {
			t.Errorf("outcome label = %q", button.Text)
		}
		if *button.CallbackData != callbackNoop {
			t.Errorf("outcome button data = %q, want %q", *button.CallbackData, callbackNoop)
		}
	}

	if _, ok := fx.reviews.m["pay-9"]; ok {
		t.Error("correlation entry not consumed")
	}
}

func TestRelayRejectDecision(t *testing.T) {
	b, fx := newTestBot(t)
	seedProcessingPayment(fx, "pay-9")

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatTwo, "reject;pay-9"))

	if got := fx.payments.byID["pay-9"].Status; got != payment.StatusRejected {
		t.Errorf("payment status = %d, want %d", got, payment.StatusRejected)
	}

	if !fx.sender.containsText(fx.t("training_plan_payment_rejected")) {
		t.Error("rejection notice not sent to payer")
	}
	for _, c := range fx.sender.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == payerChatID {
			if msg.ReplyMarkup != nil {
				t.Error("rejection notification carries a content link")
			}
		}
	}

	edits := fx.sender.markupEdits()
	if len(edits) != 2 {
		t.Fatalf("rewrote %d reviewer messages, want 2", len(edits))
	}
	if got := edits[0].ReplyMarkup.InlineKeyboard[0][0].Text; got != fx.t("review_rejected_button") {
		t.Errorf("outcome label = %q", got)
	}
}

func TestRelayReplayedDecisionIsInert(t *testing.T) {
	b, fx := newTestBot(t)
	seedProcessingPayment(fx, "pay-9")

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, "accept;pay-9"))
	editsAfterFirst := len(fx.sender.markupEdits())

	// A second reviewer taps the already-decided message.
	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatTwo, "accept;pay-9"))

	if got := len(fx.sender.markupEdits()); got != editsAfterFirst {
		t.Errorf("replay rewrote reviewer messages: %d edits, want %d", got, editsAfterFirst)
	}
}

func TestRelayUnknownPayment(t *testing.T) {
	b, fx := newTestBot(t)

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, "accept;ghost"))

	if len(fx.sender.sent) != 0 {
		t.Errorf("sent %d messages for unknown payment, want 0", len(fx.sender.sent))
	}
}

func TestRelayIgnoresMalformedActions(t *testing.T) {
	b, fx := newTestBot(t)
	seedProcessingPayment(fx, "pay-9")

	for _, data := range []string{"", "noop", "accept", "explode;pay-9", "accept;"} {
		b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, data))
	}

	if got := fx.payments.byID["pay-9"].Status; got != payment.StatusProcessing {
		t.Errorf("payment status = %d, want untouched %d", got, payment.StatusProcessing)
	}
	if _, ok := fx.reviews.m["pay-9"]; !ok {
		t.Error("correlation entry consumed by malformed action")
	}
	if len(fx.sender.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(fx.sender.sent))
	}
}

func TestRelayAnswersEveryCallback(t *testing.T) {
	b, fx := newTestBot(t)

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, "noop"))

	var answered bool
	for _, c := range fx.sender.requests {
		if _, ok := c.(tgbotapi.CallbackConfig); ok {
			answered = true
		}
	}
	if !answered {
		t.Error("callback not acknowledged")
	}
}

func TestRelayPayerUnreachableNotifiesReviewer(t *testing.T) {
	b, fx := newTestBot(t)
	seedProcessingPayment(fx, "pay-9")
	fx.sender.failSendTo[payerChatID] = true

	b.HandleUpdate(context.Background(), callbackUpdate(reviewChatOne, "accept;pay-9"))

	if got := fx.payments.byID["pay-9"].Status; got != payment.StatusAccepted {
		t.Errorf("payment status = %d, want %d", got, payment.StatusAccepted)
	}
	if !fx.sender.containsText("Помилка відправки повідомлення користувачу") {
		t.Error("reviewer not told about the failed delivery")
	}
	if got := len(fx.sender.markupEdits()); got != 2 {
		t.Errorf("rewrote %d reviewer messages, want 2", got)
	}
}
