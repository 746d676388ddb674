package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/session"
)

// sendMainMenu renders the main menu and discards any in-progress survey.
func (b *Bot) sendMainMenu(ctx context.Context, req *Request) error {
	if err := b.sessions.Clear(ctx, req.ChatID); err != nil {
		b.logger.Error("Failed to clear session",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
	}
	req.Session = session.Session{Step: StepMainMenu}

	b.reply(req, req.T("main_menu_greeting"))

	msg := tgbotapi.NewMessage(req.ChatID, req.T("main_menu_description"))
	msg.ReplyMarkup = mainMenuKeyboard(req.T)
	b.send(msg)
	return nil
}

func (b *Bot) handleMenuButton(ctx context.Context, req *Request) error {
	switch req.Message.Text {
	case req.T("individual_training_plan_button"):
		return b.askSurveyStart(ctx, req)

	case req.T("equipment_shop_button"):
		return b.sendEquipmentShop(req)

	case req.T("social_networks_button"):
		return b.sendSocialNetworks(req)

	case req.T("music_playlists_button"):
		b.reply(req, req.T("music_playlists_description"))
		return nil

	default:
		return b.sendMainMenu(ctx, req)
	}
}

// askSurveyStart opens the individual-plan survey with a fresh selection.
func (b *Bot) askSurveyStart(ctx context.Context, req *Request) error {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("individual_training_plan_description"))
	msg.ReplyMarkup = surveyStartKeyboard(req.T)
	b.send(msg)

	req.Session = session.Session{Step: StepSurveyStart}
	return b.saveSession(ctx, req)
}

func (b *Bot) handleSurveyStart(ctx context.Context, req *Request) error {
	switch req.Message.Text {
	case req.T("back_button"):
		return b.sendMainMenu(ctx, req)

	case req.T("start_button"):
		return b.askFilter(ctx, req, filterSex)

	default:
		b.reply(req, req.T("invalid_input_text"))
		return b.askSurveyStart(ctx, req)
	}
}

func (b *Bot) sendEquipmentShop(req *Request) error {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("equipment_shop_description"))
	msg.ReplyMarkup = urlInlineKeyboard(req.T("equipment_shop_url_button"), req.T("equipment_shop_url"))
	b.send(msg)
	return nil
}

// sendEquipmentRecommendation is the extra notice for home/outdoor training
// environments. It does not change the survey's next step.
func (b *Bot) sendEquipmentRecommendation(req *Request) {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("environment_equipment_recommendation"))
	msg.ReplyMarkup = urlInlineKeyboard(req.T("equipment_shop_url_button"), req.T("equipment_shop_url"))
	b.send(msg)
}

func (b *Bot) sendSocialNetworks(req *Request) error {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("social_networks_description"))
	msg.ReplyMarkup = urlInlineKeyboard(req.T("social_networks_url_button"), req.T("social_networks_url"))
	b.send(msg)
	return nil
}

// handleRefresh reloads the plan catalog. Admin-only.
func (b *Bot) handleRefresh(ctx context.Context, req *Request) error {
	return b.requireAdmin(func(ctx context.Context, req *Request) error {
		if err := b.catalog.Refresh(ctx); err != nil {
			b.logger.Error("Failed to refresh catalog", zap.Error(err))
			b.reply(req, req.T("service_unavailable_text"))
			return nil
		}
		b.reply(req, "OK")
		return nil
	})(ctx, req)
}
