package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/i18n"
)

// BOT KEYBOARDS

func mainMenuKeyboard(t i18n.Translator) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t("individual_training_plan_button")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t("equipment_shop_button")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t("social_networks_button")),
			tgbotapi.NewKeyboardButton(t("music_playlists_button")),
		),
	)
	keyboard.InputFieldPlaceholder = t("main_menu_placeholder")
	return keyboard
}

// filterKeyboard renders one button per reachable value, in the kind's
// canonical order, plus the back-navigation row.
func filterKeyboard(t i18n.Translator, kind catalog.Kind, values []catalog.Value) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, value := range values {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t(catalog.ButtonKey(kind, value))),
		))
	}
	rows = append(rows, backRow(t))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func surveyStartKeyboard(t i18n.Translator) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t("start_button")),
		),
		backRow(t),
	)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func ageGroupKeyboard(t i18n.Translator) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t("age_group_under_20_button"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t("age_group_under_30_button"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t("age_group_under_40_button"))),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(t("age_group_above_40_button"))),
		backRow(t),
	)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func yesNoKeyboard(t i18n.Translator) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t("yes_button")),
			tgbotapi.NewKeyboardButton(t("no_button")),
		),
		backRow(t),
	)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func backKeyboard(t i18n.Translator) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(backRow(t))
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func backRow(t i18n.Translator) []tgbotapi.KeyboardButton {
	return tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(t("back_button")),
	)
}

func urlInlineKeyboard(label, url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, url),
		),
	)
}
