package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tgfetch/video-bot/internal/config"
	"github.com/tgfetch/video-bot/internal/flow"
	"github.com/tgfetch/video-bot/internal/model"
)

// contentTypeKeyboard offers the video/audio choice for the current flow.
func contentTypeKeyboard(token string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Video Download", flow.ContentTypeData(model.ContentVideo, token)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio Only", flow.ContentTypeData(model.ContentAudio, token)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", flow.CancelData),
		),
	)
}

// qualityKeyboard lists the registry's options for the chosen content type,
// one per row, plus back and cancel.
func qualityKeyboard(registry *config.Registry, ct model.ContentType, token string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range registry.Keys(ct) {
		opt, ok := registry.Lookup(ct, key)
		if !ok {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Emoji+" "+opt.Label, flow.QualityData(ct, key, token)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", flow.BackData(token)),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", flow.CancelData),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// mainMenuKeyboard is attached to menu and completion messages.
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 New Download", flow.MenuData(flow.MenuDownload)),
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", flow.MenuData(flow.MenuStats)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆘 Help", flow.MenuData(flow.MenuHelp)),
		),
	)
}

func helpKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", flow.MenuData(flow.MenuMain)),
		),
	)
}
