package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// The panic fallback needs a chat to apologize in; it must find one on both
// message and callback updates and report none otherwise.
func TestUpdateChatID(t *testing.T) {
	msg := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42},
	}}
	if got := updateChatID(msg); got != 42 {
		t.Errorf("message update chat = %d, want 42", got)
	}

	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}}
	if got := updateChatID(cb); got != 7 {
		t.Errorf("callback update chat = %d, want 7", got)
	}

	if got := updateChatID(tgbotapi.Update{}); got != 0 {
		t.Errorf("empty update chat = %d, want 0", got)
	}
	bare := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{}}
	if got := updateChatID(bare); got != 0 {
		t.Errorf("messageless callback chat = %d, want 0", got)
	}
}
