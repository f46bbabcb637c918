package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/model"
	"github.com/tgfetch/video-bot/internal/platform"
)

// upload sends the finished file to the chat. The temp file is removed
// after the attempt whatever the outcome.
func (b *Bot) upload(chatID int64, result *model.DownloadResult) error {
	defer platform.Cleanup(result.Filename)

	if platform.FileSize(result.Filename) == 0 {
		return fmt.Errorf("upload: file missing or empty: %s", result.Filename)
	}

	logrus.WithFields(logrus.Fields{
		"chat_id": chatID,
		"file":    result.Filename,
		"type":    result.ContentType,
	}).Info("uploading file")

	var msg tgbotapi.Chattable
	if result.ContentType == model.ContentAudio {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(result.Filename))
		audio.Caption = caption(result)
		msg = audio
	} else {
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(result.Filename))
		video.Caption = caption(result)
		video.SupportsStreaming = true
		msg = video
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("upload %s: %w", result.Filename, err)
	}
	return nil
}
