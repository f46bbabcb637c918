package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/config"
	"github.com/tgfetch/video-bot/internal/download"
	"github.com/tgfetch/video-bot/internal/extract"
	"github.com/tgfetch/video-bot/internal/flow"
	"github.com/tgfetch/video-bot/internal/history"
)

// Bot is the Telegram transport. It owns the long-polling loop and turns
// updates into flow operations; everything stateful lives behind the flow.
type Bot struct {
	api      *tgbotapi.BotAPI
	flow     *flow.Flow
	registry *config.Registry
	history  *history.Store
	cfg      *config.Config
}

// New connects to the Telegram API and wires the transport.
func New(cfg *config.Config, fl *flow.Flow, registry *config.Registry, hist *history.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}
	logrus.WithField("username", api.Self.UserName).Info("authorized on telegram")
	return &Bot{
		api:      api,
		flow:     fl,
		registry: registry,
		history:  hist,
		cfg:      cfg,
	}, nil
}

// Run polls for updates until the context is cancelled. Each update is
// handled on its own goroutine so a slow download never blocks the loop.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("update handler panicked")
			if chatID := updateChatID(update); chatID != 0 {
				b.sendHTML(chatID, unexpectedErrorMessage(), nil)
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		// Bare URLs work like /download <url>.
		b.handleDownload(ctx, update.Message.Chat.ID, update.Message.From.ID, strings.TrimSpace(update.Message.Text))
	}
}

// updateChatID finds the chat an update belongs to, 0 when it has none.
func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"command": msg.Command(),
	}).Debug("command received")

	switch msg.Command() {
	case "start":
		kb := mainMenuKeyboard()
		b.sendHTML(chatID, welcomeMessage(), &kb)
	case "help":
		kb := helpKeyboard()
		b.sendHTML(chatID, helpMessage(), &kb)
	case "download":
		b.handleDownload(ctx, chatID, userID, strings.TrimSpace(msg.CommandArguments()))
	case "stats":
		kb := helpKeyboard()
		b.sendHTML(chatID, b.statsMessage(ctx, userID), &kb)
	case "cancel":
		b.flow.Cancel(userID)
		kb := mainMenuKeyboard()
		b.sendHTML(chatID, cancelledMessage(), &kb)
	default:
		kb := helpKeyboard()
		b.sendHTML(chatID, helpMessage(), &kb)
	}
}

// handleDownload runs URL submission: validation, metadata extraction, and
// the content-type keyboard.
func (b *Bot) handleDownload(ctx context.Context, chatID, userID int64, url string) {
	if url == "" {
		b.sendHTML(chatID, invalidURLMessage(), nil)
		return
	}

	status := b.sendHTML(chatID, processingMessage(), nil)

	info, token, err := b.flow.SubmitURL(ctx, userID, url)
	if err != nil {
		b.editHTML(chatID, status, b.renderError(err), nil)
		return
	}

	kb := contentTypeKeyboard(token)
	b.editHTML(chatID, status, contentTypeSelectionMessage(info), &kb)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Acknowledge immediately so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		logrus.WithError(err).Debug("callback ack failed")
	}

	if q.Message == nil {
		return
	}
	userID := q.From.ID
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID

	cb, err := flow.ParseCallback(q.Data)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("bad callback data")
		return
	}

	switch cb.Kind {
	case flow.CallbackContentType:
		s, err := b.flow.SelectContentType(userID, cb.ContentType, cb.Token)
		if err != nil {
			b.editHTML(chatID, msgID, b.renderError(err), nil)
			return
		}
		kb := qualityKeyboard(b.registry, cb.ContentType, cb.Token)
		b.editHTML(chatID, msgID, qualitySelectionMessage(cb.ContentType, s.VideoInfo), &kb)

	case flow.CallbackQuality:
		b.runDownload(ctx, chatID, msgID, userID, cb)

	case flow.CallbackBack:
		s, err := b.flow.Back(userID, cb.Token)
		if err != nil {
			b.editHTML(chatID, msgID, b.renderError(err), nil)
			return
		}
		kb := contentTypeKeyboard(cb.Token)
		b.editHTML(chatID, msgID, contentTypeSelectionMessage(s.VideoInfo), &kb)

	case flow.CallbackCancel:
		b.flow.Cancel(userID)
		b.editHTML(chatID, msgID, cancelledMessage(), nil)

	case flow.CallbackMenu:
		b.handleMenu(ctx, chatID, msgID, userID, cb.Menu)
	}
}

func (b *Bot) handleMenu(ctx context.Context, chatID int64, msgID int, userID int64, action string) {
	switch action {
	case flow.MenuDownload:
		b.editHTML(chatID, msgID,
			"📥 <b>New Download</b>\n\nSend me a video URL, or use:\n/download &lt;video_url&gt;", nil)
	case flow.MenuHelp:
		kb := helpKeyboard()
		b.editHTML(chatID, msgID, helpMessage(), &kb)
	case flow.MenuStats:
		kb := helpKeyboard()
		b.editHTML(chatID, msgID, b.statsMessage(ctx, userID), &kb)
	case flow.MenuMain:
		kb := mainMenuKeyboard()
		b.editHTML(chatID, msgID, welcomeMessage(), &kb)
	}
}

// runDownload executes the terminal selection: rate-limit admission, the
// download itself with progress edits, then the upload.
func (b *Bot) runDownload(ctx context.Context, chatID int64, msgID int, userID int64, cb *flow.Callback) {
	// The session is cleared on success, so grab URL and platform for the
	// history record before the download runs.
	var url, platform string
	if s, ok := b.flow.Session(userID); ok && s.VideoInfo != nil {
		url = s.CurrentURL
		platform = s.VideoInfo.Platform
	}

	b.editHTML(chatID, msgID, downloadStartingMessage(cb.ContentType), nil)

	result, err := b.flow.SelectQuality(ctx, userID, cb.ContentType, cb.Quality, cb.Token, b.progressSink(chatID, msgID))
	if err != nil {
		b.editHTML(chatID, msgID, b.renderError(err), nil)
		return
	}

	if err := b.upload(chatID, result); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("upload failed")
		b.editHTML(chatID, msgID, uploadFailedMessage(), nil)
		return
	}

	kb := mainMenuKeyboard()
	b.editHTML(chatID, msgID, downloadCompleteMessage(result), &kb)

	if b.history != nil {
		b.history.RecordDownload(userID, url, platform, result)
	}
}

// progressSink edits the status message as the download advances. Edit
// failures are logged and ignored; progress is cosmetic.
func (b *Bot) progressSink(chatID int64, msgID int) func(download.Progress) {
	return func(p download.Progress) {
		switch p.Status {
		case download.StatusDownloading:
			b.editHTML(chatID, msgID, downloadProgressMessage(p.Percent, p.Speed), nil)
		case download.StatusFinished:
			b.editHTML(chatID, msgID, uploadStartingMessage(), nil)
		}
	}
}

func (b *Bot) statsMessage(ctx context.Context, userID int64) string {
	remaining, err := b.flow.Limiter().RemainingRequests(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("rate limiter stats unavailable")
		return unexpectedErrorMessage()
	}
	resetMin, err := b.flow.Limiter().ResetTime(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("rate limiter stats unavailable")
		return unexpectedErrorMessage()
	}
	var total int64
	if b.history != nil {
		if n, err := b.history.UserCount(userID); err == nil {
			total = n
		}
	}
	return statsMessage(remaining, b.cfg.RateLimit.MaxPerWindow, resetMin, total)
}

// renderError maps a flow failure to the user-facing message.
func (b *Bot) renderError(err error) string {
	var vErr *flow.ValidationError
	var rlErr *flow.RateLimitedError
	var exErr *flow.ExtractionError

	switch {
	case errors.As(err, &vErr):
		return invalidURLMessage()
	case errors.Is(err, flow.ErrSessionExpired):
		return sessionExpiredMessage()
	case errors.Is(err, flow.ErrSessionInvalid):
		return sessionInvalidMessage()
	case errors.As(err, &rlErr):
		return rateLimitMessage(b.cfg.RateLimit.MaxPerWindow, rlErr.ResetMinutes)
	case errors.Is(err, download.ErrConflict):
		return conflictMessage()
	case errors.Is(err, download.ErrTooLarge):
		return tooLargeMessage()
	case errors.As(err, &exErr):
		return extract.UserMessage(exErr.Err, exErr.Platform)
	default:
		logrus.WithError(err).Error("unhandled flow error")
		return unexpectedErrorMessage()
	}
}

// sendHTML sends a message and returns its ID for later edits.
func (b *Bot) sendHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("send failed")
		return 0
	}
	return sent.MessageID
}

// editHTML edits a previously sent message in place.
func (b *Bot) editHTML(chatID int64, msgID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if msgID == 0 {
		b.sendHTML(chatID, text, nil)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard
	if _, err := b.api.Send(edit); err != nil {
		// "message is not modified" is routine when progress rounds to
		// the same text twice.
		logrus.WithError(err).WithField("chat_id", chatID).Debug("edit failed")
	}
}
