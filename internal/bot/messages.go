package bot

import (
	"fmt"
	"strings"

	"github.com/tgfetch/video-bot/internal/model"
)

const captionLimit = 1024 // Telegram caption ceiling

// FormatDuration renders seconds as "1h 2m 5s" style text.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatFileSize renders bytes with a binary unit.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// progressBar draws a ten-segment bar for a percentage.
func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "]"
}

func platformEmoji(platform string) string {
	switch strings.ToLower(platform) {
	case "youtube":
		return "📺"
	case "tiktok":
		return "🎵"
	case "instagram":
		return "📸"
	case "twitter":
		return "🐦"
	default:
		return "🎬"
	}
}

// shortTitle cuts long titles for selection messages. Slicing runes, not
// bytes, keeps non-ASCII titles valid UTF-8.
func shortTitle(title string) string {
	if runes := []rune(title); len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return title
}

func welcomeMessage() string {
	return "🎬 <b>Video Downloader Bot</b>\n\n" +
		"I can download videos from YouTube, TikTok, Instagram, Twitter, and many other platforms!\n\n" +
		"📝 <b>Usage:</b> /download &lt;video_url&gt;\n" +
		"❓ <b>Help:</b> /help\n\n" +
		"Just send me a video URL and I'll handle the rest! ✨"
}

func helpMessage() string {
	return "🆘 <b>Help - Video Downloader Bot</b>\n\n" +
		"📋 <b>Available Commands:</b>\n" +
		"• /start - Welcome message\n" +
		"• /download &lt;url&gt; - Download video or extract audio\n" +
		"• /stats - Your remaining downloads\n" +
		"• /cancel - Abort the current selection\n" +
		"• /help - Show this help message\n\n" +
		"🌐 <b>Supported Platforms:</b>\n" +
		"• YouTube (youtube.com, youtu.be)\n" +
		"• TikTok (tiktok.com)\n" +
		"• Instagram (instagram.com)\n" +
		"• Twitter (twitter.com, x.com)\n" +
		"• And many more!\n\n" +
		"⚠️ <b>Limitations:</b>\n" +
		"• Maximum file size: 50MB\n" +
		"• Rate limit: 5 downloads per hour\n" +
		"• Private content not supported\n\n" +
		"💡 <b>Tip:</b> Audio files are typically much smaller than videos!"
}

func processingMessage() string {
	return "🔍 <b>Analyzing video...</b>\nPlease wait..."
}

func contentTypeSelectionMessage(info *model.VideoInfo) string {
	return fmt.Sprintf(
		"🎯 <b>Choose download type for:</b>\n%s <b>%s</b> - %s\n\n"+
			"👤 <b>Uploader:</b> %s\n"+
			"⏱️ <b>Duration:</b> %s\n\n"+
			"What would you like to download?",
		platformEmoji(info.Platform), info.Platform, shortTitle(info.Title),
		info.Uploader, FormatDuration(info.Duration))
}

func qualitySelectionMessage(ct model.ContentType, info *model.VideoInfo) string {
	kind := "🎬 video quality"
	if ct == model.ContentAudio {
		kind = "🎵 audio format"
	}
	return fmt.Sprintf(
		"🎯 <b>Choose %s for:</b>\n%s <b>%s</b> - %s\n\n"+
			"👤 <b>Uploader:</b> %s\n"+
			"⏱️ <b>Duration:</b> %s\n\n"+
			"Select your preferred %s:",
		kind, platformEmoji(info.Platform), info.Platform, shortTitle(info.Title),
		info.Uploader, FormatDuration(info.Duration), kind)
}

func downloadStartingMessage(ct model.ContentType) string {
	if ct == model.ContentAudio {
		return "🎵 <b>Extracting audio...</b>\n📊 Preparing download..."
	}
	return "🎬 <b>Downloading...</b>\n📊 Preparing download..."
}

func downloadProgressMessage(percent float64, speed string) string {
	if speed == "" {
		speed = "N/A"
	}
	return fmt.Sprintf(
		"⬇️ <b>Downloading...</b>\n📊 Progress: %s %.1f%%\n🚀 Speed: %s",
		progressBar(percent), percent, speed)
}

func uploadStartingMessage() string {
	return "✅ <b>Download completed!</b>\n📤 Uploading to Telegram..."
}

func downloadCompleteMessage(result *model.DownloadResult) string {
	kind, emoji := "Video", "🎬"
	if result.ContentType == model.ContentAudio {
		kind, emoji = "Audio", "🎵"
	}
	return fmt.Sprintf(
		"✅ <b>%s Download Complete!</b>\n\n"+
			"📁 <b>File:</b> %s\n"+
			"📊 <b>Size:</b> %s\n\n"+
			"%s Enjoy your %s!",
		kind, result.Title, FormatFileSize(result.FileSize), emoji, strings.ToLower(kind))
}

func rateLimitMessage(maxPerWindow, resetMinutes int) string {
	return fmt.Sprintf(
		"⏰ <b>Rate Limit Exceeded</b>\n\n"+
			"You've reached the maximum of %d downloads per hour.\n"+
			"⏳ Try again in %d minutes.",
		maxPerWindow, resetMinutes)
}

func statsMessage(remaining, maxPerWindow, resetMinutes int, totalDownloads int64) string {
	reset := "now"
	if resetMinutes > 0 {
		reset = fmt.Sprintf("in %d minutes", resetMinutes)
	}
	return fmt.Sprintf(
		"📊 <b>Your Stats</b>\n\n"+
			"⬇️ <b>Downloads this hour:</b> %d of %d used\n"+
			"✅ <b>Remaining:</b> %d\n"+
			"⏳ <b>Limit resets:</b> %s\n"+
			"📦 <b>Total downloads:</b> %d",
		maxPerWindow-remaining, maxPerWindow, remaining, reset, totalDownloads)
}

func invalidURLMessage() string {
	return "❌ <b>Invalid URL</b>\n\n" +
		"Please provide a valid video URL.\n\n" +
		"📝 <b>Usage:</b> /download &lt;video_url&gt;\n" +
		"💡 <b>Example:</b> /download https://youtube.com/watch?v=..."
}

func sessionExpiredMessage() string {
	return "❌ Session expired. Please use /download again."
}

func sessionInvalidMessage() string {
	return "❌ Invalid session. Please use /download again."
}

func cancelledMessage() string {
	return "❌ <b>Download cancelled.</b>\n\nYou can start a new download with /download"
}

func conflictMessage() string {
	return "⏳ This download is already in progress. Please wait for it to finish."
}

func tooLargeMessage() string {
	return "❌ File is too large for Telegram (>50MB). Try selecting a lower quality or an audio format."
}

func uploadFailedMessage() string {
	return "❌ <b>Upload failed</b>\n\n" +
		"The file downloaded fine but could not be sent to Telegram.\n" +
		"Please try again."
}

func unexpectedErrorMessage() string {
	return "❌ An unexpected error occurred. Please try again later."
}

// caption builds the upload caption, truncated to the platform's character
// limit on a rune boundary.
func caption(result *model.DownloadResult) string {
	c := fmt.Sprintf("🎬 %s\n👤 %s", result.Title, result.Uploader)
	if runes := []rune(c); len(runes) > captionLimit {
		c = string(runes[:captionLimit-3]) + "..."
	}
	return c
}
