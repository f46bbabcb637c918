package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/model"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 200
)

// Extractor fetches video metadata without downloading.
type Extractor struct{}

// NewExtractor returns a metadata extractor backed by yt-dlp.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Info extracts metadata for a URL. The returned error is already mapped to
// a user-presentable message via UserMessage at the flow boundary.
func (e *Extractor) Info(ctx context.Context, url string) (*model.VideoInfo, error) {
	logrus.WithField("url", url).Info("extracting video info")

	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, url)
	if err != nil {
		logrus.WithField("url", url).WithError(err).Warn("metadata extraction failed")
		return nil, fmt.Errorf("extract info for %s: %w", url, err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("no metadata returned for %s", url)
	}
	raw := infos[0]

	info := &model.VideoInfo{
		Title:       cleanTitle(strVal(raw.Title)),
		Duration:    int(floatVal(raw.Duration)),
		Uploader:    strValOr(raw.Uploader, "Unknown"),
		Platform:    strValOr(raw.Extractor, PlatformFromURL(url)),
		Thumbnail:   strVal(raw.Thumbnail),
		FileSize:    int64(intVal(raw.FileSize)),
		ViewCount:   int64(floatVal(raw.ViewCount)),
		UploadDate:  strVal(raw.UploadDate),
		Description: truncate(strVal(raw.Description), maxDescriptionLen),
		URL:         url,
	}

	logrus.WithFields(logrus.Fields{
		"url":   url,
		"title": info.Title,
	}).Info("video info extracted")
	return info, nil
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strValOr(p *string, fallback string) string {
	if v := strVal(p); v != "" {
		return v
	}
	return fallback
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

var invalidTitleChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// cleanTitle strips filesystem-hostile characters and truncates long titles.
func cleanTitle(title string) string {
	if title == "" {
		return "Unknown"
	}
	title = invalidTitleChars.ReplaceAllString(title, "_")
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-3]) + "..."
	}
	return strings.TrimSpace(title)
}

// truncate cuts s to max characters. Slicing runes, not bytes, keeps the
// result valid UTF-8 for non-ASCII titles.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// UserMessage turns an extraction or download error into the message shown
// to the user, specialized by what the error text reveals.
func UserMessage(err error, platform string) string {
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "private"), strings.Contains(text, "unavailable"):
		if platform != "" && platform != "Unknown" {
			return fmt.Sprintf("❌ %s content unavailable. It might be private or deleted.", platform)
		}
		return "❌ Content unavailable. It might be private or deleted."
	case strings.Contains(text, "network"), strings.Contains(text, "connection"):
		return "❌ Network error. Please check your connection and try again."
	case strings.Contains(text, "timeout"), strings.Contains(text, "deadline"):
		return "❌ Download timeout. The content might be too large or server is slow."
	case strings.Contains(text, "format"):
		return "❌ Requested format not available. Try a different quality option."
	case strings.Contains(text, "ffmpeg"):
		return "❌ Audio processing failed. FFmpeg might not be installed properly."
	default:
		msg := truncate(err.Error(), maxTitleLen)
		if msg != err.Error() {
			msg += "..."
		}
		return "❌ Download failed: " + msg
	}
}
