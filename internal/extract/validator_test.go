package extract

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://youtube.com/watch?v=abc",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtu.be/abc123",
		"https://vimeo.com/12345",
		"http://localhost:8080/video",
		"http://192.168.1.10/clip.mp4",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), "expected %q to validate", u)
	}

	invalid := []string{
		"",
		"youtube.com/watch?v=abc",
		"ftp://youtube.com/watch",
		"https://",
		"not a url at all",
		"https://nohost path",
	}
	for _, u := range invalid {
		assert.Error(t, ValidateURL(u), "expected %q to be rejected", u)
	}
}

func TestPlatformFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=abc": "YouTube",
		"https://youtu.be/abc":                "YouTube",
		"https://www.tiktok.com/@u/video/1":   "TikTok",
		"https://instagram.com/reel/xyz":      "Instagram",
		"https://x.com/user/status/1":         "Twitter",
		"https://fb.watch/abc":                "Facebook",
		"https://vimeo.com/1":                 "Vimeo",
		"https://dailymotion.com/video/x":     "Dailymotion",
		"https://reddit.com/r/videos/1":       "Reddit",
		"https://example.com/video":           "Unknown",
	}
	for url, want := range cases {
		assert.Equal(t, want, PlatformFromURL(url), "url %q", url)
	}
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage(errors.New("ERROR: This video is private"), "YouTube")
	assert.Contains(t, msg, "YouTube")
	assert.Contains(t, msg, "private or deleted")

	msg = UserMessage(errors.New("Video unavailable"), "Unknown")
	assert.Contains(t, msg, "Content unavailable")

	msg = UserMessage(errors.New("context deadline exceeded"), "")
	assert.Contains(t, msg, "timeout")

	msg = UserMessage(errors.New("requested format is not available"), "")
	assert.Contains(t, msg, "different quality")

	msg = UserMessage(errors.New("ffmpeg not found"), "")
	assert.Contains(t, msg, "FFmpeg")

	msg = UserMessage(errors.New("something odd happened"), "")
	assert.Contains(t, msg, "Download failed")
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Unknown", cleanTitle(""))
	assert.Equal(t, "a_b_c", cleanTitle(`a/b\c`))

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	cleaned := cleanTitle(string(long))
	assert.LessOrEqual(t, len(cleaned), maxTitleLen)
	assert.Contains(t, cleaned, "...")
}

// Truncation must land on rune boundaries; a mid-rune cut would make every
// message carrying the title invalid UTF-8.
func TestCleanTitleMultiByte(t *testing.T) {
	cleaned := cleanTitle(strings.Repeat("日", 150))
	assert.True(t, utf8.ValidString(cleaned))
	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned), maxTitleLen)
	assert.Contains(t, cleaned, "...")
}

func TestTruncateMultiByte(t *testing.T) {
	got := truncate(strings.Repeat("é", 300), maxDescriptionLen)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxDescriptionLen, utf8.RuneCountInString(got))

	assert.Equal(t, "short", truncate("short", maxDescriptionLen))
}
