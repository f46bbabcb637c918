package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tgfetch/video-bot/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "Unknown"},
		{-5, "Unknown"},
		{45, "45s"},
		{125, "2m 5s"},
		{3725, "1h 2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "Unknown"},
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{35, 3},
		{50, 5},
		{100, 10},
		{150, 10},
	}
	for _, tt := range tests {
		bar := progressBar(tt.percent)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%.0f) filled = %d, want %d", tt.percent, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("progressBar(%.0f) empty = %d, want %d", tt.percent, got, 10-tt.filled)
		}
	}
}

func TestShortTitle(t *testing.T) {
	long := strings.Repeat("a", 80)
	if got := shortTitle(long); len(got) != 53 || !strings.HasSuffix(got, "...") {
		t.Errorf("shortTitle truncation wrong: %q", got)
	}
	if got := shortTitle("short"); got != "short" {
		t.Errorf("shortTitle(short) = %q", got)
	}

	// Multi-byte titles must be cut between runes, never mid-rune.
	cjk := strings.Repeat("日", 80)
	got := shortTitle(cjk)
	if !utf8.ValidString(got) {
		t.Fatalf("shortTitle produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 53 {
		t.Errorf("shortTitle rune count = %d, want 53", n)
	}
}

func TestCaptionTruncation(t *testing.T) {
	result := &model.DownloadResult{
		Title:    strings.Repeat("x", 2000),
		Uploader: "someone",
	}
	c := caption(result)
	if utf8.RuneCountInString(c) > captionLimit {
		t.Fatalf("caption length %d exceeds limit %d", utf8.RuneCountInString(c), captionLimit)
	}
	if !strings.HasSuffix(c, "...") {
		t.Errorf("truncated caption should end with ellipsis, got %q", c[len(c)-10:])
	}

	short := &model.DownloadResult{Title: "clip", Uploader: "someone"}
	if !strings.Contains(caption(short), "clip") {
		t.Errorf("caption missing title")
	}
}

func TestCaptionMultiByteTitle(t *testing.T) {
	result := &model.DownloadResult{
		Title:    strings.Repeat("Ж", 2000),
		Uploader: "кто-то",
	}
	c := caption(result)
	if !utf8.ValidString(c) {
		t.Fatal("caption produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(c); n > captionLimit {
		t.Errorf("caption rune count %d exceeds limit %d", n, captionLimit)
	}
}

func TestStatsMessage(t *testing.T) {
	msg := statsMessage(3, 5, 12, 42)
	for _, want := range []string{"2 of 5", "3", "in 12 minutes", "42"} {
		if !strings.Contains(msg, want) {
			t.Errorf("stats message missing %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(statsMessage(5, 5, 0, 0), "now") {
		t.Error("zero reset minutes should render as now")
	}
}

// A failed upload gets its own message so the user knows the download
// itself worked.
func TestUploadFailedMessage(t *testing.T) {
	msg := uploadFailedMessage()
	if !strings.Contains(msg, "Upload failed") {
		t.Errorf("unexpected upload failure message: %s", msg)
	}
	if msg == unexpectedErrorMessage() {
		t.Error("upload failure must not reuse the generic error message")
	}
}

func TestRateLimitMessage(t *testing.T) {
	msg := rateLimitMessage(5, 23)
	if !strings.Contains(msg, "5 downloads") || !strings.Contains(msg, "23 minutes") {
		t.Errorf("unexpected rate limit message: %s", msg)
	}
}
