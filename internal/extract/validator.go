package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches the generic http(s) URL shape: domain, localhost, or a
// dotted IP, optional port, optional path.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// ValidateURL checks the structural shape of a submitted URL. It does not
// touch the network.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("no URL provided")
	}
	if !urlPattern.MatchString(raw) {
		return fmt.Errorf("invalid URL format")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("unable to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL structure")
	}
	return nil
}

// PlatformFromURL names the hosting platform from the URL's host, falling
// back to "Unknown". Used for error messages and history records when the
// extractor name is unavailable.
func PlatformFromURL(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return "YouTube"
	case strings.Contains(lower, "tiktok.com"):
		return "TikTok"
	case strings.Contains(lower, "instagram.com"):
		return "Instagram"
	case strings.Contains(lower, "twitter.com"), strings.Contains(lower, "x.com"):
		return "Twitter"
	case strings.Contains(lower, "facebook.com"), strings.Contains(lower, "fb.watch"):
		return "Facebook"
	case strings.Contains(lower, "vimeo.com"):
		return "Vimeo"
	case strings.Contains(lower, "dailymotion.com"):
		return "Dailymotion"
	case strings.Contains(lower, "reddit.com"):
		return "Reddit"
	default:
		return "Unknown"
	}
}
