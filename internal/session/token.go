package session

import (
	"crypto/sha256"
	"encoding/hex"
)

// tokenLen keeps callback data well under Telegram's 64-byte limit.
const tokenLen = 8

// Fingerprint derives the correlation token for a URL: the first 8 hex
// characters of its SHA-256. Stable across restarts, and collisions are
// negligible at the scale of one user's sessions.
func Fingerprint(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:tokenLen]
}

// Matches reports whether a token from an incoming interaction belongs to
// the URL currently stored in the session.
func (s *Session) Matches(token string) bool {
	return s != nil && s.CurrentURL != "" && Fingerprint(s.CurrentURL) == token
}
