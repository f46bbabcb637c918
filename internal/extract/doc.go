// Package extract validates submitted URLs and fetches video metadata
// through yt-dlp before any download is offered. It also maps extraction
// failures to platform-specific user-facing messages, by best-effort string
// inspection since yt-dlp reports one generic error type.
package extract
