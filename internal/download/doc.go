// Package download implements the download pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It enforces single-flight per
// (url, content type, quality), the platform upload ceiling, the download
// timeout, and resolves post-processed audio output paths.
package download
