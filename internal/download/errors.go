package download

import "errors"

var (
	// ErrConflict means a download for the same (url, type, quality) key is
	// already in flight; duplicates are rejected, not queued.
	ErrConflict = errors.New("download already in progress for this content")

	// ErrUnknownQuality means the (content type, quality) pair is not in the
	// registry.
	ErrUnknownQuality = errors.New("unknown content type or quality")

	// ErrEmptyFile means the download produced no usable file.
	ErrEmptyFile = errors.New("downloaded file is missing or empty")

	// ErrTooLarge means the output exceeded the upload ceiling. The partial
	// file is already deleted when this is returned.
	ErrTooLarge = errors.New("file too large for upload")
)
