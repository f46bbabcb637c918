package model

// ContentType distinguishes full video downloads from audio extraction.
type ContentType string

const (
	// ContentVideo downloads the video stream at a selected resolution
	ContentVideo ContentType = "video"

	// ContentAudio extracts the audio track into a selected format
	ContentAudio ContentType = "audio"
)

// String returns the string representation of ContentType.
func (ct ContentType) String() string {
	return string(ct)
}

// Valid reports whether the value is one of the known content types.
func (ct ContentType) Valid() bool {
	return ct == ContentVideo || ct == ContentAudio
}

// ParseContentType converts a raw string into a ContentType.
func ParseContentType(s string) (ContentType, bool) {
	ct := ContentType(s)
	return ct, ct.Valid()
}
