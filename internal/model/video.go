package model

// VideoInfo holds the metadata extracted for a submitted URL before any
// download happens. It is stored in the user's session for the lifetime of
// one selection flow.
type VideoInfo struct {
	Title       string
	Duration    int    // seconds, 0 if unknown
	Uploader    string
	Platform    string // extractor name or host-derived platform
	Thumbnail   string
	FileSize    int64 // reported size in bytes, 0 if unknown
	ViewCount   int64
	UploadDate  string
	Description string // truncated for display
	URL         string
}

// DownloadResult describes a completed download ready for upload.
type DownloadResult struct {
	Filename    string
	Title       string
	FileSize    int64
	Duration    int
	Uploader    string
	ContentType ContentType
	Quality     string
}
