package download

import "context"

// ProgressStatus mirrors the yt-dlp hook phases the bot cares about.
type ProgressStatus string

const (
	StatusDownloading ProgressStatus = "downloading"
	StatusFinished    ProgressStatus = "finished"
)

// Progress is one progress-hook invocation from the extraction subsystem.
type Progress struct {
	Status  ProgressStatus
	Percent float64
	Speed   string // human readable, empty if unknown
}

// RunSpec describes one extraction/transcode invocation.
type RunSpec struct {
	URL            string
	Format         string
	AudioCodec     string // non-empty requests FFmpeg audio extraction
	OutputTemplate string
	OnProgress     func(Progress) // optional
}

// RunOutput is what the extraction subsystem reports back.
type RunOutput struct {
	Filename string
	Title    string
	Duration int
	Uploader string
}

// Runner abstracts the yt-dlp invocation so the orchestrator can be tested
// without the binary.
type Runner interface {
	Run(ctx context.Context, spec RunSpec) (*RunOutput, error)
}
