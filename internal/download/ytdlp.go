package download

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"
)

const (
	progressInterval = 500 * time.Millisecond
	audioQuality     = "192K"
)

// YtdlpRunner executes downloads through the yt-dlp CLI wrapper.
type YtdlpRunner struct{}

var _ Runner = (*YtdlpRunner)(nil)

// NewYtdlpRunner returns the production Runner.
func NewYtdlpRunner() *YtdlpRunner {
	return &YtdlpRunner{}
}

// Install makes sure a yt-dlp binary is available, downloading one if needed.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

func (r *YtdlpRunner) Run(ctx context.Context, spec RunSpec) (*RunOutput, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		Format(spec.Format).
		Output(spec.OutputTemplate)

	if spec.AudioCodec != "" {
		dl = dl.ExtractAudio().
			AudioFormat(spec.AudioCodec).
			AudioQuality(audioQuality)
	}

	if spec.OnProgress != nil {
		dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			p := Progress{Status: ProgressStatus(update.Status)}
			if update.TotalBytes > 0 {
				p.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
			}
			if !update.Started.IsZero() {
				if elapsed := time.Since(update.Started); elapsed.Seconds() > 0 {
					perSec := float64(update.DownloadedBytes) / elapsed.Seconds()
					p.Speed = fmt.Sprintf("%.1fMB/s", perSec/1024/1024)
				}
			}
			spec.OnProgress(p)
		})
	}

	result, err := dl.Run(ctx, spec.URL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no file info")
	}
	info := infos[0]

	out := &RunOutput{}
	if info.Filename != nil {
		out.Filename = *info.Filename
	}
	if info.Title != nil {
		out.Title = *info.Title
	}
	if info.Duration != nil {
		out.Duration = int(*info.Duration)
	}
	if info.Uploader != nil {
		out.Uploader = *info.Uploader
	}

	logrus.WithFields(logrus.Fields{
		"url":      spec.URL,
		"filename": out.Filename,
	}).Debug("yt-dlp run finished")
	return out, nil
}
