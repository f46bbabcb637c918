package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/config"
	"github.com/tgfetch/video-bot/internal/model"
	"github.com/tgfetch/video-bot/internal/platform"
)

// codecExt maps a post-processing audio codec to the file extension the
// post-processor writes.
var codecExt = map[string]string{
	"mp3":    ".mp3",
	"m4a":    ".m4a",
	"vorbis": ".ogg",
	"opus":   ".opus",
}

// Orchestrator runs downloads with single-flight per key, a hard timeout,
// and the upload size ceiling.
type Orchestrator struct {
	runner       Runner
	registry     *config.Registry
	tempDir      string
	maxBytes     int64
	timeout      time.Duration
	progressStep int

	inflight sync.Map // key -> struct{}
}

// New creates an orchestrator.
func New(runner Runner, registry *config.Registry, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		runner:       runner,
		registry:     registry,
		tempDir:      cfg.Download.TempDir,
		maxBytes:     cfg.MaxFileSizeBytes(),
		timeout:      cfg.DownloadTimeout(),
		progressStep: cfg.Download.ProgressStepPct,
	}
}

func flightKey(url string, ct model.ContentType, quality string) string {
	return url + "|" + string(ct) + "|" + quality
}

// ActiveCount reports how many downloads are currently in flight.
func (o *Orchestrator) ActiveCount() int {
	n := 0
	o.inflight.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Download fetches the content for a terminal quality selection. The
// in-flight key is released on every exit path, including timeout, so a
// failed attempt never blocks a retry. progressSink may be nil.
func (o *Orchestrator) Download(ctx context.Context, url string, ct model.ContentType, quality string, progressSink func(Progress)) (*model.DownloadResult, error) {
	opt, ok := o.registry.Lookup(ct, quality)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownQuality, ct, quality)
	}

	key := flightKey(url, ct, quality)
	if _, loaded := o.inflight.LoadOrStore(key, struct{}{}); loaded {
		return nil, ErrConflict
	}
	defer o.inflight.Delete(key)

	if err := platform.EnsureDir(o.tempDir); err != nil {
		return nil, fmt.Errorf("prepare temp dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"url":     url,
		"type":    ct,
		"quality": quality,
	}).Info("starting download")

	thr := newThrottle(o.progressStep, progressSink)
	out, err := o.runner.Run(ctx, RunSpec{
		URL:            url,
		Format:         opt.Format,
		AudioCodec:     opt.AudioCodec,
		OutputTemplate: o.tempDir + "/%(title)s.%(ext)s",
		OnProgress:     thr.report,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("download timed out after %s: %w", o.timeout, err)
		}
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	filename := out.Filename
	if opt.AudioCodec != "" {
		filename = platform.ResolveAudioFile(filename, codecExt[opt.AudioCodec])
	}

	size := platform.FileSize(filename)
	if size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	if size > o.maxBytes {
		platform.Cleanup(filename)
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"size":     size,
	}).Info("download complete")

	return &model.DownloadResult{
		Filename:    filename,
		Title:       out.Title,
		FileSize:    size,
		Duration:    out.Duration,
		Uploader:    out.Uploader,
		ContentType: ct,
		Quality:     quality,
	}, nil
}
