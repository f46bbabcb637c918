package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfetch/video-bot/internal/config"
	"github.com/tgfetch/video-bot/internal/model"
	"github.com/tgfetch/video-bot/internal/platform"
)

// stubRunner lets each test script the extraction call.
type stubRunner struct {
	mu    sync.Mutex
	calls int
	run   func(ctx context.Context, spec RunSpec) (*RunOutput, error)
}

func (s *stubRunner) Run(ctx context.Context, spec RunSpec) (*RunOutput, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.run(ctx, spec)
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestOrchestrator(t *testing.T, runner Runner) (*Orchestrator, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Download.TempDir = dir
	cfg.Download.MaxFileSizeMB = 1
	cfg.Download.TimeoutSeconds = 5
	return New(runner, config.DefaultRegistry(), cfg), dir
}

func writeFile(t *testing.T, path string, size int) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestDownloadSuccess(t *testing.T) {
	var runner *stubRunner
	var dir string
	runner = &stubRunner{run: func(_ context.Context, spec RunSpec) (*RunOutput, error) {
		assert.Contains(t, spec.Format, "height<=360")
		assert.Empty(t, spec.AudioCodec)
		path := writeFile(t, filepath.Join(dir, "Demo.mp4"), 1024)
		return &RunOutput{Filename: path, Title: "Demo", Duration: 125, Uploader: "Chan"}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	res, err := orch.Download(context.Background(), "https://youtube.com/watch?v=abc", model.ContentVideo, "360p", nil)
	require.NoError(t, err)
	assert.Equal(t, "Demo", res.Title)
	assert.Equal(t, int64(1024), res.FileSize)
	assert.Equal(t, 125, res.Duration)
	assert.Equal(t, "Chan", res.Uploader)
	assert.Equal(t, model.ContentVideo, res.ContentType)
	assert.Zero(t, orch.ActiveCount())
}

func TestDownloadUnknownQuality(t *testing.T) {
	runner := &stubRunner{run: func(context.Context, RunSpec) (*RunOutput, error) {
		return nil, errors.New("should not be called")
	}}
	orch, _ := newTestOrchestrator(t, runner)

	_, err := orch.Download(context.Background(), "https://youtube.com/watch?v=abc", model.ContentVideo, "8k", nil)
	assert.ErrorIs(t, err, ErrUnknownQuality)
	assert.Zero(t, runner.callCount())
}

func TestDownloadSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	var dir string
	runner := &stubRunner{run: func(ctx context.Context, _ RunSpec) (*RunOutput, error) {
		startedOnce.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		path := writeFile(t, filepath.Join(dir, "Demo.mp4"), 10)
		return &RunOutput{Filename: path, Title: "Demo"}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	url := "https://youtube.com/watch?v=abc"
	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.Download(context.Background(), url, model.ContentVideo, "360p", nil)
		firstDone <- err
	}()
	<-started

	// second tap on the same key is rejected immediately, not queued
	_, err := orch.Download(context.Background(), url, model.ContentVideo, "360p", nil)
	assert.ErrorIs(t, err, ErrConflict)

	// a different quality is a different key
	differentDone := make(chan error, 1)
	go func() {
		_, err := orch.Download(context.Background(), url, model.ContentVideo, "480p", nil)
		differentDone <- err
	}()

	close(release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-differentDone)
	assert.Equal(t, 2, runner.callCount())
}

func TestDownloadReleasesKeyAfterFailure(t *testing.T) {
	fail := true
	var dir string
	runner := &stubRunner{run: func(_ context.Context, _ RunSpec) (*RunOutput, error) {
		if fail {
			return nil, errors.New("extraction exploded")
		}
		path := writeFile(t, filepath.Join(dir, "Demo.mp4"), 10)
		return &RunOutput{Filename: path, Title: "Demo"}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	url := "https://youtube.com/watch?v=abc"
	_, err := orch.Download(context.Background(), url, model.ContentVideo, "360p", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Zero(t, orch.ActiveCount())

	fail = false
	_, err = orch.Download(context.Background(), url, model.ContentVideo, "360p", nil)
	assert.NoError(t, err, "key must be released after a failed attempt")
}

func TestDownloadReleasesKeyAfterTimeout(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, _ RunSpec) (*RunOutput, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	orch, _ := newTestOrchestrator(t, runner)
	orch.timeout = 50 * time.Millisecond

	url := "https://youtube.com/watch?v=abc"
	_, err := orch.Download(context.Background(), url, model.ContentVideo, "360p", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Zero(t, orch.ActiveCount())
}

func TestDownloadEmptyFile(t *testing.T) {
	var dir string
	runner := &stubRunner{run: func(_ context.Context, _ RunSpec) (*RunOutput, error) {
		return &RunOutput{Filename: filepath.Join(dir, "never-written.mp4")}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	_, err := orch.Download(context.Background(), "https://youtube.com/watch?v=abc", model.ContentVideo, "360p", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDownloadOversizedFileDeleted(t *testing.T) {
	var path string
	var dir string
	runner := &stubRunner{run: func(_ context.Context, _ RunSpec) (*RunOutput, error) {
		path = writeFile(t, filepath.Join(dir, "huge.mp4"), 2*1024*1024)
		return &RunOutput{Filename: path, Title: "Huge"}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	_, err := orch.Download(context.Background(), "https://youtube.com/watch?v=abc", model.ContentVideo, "360p", nil)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, platform.FileSize(path), "oversized partial file must be deleted")
}

func TestDownloadResolvesAudioOutput(t *testing.T) {
	var dir string
	runner := &stubRunner{run: func(_ context.Context, spec RunSpec) (*RunOutput, error) {
		assert.Equal(t, "mp3", spec.AudioCodec)
		// the post-processor replaced the reported .webm with .mp3
		writeFile(t, filepath.Join(dir, "Track.mp3"), 512)
		return &RunOutput{Filename: filepath.Join(dir, "Track.webm"), Title: "Track"}, nil
	}}
	orch, d := newTestOrchestrator(t, runner)
	dir = d

	res, err := orch.Download(context.Background(), "https://youtube.com/watch?v=abc", model.ContentAudio, "mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Track.mp3"), res.Filename)
	assert.Equal(t, int64(512), res.FileSize)
}

func TestThrottle(t *testing.T) {
	var emitted []Progress
	thr := newThrottle(10, func(p Progress) { emitted = append(emitted, p) })

	for pct := 1.0; pct <= 35; pct++ {
		thr.report(Progress{Status: StatusDownloading, Percent: pct})
	}
	thr.report(Progress{Status: StatusFinished, Percent: 100})

	require.Len(t, emitted, 4)
	assert.Equal(t, 10.0, emitted[0].Percent)
	assert.Equal(t, 20.0, emitted[1].Percent)
	assert.Equal(t, 30.0, emitted[2].Percent)
	assert.Equal(t, StatusFinished, emitted[3].Status)

	// nil sink is a no-op
	silent := newThrottle(10, nil)
	silent.report(Progress{Status: StatusDownloading, Percent: 50})
}
