package flow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/download"
	"github.com/tgfetch/video-bot/internal/extract"
	"github.com/tgfetch/video-bot/internal/model"
	"github.com/tgfetch/video-bot/internal/ratelimit"
	"github.com/tgfetch/video-bot/internal/session"
)

// MetadataExtractor fetches video info for a submitted URL.
type MetadataExtractor interface {
	Info(ctx context.Context, url string) (*model.VideoInfo, error)
}

// Downloader runs a terminal quality selection to a finished file.
type Downloader interface {
	Download(ctx context.Context, url string, ct model.ContentType, quality string, progressSink func(download.Progress)) (*model.DownloadResult, error)
}

// Flow drives the selection state machine. All collaborators are injected;
// the flow itself keeps no state outside the session store.
type Flow struct {
	sessions   session.Store
	limiter    ratelimit.Limiter
	extractor  MetadataExtractor
	downloader Downloader
}

// New wires a Flow.
func New(sessions session.Store, limiter ratelimit.Limiter, extractor MetadataExtractor, downloader Downloader) *Flow {
	return &Flow{
		sessions:   sessions,
		limiter:    limiter,
		extractor:  extractor,
		downloader: downloader,
	}
}

// SubmitURL handles Idle -> AwaitingContentType. The URL is validated
// structurally, its metadata extracted, and a fresh session stored. The
// returned token goes into every keyboard offered for this flow.
func (f *Flow) SubmitURL(ctx context.Context, userID int64, url string) (*model.VideoInfo, string, error) {
	if err := extract.ValidateURL(url); err != nil {
		return nil, "", &ValidationError{Reason: err.Error()}
	}

	info, err := f.extractor.Info(ctx, url)
	if err != nil {
		return nil, "", &ExtractionError{Platform: extract.PlatformFromURL(url), Err: err}
	}

	f.sessions.Set(userID, &session.Session{
		CurrentURL: url,
		VideoInfo:  info,
	})

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   info.Title,
	}).Info("selection flow started")
	return info, session.Fingerprint(url), nil
}

// loadSession fetches the live session and checks the correlation token.
func (f *Flow) loadSession(userID int64, token string) (*session.Session, error) {
	s, ok := f.sessions.Get(userID)
	if !ok || s.CurrentURL == "" || s.VideoInfo == nil {
		return nil, ErrSessionExpired
	}
	if !s.Matches(token) {
		return nil, ErrSessionInvalid
	}
	return s, nil
}

// SelectContentType handles AwaitingContentType -> AwaitingQuality.
func (f *Flow) SelectContentType(userID int64, ct model.ContentType, token string) (*session.Session, error) {
	s, err := f.loadSession(userID, token)
	if err != nil {
		return nil, err
	}
	if !ct.Valid() {
		return nil, ErrSessionInvalid
	}

	s.ContentType = ct
	f.sessions.Set(userID, s)

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"type":    ct,
	}).Info("content type selected")
	return s, nil
}

// Back handles AwaitingQuality -> AwaitingContentType: only the content-type
// choice is dropped, URL and metadata persist.
func (f *Flow) Back(userID int64, token string) (*session.Session, error) {
	s, err := f.loadSession(userID, token)
	if err != nil {
		return nil, err
	}

	s.ContentType = ""
	f.sessions.Set(userID, s)
	return s, nil
}

// Cancel aborts the flow from any state and clears the whole session.
func (f *Flow) Cancel(userID int64) {
	f.sessions.Clear(userID)
	logrus.WithField("user_id", userID).Info("selection flow cancelled")
}

// SelectQuality handles the terminal selection: admission through the rate
// limiter, then the download. On success the session is cleared; on a
// recoverable failure it stays intact so the user can pick another quality
// without resubmitting the URL.
func (f *Flow) SelectQuality(ctx context.Context, userID int64, ct model.ContentType, quality, token string, progressSink func(download.Progress)) (*model.DownloadResult, error) {
	s, err := f.loadSession(userID, token)
	if err != nil {
		return nil, err
	}
	if !ct.Valid() || s.ContentType == "" || ct != s.ContentType {
		return nil, ErrSessionInvalid
	}

	allowed, resetMinutes, err := f.limiter.IsAllowed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &RateLimitedError{ResetMinutes: resetMinutes}
	}

	result, err := f.downloader.Download(ctx, s.CurrentURL, ct, quality, progressSink)
	if err != nil {
		return nil, &ExtractionError{Platform: extract.PlatformFromURL(s.CurrentURL), Err: err}
	}

	f.sessions.Clear(userID)
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"file":    result.Filename,
	}).Info("selection flow completed")
	return result, nil
}

// Session exposes the live session for rendering; used by menu handlers.
func (f *Flow) Session(userID int64) (*session.Session, bool) {
	return f.sessions.Get(userID)
}

// Limiter exposes the limiter for the stats surfaces.
func (f *Flow) Limiter() ratelimit.Limiter {
	return f.limiter
}
