// Package httpapi exposes a small operational HTTP surface next to the
// bot: liveness and aggregate usage stats.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/video-bot/internal/history"
	"github.com/tgfetch/video-bot/internal/ratelimit"
)

// ActiveCounter reports how many downloads are in flight.
type ActiveCounter interface {
	ActiveCount() int
}

// Server serves the ops endpoints.
type Server struct {
	limiter ratelimit.Limiter
	history *history.Store
	active  ActiveCounter
	srv     *http.Server
}

// New builds the server; history may be nil when persistence is disabled.
func New(addr string, limiter ratelimit.Limiter, hist *history.Store, active ActiveCounter) *Server {
	s := &Server{
		limiter: limiter,
		history: hist,
		active:  active,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", s.handleHealth)
	router.GET("/stats", s.handleStats)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logrus.WithField("addr", s.srv.Addr).Info("ops server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.limiter.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
		return
	}

	body := gin.H{
		"active_downloads": s.active.ActiveCount(),
		"rate_limit": gin.H{
			"active_users":          stats.ActiveUsers,
			"total_requests":        stats.TotalRequests,
			"max_requests_per_user": stats.MaxRequestsPerUser,
			"time_window_hours":     stats.TimeWindowHours,
		},
	}

	if s.history != nil {
		totals, err := s.history.Totals()
		if err != nil {
			logrus.WithError(err).Warn("history totals unavailable")
		} else {
			body["history"] = gin.H{
				"downloads":    totals.Downloads,
				"unique_users": totals.UniqueUsers,
				"total_bytes":  totals.TotalBytes,
			}
		}
	}

	c.JSON(http.StatusOK, body)
}
