// Command video-bot runs the Telegram video downloader bot.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tgfetch/video-bot/internal/bot"
	"github.com/tgfetch/video-bot/internal/config"
	"github.com/tgfetch/video-bot/internal/download"
	"github.com/tgfetch/video-bot/internal/extract"
	"github.com/tgfetch/video-bot/internal/flow"
	"github.com/tgfetch/video-bot/internal/history"
	"github.com/tgfetch/video-bot/internal/httpapi"
	"github.com/tgfetch/video-bot/internal/ratelimit"
	"github.com/tgfetch/video-bot/internal/session"
)

var tokenPattern = regexp.MustCompile(`^\d+:[\w-]{35,}$`)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "video-bot",
		Short: "Telegram bot that downloads videos and extracts audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("exited")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if !tokenPattern.MatchString(cfg.Bot.Token) {
		return fmt.Errorf("bot token does not look like a telegram token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Best effort; downloads fail with a clear error later if this did not work.
	if err := download.Install(ctx); err != nil {
		logrus.WithError(err).Warn("yt-dlp installation check failed")
	}

	limiter, closeLimiter, err := buildLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	registry, err := config.LoadRegistry(cfg.Download.RegistryPath)
	if err != nil {
		return fmt.Errorf("load quality registry: %w", err)
	}
	runner := download.NewYtdlpRunner()
	orch := download.New(runner, registry, cfg)

	var hist *history.Store
	if cfg.History.Path != "" {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			logrus.WithError(err).Warn("history disabled")
			hist = nil
		}
	}

	fl := flow.New(session.NewMemoryStore(), limiter, extract.NewExtractor(), orch)

	b, err := bot.New(cfg, fl, registry, hist)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	// Periodic sweep so idle users do not pin limiter state forever.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := limiter.CleanupOldEntries(ctx); err != nil {
					logrus.WithError(err).Warn("limiter cleanup failed")
				}
			}
		}
	}()

	if cfg.Ops.Listen != "" {
		ops := httpapi.New(cfg.Ops.Listen, limiter, hist, orch)
		go func() {
			if err := ops.Run(ctx); err != nil {
				logrus.WithError(err).Error("ops server stopped")
			}
		}()
	}

	logrus.Info("bot started")
	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logrus.Info("bot stopped")
	return nil
}

// buildLimiter picks the Redis-backed limiter when an address is configured
// and falls back to the in-process one otherwise.
func buildLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.Redis.Addr == "" {
		logrus.Info("using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxPerWindow, cfg.RateWindow()), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	logrus.WithField("addr", cfg.Redis.Addr).Info("using redis rate limiter")
	limiter := ratelimit.NewRedisLimiter(client, cfg.RateLimit.MaxPerWindow, cfg.RateWindow(), time.Now)
	return limiter, func() { client.Close() }, nil
}
