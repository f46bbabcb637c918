// Package history persists a record of completed downloads for the stats
// surfaces. Loss of the database never blocks a download.
package history

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tgfetch/video-bot/internal/model"
)

// Record is one completed download.
type Record struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      int64  `gorm:"index"`
	URL         string
	Platform    string
	ContentType string
	Quality     string
	FileSize    int64
	Duration    int
	CreatedAt   time.Time
}

// Totals aggregates the history for stats.
type Totals struct {
	Downloads   int64 `json:"downloads"`
	UniqueUsers int64 `json:"unique_users"`
	TotalBytes  int64 `json:"total_bytes"`
}

// Store wraps the sqlite-backed history table.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordDownload logs a completed download. Failures are logged, not
// returned: history is advisory.
func (s *Store) RecordDownload(userID int64, url, platform string, result *model.DownloadResult) {
	rec := Record{
		UserID:      userID,
		URL:         url,
		Platform:    platform,
		ContentType: result.ContentType.String(),
		Quality:     result.Quality,
		FileSize:    result.FileSize,
		Duration:    result.Duration,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		logrus.WithError(err).Warn("failed to record download history")
	}
}

// Totals returns aggregate counters over all recorded downloads.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	if err := s.db.Model(&Record{}).Count(&t.Downloads).Error; err != nil {
		return Totals{}, fmt.Errorf("count downloads: %w", err)
	}
	if err := s.db.Model(&Record{}).Distinct("user_id").Count(&t.UniqueUsers).Error; err != nil {
		return Totals{}, fmt.Errorf("count users: %w", err)
	}
	row := s.db.Model(&Record{}).Select("COALESCE(SUM(file_size), 0)").Row()
	if err := row.Scan(&t.TotalBytes); err != nil {
		return Totals{}, fmt.Errorf("sum sizes: %w", err)
	}
	return t, nil
}

// UserCount returns how many downloads a user has completed in total.
func (s *Store) UserCount(userID int64) (int64, error) {
	var n int64
	err := s.db.Model(&Record{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count user downloads: %w", err)
	}
	return n, nil
}
