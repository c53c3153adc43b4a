// Package metrics is an operational diagnostics store, not a persistence
// layer for protocol state (the Non-goals explicitly exclude Screens and
// Widgets surviving a restart). It records frame-lag samples and scheduler
// switch events for the status API's /metrics/history endpoint, wired the
// same pure-Go-sqlite-via-database/sql way repository.New wires
// gorm.io/driver/sqlite over modernc.org/sqlite so no CGO is needed.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lcdd/lcdd/internal/lcdd/screen"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// maxHistory bounds how many rows of each table are retained; older rows
// are pruned after each insert so this stays a rolling diagnostic window,
// not an unbounded log.
const maxHistory = 2000

// Store persists operational history to a sqlite file.
type Store struct {
	db *gorm.DB
}

// New opens (creating if absent) the sqlite file at dbPath and migrates
// the two history tables.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create metrics directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.AutoMigrate(&LagSample{}, &SwitchEvent{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordLag appends one frame-lag sample, pruning beyond maxHistory.
func (s *Store) RecordLag(ctx context.Context, sample LagSample) error {
	if err := s.db.WithContext(ctx).Create(&sample).Error; err != nil {
		return err
	}
	return s.prune(ctx, &LagSample{})
}

// RecordSwitch appends one scheduler switch event, pruning beyond
// maxHistory. FromScreen (ToScreen) is "" when from (to) is nil, e.g.
// FromScreen on the very first selection after startup.
func (s *Store) RecordSwitch(ctx context.Context, frame uint32, from, to *screen.Screen) error {
	ev := SwitchEvent{Frame: frame}
	if from != nil {
		ev.FromScreen = from.ID
	}
	if to != nil {
		ev.ToScreen = to.ID
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return err
	}
	return s.prune(ctx, &SwitchEvent{})
}

// prune keeps only the most recent maxHistory rows of whatever model is
// passed, identified by its auto-increment id.
func (s *Store) prune(ctx context.Context, model interface{ TableName() string }) error {
	table := model.TableName()
	return s.db.WithContext(ctx).Exec(fmt.Sprintf(
		`DELETE FROM %s WHERE id NOT IN (SELECT id FROM %s ORDER BY id DESC LIMIT ?)`,
		table, table,
	), maxHistory).Error
}

// RecentLagSamples returns up to limit of the most recent lag samples,
// newest first.
func (s *Store) RecentLagSamples(ctx context.Context, limit int) ([]LagSample, error) {
	var out []LagSample
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// RecentSwitchEvents returns up to limit of the most recent switch
// events, newest first.
func (s *Store) RecentSwitchEvents(ctx context.Context, limit int) ([]SwitchEvent, error) {
	var out []SwitchEvent
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
