// Package gormstorage writes the scan journal through GORM. The SQLite and
// Postgres backends embed it and only differ in how the DB is opened.
package gormstorage

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/enemyradar/extension/internal/database"
	"github.com/enemyradar/extension/internal/model/convert"
	"github.com/enemyradar/extension/pkg/core"
)

// Dependencies holds all dependencies for the GORM journal backend.
type Dependencies struct {
	DB      *gorm.DB
	Logger  *slog.Logger
	Version string
}

// Backend implements storage.Backend on a GORM database.
type Backend struct {
	db      *gorm.DB
	logger  *slog.Logger
	version string
}

// New creates a new GORM journal backend.
func New(deps Dependencies) *Backend {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{db: deps.DB, logger: logger, version: deps.Version}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the journal schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("gorm backend has no database")
	}
	return database.Migrate(b.db)
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func (b *Backend) StartSession(s *core.SessionInfo) error {
	version := s.Version
	if version == "" {
		version = b.version
	}
	row := convert.ToSession(s.ID, s.StartedAt, version)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	b.logger.Debug("journal session started", "session", s.ID)
	return nil
}

func (b *Backend) RecordScan(e *core.ScanEvent) error {
	row, err := convert.ToScanEvent(*e)
	if err != nil {
		return err
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert scan event: %w", err)
	}
	return nil
}

// RecordLootScan inserts the scan and its spots.
func (b *Backend) RecordLootScan(e *core.LootScanEvent) error {
	row, err := convert.ToLootScanEvent(*e)
	if err != nil {
		return err
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert loot scan event: %w", err)
	}
	return nil
}

func (b *Backend) RecordHealthBinding(e *core.HealthBindingEvent) error {
	row := convert.ToHealthBindingEvent(*e)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert health binding event: %w", err)
	}
	return nil
}
