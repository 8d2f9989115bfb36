// Package postgres implements storage.Backend on PostgreSQL. Sessions are
// written synchronously; scan rows go through in-process queues drained by a
// background writer in one transaction per batch.
package postgres

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/internal/database"
	"github.com/enemyradar/extension/internal/model"
	"github.com/enemyradar/extension/internal/model/convert"
	"github.com/enemyradar/extension/internal/queue"
	gormstorage "github.com/enemyradar/extension/internal/storage/gorm"
	"github.com/enemyradar/extension/pkg/core"
)

// DefaultWriteInterval is how often the writer drains the queues.
const DefaultWriteInterval = 2 * time.Second

// Dependencies holds all dependencies for the Postgres backend. When DB is
// nil, Init dials Config.
type Dependencies struct {
	DB            *gorm.DB
	Config        config.PostgresConfig
	Logger        *slog.Logger
	WriteInterval time.Duration
}

type queues struct {
	Scans          *queue.Queue[model.ScanEvent]
	LootScans      *queue.Queue[model.LootScanEvent]
	HealthBindings *queue.Queue[model.HealthBindingEvent]
}

func newQueues() *queues {
	return &queues{
		Scans:          queue.New[model.ScanEvent](),
		LootScans:      queue.New[model.LootScanEvent](),
		HealthBindings: queue.New[model.HealthBindingEvent](),
	}
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	gorm     *gormstorage.Backend
	queues   *queues
	logger   *slog.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// New creates a new Postgres backend.
func New(deps Dependencies) *Backend {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.WriteInterval <= 0 {
		deps.WriteInterval = DefaultWriteInterval
	}
	return &Backend{deps: deps, logger: logger, queues: newQueues()}
}

// Init connects if needed, migrates the schema and starts the writer.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.OpenPostgres(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	b.gorm = gormstorage.New(gormstorage.Dependencies{DB: b.deps.DB, Logger: b.logger})
	if err := b.gorm.Init(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.logger.Info("journal database ready", "dialect", b.deps.DB.Name())

	b.stopChan = make(chan struct{})
	b.wg.Add(1)
	go b.writer()
	return nil
}

// Close stops the writer, drains what is left and closes the connection.
func (b *Backend) Close() error {
	if b.gorm == nil {
		return nil
	}
	var err error
	b.once.Do(func() {
		close(b.stopChan)
		b.wg.Wait()
		err = errors.Join(b.Flush(), b.gorm.Close())
	})
	return err
}

func (b *Backend) StartSession(s *core.SessionInfo) error {
	if b.gorm == nil {
		return fmt.Errorf("postgres backend not initialized")
	}
	return b.gorm.StartSession(s)
}

func (b *Backend) RecordScan(e *core.ScanEvent) error {
	row, err := convert.ToScanEvent(*e)
	if err != nil {
		return err
	}
	b.queues.Scans.Push(row)
	return nil
}

func (b *Backend) RecordLootScan(e *core.LootScanEvent) error {
	row, err := convert.ToLootScanEvent(*e)
	if err != nil {
		return err
	}
	b.queues.LootScans.Push(row)
	return nil
}

func (b *Backend) RecordHealthBinding(e *core.HealthBindingEvent) error {
	b.queues.HealthBindings.Push(convert.ToHealthBindingEvent(*e))
	return nil
}

// Pending returns the number of queued rows.
func (b *Backend) Pending() int {
	return b.queues.Scans.Len() + b.queues.LootScans.Len() + b.queues.HealthBindings.Len()
}

// Flush writes every queued row now. Rows of a failed batch are requeued.
func (b *Backend) Flush() error {
	if b.deps.DB == nil {
		return nil
	}
	db := b.deps.DB
	return errors.Join(
		writeQueue(db, b.queues.Scans, "scan events"),
		writeQueue(db, b.queues.LootScans, "loot scan events"),
		writeQueue(db, b.queues.HealthBindings, "health binding events"),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string) error {
	items := q.GetAndEmpty()
	if len(items) == 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		q.Push(items...)
		return fmt.Errorf("error creating %s: %w", name, err)
	}
	return nil
}

func (b *Backend) writer() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.deps.WriteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.logger.Error("journal writer failed", "error", err)
			}
		}
	}
}
