package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/enemyradar/extension/internal/config"
	gormstorage "github.com/enemyradar/extension/internal/storage/gorm"
	"github.com/enemyradar/extension/internal/storage/memory"
	"github.com/enemyradar/extension/internal/storage/postgres"
	sqlitestorage "github.com/enemyradar/extension/internal/storage/sqlite"
	"github.com/enemyradar/extension/internal/storage/websocket"
)

// Compile-time interface checks.
var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*gormstorage.Backend)(nil)
	_ Backend = (*sqlitestorage.Backend)(nil)
	_ Backend = (*postgres.Backend)(nil)
	_ Backend = (*websocket.Backend)(nil)
)

// NewBackend creates the journal backend named by cfg.Type. The backend is
// not initialized. Type "none" (or empty) returns a nil Backend, which
// disables the journal.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		b, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "postgres":
		return postgres.New(postgres.Dependencies{
			Config:        cfg.Postgres,
			Logger:        logger,
			WriteInterval: cfg.FlushInterval,
		}), nil
	case "websocket":
		return websocket.New(websocket.Config{
			URL:    cfg.WebSocket.URL,
			Secret: cfg.WebSocket.Secret,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
