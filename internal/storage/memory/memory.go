// Package memory keeps the scan journal in memory and optionally writes it
// out as JSON on Close.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/pkg/core"
)

// Export is the JSON document written on Close.
type Export struct {
	Session        core.SessionInfo          `json:"session"`
	Scans          []core.ScanEvent          `json:"scans"`
	LootScans      []core.LootScanEvent      `json:"lootScans"`
	HealthBindings []core.HealthBindingEvent `json:"healthBindings"`
}

// Backend stores journal records in memory.
type Backend struct {
	cfg config.MemoryConfig

	mu     sync.RWMutex
	doc    Export
	closed bool
	path   string
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Init() error {
	return nil
}

// Close writes the export if an output directory is configured.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

func (b *Backend) StartSession(s *core.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.Session = *s
	return nil
}

func (b *Backend) RecordScan(e *core.ScanEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.Scans = append(b.doc.Scans, *e)
	return nil
}

func (b *Backend) RecordLootScan(e *core.LootScanEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.LootScans = append(b.doc.LootScans, *e)
	return nil
}

func (b *Backend) RecordHealthBinding(e *core.HealthBindingEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.HealthBindings = append(b.doc.HealthBindings, *e)
	return nil
}

// Snapshot returns a copy of everything recorded so far.
func (b *Backend) Snapshot() Export {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Export{
		Session:        b.doc.Session,
		Scans:          append([]core.ScanEvent(nil), b.doc.Scans...),
		LootScans:      append([]core.LootScanEvent(nil), b.doc.LootScans...),
		HealthBindings: append([]core.HealthBindingEvent(nil), b.doc.HealthBindings...),
	}
}

// ExportedFilePath returns the file written by Close, if any.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// exportJSON writes the journal to OutputDir, gzipped when configured.
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	name := "journal"
	if b.doc.Session.ID != "" {
		name = b.doc.Session.ID
	}
	if !b.doc.Session.StartedAt.IsZero() {
		name = b.doc.Session.StartedAt.UTC().Format("20060102_150405") + "_" + name
	}
	filename := name + ".json"
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(b.doc); err != nil {
			return fmt.Errorf("failed to encode journal: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	} else if err := json.NewEncoder(f).Encode(b.doc); err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	b.path = outputPath
	return nil
}
