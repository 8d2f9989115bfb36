// Package storage defines the scan journal backends and the queue that
// buffers records between flushes. The journal is write-only diagnostics;
// nothing in the overlay reads it back.
package storage

import "github.com/enemyradar/extension/pkg/core"

// Backend is the interface all journal backends must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	StartSession(s *core.SessionInfo) error

	RecordScan(e *core.ScanEvent) error
	RecordLootScan(e *core.LootScanEvent) error
	RecordHealthBinding(e *core.HealthBindingEvent) error
}
