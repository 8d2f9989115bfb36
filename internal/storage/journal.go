package storage

import (
	"errors"
	"fmt"

	"github.com/enemyradar/extension/internal/queue"
	"github.com/enemyradar/extension/pkg/core"
)

// MaxPending bounds each record kind between flushes; the oldest records
// are dropped first.
const MaxPending = 1024

// Journal buffers records and writes them to a Backend on Flush.
// A Journal with a nil Backend accepts and discards everything.
type Journal struct {
	backend Backend
	scans   *queue.Queue[*core.ScanEvent]
	loot    *queue.Queue[*core.LootScanEvent]
	health  *queue.Queue[*core.HealthBindingEvent]
	written int
}

// NewJournal creates a Journal over backend.
func NewJournal(backend Backend) *Journal {
	return &Journal{
		backend: backend,
		scans:   queue.NewBounded[*core.ScanEvent](MaxPending),
		loot:    queue.NewBounded[*core.LootScanEvent](MaxPending),
		health:  queue.NewBounded[*core.HealthBindingEvent](MaxPending),
	}
}

// Enabled reports whether records are kept.
func (j *Journal) Enabled() bool {
	return j.backend != nil
}

// Start records the session on the backend immediately.
func (j *Journal) Start(info core.SessionInfo) error {
	if !j.Enabled() {
		return nil
	}
	if err := j.backend.StartSession(&info); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

func (j *Journal) Scan(e core.ScanEvent) {
	if j.Enabled() {
		j.scans.Push(&e)
	}
}

func (j *Journal) LootScan(e core.LootScanEvent) {
	if j.Enabled() {
		j.loot.Push(&e)
	}
}

func (j *Journal) HealthBinding(e core.HealthBindingEvent) {
	if j.Enabled() {
		j.health.Push(&e)
	}
}

// Pending returns the number of buffered records.
func (j *Journal) Pending() int {
	return j.scans.Len() + j.loot.Len() + j.health.Len()
}

// Dropped returns how many records were evicted before a flush.
func (j *Journal) Dropped() int {
	return j.scans.Dropped() + j.loot.Dropped() + j.health.Dropped()
}

// Written returns the number of records the backend accepted.
func (j *Journal) Written() int {
	return j.written
}

// Flush writes every buffered record. Records the backend rejects are
// dropped; their errors are joined.
func (j *Journal) Flush() error {
	if !j.Enabled() {
		return nil
	}
	var errs []error
	for _, e := range j.scans.GetAndEmpty() {
		errs = j.record(errs, "scan", j.backend.RecordScan(e))
	}
	for _, e := range j.loot.GetAndEmpty() {
		errs = j.record(errs, "loot scan", j.backend.RecordLootScan(e))
	}
	for _, e := range j.health.GetAndEmpty() {
		errs = j.record(errs, "health binding", j.backend.RecordHealthBinding(e))
	}
	return errors.Join(errs...)
}

func (j *Journal) record(errs []error, kind string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("failed to record %s: %w", kind, err))
	}
	j.written++
	return errs
}

// Close flushes and closes the backend.
func (j *Journal) Close() error {
	if !j.Enabled() {
		return nil
	}
	return errors.Join(j.Flush(), j.backend.Close())
}
