// Package worker applies expense snapshots from the broker to the
// spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/log"
	"expenses/internal/sheets"
	"expenses/internal/storage"
	"expenses/internal/store"
)

// MirrorWorker keeps a sheets.Mirror equal to the newest snapshot it has
// seen. Snapshots are whole lists, so an older one arriving late is dropped
// instead of applied.
type MirrorWorker struct {
	mirror sheets.Mirror
	logger *log.Logger

	mu          sync.Mutex
	applied     bool
	source      string
	revision    uint64
	publishedAt time.Time
}

func NewMirrorWorker(mirror sheets.Mirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{mirror: mirror, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleSnapshot applies msg unless a newer snapshot was already applied.
// An error leaves the previous state in place so the delivery can be retried.
func (w *MirrorWorker) HandleSnapshot(ctx context.Context, msg *amqp.ExpenseSnapshotMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isStaleLocked(msg) {
		w.logger.DebugContext(ctx, "Skipping stale snapshot",
			log.FieldRevision, msg.Revision,
			"applied_revision", w.revision,
			"source", msg.Source)
		return nil
	}

	if err := w.mirror.ReplaceAll(ctx, msg.Expenses); err != nil {
		return fmt.Errorf("replace mirror at revision %d: %w", msg.Revision, err)
	}

	w.applied = true
	w.source = msg.Source
	w.revision = msg.Revision
	w.publishedAt = msg.Timestamp

	w.logger.InfoContext(ctx, "Mirrored expense snapshot",
		log.FieldOperation, log.OpSync,
		log.FieldRevision, msg.Revision,
		log.FieldCount, len(msg.Expenses))
	return nil
}

func (w *MirrorWorker) isStaleLocked(msg *amqp.ExpenseSnapshotMessage) bool {
	if !w.applied {
		return false
	}
	if msg.Source == w.source {
		return msg.Revision <= w.revision
	}
	// A different process; fall back to publish time.
	return msg.Timestamp.Before(w.publishedAt)
}

// Revision returns the last applied revision and whether any was applied.
func (w *MirrorWorker) Revision() (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.revision, w.applied
}

// StartupSync mirrors the list persisted under key, covering changes made
// while the worker was down. A key that was never written is not an error.
func (w *MirrorWorker) StartupSync(ctx context.Context, kv storage.KeyValue, key string) error {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.InfoContext(ctx, "No persisted expenses found on startup")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read persisted expenses: %w", err)
	}

	expenses, err := store.Decode(data)
	if err != nil {
		return fmt.Errorf("decode persisted expenses: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.applied {
		// A broker snapshot got here first and is at least as fresh.
		return nil
	}
	if err := w.mirror.ReplaceAll(ctx, expenses); err != nil {
		return fmt.Errorf("replace mirror on startup: %w", err)
	}

	w.logger.InfoContext(ctx, "Startup sync completed",
		log.FieldOperation, log.OpSync,
		log.FieldCount, len(expenses))
	return nil
}
