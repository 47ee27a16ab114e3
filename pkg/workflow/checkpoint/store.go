// Package checkpoint provides durable run-state snapshots for crash
// recovery and post-hoc inspection.
package checkpoint

import (
	"errors"
	"time"
)

// Store persists checkpoints keyed by (run ID, node ID).
// Implementations must be safe for concurrent use by distinct runs.
type Store interface {
	// Save stores a checkpoint, overwriting any existing record for the
	// same (runID, nodeID) pair.
	Save(runID, nodeID string, data []byte) error

	// Load retrieves a checkpoint. Returns ErrNotFound if absent.
	Load(runID, nodeID string) ([]byte, error)

	// List returns metadata for all of a run's checkpoints, ordered by
	// sequence. Returns an empty slice, not an error, for unknown runs.
	List(runID string) ([]Info, error)

	// Delete removes one checkpoint. Nil if it doesn't exist.
	Delete(runID, nodeID string) error

	// DeleteRun removes all checkpoints for a run. Nil if none exist.
	DeleteRun(runID string) error

	// Close releases underlying resources.
	Close() error
}

// Info is checkpoint metadata, available without loading full state.
type Info struct {
	RunID     string
	NodeID    string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates a checkpoint doesn't exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")
)
