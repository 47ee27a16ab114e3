// Package metricstore persists per-run generation metrics as
// timestamped JSON records for historical analysis.
package metricstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Filename layout: generation_metrics_<timestamp>.json.
const (
	filePrefix      = "generation_metrics_"
	fileSuffix      = ".json"
	timestampLayout = "20060102_150405"
)

// Store writes and reads metrics records under a single directory.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a store bound
// to it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metrics directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes one record timestamped with now. The record is any
// JSON-serializable value; the pipeline passes its Metrics struct.
func (s *Store) Save(record any, now time.Time) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	name := filePrefix + now.UTC().Format(timestampLayout) + fileSuffix
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// Snapshot is one historical record with its timestamp recovered from
// the filename.
type Snapshot struct {
	Timestamp time.Time
	Data      json.RawMessage
}

// List returns all records in chronological order. Files that don't
// follow the naming scheme are skipped.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read metrics directory: %w", err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseTimestamp(entry.Name())
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read metrics file %s: %w", entry.Name(), err)
		}

		snapshots = append(snapshots, Snapshot{Timestamp: ts, Data: data})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// parseTimestamp recovers the record time from a filename.
func parseTimestamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	ts, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
