package metricstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Status string `json:"status"`
	Tokens int    `json:"tokens"`
}

// TestStore_SaveAndList tests the write path and filename-derived
// timestamps on read-back.
func TestStore_SaveAndList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	second := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(record{Status: "resume_generated", Tokens: 100}, second))
	require.NoError(t, store.Save(record{Status: "initialized", Tokens: 0}, first))

	snapshots, err := store.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	// Chronological order regardless of write order.
	assert.Equal(t, first, snapshots[0].Timestamp)
	assert.Equal(t, second, snapshots[1].Timestamp)

	var decoded record
	require.NoError(t, json.Unmarshal(snapshots[1].Data, &decoded))
	assert.Equal(t, "resume_generated", decoded.Status)
	assert.Equal(t, 100, decoded.Tokens)
}

// TestStore_ListSkipsForeignFiles tests that unrelated files are ignored.
func TestStore_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generation_metrics_garbage.json"), []byte("{}"), 0o644))
	require.NoError(t, store.Save(record{}, time.Now()))

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

// TestStore_ListEmpty tests an empty directory.
func TestStore_ListEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

// TestStore_NullableFieldsRoundTrip tests that null fields survive the
// record format.
func TestStore_NullableFieldsRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	payload := map[string]any{
		"resume_generation_time":       1.5,
		"cover_letter_generation_time": nil,
		"model_name":                   nil,
		"status":                       "resume_generated",
	}
	require.NoError(t, store.Save(payload, time.Now()))

	snapshots, err := store.List()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(snapshots[0].Data, &decoded))
	assert.Nil(t, decoded["cover_letter_generation_time"])
	assert.Nil(t, decoded["model_name"])
	assert.Equal(t, 1.5, decoded["resume_generation_time"])
}
