package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/idea-evaluator/internal/models"
)

func record(id string, status models.IdeaStatus) models.OutputRecord {
	return models.OutputRecord{IdeaID: id, Title: "t-" + id, Status: status}
}

func TestFileStoreUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(record("IDEA-2", models.IdeaCompleted)))
	require.NoError(t, s.Upsert(record("IDEA-1", models.IdeaFailed)))

	// Upsert with the same key replaces, never duplicates.
	require.NoError(t, s.Upsert(record("IDEA-1", models.IdeaCompleted)))
	assert.Equal(t, 2, s.Len())

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "IDEA-1", records[0].IdeaID)
	assert.Equal(t, "IDEA-2", records[1].IdeaID)
	assert.Equal(t, models.IdeaCompleted, records[0].Status)
}

func TestFileStoreFlushIsValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(record("IDEA-1", models.IdeaCompleted)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk []models.OutputRecord
	require.NoError(t, json.Unmarshal(data, &onDisk))
	require.Len(t, onDisk, 1)
	assert.Equal(t, "IDEA-1", onDisk[0].IdeaID)
}

func TestFileStoreResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Upsert(record("IDEA-1", models.IdeaCompleted)))
	require.NoError(t, first.Upsert(record("IDEA-2", models.IdeaFailed)))

	// A new store over the same path sees the previous run's records.
	second, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Len())

	completed := second.CompletedIDs()
	assert.True(t, completed["IDEA-1"])
	assert.False(t, completed["IDEA-2"])
}

func TestFileStoreMissingFile(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nope", "results.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}
