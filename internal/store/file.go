package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"alfredoptarigan/idea-evaluator/internal/models"
)

// FileStore keeps records in memory keyed by idea_id and flushes the full
// map to a JSON file on every upsert, writing a temp file in the same
// directory and renaming it over the target so readers never observe a
// partial file.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]models.OutputRecord
}

// NewFileStore opens (or creates) the store at path, loading any records a
// previous run left behind.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]models.OutputRecord),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read result store: %w", err)
	}

	var existing []models.OutputRecord
	if err := json.Unmarshal(data, &existing); err != nil {
		return nil, fmt.Errorf("failed to parse result store %s: %w", path, err)
	}
	for _, rec := range existing {
		s.records[rec.IdeaID] = rec
	}

	return s, nil
}

// Upsert implements ResultStore.
func (s *FileStore) Upsert(rec models.OutputRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.IdeaID] = rec
	return s.flushLocked()
}

// Get implements ResultStore.
func (s *FileStore) Get(ideaID string) (models.OutputRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ideaID]
	return rec, ok
}

// CompletedIDs implements ResultStore.
func (s *FileStore) CompletedIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool)
	for id, rec := range s.records {
		if rec.Status == models.IdeaCompleted {
			ids[id] = true
		}
	}
	return ids
}

// Records implements ResultStore.
func (s *FileStore) Records() []models.OutputRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderedLocked()
}

// Len implements ResultStore.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *FileStore) orderedLocked() []models.OutputRecord {
	out := make([]models.OutputRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].IdeaID < out[j].IdeaID
	})
	return out
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.orderedLocked(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write result store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync result store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace result store: %w", err)
	}

	return nil
}
