package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/vilaca/issue-archive/internal/domain"
)

// Snapshot is the on-disk issue data file.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Issues      []domain.Issue `json:"issues"`
}

// SnapshotFile reads and writes the issues.json data file.
// Follows Single Responsibility Principle - only handles the file format.
type SnapshotFile struct {
	filePath string
	mu       sync.RWMutex
	logger   Logger
	now      func() time.Time
}

// NewSnapshotFile creates a new snapshot file.
func NewSnapshotFile(filePath string, logger Logger) *SnapshotFile {
	return &SnapshotFile{
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
	}
}

// Path returns the data file path.
func (f *SnapshotFile) Path() string {
	return f.filePath
}

// Load reads the data file, either the Snapshot object or a bare array of
// issues. Comments and trailing commas are tolerated.
// Returns nil if the file doesn't exist.
func (f *SnapshotFile) Load() (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debugf("Snapshot: no data file at %s", f.filePath)
			return nil, nil
		}
		return nil, err
	}

	data = bytes.TrimSpace(jsonc.ToJSON(data))
	var snapshot Snapshot
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &snapshot.Issues); err != nil {
			return nil, err
		}
		snapshot.Count = len(snapshot.Issues)
	} else if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	f.logger.Debugf("Snapshot: loaded %d issues from %s", len(snapshot.Issues), f.filePath)
	return &snapshot, nil
}

// ListIssues returns the issues of the data file, empty when it is missing.
func (f *SnapshotFile) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	snapshot, err := f.Load()
	if err != nil || snapshot == nil {
		return nil, err
	}
	return snapshot.Issues, nil
}

// Save writes the issues atomically.
func (f *SnapshotFile) Save(issues []domain.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if issues == nil {
		issues = []domain.Issue{}
	}
	snapshot := Snapshot{
		GeneratedAt: f.now().UTC(),
		Count:       len(issues),
		Issues:      issues,
	}

	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write to temporary file first (atomic write)
	tempFile := f.filePath + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return err
	}

	if err := os.Rename(tempFile, f.filePath); err != nil {
		os.Remove(tempFile)
		return err
	}

	f.logger.Debugf("Snapshot: saved %d issues to %s", len(issues), f.filePath)
	return nil
}
