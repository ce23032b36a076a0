package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/metrics"

	"github.com/gofrs/flock"
)

// MaxRecords caps each media store at the 10 most recent entries.
const MaxRecords = 10

// MediaRecord describes one generated artifact and its provenance.
type MediaRecord struct {
	Filename       string    `json:"filename"`
	Subfolder      string    `json:"subfolder"`
	JobID          string    `json:"jobId"`
	LocalPath      string    `json:"localPath,omitempty"`
	LocalFilename  string    `json:"localFilename,omitempty"`
	Prompt         string    `json:"prompt,omitempty"`
	NegativePrompt string    `json:"negativePrompt,omitempty"`
	InputImage     string    `json:"inputImage,omitempty"`
	IsFavorite     bool      `json:"isFavorite"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MediaStore is a JSON-file-backed list of MediaRecords, newest first,
// truncated to MaxRecords on every append.
type MediaStore struct {
	name string // metric label: "images" or "videos"
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewMediaStore creates a store backed by the given JSON file.
// The file is created lazily on first write.
func NewMediaStore(name, path string) *MediaStore {
	return &MediaStore{
		name: name,
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// List returns all records, newest first. A missing backing file is the
// first-run case and yields an empty slice, never an error.
func (s *MediaStore) List() ([]MediaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Append prepends the record and truncates the list to MaxRecords.
func (s *MediaStore) Append(rec MediaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s store: %w", s.name, err)
	}
	defer s.unlock()

	records, err := s.read()
	if err != nil {
		metrics.StoreWritesTotal.WithLabelValues(s.name, "append", "error").Inc()
		return err
	}

	records = append([]MediaRecord{rec}, records...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	if err := s.write(records); err != nil {
		metrics.StoreWritesTotal.WithLabelValues(s.name, "append", "error").Inc()
		return err
	}

	metrics.StoreWritesTotal.WithLabelValues(s.name, "append", "success").Inc()
	metrics.StoreRecords.WithLabelValues(s.name).Set(float64(len(records)))
	return nil
}

// ReplaceAll overwrites the whole list, used for bulk edits such as
// clear-all and post-delete reconciliation. The cap still applies.
func (s *MediaStore) ReplaceAll(records []MediaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s store: %w", s.name, err)
	}
	defer s.unlock()

	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	if records == nil {
		records = []MediaRecord{}
	}

	if err := s.write(records); err != nil {
		metrics.StoreWritesTotal.WithLabelValues(s.name, "replace", "error").Inc()
		return err
	}

	metrics.StoreWritesTotal.WithLabelValues(s.name, "replace", "success").Inc()
	metrics.StoreRecords.WithLabelValues(s.name).Set(float64(len(records)))
	return nil
}

func (s *MediaStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		logging.Warn("failed to unlock %s store: %v", s.name, err)
	}
}

func (s *MediaStore) read() ([]MediaRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []MediaRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s store: %w", s.name, err)
	}

	var records []MediaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s store: %w", s.name, err)
	}
	return records, nil
}

// write serializes the list to a temp file and renames it into place so a
// crash mid-write never leaves a truncated store behind.
func (s *MediaStore) write(records []MediaRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s store: %w", s.name, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s store: %w", s.name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s store: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s store temp file: %w", s.name, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s store: %w", s.name, err)
	}
	return nil
}
