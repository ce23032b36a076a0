package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/metrics"
)

var (
	// ErrNotFound indicates the named artifact does not exist on disk.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidName indicates a filename that is empty or tries to escape
	// the library directory.
	ErrInvalidName = errors.New("invalid artifact name")
)

// Artifact describes one file in the library.
type Artifact struct {
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
}

// Library is the on-disk store of generated media files.
type Library struct {
	imagesDir string
	videosDir string
}

// NewLibrary creates a library over the given image and video directories.
// The directories must already exist.
func NewLibrary(imagesDir, videosDir string) *Library {
	return &Library{imagesDir: imagesDir, videosDir: videosDir}
}

// LocalName builds the collision-free local filename for a downloaded output.
func LocalName(originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "output"
	}
	return fmt.Sprintf("generated_%d_%s", time.Now().UnixMilli(), base)
}

// SaveGenerated writes a downloaded engine output to the library and returns
// the local filename and absolute path it was stored under.
func (l *Library) SaveGenerated(kind mediatypes.MediaKind, originalName string, data []byte) (string, string, error) {
	dir, err := l.dirFor(kind)
	if err != nil {
		return "", "", err
	}

	localName := LocalName(originalName)
	path := filepath.Join(dir, localName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		metrics.StoreWritesTotal.WithLabelValues(string(kind), "save", "error").Inc()
		return "", "", fmt.Errorf("failed to save %s artifact: %w", kind, err)
	}

	metrics.StoreWritesTotal.WithLabelValues(string(kind), "save", "success").Inc()
	logging.Debug("saved %s artifact %s (%d bytes)", kind, localName, len(data))
	return localName, path, nil
}

// List returns the artifacts of one kind, newest first.
func (l *Library) List(kind mediatypes.MediaKind) ([]Artifact, error) {
	dir, err := l.dirFor(kind)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Artifact{}, nil
		}
		return nil, fmt.Errorf("failed to list %s artifacts: %w", kind, err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileKind, ok := mediatypes.KindForFilename(entry.Name())
		if !ok || fileKind != kind {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Filename: entry.Name(),
			URL:      l.URLFor(kind, entry.Name()),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ModTime.After(artifacts[j].ModTime)
	})
	return artifacts, nil
}

// Read returns the raw bytes of one artifact.
func (l *Library) Read(kind mediatypes.MediaKind, filename string) ([]byte, error) {
	path, err := l.Path(kind, filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", filename, err)
	}
	return data, nil
}

// Delete removes one artifact from the library.
func (l *Library) Delete(kind mediatypes.MediaKind, filename string) error {
	path, err := l.Path(kind, filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		metrics.StoreWritesTotal.WithLabelValues(string(kind), "delete", "error").Inc()
		return fmt.Errorf("failed to delete artifact %s: %w", filename, err)
	}

	metrics.StoreWritesTotal.WithLabelValues(string(kind), "delete", "success").Inc()
	return nil
}

// ClearAll removes every artifact of one kind and reports how many went.
func (l *Library) ClearAll(kind mediatypes.MediaKind) (int, error) {
	items, err := l.List(kind)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, item := range items {
		if err := l.Delete(kind, item.Filename); err != nil {
			logging.Warn("failed to remove %s during clear: %v", item.Filename, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Path resolves an artifact filename to its absolute path after validating
// that it cannot escape the library directory.
func (l *Library) Path(kind mediatypes.MediaKind, filename string) (string, error) {
	dir, err := l.dirFor(kind)
	if err != nil {
		return "", err
	}
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	return filepath.Join(dir, filename), nil
}

// URLFor maps an artifact to the URL path the web app serves it under.
func (l *Library) URLFor(kind mediatypes.MediaKind, filename string) string {
	if kind == mediatypes.KindVideo {
		return "/media/videos/" + filename
	}
	return "/media/images/" + filename
}

// Exists reports whether an artifact file is present on disk.
func (l *Library) Exists(kind mediatypes.MediaKind, filename string) bool {
	path, err := l.Path(kind, filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (l *Library) dirFor(kind mediatypes.MediaKind) (string, error) {
	switch kind {
	case mediatypes.KindImage:
		return l.imagesDir, nil
	case mediatypes.KindVideo:
		return l.videosDir, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", kind)
	}
}
