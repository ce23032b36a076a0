package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
)

// GetThumbnail serves a cached JPEG thumbnail for one media file. The path
// variable is relative to the media directory, e.g. images/generated_1_x.png.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]

	if filePath == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.config.MediaDir, filePath)

	// Security check
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}
	absMediaDir, _ := filepath.Abs(h.config.MediaDir)
	if !strings.HasPrefix(absPath, absMediaDir+string(filepath.Separator)) {
		logging.Warn("thumbnail path outside media dir: %s", filePath)
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "File not found", http.StatusNotFound)
		} else {
			logging.Error("thumbnail stat failed for %s: %v", fullPath, err)
			writeJSONError(w, "Failed to access file", http.StatusInternalServerError)
		}
		return
	}
	if fileInfo.IsDir() {
		writeJSONError(w, "Cannot generate thumbnail for directory", http.StatusBadRequest)
		return
	}

	if !h.thumbGen.IsEnabled() {
		writeJSONError(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	kind, ok := mediatypes.KindForFilename(fullPath)
	if !ok {
		writeJSONError(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	thumb, err := h.thumbGen.GetThumbnail(fullPath, kind)
	if err != nil {
		logging.Error("thumbnail generation failed for %s: %v", filePath, err)
		writeJSONError(w, fmt.Sprintf("Failed to generate thumbnail: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(thumb); err != nil {
		logging.Error("failed to write thumbnail response: %v", err)
	}
}
