package handlers

import (
	"fmt"
	"io"
	"net/http"

	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
)

// maxUploadSize caps multipart uploads (100MB, videos included).
const maxUploadSize = 100 << 20

// ListImages returns the image files on disk, newest first.
func (h *Handlers) ListImages(w http.ResponseWriter, _ *http.Request) {
	h.listArtifacts(w, mediatypes.KindImage, "images")
}

// ListVideos returns the video files on disk, newest first.
func (h *Handlers) ListVideos(w http.ResponseWriter, _ *http.Request) {
	h.listArtifacts(w, mediatypes.KindVideo, "videos")
}

func (h *Handlers) listArtifacts(w http.ResponseWriter, kind mediatypes.MediaKind, key string) {
	items, err := h.library.List(kind)
	if err != nil {
		writeMappedError(w, err, fmt.Sprintf("Failed to list %s", key))
		return
	}
	writeJSON(w, map[string]interface{}{
		"success": true,
		key:       items,
	})
}

// DeleteImage deletes one image, or all of them with ?clearAll=true.
func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	h.deleteArtifact(w, r, mediatypes.KindImage)
}

// DeleteVideo deletes one video, or all of them with ?clearAll=true.
func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	h.deleteArtifact(w, r, mediatypes.KindVideo)
}

func (h *Handlers) deleteArtifact(w http.ResponseWriter, r *http.Request, kind mediatypes.MediaKind) {
	query := r.URL.Query()

	if query.Get("clearAll") == "true" {
		removed, err := h.library.ClearAll(kind)
		if err != nil {
			writeMappedError(w, err, "Failed to clear library")
			return
		}
		logging.Info("cleared %d %s artifacts", removed, kind)
		writeJSON(w, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("All %ss cleared", kind),
			"removed": removed,
		})
		return
	}

	filename := query.Get("filename")
	if filename == "" {
		writeJSONError(w, "Filename is required for deletion", http.StatusBadRequest)
		return
	}

	if err := h.library.Delete(kind, filename); err != nil {
		writeMappedError(w, err, "Failed to delete artifact")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s deleted successfully", kind),
	})
}

// UploadVideo saves a client-provided video into the library. Used by the
// web app when it receives a clip through a side channel.
func (h *Handlers) UploadVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("video")
	if err != nil {
		writeJSONError(w, "No video file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeJSONError(w, "Failed to read video upload", http.StatusBadRequest)
		return
	}

	filename := r.FormValue("filename")
	if filename == "" {
		filename = "video.mp4"
	}

	localName, _, err := h.library.SaveGenerated(mediatypes.KindVideo, filename, data)
	if err != nil {
		writeMappedError(w, err, "Failed to save video")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"filename": localName,
		"url":      h.library.URLFor(mediatypes.KindVideo, localName),
	})
}
