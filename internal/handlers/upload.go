package handlers

import (
	"errors"
	"io"
	"net/http"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
)

// stagedInputName is the filename uploads are staged under on the engine.
// The engine may rename on collision; callers must use the returned name.
const stagedInputName = "input_image.jpg"

// UploadInputImage stages a browser-provided image on the engine ahead of a
// video job.
func (h *Handlers) UploadInputImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeJSONError(w, "Failed to read image upload", http.StatusBadRequest)
		return
	}

	uploaded, err := h.engine.UploadImage(r.Context(), data, stagedInputName)
	if err != nil {
		writeMappedError(w, err, "Failed to upload image")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"uploadedFilename": uploaded,
	})
}

// CopyImageRequest is the body of POST /api/copy-image.
type CopyImageRequest struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
}

// CopyImage re-stages a previously generated image as a video job input.
// The local library copy is preferred; when it is gone (cap eviction, manual
// cleanup) the engine's own output tree is the fallback source.
func (h *Handlers) CopyImage(w http.ResponseWriter, r *http.Request) {
	var req CopyImageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		writeJSONError(w, "Filename is required", http.StatusBadRequest)
		return
	}

	data, err := h.library.Read(mediatypes.KindImage, req.Filename)
	if err != nil {
		if !errors.Is(err, artifacts.ErrNotFound) && !errors.Is(err, artifacts.ErrInvalidName) {
			writeMappedError(w, err, "Failed to read image")
			return
		}

		subfolder := req.Subfolder
		if subfolder == "" {
			subfolder = "image_maker_app"
		}
		logging.Debug("local copy of %s missing, fetching %s/%s from engine", req.Filename, subfolder, req.Filename)

		data, err = h.engine.FetchOutput(r.Context(), req.Filename, subfolder)
		if err != nil {
			writeMappedError(w, err, "Could not read image from library or engine")
			return
		}
	}

	uploaded, err := h.engine.UploadImage(r.Context(), data, stagedInputName)
	if err != nil {
		writeMappedError(w, err, "Failed to upload image")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"uploadedFilename": uploaded,
	})
}
