package handlers

import (
	"net/http"
	"time"

	"gen-studio/internal/gallery"
	"gen-studio/internal/mediatypes"
)

// GetGallery returns the unified gallery: every file on disk joined against
// whatever metadata survived store truncation.
//
// Query parameters:
//
//	filter=image|video|favorites (default: everything)
//	sort=newest|oldest|favorites (default: newest)
func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	imageFiles, err := h.library.List(mediatypes.KindImage)
	if err != nil {
		writeMappedError(w, err, "Failed to list images")
		return
	}
	videoFiles, err := h.library.List(mediatypes.KindVideo)
	if err != nil {
		writeMappedError(w, err, "Failed to list videos")
		return
	}

	imageRecords, err := h.imageStore.List()
	if err != nil {
		writeMappedError(w, err, "Failed to read image metadata")
		return
	}
	videoRecords, err := h.videoStore.List()
	if err != nil {
		writeMappedError(w, err, "Failed to read video metadata")
		return
	}

	now := time.Now().UTC()
	items := gallery.Merge(
		gallery.Reconcile(mediatypes.KindImage, imageFiles, imageRecords, now),
		gallery.Reconcile(mediatypes.KindVideo, videoFiles, videoRecords, now),
	)

	var kind mediatypes.MediaKind
	favoritesOnly := false
	switch r.URL.Query().Get("filter") {
	case "image":
		kind = mediatypes.KindImage
	case "video":
		kind = mediatypes.KindVideo
	case "favorites":
		favoritesOnly = true
	}
	items = gallery.Filter(items, kind, favoritesOnly)

	sortMode := mediatypes.SortMode(r.URL.Query().Get("sort"))
	gallery.Sort(items, sortMode)

	writeJSON(w, map[string]interface{}{
		"success": true,
		"items":   items,
		"total":   len(items),
	})
}
