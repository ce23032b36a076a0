package gallery

import (
	"fmt"
	"sort"
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/store"
)

// Item is one gallery entry: a file on disk plus whatever metadata survived
// store truncation.
type Item struct {
	ID             string               `json:"id"`
	Type           mediatypes.MediaKind `json:"type"`
	URL            string               `json:"url"`
	Filename       string               `json:"filename"`
	Prompt         string               `json:"prompt"`
	NegativePrompt string               `json:"negativePrompt"`
	InputImage     string               `json:"inputImage,omitempty"`
	JobID          string               `json:"jobId"`
	IsFavorite     bool                 `json:"isFavorite"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// Reconcile joins the disk listing of one kind against its metadata records.
// A record matches a file when its local filename or its engine filename
// equals the file's name. Files with no match become orphans stamped with
// the given reconcile time.
func Reconcile(kind mediatypes.MediaKind, files []artifacts.Artifact, records []store.MediaRecord, now time.Time) []Item {
	byName := make(map[string]store.MediaRecord, len(records))
	for _, rec := range records {
		if rec.LocalFilename != "" {
			if _, taken := byName[rec.LocalFilename]; !taken {
				byName[rec.LocalFilename] = rec
			}
		}
		if rec.Filename != "" {
			if _, taken := byName[rec.Filename]; !taken {
				byName[rec.Filename] = rec
			}
		}
	}

	items := make([]Item, 0, len(files))
	for _, file := range files {
		item := Item{
			Type:      kind,
			URL:       file.URL,
			Filename:  file.Filename,
			CreatedAt: now,
		}
		if rec, ok := byName[file.Filename]; ok {
			item.Prompt = rec.Prompt
			item.NegativePrompt = rec.NegativePrompt
			item.InputImage = rec.InputImage
			item.JobID = rec.JobID
			item.IsFavorite = rec.IsFavorite
			item.CreatedAt = rec.CreatedAt
		}
		item.ID = itemID(kind, item.Filename, item.JobID)
		items = append(items, item)
	}
	return items
}

// Merge combines item lists from multiple kinds into one gallery.
func Merge(lists ...[]Item) []Item {
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	merged := make([]Item, 0, total)
	for _, list := range lists {
		merged = append(merged, list...)
	}
	return merged
}

// Filter returns the items matching the requested kind ("" keeps all) and,
// when favoritesOnly is set, only the favorites.
func Filter(items []Item, kind mediatypes.MediaKind, favoritesOnly bool) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if kind != "" && item.Type != kind {
			continue
		}
		if favoritesOnly && !item.IsFavorite {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Sort orders items in place by the given mode. Favorites mode puts
// favorites ahead of the rest, newest first within each group.
func Sort(items []Item, mode mediatypes.SortMode) {
	switch mode {
	case mediatypes.SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
	case mediatypes.SortFavorites:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].IsFavorite != items[j].IsFavorite {
				return items[i].IsFavorite
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}

func itemID(kind mediatypes.MediaKind, filename, jobID string) string {
	return fmt.Sprintf("%s-%s-%s", kind, filename, jobID)
}
