package gallery

import (
	"testing"
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/store"
)

var reconcileTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func imageFile(name string) artifacts.Artifact {
	return artifacts.Artifact{Filename: name, URL: "/media/images/" + name}
}

func TestReconcileMatchesByLocalFilename(t *testing.T) {
	files := []artifacts.Artifact{imageFile("generated_1700000000000_fox.png")}
	records := []store.MediaRecord{
		{
			Filename:       "fox.png",
			LocalFilename:  "generated_1700000000000_fox.png",
			JobID:          "job-1",
			Prompt:         "a red fox",
			NegativePrompt: "blurry",
			IsFavorite:     true,
			CreatedAt:      time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC),
		},
	}

	items := Reconcile(mediatypes.KindImage, files, records, reconcileTime)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Prompt != "a red fox" || item.JobID != "job-1" || !item.IsFavorite {
		t.Errorf("metadata not joined: %+v", item)
	}
	if !item.CreatedAt.Equal(records[0].CreatedAt) {
		t.Errorf("CreatedAt = %s, want record timestamp", item.CreatedAt)
	}
	if item.ID != "image-generated_1700000000000_fox.png-job-1" {
		t.Errorf("unexpected id: %s", item.ID)
	}
}

func TestReconcileMatchesByEngineFilename(t *testing.T) {
	// Video fallback records carry only the engine-side filename
	files := []artifacts.Artifact{{Filename: "vid_1700000000.mp4", URL: "/media/videos/vid_1700000000.mp4"}}
	records := []store.MediaRecord{
		{Filename: "vid_1700000000.mp4", JobID: "job-9", Prompt: "waves", CreatedAt: reconcileTime.Add(-time.Hour)},
	}

	items := Reconcile(mediatypes.KindVideo, files, records, reconcileTime)
	if len(items) != 1 || items[0].Prompt != "waves" {
		t.Fatalf("engine filename match failed: %+v", items)
	}
}

func TestReconcileOrphans(t *testing.T) {
	files := []artifacts.Artifact{imageFile("generated_1_old.png")}

	items := Reconcile(mediatypes.KindImage, files, nil, reconcileTime)
	if len(items) != 1 {
		t.Fatalf("expected 1 orphan, got %d", len(items))
	}

	orphan := items[0]
	if orphan.Prompt != "" || orphan.JobID != "" || orphan.IsFavorite {
		t.Errorf("orphan carries metadata: %+v", orphan)
	}
	if !orphan.CreatedAt.Equal(reconcileTime) {
		t.Errorf("orphan CreatedAt = %s, want reconcile time", orphan.CreatedAt)
	}
}

func TestReconcileIgnoresRecordsWithoutFiles(t *testing.T) {
	records := []store.MediaRecord{
		{Filename: "gone.png", LocalFilename: "generated_2_gone.png", JobID: "job-2", CreatedAt: reconcileTime},
	}

	items := Reconcile(mediatypes.KindImage, nil, records, reconcileTime)
	if len(items) != 0 {
		t.Errorf("records without files must not produce items: %+v", items)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	files := []artifacts.Artifact{imageFile("generated_3_a.png"), imageFile("generated_4_b.png")}
	records := []store.MediaRecord{
		{LocalFilename: "generated_3_a.png", JobID: "job-3", Prompt: "p", CreatedAt: reconcileTime},
	}

	first := Reconcile(mediatypes.KindImage, files, records, reconcileTime)
	second := Reconcile(mediatypes.KindImage, files, records, reconcileTime)

	if len(first) != len(second) {
		t.Fatalf("length changed across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("item %d changed across runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestMergeAndFilter(t *testing.T) {
	images := []Item{
		{ID: "i1", Type: mediatypes.KindImage, IsFavorite: true},
		{ID: "i2", Type: mediatypes.KindImage},
	}
	videos := []Item{
		{ID: "v1", Type: mediatypes.KindVideo},
	}

	merged := Merge(images, videos)
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged items, got %d", len(merged))
	}

	onlyVideos := Filter(merged, mediatypes.KindVideo, false)
	if len(onlyVideos) != 1 || onlyVideos[0].ID != "v1" {
		t.Errorf("kind filter failed: %+v", onlyVideos)
	}

	favorites := Filter(merged, "", true)
	if len(favorites) != 1 || favorites[0].ID != "i1" {
		t.Errorf("favorites filter failed: %+v", favorites)
	}
}

func TestSort(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	items := func() []Item {
		return []Item{
			{ID: "old", CreatedAt: base},
			{ID: "favorite", IsFavorite: true, CreatedAt: base.Add(time.Hour)},
			{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		}
	}

	newest := items()
	Sort(newest, mediatypes.SortNewest)
	if newest[0].ID != "newest" || newest[2].ID != "old" {
		t.Errorf("newest order wrong: %s, %s, %s", newest[0].ID, newest[1].ID, newest[2].ID)
	}

	oldest := items()
	Sort(oldest, mediatypes.SortOldest)
	if oldest[0].ID != "old" || oldest[2].ID != "newest" {
		t.Errorf("oldest order wrong: %s, %s, %s", oldest[0].ID, oldest[1].ID, oldest[2].ID)
	}

	favorites := items()
	Sort(favorites, mediatypes.SortFavorites)
	if favorites[0].ID != "favorite" {
		t.Errorf("favorites must lead: %s", favorites[0].ID)
	}
	if favorites[1].ID != "newest" || favorites[2].ID != "old" {
		t.Errorf("non-favorites must follow newest first: %s, %s", favorites[1].ID, favorites[2].ID)
	}
}
