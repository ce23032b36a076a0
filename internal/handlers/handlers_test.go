package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/engine"
	"gen-studio/internal/journal"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/poller"
	"gen-studio/internal/runtime"
	"gen-studio/internal/startup"
	"gen-studio/internal/store"
	"gen-studio/internal/tts"
)

// fakeEngine is an httptest server speaking just enough of the engine
// protocol for the handlers under test.
func fakeEngine(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/prompt", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"prompt_id": "job-test-1", "number": 1})
	})
	mux.HandleFunc("/history/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	mux.HandleFunc("/upload/image", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "input_image (1).jpg"})
	})
	mux.HandleFunc("/view", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filename") == "on_engine.png" {
			w.Write([]byte("engine-bytes"))
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/system_stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"system": map[string]string{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func imageTemplate() engine.Graph {
	return engine.Graph{
		"3":  {"inputs": map[string]interface{}{"seed": float64(1)}},
		"6":  {"inputs": map[string]interface{}{"text": ""}},
		"38": {"inputs": map[string]interface{}{"text": ""}},
		"9":  {"inputs": map[string]interface{}{"filename_prefix": ""}},
	}
}

func videoTemplate() engine.Graph {
	return engine.Graph{
		"3":  {"inputs": map[string]interface{}{"text": ""}},
		"4":  {"inputs": map[string]interface{}{"text": ""}},
		"13": {"inputs": map[string]interface{}{"image": ""}},
	}
}

func newTestHandlers(t *testing.T, engineURL string) *Handlers {
	t.Helper()

	mediaDir := t.TempDir()
	dataDir := t.TempDir()
	cacheDir := t.TempDir()

	config := &startup.Config{
		EngineURL:     engineURL,
		MediaDir:      mediaDir,
		DataDir:       dataDir,
		CacheDir:      cacheDir,
		ImagesDir:     filepath.Join(mediaDir, "images"),
		VideosDir:     filepath.Join(mediaDir, "videos"),
		VoicesDir:     filepath.Join(mediaDir, "voices"),
		ImageDataPath: filepath.Join(dataDir, "image-data.json"),
		VideoDataPath: filepath.Join(dataDir, "video-data.json"),
		JournalPath:   filepath.Join(dataDir, "journal.db"),
		ThumbnailDir:  filepath.Join(cacheDir, "thumbnails"),
	}
	for _, dir := range []string{config.ImagesDir, config.VideosDir, config.VoicesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	eng := engine.New(engineURL, 5*time.Second)
	lib := artifacts.NewLibrary(config.ImagesDir, config.VideosDir)
	imageStore := store.NewMediaStore("images", config.ImageDataPath)
	videoStore := store.NewMediaStore("videos", config.VideoDataPath)
	voices := store.NewVoiceRegistry(config.VoicesDir, mediaDir)

	jrnl, err := journal.New(context.Background(), config.JournalPath)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { jrnl.Close() })

	mgr := poller.NewManager(poller.Config{
		Engine:      eng,
		Library:     lib,
		ImageStore:  imageStore,
		VideoStore:  videoStore,
		Journal:     jrnl,
		Interval:    5 * time.Millisecond,
		MaxAttempts: 3,
	})
	t.Cleanup(mgr.Stop)

	return New(Deps{
		Engine:        eng,
		Runtime:       runtime.New("http://127.0.0.1:1"),
		Poller:        mgr,
		Journal:       jrnl,
		Library:       lib,
		ImageStore:    imageStore,
		VideoStore:    videoStore,
		Voices:        voices,
		Synth:         tts.NewRunner("/nonexistent.py", "python3", voices),
		Config:        config,
		ImageTemplate: imageTemplate(),
		VideoTemplate: videoTemplate(),
	})
}

func doJSON(t *testing.T, h *Handlers, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGetImageDataEmpty(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodGet, "/api/image-data", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("success = false")
	}
	images, ok := body["images"].([]interface{})
	if !ok || len(images) != 0 {
		t.Errorf("images = %v, want empty list", body["images"])
	}
}

func TestAddImageDataPrependsAndCaps(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	for i := 0; i < store.MaxRecords+2; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/image-data", store.MediaRecord{
			Filename: "generated_00001_.png",
			JobID:    "job-" + string(rune('a'+i)),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("post %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/image-data", nil)
	body := decodeBody(t, rec)
	images := body["images"].([]interface{})
	if len(images) != store.MaxRecords {
		t.Errorf("got %d records, want %d", len(images), store.MaxRecords)
	}

	newest := images[0].(map[string]interface{})
	if newest["jobId"] != "job-"+string(rune('a'+store.MaxRecords+1)) {
		t.Errorf("newest record jobId = %v, want the last posted", newest["jobId"])
	}
}

func TestAddImageDataRequiresFilename(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/image-data", store.MediaRecord{JobID: "job-1"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReplaceVideoData(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	records := []store.MediaRecord{
		{Filename: "vid_00001_.mp4", JobID: "job-1", CreatedAt: time.Now()},
		{Filename: "vid_00002_.mp4", JobID: "job-2", CreatedAt: time.Now()},
	}
	rec := doJSON(t, h, http.MethodPut, "/api/video-data", records)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	videos := body["videos"].([]interface{})
	if len(videos) != 2 {
		t.Errorf("got %d records, want 2", len(videos))
	}
}

func TestGenerateImage(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/generate", GenerateRequest{
		Kind:   "image",
		Prompt: "a fox in the snow",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["jobId"] != "job-test-1" {
		t.Errorf("jobId = %v, want job-test-1", body["jobId"])
	}

	if _, ok := h.poller.Job("job-test-1"); !ok {
		t.Error("job not tracked after submission")
	}
}

func TestGenerateValidation(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{"missing prompt", GenerateRequest{Kind: "image"}},
		{"bad kind", GenerateRequest{Kind: "music", Prompt: "x"}},
		{"video without input image", GenerateRequest{Kind: "video", Prompt: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/generate", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGenerateEngineDown(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1")

	rec := doJSON(t, h, http.MethodPost, "/api/generate", GenerateRequest{
		Kind:   "image",
		Prompt: "a fox",
	})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestListAndDeleteImages(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	localName, _, err := h.library.SaveGenerated(mediatypes.KindImage, "fox.png", []byte("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/images", nil)
	body := decodeBody(t, rec)
	images := body["images"].([]interface{})
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	first := images[0].(map[string]interface{})
	if first["filename"] != localName {
		t.Errorf("filename = %v, want %s", first["filename"], localName)
	}
	if first["url"] != "/media/images/"+localName {
		t.Errorf("url = %v", first["url"])
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/images?filename="+localName, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/images?filename="+localName, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteImagesRequiresFilename(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodDelete, "/api/images", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClearAllVideos(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	for _, name := range []string{"a.mp4", "b.mp4"} {
		if _, _, err := h.library.SaveGenerated(mediatypes.KindVideo, name, []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, h, http.MethodDelete, "/api/videos?clearAll=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["removed"] != float64(2) {
		t.Errorf("removed = %v, want 2", body["removed"])
	}

	rec = doJSON(t, h, http.MethodGet, "/api/videos", nil)
	body = decodeBody(t, rec)
	if videos := body["videos"].([]interface{}); len(videos) != 0 {
		t.Errorf("got %d videos after clear, want 0", len(videos))
	}
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadVideo(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	buf, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("mp4-bytes"), map[string]string{
		"filename": "clip.mp4",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("success = false")
	}
	if !h.library.Exists(mediatypes.KindVideo, body["filename"].(string)) {
		t.Error("uploaded video not in library")
	}
}

func TestUploadInputImage(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	buf, contentType := multipartBody(t, "image", "photo.jpg", "image/jpeg", []byte("jpeg-bytes"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["uploadedFilename"] != "input_image (1).jpg" {
		t.Errorf("uploadedFilename = %v, want the engine-assigned name", body["uploadedFilename"])
	}
}

func TestCopyImageLocalFile(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	localName, _, err := h.library.SaveGenerated(mediatypes.KindImage, "fox.png", []byte("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/copy-image", CopyImageRequest{Filename: localName})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["uploadedFilename"] != "input_image (1).jpg" {
		t.Errorf("uploadedFilename = %v", body["uploadedFilename"])
	}
}

func TestCopyImageEngineFallback(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	// Not in the local library, but the fake engine serves it from /view
	rec := doJSON(t, h, http.MethodPost, "/api/copy-image", CopyImageRequest{Filename: "on_engine.png"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestCopyImageNowhere(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/copy-image", CopyImageRequest{Filename: "gone.png"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGallery(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	localName, _, err := h.library.SaveGenerated(mediatypes.KindImage, "fox.png", []byte("png"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := h.library.SaveGenerated(mediatypes.KindVideo, "clip.mp4", []byte("mp4")); err != nil {
		t.Fatal(err)
	}
	if err := h.imageStore.Append(store.MediaRecord{
		Filename:      "fox.png",
		LocalFilename: localName,
		JobID:         "job-1",
		Prompt:        "a fox",
		IsFavorite:    true,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/gallery", nil)
	body := decodeBody(t, rec)
	if body["total"] != float64(2) {
		t.Fatalf("total = %v, want 2", body["total"])
	}

	rec = doJSON(t, h, http.MethodGet, "/api/gallery?filter=favorites", nil)
	body = decodeBody(t, rec)
	items := body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("favorites filter returned %d items, want 1", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["prompt"] != "a fox" {
		t.Errorf("prompt = %v, metadata not joined", item["prompt"])
	}

	rec = doJSON(t, h, http.MethodGet, "/api/gallery?filter=video", nil)
	body = decodeBody(t, rec)
	if items := body["items"].([]interface{}); len(items) != 1 {
		t.Errorf("video filter returned %d items, want 1", len(items))
	}
}

func TestVoicesLifecycle(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	// Seeded default is always present
	rec := doJSON(t, h, http.MethodGet, "/api/voices", nil)
	body := decodeBody(t, rec)
	voices := body["voices"].([]interface{})
	if len(voices) != 1 {
		t.Fatalf("got %d voices, want seeded default", len(voices))
	}

	buf, contentType := multipartBody(t, "audio", "sample.wav", "audio/wav", []byte("RIFF"), map[string]string{
		"name":        "Narrator",
		"description": "Deep voice",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/voices/upload", buf)
	req.Header.Set("Content-Type", contentType)
	upload := httptest.NewRecorder()
	h.Router().ServeHTTP(upload, req)
	if upload.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201: %s", upload.Code, upload.Body.String())
	}
	uploaded := decodeBody(t, upload)["voice"].(map[string]interface{})
	id := uploaded["id"].(string)

	newName := "Narrator v2"
	rec = doJSON(t, h, http.MethodPut, "/api/voices", UpdateVoiceRequest{ID: id, Name: &newName})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", rec.Code)
	}
	if decodeBody(t, rec)["voice"].(map[string]interface{})["name"] != newName {
		t.Error("name not updated")
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/voices?id="+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/voices?id="+store.DefaultVoiceID, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("default delete status = %d, want 409", rec.Code)
	}
}

func TestVoiceUploadRejectsBadType(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	buf, contentType := multipartBody(t, "audio", "sample.exe", "application/octet-stream", []byte("MZ"), map[string]string{
		"name": "Bad",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/voices/upload", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatFallsBackWhenRuntimeDown(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/chat", ChatRequest{Message: "hello there"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["fallback"] != true {
		t.Error("expected fallback reply with runtime down")
	}
	if body["response"] == "" {
		t.Error("empty response")
	}
}

func TestChatRequiresMessage(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/chat", ChatRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListModelsFallback(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodGet, "/api/models", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("success should be false with runtime down")
	}
	if models := body["models"].([]interface{}); len(models) == 0 {
		t.Error("fallback model list is empty")
	}
}

func TestSynthesizeDisabled(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodPost, "/api/tts", TTSRequest{Text: "hello"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestGetJobNotFound(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodGet, "/api/jobs/no-such-job", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListJobs(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	doJSON(t, h, http.MethodPost, "/api/generate", GenerateRequest{Kind: "image", Prompt: "a fox"})

	rec := doJSON(t, h, http.MethodGet, "/api/jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if jobs := body["jobs"].([]interface{}); len(jobs) != 1 {
		t.Errorf("got %d jobs, want 1", len(jobs))
	}
}

func TestVersion(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodGet, "/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["version"] == "" {
		t.Error("missing version")
	}
}

func TestHealthDegradedWhenEngineDown(t *testing.T) {
	h := newTestHandlers(t, "http://127.0.0.1:1")

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != statusDegraded {
		t.Errorf("status = %v, want %s", body["status"], statusDegraded)
	}
	if body["engineReachable"] != false {
		t.Error("engineReachable should be false")
	}
}

func TestHealthHealthy(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	body := decodeBody(t, rec)
	if body["status"] != statusHealthy {
		t.Errorf("status = %v, want %s", body["status"], statusHealthy)
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	for _, path := range []string{"/livez", "/readyz"} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMediaFileServer(t *testing.T) {
	h := newTestHandlers(t, fakeEngine(t).URL)

	localName, _, err := h.library.SaveGenerated(mediatypes.KindImage, "fox.png", []byte("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, http.MethodGet, "/media/images/"+localName, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
