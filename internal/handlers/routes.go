package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the application router. Kept with the handlers so tests
// exercise the same routing table the server runs.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Generation and job tracking
	api.HandleFunc("/generate", h.Generate).Methods("POST")
	api.HandleFunc("/jobs", h.ListJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", h.GetJob).Methods("GET")

	// Metadata stores
	api.HandleFunc("/image-data", h.GetImageData).Methods("GET")
	api.HandleFunc("/image-data", h.AddImageData).Methods("POST")
	api.HandleFunc("/image-data", h.ReplaceImageData).Methods("PUT")
	api.HandleFunc("/video-data", h.GetVideoData).Methods("GET")
	api.HandleFunc("/video-data", h.AddVideoData).Methods("POST")
	api.HandleFunc("/video-data", h.ReplaceVideoData).Methods("PUT")

	// Media library
	api.HandleFunc("/images", h.ListImages).Methods("GET")
	api.HandleFunc("/images", h.DeleteImage).Methods("DELETE")
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/videos", h.UploadVideo).Methods("POST")
	api.HandleFunc("/videos", h.DeleteVideo).Methods("DELETE")
	api.HandleFunc("/gallery", h.GetGallery).Methods("GET")
	api.HandleFunc("/thumbnail/{path:.*}", h.GetThumbnail).Methods("GET")

	// Engine input staging
	api.HandleFunc("/upload-image", h.UploadInputImage).Methods("POST")
	api.HandleFunc("/copy-image", h.CopyImage).Methods("POST")

	// Voice profiles
	api.HandleFunc("/voices", h.ListVoices).Methods("GET")
	api.HandleFunc("/voices", h.UpdateVoice).Methods("PUT")
	api.HandleFunc("/voices", h.DeleteVoice).Methods("DELETE")
	api.HandleFunc("/voices/upload", h.UploadVoice).Methods("POST")

	// Chat and speech
	api.HandleFunc("/chat", h.Chat).Methods("POST")
	api.HandleFunc("/models", h.ListModels).Methods("GET")
	api.HandleFunc("/tts", h.Synthesize).Methods("POST")

	// Generated media files
	r.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(h.config.MediaDir))))

	return r
}
