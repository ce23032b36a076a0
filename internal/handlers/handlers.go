package handlers

import (
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/engine"
	"gen-studio/internal/journal"
	"gen-studio/internal/media"
	"gen-studio/internal/poller"
	"gen-studio/internal/runtime"
	"gen-studio/internal/startup"
	"gen-studio/internal/store"
	"gen-studio/internal/tts"
)

type Handlers struct {
	engine     *engine.Client
	runtime    *runtime.Client
	poller     *poller.Manager
	journal    *journal.Journal
	library    *artifacts.Library
	imageStore *store.MediaStore
	videoStore *store.MediaStore
	voices     *store.VoiceRegistry
	synth      *tts.Runner
	thumbGen   *media.ThumbnailGenerator
	config     *startup.Config
	startedAt  time.Time

	imageTemplate engine.Graph
	videoTemplate engine.Graph
}

// Deps carries everything the handlers need. Workflow templates may be nil
// when the workflow directory is not mounted; generation then fails with a
// clear error instead of at startup.
type Deps struct {
	Engine        *engine.Client
	Runtime       *runtime.Client
	Poller        *poller.Manager
	Journal       *journal.Journal
	Library       *artifacts.Library
	ImageStore    *store.MediaStore
	VideoStore    *store.MediaStore
	Voices        *store.VoiceRegistry
	Synth         *tts.Runner
	Config        *startup.Config
	ImageTemplate engine.Graph
	VideoTemplate engine.Graph
}

func New(deps Deps) *Handlers {
	return &Handlers{
		engine:        deps.Engine,
		runtime:       deps.Runtime,
		poller:        deps.Poller,
		journal:       deps.Journal,
		library:       deps.Library,
		imageStore:    deps.ImageStore,
		videoStore:    deps.VideoStore,
		voices:        deps.Voices,
		synth:         deps.Synth,
		thumbGen:      media.NewThumbnailGenerator(deps.Config.ThumbnailDir, deps.Config.ThumbnailsEnabled),
		config:        deps.Config,
		startedAt:     time.Now(),
		imageTemplate: deps.ImageTemplate,
		videoTemplate: deps.VideoTemplate,
	}
}

// storeFor maps a media kind to its metadata store.
func (h *Handlers) storeFor(kind string) *store.MediaStore {
	if kind == "video" {
		return h.videoStore
	}
	return h.imageStore
}
