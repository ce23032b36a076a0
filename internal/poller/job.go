package poller

import (
	"time"

	"gen-studio/internal/mediatypes"
	"gen-studio/internal/store"
)

// State is a job's position in the lifecycle state machine.
type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateSuccess   State = "success"
	StateError     State = "error"
	StateAbandoned State = "abandoned"
)

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError || s == StateAbandoned
}

// Meta is the request metadata carried through a job's lifetime and into its
// stored record.
type Meta struct {
	Prompt         string
	NegativePrompt string
	InputImage     string
}

// Job is a point-in-time snapshot of one tracked generation job.
type Job struct {
	ID             string               `json:"id"`
	Kind           mediatypes.MediaKind `json:"kind"`
	State          State                `json:"state"`
	Prompt         string               `json:"prompt"`
	NegativePrompt string               `json:"negativePrompt"`
	InputImage     string               `json:"inputImage,omitempty"`
	Attempts       int                  `json:"attempts"`
	Error          string               `json:"error,omitempty"`
	Result         *store.MediaRecord   `json:"result,omitempty"`
	SubmittedAt    time.Time            `json:"submittedAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}
