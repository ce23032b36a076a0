package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/metrics"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// MaxVoiceFileSize is the upload ceiling for voice samples (50MB).
const MaxVoiceFileSize = 50 << 20

// VoiceType distinguishes uploaded profiles from the seeded built-in one.
type VoiceType string

const (
	// VoiceUploaded is a user-uploaded voice profile.
	VoiceUploaded VoiceType = "uploaded"
	// VoiceBuiltIn is a voice profile shipped with the application.
	VoiceBuiltIn VoiceType = "built-in"
)

// DefaultVoiceID is the sentinel id of the seeded built-in voice.
const DefaultVoiceID = "default_female"

// VoiceProfile describes one TTS voice.
type VoiceProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FilePath    string    `json:"filePath"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	Type        VoiceType `json:"type"`
}

type voiceFile struct {
	Voices []VoiceProfile `json:"voices"`
}

// VoiceRegistry is the JSON-file-backed CRUD store for voice profiles.
// Audio files live next to the registry under the voices directory.
type VoiceRegistry struct {
	path      string // registry JSON file
	voicesDir string // directory holding uploaded audio
	assetRoot string // served static root that FilePath values are relative to
	mu        sync.Mutex
	lock      *flock.Flock
}

// NewVoiceRegistry creates a registry backed by voicesDir/voices.json.
// assetRoot is the static root that profile FilePaths resolve against.
func NewVoiceRegistry(voicesDir, assetRoot string) *VoiceRegistry {
	path := filepath.Join(voicesDir, "voices.json")
	return &VoiceRegistry{
		path:      path,
		voicesDir: voicesDir,
		assetRoot: assetRoot,
		lock:      flock.New(path + ".lock"),
	}
}

// defaultRegistry is returned when no registry file exists yet.
func defaultRegistry() voiceFile {
	return voiceFile{
		Voices: []VoiceProfile{{
			ID:          DefaultVoiceID,
			Name:        "Default Female",
			Description: "Built-in female voice",
			FilePath:    "/female_voice.wav",
			IsDefault:   true,
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Type:        VoiceBuiltIn,
		}},
	}
}

// List returns all voice profiles, seeding the built-in default when the
// registry file is absent.
func (r *VoiceRegistry) List() ([]VoiceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, err := r.read()
	if err != nil {
		return nil, err
	}
	return reg.Voices, nil
}

// Upload validates and stores a new voice sample plus its registry entry.
// The declared MIME type must be on the allow-list and the payload must fit
// under MaxVoiceFileSize; violations are rejected before any side effect.
func (r *VoiceRegistry) Upload(data []byte, originalName, declaredMIME, name, description string) (VoiceProfile, error) {
	if len(data) == 0 {
		return VoiceProfile{}, fmt.Errorf("%w: audio file is required", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return VoiceProfile{}, fmt.Errorf("%w: voice name is required", ErrValidation)
	}
	if !mediatypes.VoiceMIMETypes[strings.ToLower(declaredMIME)] {
		return VoiceProfile{}, fmt.Errorf("%w: file type %q not allowed (WAV, MP3, OGG, FLAC only)", ErrValidation, declaredMIME)
	}
	if len(data) > MaxVoiceFileSize {
		return VoiceProfile{}, fmt.Errorf("%w: file too large, maximum size is 50MB", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".wav"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		return VoiceProfile{}, fmt.Errorf("failed to lock voice registry: %w", err)
	}
	defer r.unlock()

	id := uuid.NewString()
	filename := id + ext

	if err := os.MkdirAll(r.voicesDir, 0o755); err != nil {
		return VoiceProfile{}, fmt.Errorf("failed to create voices directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.voicesDir, filename), data, 0o644); err != nil {
		return VoiceProfile{}, fmt.Errorf("failed to write voice file: %w", err)
	}

	profile := VoiceProfile{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		FilePath:    "/voices/" + filename,
		IsDefault:   false,
		CreatedAt:   time.Now(),
		Type:        VoiceUploaded,
	}

	reg, err := r.read()
	if err != nil {
		return VoiceProfile{}, err
	}
	reg.Voices = append(reg.Voices, profile)

	if err := r.write(reg); err != nil {
		metrics.StoreWritesTotal.WithLabelValues("voices", "append", "error").Inc()
		return VoiceProfile{}, err
	}
	metrics.StoreWritesTotal.WithLabelValues("voices", "append", "success").Inc()
	metrics.StoreRecords.WithLabelValues("voices").Set(float64(len(reg.Voices)))
	return profile, nil
}

// Update changes the name and/or description of an existing profile.
// Nil pointers leave the corresponding field untouched.
func (r *VoiceRegistry) Update(id string, name, description *string) (VoiceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		return VoiceProfile{}, fmt.Errorf("failed to lock voice registry: %w", err)
	}
	defer r.unlock()

	reg, err := r.read()
	if err != nil {
		return VoiceProfile{}, err
	}

	for i := range reg.Voices {
		if reg.Voices[i].ID != id {
			continue
		}
		if name != nil && strings.TrimSpace(*name) != "" {
			reg.Voices[i].Name = strings.TrimSpace(*name)
		}
		if description != nil {
			reg.Voices[i].Description = strings.TrimSpace(*description)
		}
		if err := r.write(reg); err != nil {
			return VoiceProfile{}, err
		}
		return reg.Voices[i], nil
	}

	return VoiceProfile{}, fmt.Errorf("voice %q: %w", id, ErrNotFound)
}

// Delete removes a profile and best-effort deletes its audio file.
// Default profiles are protected; registry consistency is prioritized over
// storage cleanup, so a failed file removal is logged, not surfaced.
func (r *VoiceRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock voice registry: %w", err)
	}
	defer r.unlock()

	reg, err := r.read()
	if err != nil {
		return err
	}

	for i, v := range reg.Voices {
		if v.ID != id {
			continue
		}
		if v.IsDefault {
			return fmt.Errorf("voice %q: %w", id, ErrProtectedRecord)
		}

		reg.Voices = append(reg.Voices[:i], reg.Voices[i+1:]...)
		if err := r.write(reg); err != nil {
			return err
		}
		metrics.StoreRecords.WithLabelValues("voices").Set(float64(len(reg.Voices)))

		if err := os.Remove(r.resolvePath(v.FilePath)); err != nil {
			logging.Warn("could not delete voice file %s: %v", v.FilePath, err)
		}
		return nil
	}

	return fmt.Errorf("voice %q: %w", id, ErrNotFound)
}

// Resolve maps a voice selector to an absolute audio file path. Selectors
// starting with "/" are treated as already-resolved asset paths; anything
// else is looked up as a registry id.
func (r *VoiceRegistry) Resolve(idOrPath string) (string, error) {
	if idOrPath == "" {
		return "", nil
	}
	if strings.HasPrefix(idOrPath, "/") {
		return r.resolvePath(idOrPath), nil
	}

	voices, err := r.List()
	if err != nil {
		return "", err
	}
	for _, v := range voices {
		if v.ID == idOrPath {
			return r.resolvePath(v.FilePath), nil
		}
	}
	return "", fmt.Errorf("voice %q: %w", idOrPath, ErrNotFound)
}

// resolvePath maps a stored asset-relative FilePath to a disk path.
func (r *VoiceRegistry) resolvePath(filePath string) string {
	return filepath.Join(r.assetRoot, strings.TrimPrefix(filePath, "/"))
}

func (r *VoiceRegistry) unlock() {
	if err := r.lock.Unlock(); err != nil {
		logging.Warn("failed to unlock voice registry: %v", err)
	}
}

func (r *VoiceRegistry) read() (voiceFile, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return defaultRegistry(), nil
	}
	if err != nil {
		return voiceFile{}, fmt.Errorf("failed to read voice registry: %w", err)
	}

	var reg voiceFile
	if err := json.Unmarshal(data, &reg); err != nil {
		return voiceFile{}, fmt.Errorf("failed to parse voice registry: %w", err)
	}
	return reg, nil
}

func (r *VoiceRegistry) write(reg voiceFile) error {
	if err := os.MkdirAll(r.voicesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create voices directory: %w", err)
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode voice registry: %w", err)
	}

	tmp, err := os.CreateTemp(r.voicesDir, ".voices.json.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create voice registry temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write voice registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close voice registry temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace voice registry: %w", err)
	}
	return nil
}
