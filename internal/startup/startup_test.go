package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "42")
	if got := getEnvInt("TEST_INT_VAR", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}

	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := getEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getEnvInt with invalid value = %d, want default 7", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DUR_VAR", "250ms")
	if got := getEnvDuration("TEST_DUR_VAR", time.Second); got != 250*time.Millisecond {
		t.Errorf("getEnvDuration = %s, want 250ms", got)
	}

	t.Setenv("TEST_DUR_BAD", "soon")
	if got := getEnvDuration("TEST_DUR_BAD", time.Second); got != time.Second {
		t.Errorf("getEnvDuration with invalid value = %s, want default 1s", got)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/generate", "api/generate"},
		{"/api/voices/upload", "api/voices"},
		{"/health", "health"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	t.Setenv("MEDIA_DIR", filepath.Join(root, "media"))
	t.Setenv("DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("CACHE_DIR", filepath.Join(root, "cache"))
	t.Setenv("WORKFLOW_DIR", filepath.Join(root, "workflows"))
	t.Setenv("ENGINE_URL", "http://engine:8188/")
	t.Setenv("MAX_POLL_ATTEMPTS", "5")
	t.Setenv("POLL_INTERVAL", "100ms")
	t.Setenv("TTS_SCRIPT", filepath.Join(root, "missing.py"))

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.EngineURL != "http://engine:8188" {
		t.Errorf("EngineURL = %q, want trailing slash stripped", config.EngineURL)
	}
	if config.MaxPollAttempts != 5 {
		t.Errorf("MaxPollAttempts = %d, want 5", config.MaxPollAttempts)
	}
	if config.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %s, want 100ms", config.PollInterval)
	}
	if config.TTSEnabled {
		t.Error("TTSEnabled should be false when the script is missing")
	}

	// Required directories must be created
	for _, dir := range []string{config.ImagesDir, config.VideosDir, config.VoicesDir, config.DataDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	if config.ImageDataPath != filepath.Join(config.DataDir, "image-data.json") {
		t.Errorf("unexpected ImageDataPath: %s", config.ImageDataPath)
	}
}
