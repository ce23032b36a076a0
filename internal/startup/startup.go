package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gen-studio/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	EngineURL       string
	RuntimeURL      string
	MediaDir        string
	DataDir         string
	CacheDir        string
	WorkflowDir     string
	Port            string
	MetricsPort     string
	PollInterval    time.Duration
	MaxPollAttempts int
	EngineTimeout   time.Duration
	TTSScript       string
	PythonBin       string
	LogStaticFiles  bool
	LogHealthChecks bool
	MetricsEnabled  bool

	// Derived paths
	ImagesDir     string
	VideosDir     string
	VoicesDir     string
	ImageDataPath string
	VideoDataPath string
	JournalPath   string
	ThumbnailDir  string

	// Feature flags based on environment availability
	ThumbnailsEnabled bool
	TTSEnabled        bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	engineURL := strings.TrimRight(getEnv("ENGINE_URL", "http://localhost:8188"), "/")
	runtimeURL := strings.TrimRight(getEnv("RUNTIME_URL", "http://localhost:11434"), "/")
	mediaDir := getEnv("MEDIA_DIR", "/media")
	dataDir := getEnv("DATA_DIR", "/data")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	workflowDir := getEnv("WORKFLOW_DIR", "/workflows")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	pollInterval := getEnvDuration("POLL_INTERVAL", time.Second)
	maxPollAttempts := getEnvInt("MAX_POLL_ATTEMPTS", 600)
	engineTimeout := getEnvDuration("ENGINE_TIMEOUT", 60*time.Second)
	ttsScript := getEnv("TTS_SCRIPT", "/app/tts/generate_speech.py")
	pythonBin := getEnv("PYTHON_BIN", "python3")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  ENGINE_URL:          %s", engineURL)
	logging.Info("  RUNTIME_URL:         %s", runtimeURL)
	logging.Info("  MEDIA_DIR:           %s", mediaDir)
	logging.Info("  DATA_DIR:            %s", dataDir)
	logging.Info("  CACHE_DIR:           %s", cacheDir)
	logging.Info("  WORKFLOW_DIR:        %s", workflowDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_PORT:        %s", metricsPort)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  POLL_INTERVAL:       %s", pollInterval)
	logging.Info("  MAX_POLL_ATTEMPTS:   %d", maxPollAttempts)
	logging.Info("  ENGINE_TIMEOUT:      %s", engineTimeout)
	logging.Info("  TTS_SCRIPT:          %s", ttsScript)
	logging.Info("  PYTHON_BIN:          %s", pythonBin)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if maxPollAttempts < 1 {
		logging.Warn("  Invalid MAX_POLL_ATTEMPTS, using default: 600")
		maxPollAttempts = 600
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	var err error
	mediaDir, err = filepath.Abs(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	logging.Info("  Media directory (absolute): %s", mediaDir)

	dataDir, err = filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	logging.Info("  Data directory (absolute): %s", dataDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	workflowDir, err = filepath.Abs(workflowDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workflow directory path: %w", err)
	}
	logging.Info("  Workflow directory (absolute): %s", workflowDir)

	config := &Config{
		EngineURL:       engineURL,
		RuntimeURL:      runtimeURL,
		MediaDir:        mediaDir,
		DataDir:         dataDir,
		CacheDir:        cacheDir,
		WorkflowDir:     workflowDir,
		Port:            port,
		MetricsPort:     metricsPort,
		PollInterval:    pollInterval,
		MaxPollAttempts: maxPollAttempts,
		EngineTimeout:   engineTimeout,
		TTSScript:       ttsScript,
		PythonBin:       pythonBin,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
		ImagesDir:       filepath.Join(mediaDir, "images"),
		VideosDir:       filepath.Join(mediaDir, "videos"),
		VoicesDir:       filepath.Join(mediaDir, "voices"),
		ImageDataPath:   filepath.Join(dataDir, "image-data.json"),
		VideoDataPath:   filepath.Join(dataDir, "video-data.json"),
		JournalPath:     filepath.Join(dataDir, "journal.db"),
		ThumbnailDir:    filepath.Join(cacheDir, "thumbnails"),
	}

	// Data directory holds the metadata stores and journal (required)
	if err := ensureDirectory(dataDir, "data"); err != nil {
		return nil, fmt.Errorf("data directory error: %w", err)
	}
	logging.Debug("  Testing data directory write access...")
	if err := testWriteAccess(dataDir); err != nil {
		return nil, fmt.Errorf("data directory is not writable (required for metadata stores): %w", err)
	}
	logging.Info("  [OK] Data directory is writable")

	// Generated outputs land under the media tree (required)
	for _, dir := range []string{config.ImagesDir, config.VideosDir, config.VoicesDir} {
		if err := ensureDirectory(dir, filepath.Base(dir)); err != nil {
			return nil, fmt.Errorf("media subdirectory error: %w", err)
		}
	}
	logging.Debug("  Testing media directory write access...")
	if err := testWriteAccess(config.ImagesDir); err != nil {
		return nil, fmt.Errorf("media directory is not writable (required for generated outputs): %w", err)
	}
	logging.Info("  [OK] Media directories are writable")

	// Workflow templates should be mounted (warning only)
	if err := ensureDirectory(workflowDir, "workflow"); err != nil {
		logging.Warn("  Workflow directory issue: %v", err)
	}

	// Thumbnail cache (optional)
	config.ThumbnailsEnabled = setupOptionalDir(config.ThumbnailDir, "thumbnails")

	// Speech synthesis (optional)
	config.TTSEnabled = checkTTS(ttsScript, pythonBin)

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Generation:  ENABLED (required)")
	logging.Info("    Thumbnails:  %s", enabledString(config.ThumbnailsEnabled))
	logging.Info("    Speech:      %s", enabledString(config.TTSEnabled))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// checkTTS verifies the synthesis script and interpreter are present.
func checkTTS(script, pythonBin string) bool {
	if _, err := os.Stat(script); err != nil {
		logging.Warn("  Speech synthesis script not found at %s", script)
		logging.Warn("  Speech synthesis will be disabled")
		return false
	}

	path, err := exec.LookPath(pythonBin)
	if err != nil {
		logging.Warn("  %s not found in PATH", pythonBin)
		logging.Warn("  Speech synthesis will be disabled")
		return false
	}
	logging.Debug("  Python path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, pythonBin, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		logging.Warn("  Failed to get python version: %v", err)
		return false
	}
	logging.Debug("  Python version: %s", strings.TrimSpace(string(output)))

	return true
}

// LogJournalInit logs job journal initialization
func LogJournalInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("JOURNAL INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Job journal initialized in %v", duration)
}

// LogPollerInit logs job poller initialization
func LogPollerInit(interval time.Duration, maxAttempts int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("POLLER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Poll interval:      %v", interval)
	logging.Info("  Max poll attempts:  %d", maxAttempts)
}

// LogThumbnailInit logs thumbnail generator initialization
func LogThumbnailInit(enabled bool) {
	if !enabled {
		logging.Info("  Thumbnails disabled (cache directory not writable)")
		logging.Info("  Full-size images will be served instead")
	}
}

// LogEngineCheck logs the result of the initial engine reachability probe
func LogEngineCheck(url string, err error) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENGINE CHECK")
	logging.Info("------------------------------------------------------------")
	if err != nil {
		logging.Warn("  Engine at %s is not reachable: %v", url, err)
		logging.Warn("  Generation requests will fail until it comes up")
		return
	}
	logging.Info("  [OK] Engine reachable at %s", url)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ______           _____ __            ___
  / ____/__  ____  / ___// /___  ______/ (_)___
 / / __/ _ \/ __ \ \__ \/ __/ / / / __  / / __ \
/ /_/ /  __/ / / /___/ / /_/ /_/ / /_/ / / /_/ /
\____/\___/_/ /_//____/\__/\__,_/\__,_/_/\____/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
