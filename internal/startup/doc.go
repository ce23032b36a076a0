// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - ENGINE_URL: Base URL of the diffusion engine (default: http://localhost:8188)
//   - RUNTIME_URL: Base URL of the model runtime (default: http://localhost:11434)
//   - MEDIA_DIR: Path to the served asset root (default: /media)
//   - DATA_DIR: Path to metadata stores and the job journal (default: /data)
//   - CACHE_DIR: Path to cache directory for thumbnails (default: /cache)
//   - WORKFLOW_DIR: Path to workflow graph templates (default: /workflows)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - POLL_INTERVAL: Job history poll interval as Go duration (default: 1s)
//   - MAX_POLL_ATTEMPTS: Poll attempts before a job is abandoned (default: 600)
//   - ENGINE_TIMEOUT: Per-request engine timeout as Go duration (default: 60s)
//   - TTS_SCRIPT: Path to the speech synthesis script (default: /app/tts/generate_speech.py)
//   - PYTHON_BIN: Python interpreter for the synthesis script (default: python3)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The package validates and creates required directories:
//   - Data directory: Required, must be writable
//   - Media directory: Required, must be writable (generated outputs land here)
//   - Cache directory: Optional, enables thumbnails if writable
//   - Workflow directory: Checked but not created (templates should be mounted)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
package startup
