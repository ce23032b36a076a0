package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/metrics"
)

// runTimeout bounds one synthesis run. Model load alone can take minutes on
// first use.
const runTimeout = 5 * time.Minute

var (
	// ErrSynthesisFailed indicates the script ran but reported failure.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrNoResult indicates the script produced no parseable result object.
	ErrNoResult = errors.New("no synthesis result in script output")
)

// VoiceResolver maps a voice selector (registry id or literal path) to an
// audio file path. Satisfied by *store.VoiceRegistry.
type VoiceResolver interface {
	Resolve(idOrPath string) (string, error)
}

// Result is a successful synthesis: base64 audio plus its format.
type Result struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sampleRate"`
	Format     string `json:"format"`
}

// Runner invokes the synthesis script.
type Runner struct {
	scriptPath string
	pythonBin  string
	resolver   VoiceResolver
}

// NewRunner creates a runner. resolver may be nil, in which case voice
// selectors are passed to the script unresolved.
func NewRunner(scriptPath, pythonBin string, resolver VoiceResolver) *Runner {
	return &Runner{scriptPath: scriptPath, pythonBin: pythonBin, resolver: resolver}
}

// Synthesize runs the script for one text. An empty voice uses the script's
// built-in default.
func (r *Runner) Synthesize(ctx context.Context, text, voice string) (Result, error) {
	args := []string{r.scriptPath, text}

	if voice != "" {
		voicePath := voice
		if r.resolver != nil {
			resolved, err := r.resolver.Resolve(voice)
			if err != nil {
				return Result{}, fmt.Errorf("failed to resolve voice %q: %w", voice, err)
			}
			voicePath = resolved
		}
		args = append(args, voicePath)
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.pythonBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug("starting synthesis run: %s %s", r.pythonBin, r.scriptPath)
	start := time.Now()
	err := cmd.Run()
	metrics.TTSRunDuration.Observe(time.Since(start).Seconds())

	if runCtx.Err() == context.DeadlineExceeded {
		metrics.TTSRunsTotal.WithLabelValues("timeout").Inc()
		return Result{}, fmt.Errorf("synthesis timed out after %s", runTimeout)
	}
	if err != nil {
		metrics.TTSRunsTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("synthesis process failed: %w (stderr: %s)", err, truncate(stderr.String(), 512))
	}

	result, err := parseOutput(stdout.String())
	if err != nil {
		metrics.TTSRunsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	metrics.TTSRunsTotal.WithLabelValues("success").Inc()
	logging.Info("synthesis completed in %v (%s, %d Hz)", time.Since(start).Round(time.Millisecond), result.Format, result.SampleRate)
	return result, nil
}

type scriptResult struct {
	Success    bool   `json:"success"`
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format"`
	Error      string `json:"error"`
}

// parseOutput extracts the result object from script stdout. The script logs
// progress lines before printing the result, so scan from the last line
// backwards for something that parses as a JSON object.
func parseOutput(stdout string) (Result, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}

		var sr scriptResult
		if err := json.Unmarshal([]byte(line), &sr); err != nil {
			continue
		}

		if !sr.Success {
			if sr.Error != "" {
				return Result{}, fmt.Errorf("%w: %s", ErrSynthesisFailed, sr.Error)
			}
			return Result{}, ErrSynthesisFailed
		}
		return Result{Audio: sr.Audio, SampleRate: sr.SampleRate, Format: sr.Format}, nil
	}
	return Result{}, ErrNoResult
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
