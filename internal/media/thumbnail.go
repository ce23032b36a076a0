package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Thumbnail bounding box and JPEG quality.
const (
	thumbSize    = 200
	thumbQuality = 80
)

type ThumbnailGenerator struct {
	cacheDir string
	enabled  bool
	mu       sync.Mutex
}

func NewThumbnailGenerator(cacheDir string, enabled bool) *ThumbnailGenerator {
	if enabled {
		logging.Debug("ThumbnailGenerator: enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("ThumbnailGenerator: failed to create cache dir: %v", err)
		}
	} else {
		logging.Debug("ThumbnailGenerator: disabled")
	}
	return &ThumbnailGenerator{
		cacheDir: cacheDir,
		enabled:  enabled,
	}
}

func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// GetThumbnail returns JPEG thumbnail bytes for one library file, generating
// and caching on first request.
func (t *ThumbnailGenerator) GetThumbnail(filePath string, kind mediatypes.MediaKind) ([]byte, error) {
	if !t.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(filePath))
	cachePath := filepath.Join(t.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s", filePath)
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have generated it while we waited for the lock
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	logging.Debug("Thumbnail generating: %s (%s)", filePath, kind)

	var img image.Image
	var err error

	switch kind {
	case mediatypes.KindImage:
		img, err = decodeImage(filePath)
	case mediatypes.KindVideo:
		img, err = extractVideoFrame(filePath)
	default:
		return nil, fmt.Errorf("unsupported media kind: %s", kind)
	}

	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("thumbnail generation failed: %w", err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbQuality}); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()

	if err := os.WriteFile(cachePath, buf.Bytes(), 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	} else {
		logging.Debug("Thumbnail cached: %s", cachePath)
	}

	return buf.Bytes(), nil
}

func decodeImage(filePath string) (image.Image, error) {
	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	logging.Debug("imaging.Open failed for %s: %v, trying image.Decode", filePath, err)

	// imaging does not register webp; the blank import above does
	file, openErr := os.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer file.Close()

	img, format, decodeErr := image.Decode(file)
	if decodeErr != nil {
		return nil, fmt.Errorf("all decode methods failed for %s: %w", filePath, decodeErr)
	}
	logging.Debug("Decoded image format: %s for %s", format, filePath)
	return img, nil
}

// extractVideoFrame pulls a frame at the one second mark, retrying from the
// start for clips shorter than that.
func extractVideoFrame(filePath string) (image.Image, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logging.Debug("Using ffmpeg: %s", ffmpegPath)

	frame, err := runFFmpegFrame(filePath, true)
	if err != nil {
		logging.Debug("FFmpeg seek attempt failed for %s: %v", filePath, err)
		frame, err = runFFmpegFrame(filePath, false)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

func runFFmpegFrame(filePath string, seek bool) ([]byte, error) {
	args := []string{"-i", filePath}
	if seek {
		args = append(args, "-ss", "00:00:01")
	}
	args = append(args, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-")

	cmd := exec.Command("ffmpeg", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", filePath)
	}
	return stdout.Bytes(), nil
}
