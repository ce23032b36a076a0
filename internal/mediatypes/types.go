package mediatypes

import (
	"path/filepath"
	"strings"
)

// MediaKind discriminates generated artifacts.
type MediaKind string

const (
	// KindImage represents a generated still image.
	KindImage MediaKind = "image"
	// KindVideo represents a generated video clip.
	KindVideo MediaKind = "video"
)

// Valid reports whether the kind is one of the known media kinds.
func (k MediaKind) Valid() bool {
	return k == KindImage || k == KindVideo
}

// SortMode selects the ordering of the unified gallery.
type SortMode string

const (
	// SortNewest orders by descending creation time (the default).
	SortNewest SortMode = "newest"
	// SortOldest orders by ascending creation time.
	SortOldest SortMode = "oldest"
	// SortFavorites places favorites first, newest within each group.
	SortFavorites SortMode = "favorites"
)

// ImageExtensions maps file extensions to whether they are supported
// generated-image formats.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// VideoExtensions maps file extensions to whether they are supported
// generated-video formats. GIFs are included because the video pipeline
// can emit animated GIFs instead of MP4s.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".gif": true,
}

// VoiceExtensions maps file extensions to whether they are accepted
// voice-sample formats.
var VoiceExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".ogg":  true,
	".flac": true,
}

// VoiceMIMETypes is the allow-list of declared MIME types for voice uploads.
var VoiceMIMETypes = map[string]bool{
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/ogg":    true,
	"audio/flac":   true,
	"audio/x-flac": true,
}

// KindForFilename returns the media kind for a filename based on its
// extension, or false if the extension is not a supported media format.
func KindForFilename(name string) (MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ImageExtensions[ext]:
		return KindImage, true
	case VideoExtensions[ext]:
		return KindVideo, true
	default:
		return "", false
	}
}

// GetMimeType returns the MIME type for a media file extension,
// falling back to application/octet-stream.
func GetMimeType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
