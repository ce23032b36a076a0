// Package media generates and caches gallery thumbnails. Image thumbnails
// decode in-process (including webp); video thumbnails shell out to ffmpeg
// for a single frame. Generated thumbnails are cached as JPEG keyed by a
// hash of the source path.
package media
