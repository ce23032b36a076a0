// Package memory configures Go's runtime memory limit for containerized
// deployments.
//
// The control panel runs alongside heavy native consumers: ffmpeg frame
// extraction, image decoding for thumbnails, and the Python synthesis
// subprocess. GOMEMLIMIT keeps the Go heap from crowding them out of the
// container's memory budget and from triggering OOM kills.
//
// Call ConfigureFromEnv early in main, before significant allocations.
package memory
