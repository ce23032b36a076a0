// Package handlers contains the HTTP handlers for the generation control
// panel: job submission and status, media metadata stores, the unified
// gallery, voice profile management, chat, speech synthesis, thumbnails,
// and health/version endpoints.
package handlers
