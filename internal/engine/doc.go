// Package engine provides the HTTP client for the ComfyUI diffusion engine:
// job graph submission, history polling, output fetching, and input-image
// staging.
//
// Any network failure reaching the engine surfaces as ErrUnavailable; a 404
// from the output view endpoint surfaces as ErrOutputNotFound, which is the
// expected case while probing video candidates.
package engine
