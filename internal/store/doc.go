// Package store implements the JSON-file-backed persistence for the studio:
// the capped per-kind media metadata stores and the voice profile registry.
//
// Each backing file is guarded by an in-process mutex plus an advisory file
// lock, and every write goes through a temp-file rename, so concurrent
// requests serialize instead of losing updates.
package store
