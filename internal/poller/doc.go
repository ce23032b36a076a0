// Package poller drives generation jobs from submission to a terminal state.
//
// Each tracked job gets its own goroutine that polls the engine's history
// endpoint on a fixed interval. Jobs move through an explicit state machine:
//
//	submitted -> polling -> success | error | abandoned
//
// Image jobs download their output directly from the history record. Video
// jobs cannot trust the history outputs (the encoder writes files on its own
// schedule under varying names), so a successful video job triggers a timed
// sweep over a fixed list of candidate filenames and subfolders. If the sweep
// exhausts every candidate the job still records a fallback metadata entry so
// the generation is not lost, just not locally mirrored.
package poller
