package poller

import "time"

// Candidate is one filename/subfolder pair the sweep probes on the engine.
type Candidate struct {
	Filename  string
	Subfolder string
}

// SweepPlan fixes the timing and probe order of the video output sweep.
// One attempt probes every candidate in order; Delays[i] is the wait after
// attempt i before the next one.
type SweepPlan struct {
	InitialDelay time.Duration
	MaxAttempts  int
	Delays       []time.Duration
	Candidates   []Candidate
}

// DefaultSweepPlan covers the filenames the video encoder is known to write,
// probed most-likely first. The delays back off up to roughly a minute of
// total waiting on top of the initial encode delay.
func DefaultSweepPlan() SweepPlan {
	return SweepPlan{
		InitialDelay: 10 * time.Second,
		MaxAttempts:  8,
		Delays: []time.Duration{
			2 * time.Second,
			3 * time.Second,
			5 * time.Second,
			8 * time.Second,
			10 * time.Second,
			15 * time.Second,
			20 * time.Second,
		},
		Candidates: []Candidate{
			{Filename: "vid_00001_.mp4", Subfolder: "HV15Out"},
			{Filename: "vid_00002_.mp4", Subfolder: "HV15Out"},
			{Filename: "vid_00003_.mp4", Subfolder: "HV15Out"},
			{Filename: "vid_00004_.mp4", Subfolder: "HV15Out"},
			{Filename: "vid_00005_.mp4", Subfolder: "HV15Out"},
			{Filename: "vid_00001_.gif", Subfolder: "HV15Out"},
			{Filename: "vid_00002_.gif", Subfolder: "HV15Out"},
			{Filename: "vid_00003_.gif", Subfolder: "HV15Out"},
			{Filename: "vid_00004_.gif", Subfolder: "HV15Out"},
			{Filename: "vid_00005_.gif", Subfolder: "HV15Out"},
			{Filename: "vid_00001_.mp4", Subfolder: ""},
			{Filename: "vid_00002_.mp4", Subfolder: ""},
			{Filename: "vid_00001_.gif", Subfolder: ""},
			{Filename: "vid_00002_.gif", Subfolder: ""},
			{Filename: "vid_00001_.mp4", Subfolder: "output"},
			{Filename: "vid_00002_.mp4", Subfolder: "output"},
			{Filename: "vid_00001_.gif", Subfolder: "output"},
			{Filename: "vid_00002_.gif", Subfolder: "output"},
			{Filename: "vid_00001_.mp4", Subfolder: "videos"},
			{Filename: "vid_00002_.mp4", Subfolder: "videos"},
			{Filename: "vid_00001_.gif", Subfolder: "videos"},
			{Filename: "vid_00002_.gif", Subfolder: "videos"},
		},
	}
}

// delayAfter returns the wait after the given zero-based attempt, falling
// back to the last configured delay when attempts outnumber delays.
func (p SweepPlan) delayAfter(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt >= len(p.Delays) {
		return p.Delays[len(p.Delays)-1]
	}
	return p.Delays[attempt]
}
