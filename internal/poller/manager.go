package poller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/engine"
	"gen-studio/internal/journal"
	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/metrics"
	"gen-studio/internal/store"
)

// Engine is the subset of the engine client the poller needs.
type Engine interface {
	History(ctx context.Context, jobID string) (engine.HistoryEntry, bool, error)
	FetchOutput(ctx context.Context, filename, subfolder string) ([]byte, error)
}

// Recorder receives job lifecycle events. Satisfied by *journal.Journal.
type Recorder interface {
	Record(ctx context.Context, jobID, kind, event, detail string, attempt int)
}

// Config wires a Manager.
type Config struct {
	Engine      Engine
	Library     *artifacts.Library
	ImageStore  *store.MediaStore
	VideoStore  *store.MediaStore
	Journal     Recorder // optional
	Interval    time.Duration
	MaxAttempts int
	Sweep       SweepPlan
}

// Manager tracks in-flight generation jobs and runs one polling goroutine
// per job.
type Manager struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewManager creates a manager. Zero Interval and MaxAttempts get the
// defaults (1s, 600); an empty sweep plan gets DefaultSweepPlan.
func NewManager(cfg Config) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 600
	}
	if len(cfg.Sweep.Candidates) == 0 {
		cfg.Sweep = DefaultSweepPlan()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*Job),
	}
}

// Track registers a submitted job and starts polling it. Tracking an id that
// is already known returns the existing snapshot without a second goroutine.
func (m *Manager) Track(jobID string, kind mediatypes.MediaKind, meta Meta) Job {
	m.mu.Lock()
	if existing, ok := m.jobs[jobID]; ok {
		snapshot := *existing
		m.mu.Unlock()
		return snapshot
	}

	now := time.Now()
	job := &Job{
		ID:             jobID,
		Kind:           kind,
		State:          StateSubmitted,
		Prompt:         meta.Prompt,
		NegativePrompt: meta.NegativePrompt,
		InputImage:     meta.InputImage,
		SubmittedAt:    now,
		UpdatedAt:      now,
	}
	m.jobs[jobID] = job
	snapshot := *job
	m.mu.Unlock()

	metrics.JobsSubmittedTotal.WithLabelValues(string(kind)).Inc()
	metrics.JobsInFlight.Inc()
	m.record(jobID, kind, journal.EventSubmitted, "", 0)
	logging.Info("tracking %s job %s", kind, jobID)

	m.wg.Add(1)
	go m.run(jobID)

	return snapshot
}

// Job returns a snapshot of one tracked job.
func (m *Manager) Job(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns snapshots of every tracked job, newest first.
func (m *Manager) Jobs() []Job {
	m.mu.RLock()
	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt)
	})
	return jobs
}

// Stop cancels all polling goroutines and waits for them to exit.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) run(jobID string) {
	defer m.wg.Done()
	defer metrics.JobsInFlight.Dec()

	m.transition(jobID, StatePolling, "")

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}

		attempt := m.bumpAttempt(jobID)
		metrics.PollAttemptsTotal.Inc()

		job, ok := m.Job(jobID)
		if !ok {
			return
		}

		entry, found, err := m.cfg.Engine.History(m.ctx, jobID)
		if err != nil {
			// Transient: the engine may be restarting mid-job
			logging.Warn("history poll %d for job %s failed: %v", attempt, jobID, err)
			m.record(jobID, job.Kind, journal.EventPollResult, fmt.Sprintf("error: %v", err), attempt)
			if attempt >= m.cfg.MaxAttempts {
				m.abandon(jobID, job.Kind, attempt)
				return
			}
			continue
		}

		if !found {
			if attempt >= m.cfg.MaxAttempts {
				m.abandon(jobID, job.Kind, attempt)
				return
			}
			continue
		}

		switch entry.Status.StatusStr {
		case "success":
			m.record(jobID, job.Kind, journal.EventPollResult, "success", attempt)
			m.complete(jobID, job, entry)
			return
		case "error":
			m.record(jobID, job.Kind, journal.EventPollResult, "error", attempt)
			m.fail(jobID, job.Kind, "engine reported generation failure")
			return
		default:
			if attempt >= m.cfg.MaxAttempts {
				m.abandon(jobID, job.Kind, attempt)
				return
			}
		}
	}
}

func (m *Manager) complete(jobID string, job Job, entry engine.HistoryEntry) {
	if job.Kind == mediatypes.KindVideo {
		m.completeVideo(jobID, job)
		return
	}
	m.completeImage(jobID, job, entry)
}

func (m *Manager) completeImage(jobID string, job Job, entry engine.HistoryEntry) {
	ref, ok := firstImageOutput(entry)
	if !ok {
		m.fail(jobID, job.Kind, "engine reported success but produced no outputs")
		return
	}

	data, err := m.cfg.Engine.FetchOutput(m.ctx, ref.Filename, ref.Subfolder)
	if err != nil {
		m.fail(jobID, job.Kind, fmt.Sprintf("failed to download output %s/%s: %v", ref.Subfolder, ref.Filename, err))
		return
	}

	localName, _, err := m.cfg.Library.SaveGenerated(mediatypes.KindImage, ref.Filename, data)
	if err != nil {
		m.fail(jobID, job.Kind, fmt.Sprintf("failed to save output locally: %v", err))
		return
	}
	m.record(jobID, job.Kind, journal.EventDownloaded, ref.Subfolder+"/"+ref.Filename+" -> "+localName, 0)

	record := store.MediaRecord{
		Filename:       ref.Filename,
		Subfolder:      ref.Subfolder,
		JobID:          jobID,
		LocalPath:      m.cfg.Library.URLFor(mediatypes.KindImage, localName),
		LocalFilename:  localName,
		Prompt:         job.Prompt,
		NegativePrompt: job.NegativePrompt,
		CreatedAt:      time.Now().UTC(),
	}
	if err := m.cfg.ImageStore.Append(record); err != nil {
		logging.Warn("failed to store metadata for job %s: %v", jobID, err)
	}

	m.succeed(jobID, job.Kind, record)
}

func (m *Manager) completeVideo(jobID string, job Job) {
	record, found := m.sweepVideo(jobID, job)
	if !found {
		// Keep the generation on record even though the file never turned up
		metrics.SweepExhaustedTotal.Inc()
		record = store.MediaRecord{
			Filename:       fmt.Sprintf("vid_%d.mp4", time.Now().UnixMilli()),
			Subfolder:      "HV15Out",
			JobID:          jobID,
			Prompt:         job.Prompt,
			NegativePrompt: job.NegativePrompt,
			InputImage:     job.InputImage,
			CreatedAt:      time.Now().UTC(),
		}
		logging.Warn("sweep exhausted for job %s, recording fallback entry %s", jobID, record.Filename)
		m.record(jobID, job.Kind, journal.EventSweepProbe, "exhausted, recorded fallback "+record.Filename, 0)
	}

	if err := m.cfg.VideoStore.Append(record); err != nil {
		logging.Warn("failed to store metadata for job %s: %v", jobID, err)
	}

	m.succeed(jobID, job.Kind, record)
}

// sweepVideo probes the candidate list on the sweep plan's schedule and
// downloads the first hit.
func (m *Manager) sweepVideo(jobID string, job Job) (store.MediaRecord, bool) {
	if !m.sleep(m.cfg.Sweep.InitialDelay) {
		return store.MediaRecord{}, false
	}

	for attempt := 0; attempt < m.cfg.Sweep.MaxAttempts; attempt++ {
		metrics.SweepAttemptsTotal.Inc()
		logging.Debug("video sweep attempt %d/%d for job %s", attempt+1, m.cfg.Sweep.MaxAttempts, jobID)

		for _, candidate := range m.cfg.Sweep.Candidates {
			data, err := m.cfg.Engine.FetchOutput(m.ctx, candidate.Filename, candidate.Subfolder)
			if err != nil {
				if !errors.Is(err, engine.ErrOutputNotFound) {
					logging.Debug("probe %s/%s failed: %v", candidate.Subfolder, candidate.Filename, err)
				}
				metrics.SweepProbesTotal.WithLabelValues("miss").Inc()
				continue
			}
			metrics.SweepProbesTotal.WithLabelValues("hit").Inc()

			localName, _, err := m.cfg.Library.SaveGenerated(mediatypes.KindVideo, candidate.Filename, data)
			if err != nil {
				logging.Warn("failed to save video for job %s: %v", jobID, err)
				return store.MediaRecord{}, false
			}
			m.record(jobID, job.Kind, journal.EventDownloaded, candidate.Subfolder+"/"+candidate.Filename+" -> "+localName, attempt+1)

			return store.MediaRecord{
				Filename:       candidate.Filename,
				Subfolder:      candidate.Subfolder,
				JobID:          jobID,
				LocalPath:      m.cfg.Library.URLFor(mediatypes.KindVideo, localName),
				LocalFilename:  localName,
				Prompt:         job.Prompt,
				NegativePrompt: job.NegativePrompt,
				InputImage:     job.InputImage,
				CreatedAt:      time.Now().UTC(),
			}, true
		}

		if attempt < m.cfg.Sweep.MaxAttempts-1 {
			if !m.sleep(m.cfg.Sweep.delayAfter(attempt)) {
				return store.MediaRecord{}, false
			}
		}
	}

	return store.MediaRecord{}, false
}

func (m *Manager) succeed(jobID string, kind mediatypes.MediaKind, record store.MediaRecord) {
	m.mu.Lock()
	if job, ok := m.jobs[jobID]; ok {
		job.State = StateSuccess
		job.Result = &record
		job.UpdatedAt = time.Now()
		metrics.JobDuration.WithLabelValues(string(kind)).Observe(time.Since(job.SubmittedAt).Seconds())
	}
	m.mu.Unlock()

	metrics.JobsCompletedTotal.WithLabelValues(string(kind), string(StateSuccess)).Inc()
	m.record(jobID, kind, journal.EventCompleted, record.LocalFilename, 0)
	logging.Info("%s job %s completed: %s", kind, jobID, record.Filename)
}

func (m *Manager) fail(jobID string, kind mediatypes.MediaKind, reason string) {
	m.transition(jobID, StateError, reason)
	metrics.JobsCompletedTotal.WithLabelValues(string(kind), string(StateError)).Inc()
	m.record(jobID, kind, journal.EventFailed, reason, 0)
	logging.Error("%s job %s failed: %s", kind, jobID, reason)
}

func (m *Manager) abandon(jobID string, kind mediatypes.MediaKind, attempts int) {
	m.transition(jobID, StateAbandoned, fmt.Sprintf("no terminal state after %d polls", attempts))
	metrics.JobsCompletedTotal.WithLabelValues(string(kind), string(StateAbandoned)).Inc()
	m.record(jobID, kind, journal.EventAbandoned, "", attempts)
	logging.Warn("%s job %s abandoned after %d polls", kind, jobID, attempts)
}

func (m *Manager) transition(jobID string, state State, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.State.Terminal() {
		return
	}
	job.State = state
	job.Error = errMsg
	job.UpdatedAt = time.Now()
	if state.Terminal() && state != StateSuccess {
		metrics.JobDuration.WithLabelValues(string(job.Kind)).Observe(time.Since(job.SubmittedAt).Seconds())
	}
}

func (m *Manager) bumpAttempt(jobID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return 0
	}
	job.Attempts++
	job.UpdatedAt = time.Now()
	return job.Attempts
}

// sleep waits for d unless the manager is stopping.
func (m *Manager) sleep(d time.Duration) bool {
	if d <= 0 {
		return m.ctx.Err() == nil
	}
	select {
	case <-m.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (m *Manager) record(jobID string, kind mediatypes.MediaKind, event, detail string, attempt int) {
	if m.cfg.Journal == nil {
		return
	}
	m.cfg.Journal.Record(m.ctx, jobID, string(kind), event, detail, attempt)
}

// firstImageOutput picks the output reference to download for an image job,
// preferring the save node's images.
func firstImageOutput(entry engine.HistoryEntry) (engine.OutputRef, bool) {
	if node, ok := entry.Outputs[engine.SaveNodeID]; ok && len(node.Images) > 0 {
		return node.Images[0], true
	}
	for _, node := range entry.Outputs {
		if len(node.Images) > 0 {
			return node.Images[0], true
		}
		if len(node.Gifs) > 0 {
			return node.Gifs[0], true
		}
	}
	return engine.OutputRef{}, false
}
