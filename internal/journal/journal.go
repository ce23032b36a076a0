package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"gen-studio/internal/logging"
	"gen-studio/internal/metrics"
)

// Default timeout for journal operations
const defaultTimeout = 5 * time.Second

// Well-known event names recorded by the poller and handlers.
const (
	EventSubmitted  = "submitted"
	EventPollResult = "poll_result"
	EventDownloaded = "downloaded"
	EventSweepProbe = "sweep_probe"
	EventCompleted  = "completed"
	EventFailed     = "failed"
	EventAbandoned  = "abandoned"
)

// Event is one recorded job lifecycle event.
type Event struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"jobId"`
	Kind      string    `json:"kind"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail,omitempty"`
	Attempt   int       `json:"attempt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobSummary is the per-job rollup returned by RecentJobs.
type JobSummary struct {
	JobID      string    `json:"jobId"`
	Kind       string    `json:"kind"`
	LastEvent  string    `json:"lastEvent"`
	EventCount int       `json:"eventCount"`
	StartedAt  time.Time `json:"startedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Journal is the SQLite-backed job event log.
type Journal struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the journal database at the given file path.
// The parent directory must already exist and be writable.
func New(ctx context.Context, path string) (*Journal, error) {
	logging.Info("Journal path: %s", path)

	// WAL mode and busy_timeout prevent "database is locked" errors when the
	// poller and handlers record concurrently
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close journal after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, path: path}

	if err := j.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close journal after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	logging.Info("Journal initialized successfully at %s", path)
	return j, nil
}

func (j *Journal) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS job_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		event TEXT NOT NULL,
		detail TEXT,
		attempt INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_job_events_job_id ON job_events(job_id);
	CREATE INDEX IF NOT EXISTS idx_job_events_created ON job_events(created_at);
	`

	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one event. Recording failures are logged, not returned, so
// journal trouble never fails a generation job.
func (j *Journal) Record(ctx context.Context, jobID, kind, event, detail string, attempt int) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	_, err := j.db.ExecContext(opCtx, `
		INSERT INTO job_events (job_id, kind, event, detail, attempt)
		VALUES (?, ?, ?, ?, ?)
	`, jobID, kind, event, detail, attempt)
	metrics.JournalQueryDuration.WithLabelValues("record").Observe(time.Since(start).Seconds())

	if err != nil {
		logging.Warn("failed to record journal event %s for job %s: %v", event, jobID, err)
		return
	}
	metrics.JournalEventsTotal.WithLabelValues(event).Inc()
}

// Events returns all events for one job, oldest first.
func (j *Journal) Events(ctx context.Context, jobID string) ([]Event, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := j.db.QueryContext(opCtx, `
		SELECT id, job_id, kind, event, COALESCE(detail, ''), attempt, created_at
		FROM job_events
		WHERE job_id = ?
		ORDER BY id ASC
	`, jobID)
	metrics.JournalQueryDuration.WithLabelValues("events").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to query journal events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.JobID, &e.Kind, &e.Event, &e.Detail, &e.Attempt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal event: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// RecentJobs returns a rollup of the most recently active jobs.
func (j *Journal) RecentJobs(ctx context.Context, limit int) ([]JobSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := j.db.QueryContext(opCtx, `
		SELECT
			job_id,
			kind,
			(SELECT event FROM job_events e2 WHERE e2.job_id = e.job_id ORDER BY e2.id DESC LIMIT 1),
			COUNT(*),
			MIN(created_at),
			MAX(created_at)
		FROM job_events e
		GROUP BY job_id, kind
		ORDER BY MAX(created_at) DESC, MAX(id) DESC
		LIMIT ?
	`, limit)
	metrics.JournalQueryDuration.WithLabelValues("recent_jobs").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to query recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobSummary
	for rows.Next() {
		var s JobSummary
		var startedAt, updatedAt int64
		if err := rows.Scan(&s.JobID, &s.Kind, &s.LastEvent, &s.EventCount, &startedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job summary: %w", err)
		}
		s.StartedAt = time.Unix(startedAt, 0).UTC()
		s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		jobs = append(jobs, s)
	}
	return jobs, rows.Err()
}

// Prune deletes events older than the retention window and reports how many
// rows went.
func (j *Journal) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cutoff := time.Now().Add(-retention).Unix()

	start := time.Now()
	result, err := j.db.ExecContext(opCtx, `DELETE FROM job_events WHERE created_at < ?`, cutoff)
	metrics.JournalQueryDuration.WithLabelValues("prune").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logging.Info("Pruned %d journal events older than %s", removed, retention)
	}
	return removed, nil
}
