package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gen_studio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gen_studio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Diffusion engine metrics
var (
	EngineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_engine_requests_total",
			Help: "Total number of requests to the diffusion engine",
		},
		[]string{"operation", "status"},
	)

	EngineRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gen_studio_engine_request_duration_seconds",
			Help:    "Diffusion engine request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

// Generation job metrics
var (
	JobsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_jobs_submitted_total",
			Help: "Total number of generation jobs submitted",
		},
		[]string{"kind"},
	)

	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_jobs_completed_total",
			Help: "Total number of generation jobs by terminal state",
		},
		[]string{"kind", "state"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gen_studio_job_duration_seconds",
			Help:    "Generation job duration from submission to terminal state",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gen_studio_jobs_in_flight",
			Help: "Number of generation jobs currently being polled",
		},
	)

	PollAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gen_studio_poll_attempts_total",
			Help: "Total number of engine history polls",
		},
	)
)

// Video candidate sweep metrics
var (
	SweepProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_sweep_probes_total",
			Help: "Total number of video candidate download probes",
		},
		[]string{"status"},
	)

	SweepAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gen_studio_sweep_attempts_total",
			Help: "Total number of full candidate sweep passes",
		},
	)

	SweepExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gen_studio_sweep_exhausted_total",
			Help: "Total number of sweeps that exhausted all candidates",
		},
	)
)

// Metadata store metrics
var (
	StoreWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_store_writes_total",
			Help: "Total number of metadata store writes",
		},
		[]string{"store", "operation", "status"},
	)

	StoreRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gen_studio_store_records",
			Help: "Number of records currently held per store",
		},
		[]string{"store"},
	)
)

// Journal metrics
var (
	JournalEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_journal_events_total",
			Help: "Total number of job journal events recorded",
		},
		[]string{"event"},
	)

	JournalQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gen_studio_journal_query_duration_seconds",
			Help:    "Job journal query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"status"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gen_studio_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gen_studio_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)
)

// Chat/TTS bridge metrics
var (
	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_chat_requests_total",
			Help: "Total number of chat completions by outcome",
		},
		[]string{"status"}, // "ok", "fallback"
	)

	TTSRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gen_studio_tts_runs_total",
			Help: "Total number of TTS subprocess runs",
		},
		[]string{"status"},
	)

	TTSRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gen_studio_tts_run_duration_seconds",
			Help:    "TTS subprocess run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gen_studio_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
