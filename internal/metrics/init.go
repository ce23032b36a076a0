package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"submit", "history", "fetch_output", "upload_image"} {
		EngineRequestsTotal.WithLabelValues(op, "success")
		EngineRequestsTotal.WithLabelValues(op, "error")
		EngineRequestDuration.WithLabelValues(op)
	}

	for _, kind := range []string{"image", "video"} {
		JobsSubmittedTotal.WithLabelValues(kind)
		JobDuration.WithLabelValues(kind)
		for _, state := range []string{"success", "error", "abandoned"} {
			JobsCompletedTotal.WithLabelValues(kind, state)
		}
	}

	SweepProbesTotal.WithLabelValues("hit")
	SweepProbesTotal.WithLabelValues("miss")

	for _, store := range []string{"images", "videos", "voices"} {
		StoreRecords.WithLabelValues(store)
		for _, op := range []string{"append", "replace"} {
			StoreWritesTotal.WithLabelValues(store, op, "success")
			StoreWritesTotal.WithLabelValues(store, op, "error")
		}
	}

	for _, event := range []string{"submitted", "polling", "success", "error", "abandoned", "download", "sweep_attempt"} {
		JournalEventsTotal.WithLabelValues(event)
	}

	for _, status := range []string{"success", "error"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
		TTSRunsTotal.WithLabelValues(status)
	}
	ChatRequestsTotal.WithLabelValues("ok")
	ChatRequestsTotal.WithLabelValues("fallback")
}
