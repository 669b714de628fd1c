package metrics

var (
	mediaTypeLabels    = []string{"image", "video", "audio", "stream"}
	sourceStatusLabels = []string{"online", "offline", "checking", "unknown"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, t := range mediaTypeLabels {
		MediaItemsTotal.WithLabelValues(t)
		for _, status := range []string{"imported", "skipped", "error"} {
			ImportFilesTotal.WithLabelValues(t, status)
		}
	}

	for _, s := range sourceStatusLabels {
		SourcesTotal.WithLabelValues(s)
	}

	for _, op := range []string{"describe", "thumbnail_prompt", "thumbnail_image"} {
		for _, status := range []string{"success", "error", "breaker_open", "rate_limited"} {
			InsightRequestsTotal.WithLabelValues(op, status)
		}
		InsightRequestDuration.WithLabelValues(op)
	}

	for _, status := range []string{"success", "no_image", "invalid_image", "frame_error", "discarded", "error"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"open", "stat", "rename", "remove"} {
		FilesystemStaleErrors.WithLabelValues(op)
		for _, outcome := range []string{"success", "failure"} {
			FilesystemRetriesTotal.WithLabelValues(op, outcome)
		}
	}

	for _, status := range []string{"success", "error", "error_not_found", "error_empty", "error_decode", "error_encode"} {
		FrameSamplesTotal.WithLabelValues(status)
	}

	for _, kind := range []string{"describe", "thumbnail", "bulk"} {
		TasksInFlight.WithLabelValues(kind)
		TasksCompletedTotal.WithLabelValues(kind, "success")
		TasksCompletedTotal.WithLabelValues(kind, "error")
	}

	for _, op := range []string{"initialize_schema", "get_blob", "put_snapshot", "list_keys", "vacuum", "get_metadata", "set_metadata"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, r := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(r)
	}

	for _, s := range []string{"success", "error"} {
		SnapshotWritesTotal.WithLabelValues(s)
	}

	for _, s := range []string{"online", "offline"} {
		SourceChecksTotal.WithLabelValues(s)
	}
}
