package metrics

// InitializeMetrics pre-populates expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	storeOps := []string{
		"insert_asset", "get_asset", "get_asset_by_slug", "update_asset",
		"delete_asset", "find_by_tags", "find_by_hash_bucket",
		"find_sharing_tags", "tag_counts", "count_assets",
	}
	for _, op := range storeOps {
		StoreQueryTotal.WithLabelValues(op, "success")
		StoreQueryTotal.WithLabelValues(op, "error")
		StoreQueryDuration.WithLabelValues(op)
	}

	for _, relation := range []string{"tags", "content"} {
		SimilarityQueriesTotal.WithLabelValues(relation, "success")
		SimilarityQueriesTotal.WithLabelValues(relation, "error")
		SimilarityQueryDuration.WithLabelValues(relation)
		SimilarityResults.WithLabelValues(relation)
	}

	for _, op := range []string{"store", "hash", "thumbnail"} {
		RetryAttempts.WithLabelValues(op)
		RetrySuccess.WithLabelValues(op)
		RetryFailures.WithLabelValues(op)
	}

	for _, size := range []string{"thumb", "small", "medium", "full"} {
		ThumbnailGenerationsTotal.WithLabelValues(size, "success")
		ThumbnailGenerationsTotal.WithLabelValues(size, "error")
		ThumbnailGenerationDuration.WithLabelValues(size)
	}
}
