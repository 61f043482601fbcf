package metrics

import "media-catalog/internal/retry"

// retryObserver implements retry.Observer using the Prometheus
// counters declared in this package.
type retryObserver struct{}

// NewRetryObserver creates an observer that records retry outcomes into
// the Prometheus counters declared in metrics.go.
func NewRetryObserver() retry.Observer {
	return &retryObserver{}
}

func (o *retryObserver) ObserveAttempt(operation string) {
	RetryAttempts.WithLabelValues(operation).Inc()
}

func (o *retryObserver) ObserveSuccess(operation string) {
	RetrySuccess.WithLabelValues(operation).Inc()
}

func (o *retryObserver) ObserveFailure(operation string) {
	RetryFailures.WithLabelValues(operation).Inc()
}
