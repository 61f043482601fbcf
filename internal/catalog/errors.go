package catalog

import (
	"media-catalog/internal/filters"
	"media-catalog/internal/store"
)

// The error taxonomy surfaced to callers. Each is an alias for the
// sentinel of the layer that detects the condition, so errors.Is works
// no matter which layer a caller imports.
var (
	// ErrNotFound reports an unknown asset slug or id.
	ErrNotFound = store.ErrNotFound
	// ErrInvalidFilterParams reports filter parameters outside their
	// documented ranges.
	ErrInvalidFilterParams = filters.ErrInvalidParams
	// ErrIndexOutOfRange reports a filter index past the pipeline.
	ErrIndexOutOfRange = filters.ErrIndexOutOfRange
	// ErrDependencyUnavailable reports a transient collaborator
	// failure. The operation may be retried.
	ErrDependencyUnavailable = store.ErrUnavailable
)
