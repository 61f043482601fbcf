// Package catalog is the orchestration layer of the media catalog. It
// owns the asset lifecycle: lookup and predicate queries, tag and
// stamp mutations, filter pipeline edits with preview sessions, and
// deletion. All persistence goes through the store; pixel work is
// delegated to a rendering collaborator.
package catalog
