// Package middleware provides the HTTP middleware chain for the
// catalog's REST surface: request logging, Prometheus metrics keyed
// by mux route template, and gzip compression for JSON responses.
package middleware
