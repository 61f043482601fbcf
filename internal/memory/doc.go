// Package memory keeps the process inside its container memory limit.
//
// ConfigureFromEnv derives GOMEMLIMIT from the container limit so the
// Go runtime leaves headroom for libvips and ffmpeg, which allocate
// outside the Go heap. Monitor watches heap usage during scans and
// pauses ingest workers when usage crosses the critical water mark;
// decoding a burst of large photos can otherwise run the container
// into its limit faster than the garbage collector reacts.
package memory
