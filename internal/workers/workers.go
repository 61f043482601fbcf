package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a pool size derived from the available CPUs. The
// multiplier adjusts for the task mix (1.0 CPU-bound, 2.0 I/O-bound,
// 1.5 mixed) and limit caps the result; 0 means no cap. The
// HASH_WORKERS environment variable overrides the calculation.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("HASH_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForHashing returns the pool size for perceptual hash computation,
// one worker per CPU.
func ForHashing(limit int) int {
	return Count(1.0, limit)
}

// ForThumbnails returns the pool size for thumbnail generation, which
// mixes decoding with cache I/O.
func ForThumbnails(limit int) int {
	return Count(1.5, limit)
}

// ForIO returns the pool size for I/O-dominated work such as
// directory walking.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
