package ingest

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/retry"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"
	"media-catalog/internal/tags"
	"media-catalog/internal/workers"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	defaultScanInterval = 30 * time.Minute

	// Hard cap on the hash pool regardless of CPU count.
	maxHashWorkers = 8
)

// Ingester scans a media directory and imports new assets.
type Ingester struct {
	store        *store.Store
	mediaDir     string
	scanInterval time.Duration
	flavor       simhash.Flavor
	stopChan     chan struct{}
	monitor      *memory.Monitor

	mu         sync.Mutex
	isScanning bool
	lastScan   time.Time
	startTime  time.Time

	created atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64

	onScanComplete func()
}

// New creates an Ingester over mediaDir. A non-positive scanInterval
// selects the default.
func New(s *store.Store, mediaDir string, scanInterval time.Duration, flavor simhash.Flavor) *Ingester {
	if scanInterval <= 0 {
		scanInterval = defaultScanInterval
	}
	if flavor == "" {
		flavor = simhash.DefaultFlavor
	}
	return &Ingester{
		store:        s,
		mediaDir:     mediaDir,
		scanInterval: scanInterval,
		flavor:       flavor,
		stopChan:     make(chan struct{}),
		startTime:    time.Now(),
	}
}

// SetMonitor installs a memory monitor gating hash workers during
// scans.
func (in *Ingester) SetMonitor(m *memory.Monitor) {
	in.monitor = m
}

// SetOnScanComplete registers a callback invoked after every scan.
func (in *Ingester) SetOnScanComplete(callback func()) {
	in.onScanComplete = callback
}

// Start runs an initial scan in the background and then rescans on
// the configured interval.
func (in *Ingester) Start(ctx context.Context) {
	go func() {
		logging.Info("Starting initial media scan in background...")
		if err := in.Scan(ctx); err != nil {
			logging.Error("Initial scan error: %v", err)
		}
	}()
	go in.periodicScan(ctx)
}

// Stop halts periodic scanning and interrupts a scan in progress.
func (in *Ingester) Stop() {
	close(in.stopChan)
}

// IsScanning reports whether a scan is currently running.
func (in *Ingester) IsScanning() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.isScanning
}

// LastScanTime returns when the last scan finished.
func (in *Ingester) LastScanTime() time.Time {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lastScan
}

// TriggerScan starts a scan in the background if none is running.
func (in *Ingester) TriggerScan(ctx context.Context) {
	go func() {
		if err := in.Scan(ctx); err != nil {
			logging.Error("manually triggered scan failed: %v", err)
		}
	}()
}

// Status describes the ingester for health reporting.
type Status struct {
	Scanning  bool      `json:"scanning"`
	LastScan  time.Time `json:"lastScan,omitempty"`
	StartTime time.Time `json:"startTime"`
	Uptime    string    `json:"uptime"`
	Created   int64     `json:"created"`
	Skipped   int64     `json:"skipped"`
	Failed    int64     `json:"failed"`
}

// GetStatus returns a snapshot of scan progress.
func (in *Ingester) GetStatus() Status {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Status{
		Scanning:  in.isScanning,
		LastScan:  in.lastScan,
		StartTime: in.startTime,
		Uptime:    time.Since(in.startTime).String(),
		Created:   in.created.Load(),
		Skipped:   in.skipped.Load(),
		Failed:    in.failed.Load(),
	}
}

// Scan walks the media directory once, importing any media file the
// store does not know yet. Concurrent calls coalesce into one scan.
func (in *Ingester) Scan(ctx context.Context) error {
	if !in.tryStartScan() {
		logging.Info("Scan already in progress, skipping...")
		return nil
	}
	defer in.finishScan()

	metrics.IngestIsRunning.Set(1)
	defer metrics.IngestIsRunning.Set(0)
	metrics.IngestRunsTotal.Inc()

	start := time.Now()
	logging.Info("Scanning %s...", in.mediaDir)

	candidates, err := in.collectCandidates(ctx)
	if err != nil {
		metrics.IngestErrors.Inc()
		return err
	}

	created := in.importAll(ctx, candidates)

	metrics.IngestLastRunTimestamp.Set(float64(time.Now().Unix()))
	logging.Info("Scan complete: %d new assets from %d candidates in %v",
		created, len(candidates), time.Since(start))

	if in.onScanComplete != nil {
		in.onScanComplete()
	}
	return nil
}

// collectCandidates walks the tree and returns media files the store
// does not already track. Dot files and dot directories are skipped.
func (in *Ingester) collectCandidates(ctx context.Context) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(in.mediaDir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-in.stopChan:
			return fs.SkipAll
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != in.mediaDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !mediatypes.IsMediaPath(path) {
			return nil
		}

		known, err := in.store.ExistsPath(ctx, path)
		if err != nil {
			return err
		}
		if known {
			in.skipped.Add(1)
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return nil, fmt.Errorf("walk error: %w", err)
	}
	return candidates, nil
}

// importAll processes candidates through a bounded worker pool, since
// hashing dominates the cost of an import.
func (in *Ingester) importAll(ctx context.Context, candidates []string) int64 {
	numWorkers := workers.ForHashing(maxHashWorkers)
	logging.Debug("Importing with %d hash workers", numWorkers)

	paths := make(chan string)
	var wg sync.WaitGroup
	var created int64

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				if in.monitor != nil && !in.monitor.WaitIfPaused() {
					continue // stopped while waiting on memory
				}
				if err := in.importOne(ctx, path); err != nil {
					logging.Warn("Failed to import %s: %v", path, err)
					in.failed.Add(1)
					metrics.IngestErrors.Inc()
					continue
				}
				atomic.AddInt64(&created, 1)
			}
		}()
	}

	for _, path := range candidates {
		select {
		case <-in.stopChan:
			close(paths)
			wg.Wait()
			return atomic.LoadInt64(&created)
		case paths <- path:
		}
	}
	close(paths)
	wg.Wait()
	return atomic.LoadInt64(&created)
}

// importOne builds and persists the asset record for one file.
func (in *Ingester) importOne(ctx context.Context, path string) error {
	medium, ok := mediatypes.MediumForPath(path)
	if !ok {
		return fmt.Errorf("no medium for %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	slug, err := slugFor(path)
	if err != nil {
		return fmt.Errorf("failed to compute slug: %w", err)
	}

	stamp := info.ModTime().UTC()
	a := &store.Asset{
		Slug:   slug,
		Medium: medium,
		Path:   path,
	}
	if medium == mediatypes.MediumPhoto {
		if d, ok := readExif(path); ok {
			if !d.stamp.IsZero() {
				stamp = d.stamp
			}
			a.Latitude = d.latitude
			a.Longitude = d.longitude
			a.Tags = append(a.Tags, d.tags...)
		}
	}
	a.Stamp = stamp
	a.Tags = append(a.Tags, tags.FromStamp(stamp)...)
	a.Tags = append(a.Tags, string(medium))
	tags.Sort(a.Tags)

	if medium == mediatypes.MediumPhoto {
		in.describePhoto(a)
	}

	cfg := retry.DefaultConfig()
	cfg.Retryable = func(err error) bool {
		return errors.Is(err, store.ErrUnavailable)
	}
	if err := retry.Do(ctx, "store", cfg, func() error {
		return in.store.Insert(ctx, a)
	}); err != nil {
		return err
	}

	in.created.Add(1)
	metrics.IngestAssetsCreated.Inc()
	logging.Debug("Imported %s as %s", path, slug)
	return nil
}

// describePhoto fills dimensions and the perceptual hash. Both are
// best effort; a record without them is still useful.
func (in *Ingester) describePhoto(a *store.Asset) {
	if f, err := os.Open(a.Path); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			a.Width = cfg.Width
			a.Height = cfg.Height
		}
		if err := f.Close(); err != nil {
			logging.Warn("error closing %s: %v", a.Path, err)
		}
	}

	start := time.Now()
	h, err := simhash.FromFile(a.Path, in.flavor)
	if err != nil {
		logging.Debug("No perceptual hash for %s: %v", a.Path, err)
		metrics.HashComputationsTotal.WithLabelValues(string(in.flavor), "error").Inc()
		return
	}
	metrics.HashComputationsTotal.WithLabelValues(string(in.flavor), "success").Inc()
	metrics.HashComputationDuration.WithLabelValues(string(in.flavor)).Observe(time.Since(start).Seconds())
	a.Hashes = []simhash.Hash{h}
}

// slugFor derives the content-addressed slug, the hex SHA-256 of the
// file bytes.
func slugFor(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("error closing %s: %v", path, err)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func (in *Ingester) tryStartScan() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.isScanning {
		return false
	}
	in.isScanning = true
	return true
}

func (in *Ingester) finishScan() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.isScanning = false
	in.lastScan = time.Now()
}

func (in *Ingester) periodicScan(ctx context.Context) {
	ticker := time.NewTicker(in.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic scan triggered")
			if err := in.Scan(ctx); err != nil {
				logging.Error("periodic scan failed: %v", err)
			}
		case <-in.stopChan:
			return
		}
	}
}
