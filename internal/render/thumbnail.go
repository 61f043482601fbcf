package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/store"

	"github.com/disintegration/imaging"
)

// Size names a bounding box for rendered output. Full keeps the
// source dimensions.
type Size string

const (
	SizeThumb  Size = "thumb"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeFull   Size = "full"
)

var sizeBounds = map[Size]int{
	SizeThumb:  200,
	SizeSmall:  640,
	SizeMedium: 1280,
	SizeFull:   0,
}

// Valid reports whether the size name is known.
func (s Size) Valid() bool {
	_, ok := sizeBounds[s]
	return ok
}

// Thumbnail renders the asset at the named size as JPEG bytes,
// serving from the byte cache when the asset has not changed since.
func (r *Renderer) Thumbnail(ctx context.Context, a *store.Asset, size Size) ([]byte, error) {
	bound, ok := sizeBounds[size]
	if !ok {
		return nil, fmt.Errorf("unknown size %q", size)
	}

	start := time.Now()
	data, err := r.thumbnail(ctx, a, size, bound)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues(string(size), status).Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(string(size)).Observe(time.Since(start).Seconds())
	return data, err
}

func (r *Renderer) thumbnail(ctx context.Context, a *store.Asset, size Size, bound int) ([]byte, error) {
	cachePath := filepath.Join(r.cacheDir, r.cacheKey(a, size))
	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s %s", a.Slug, size)
		return data, nil
	}

	img, err := r.Render(ctx, a)
	if err != nil {
		return nil, err
	}
	if bound > 0 {
		img = imaging.Fit(img, bound, bound, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	}
	return buf.Bytes(), nil
}

// cacheKey folds the slug, size, and committed pipeline together, so
// any filter edit naturally invalidates the cached renders.
func (r *Renderer) cacheKey(a *store.Asset, size Size) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s/%s/", a.Slug, size)
	if enc, err := json.Marshal(a.Filters); err == nil {
		h.Write(enc)
	}
	return fmt.Sprintf("%x.jpg", h.Sum(nil)[:16])
}
