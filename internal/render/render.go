package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Renderer loads assets and applies their committed filters.
type Renderer struct {
	cacheDir string
	flavor   simhash.Flavor
}

// New creates a Renderer caching thumbnails under cacheDir.
func New(cacheDir string, flavor simhash.Flavor) (*Renderer, error) {
	if flavor == "" {
		flavor = simhash.DefaultFlavor
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &Renderer{cacheDir: cacheDir, flavor: flavor}, nil
}

// Render loads the asset's source and applies its effective transform.
func (r *Renderer) Render(ctx context.Context, a *store.Asset) (image.Image, error) {
	img, err := r.load(ctx, a)
	if err != nil {
		return nil, err
	}
	return Apply(img, a), nil
}

// HashAsset renders the asset and computes fresh perceptual hashes
// from the result, so hashes always reflect the committed pipeline.
func (r *Renderer) HashAsset(ctx context.Context, a *store.Asset) ([]simhash.Hash, error) {
	start := time.Now()

	img, err := r.Render(ctx, a)
	if err != nil {
		metrics.HashComputationsTotal.WithLabelValues(string(r.flavor), "error").Inc()
		return nil, err
	}

	h := simhash.DHash(img, r.flavor)
	metrics.HashComputationsTotal.WithLabelValues(string(r.flavor), "success").Inc()
	metrics.HashComputationDuration.WithLabelValues(string(r.flavor)).Observe(time.Since(start).Seconds())
	return []simhash.Hash{h}, nil
}

// load decodes the asset's source file into memory. Photos decode
// directly; for videos a representative frame is extracted.
func (r *Renderer) load(ctx context.Context, a *store.Asset) (image.Image, error) {
	if _, err := os.Stat(a.Path); err != nil {
		return nil, fmt.Errorf("source not accessible: %w", err)
	}

	switch a.Medium {
	case mediatypes.MediumVideo:
		return extractFrame(ctx, a.Path)
	case mediatypes.MediumPhoto:
		if img, err := loadWithVips(a.Path); err == nil {
			return img, nil
		}
		img, err := imaging.Open(a.Path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", a.Path, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("medium %q has no visual representation", a.Medium)
	}
}

// extractFrame pulls a single frame out of a video with ffmpeg,
// preferring the one-second mark and falling back to the first frame
// for clips shorter than that.
func extractFrame(ctx context.Context, path string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	for _, args := range [][]string{
		{"-i", path, "-ss", "00:00:01", "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-"},
		{"-i", path, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-"},
	} {
		cmd := exec.CommandContext(ctx, "ffmpeg", args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil || stdout.Len() == 0 {
			logging.Debug("ffmpeg frame extraction attempt failed for %s: %v, stderr: %s",
				path, err, stderr.String())
			continue
		}

		img, _, err := image.Decode(&stdout)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("ffmpeg produced no frame for %s", path)
}
