package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"media-catalog/internal/filters"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"

	"github.com/disintegration/imaging"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func withFilters(fs ...filters.Filter) *store.Asset {
	return &store.Asset{Slug: "aaaa0000", Filters: fs}
}

func TestApplyCrop(t *testing.T) {
	img := solid(100, 100, color.NRGBA{128, 128, 128, 255})
	a := withFilters(filters.Filter{
		Kind:   filters.KindCrop,
		Params: filters.Params{X1: 0.25, Y1: 0.25, X2: 0.75, Y2: 0.75},
	})

	out := Apply(img, a)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 50 {
		t.Errorf("crop result = %dx%d, want 50x50", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestApplyFlipCancellation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})

	// Two identical flips in a row are dropped by the effective
	// transform, so the pixels come back untouched.
	a := withFilters(
		filters.Filter{Kind: filters.KindHFlip},
		filters.Filter{Kind: filters.KindHFlip},
	)
	out := imaging.Clone(Apply(img, a))
	if out.NRGBAAt(0, 0).R != 255 {
		t.Error("double hflip changed pixel order")
	}

	a = withFilters(filters.Filter{Kind: filters.KindHFlip})
	out = imaging.Clone(Apply(img, a))
	if out.NRGBAAt(0, 0).B != 255 {
		t.Error("single hflip did not mirror the image")
	}
}

func TestApplyBrightness(t *testing.T) {
	img := solid(4, 4, color.NRGBA{100, 100, 100, 255})

	brighter := imaging.Clone(Apply(img, withFilters(filters.Filter{
		Kind: filters.KindBrightness, Params: filters.Params{Percent: 150},
	})))
	if got := brighter.NRGBAAt(2, 2).R; got <= 100 {
		t.Errorf("brightness 150%% left pixel at %d, want brighter", got)
	}

	same := imaging.Clone(Apply(img, withFilters(filters.Filter{
		Kind: filters.KindBrightness, Params: filters.Params{Percent: 100},
	})))
	if got := same.NRGBAAt(2, 2).R; got != 100 {
		t.Errorf("brightness 100%% moved pixel to %d, want identity", got)
	}
}

func TestRotateHue(t *testing.T) {
	red := solid(2, 2, color.NRGBA{255, 0, 0, 255})

	out := imaging.Clone(rotateHue(red, 120))
	px := out.NRGBAAt(0, 0)
	if px.G < 200 || px.R > 50 {
		t.Errorf("hue +120 on red = %+v, want green", px)
	}

	// A full turn is the identity.
	out = imaging.Clone(rotateHue(red, 360))
	px = out.NRGBAAt(0, 0)
	if px.R < 250 || px.G > 5 {
		t.Errorf("hue +360 on red = %+v, want red", px)
	}
}

func TestAutocontrastStretches(t *testing.T) {
	// Half the pixels at 100, half at 150. Stretching should push
	// them towards the ends of the range.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{100, 100, 100, 255})
	img.SetNRGBA(1, 0, color.NRGBA{150, 150, 150, 255})

	out := imaging.Clone(autocontrast(img, 0))
	lo, hi := out.NRGBAAt(0, 0).R, out.NRGBAAt(1, 0).R
	if lo != 0 || hi != 255 {
		t.Errorf("autocontrast = %d..%d, want 0..255", lo, hi)
	}
}

func TestHashAssetReflectsFilters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradient.jpg")

	// Horizontal gradient gives a non-degenerate dhash.
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(x * 4)
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("imaging.Save() error = %v", err)
	}

	r, err := New(filepath.Join(dir, "cache"), simhash.DefaultFlavor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plain := &store.Asset{Slug: "aaaa0000", Medium: "photo", Path: path}
	hashes, err := r.HashAsset(context.Background(), plain)
	if err != nil {
		t.Fatalf("HashAsset() error = %v", err)
	}
	if len(hashes) != 1 || hashes[0].Flavor != simhash.DefaultFlavor {
		t.Fatalf("HashAsset() = %v, want one default-flavor hash", hashes)
	}

	flipped := &store.Asset{
		Slug: "aaaa0000", Medium: "photo", Path: path,
		Filters: []filters.Filter{{Kind: filters.KindHFlip}},
	}
	flippedHashes, err := r.HashAsset(context.Background(), flipped)
	if err != nil {
		t.Fatalf("HashAsset(flipped) error = %v", err)
	}
	if flippedHashes[0].Nibbles == hashes[0].Nibbles {
		t.Error("hflip did not change the perceptual hash of a gradient")
	}
}

func TestThumbnailCachesAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := imaging.Save(solid(400, 300, color.NRGBA{10, 200, 10, 255}), path); err != nil {
		t.Fatalf("imaging.Save() error = %v", err)
	}

	r, err := New(filepath.Join(dir, "cache"), simhash.DefaultFlavor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a := &store.Asset{Slug: "aaaa0000", Medium: "photo", Path: path}

	data, err := r.Thumbnail(context.Background(), a, SizeThumb)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() > 200 || img.Bounds().Dy() > 200 {
		t.Errorf("thumb size = %dx%d, want within 200x200", img.Bounds().Dx(), img.Bounds().Dy())
	}

	again, err := r.Thumbnail(context.Background(), a, SizeThumb)
	if err != nil {
		t.Fatalf("Thumbnail(cached) error = %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("cached thumbnail differs from first render")
	}

	// A filter edit must produce a different cache entry.
	edited := &store.Asset{
		Slug: "aaaa0000", Medium: "photo", Path: path,
		Filters: []filters.Filter{{Kind: filters.KindVFlip}},
	}
	if r.cacheKey(a, SizeThumb) == r.cacheKey(edited, SizeThumb) {
		t.Error("cache key ignores the filter pipeline")
	}

	if _, err := r.Thumbnail(context.Background(), a, Size("giant")); err == nil {
		t.Error("Thumbnail(unknown size) did not fail")
	}
}
