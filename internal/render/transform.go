package render

import (
	"image"
	"image/color"

	"media-catalog/internal/filters"
	"media-catalog/internal/store"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Apply runs the asset's effective transform over the image, in
// commit order.
func Apply(img image.Image, a *store.Asset) image.Image {
	p := filters.NewPipeline(a.Filters)
	for _, op := range p.EffectiveTransform() {
		img = applyOp(img, op)
	}
	return img
}

func applyOp(img image.Image, op filters.Op) image.Image {
	switch op.Kind {
	case filters.KindCrop:
		b := img.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		rect := image.Rect(
			b.Min.X+int(op.Params.X1*w),
			b.Min.Y+int(op.Params.Y1*h),
			b.Min.X+int(op.Params.X2*w),
			b.Min.Y+int(op.Params.Y2*h),
		)
		return imaging.Crop(img, rect)
	case filters.KindRotate:
		return imaging.Rotate(img, op.Params.Degrees, color.NRGBA{0, 0, 0, 255})
	case filters.KindHFlip:
		return imaging.FlipH(img)
	case filters.KindVFlip:
		return imaging.FlipV(img)
	case filters.KindBrightness:
		// Percent 100 is identity; imaging wants a -100..100 delta.
		return imaging.AdjustBrightness(img, clampDelta(op.Params.Percent))
	case filters.KindContrast:
		return imaging.AdjustContrast(img, clampDelta(op.Params.Percent))
	case filters.KindSaturation:
		return imaging.AdjustSaturation(img, clampDelta(op.Params.Percent))
	case filters.KindHue:
		return rotateHue(img, op.Params.Degrees)
	case filters.KindAutocontrast:
		return autocontrast(img, op.Params.Percent)
	default:
		return img
	}
}

func clampDelta(percent float64) float64 {
	d := percent - 100
	if d > 100 {
		d = 100
	} else if d < -100 {
		d = -100
	}
	return d
}

// rotateHue shifts every pixel's hue by the given angle, preserving
// saturation, lightness, and alpha.
func rotateHue(img image.Image, degrees float64) image.Image {
	src := imaging.Clone(img)
	for i := 0; i < len(src.Pix); i += 4 {
		c := colorful.Color{
			R: float64(src.Pix[i]) / 255,
			G: float64(src.Pix[i+1]) / 255,
			B: float64(src.Pix[i+2]) / 255,
		}
		h, s, l := c.Hsl()
		shifted := colorful.Hsl(normalizeAngle(h+degrees), s, l).Clamped()
		src.Pix[i] = uint8(shifted.R*255 + 0.5)
		src.Pix[i+1] = uint8(shifted.G*255 + 0.5)
		src.Pix[i+2] = uint8(shifted.B*255 + 0.5)
	}
	return src
}

func normalizeAngle(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// autocontrast stretches each channel's histogram to the full range,
// first discarding the given percentage of darkest and lightest
// pixels so outliers do not pin the scale.
func autocontrast(img image.Image, cutoff float64) image.Image {
	src := imaging.Clone(img)
	b := src.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return src
	}

	for ch := 0; ch < 3; ch++ {
		var hist [256]int
		for i := ch; i < len(src.Pix); i += 4 {
			hist[src.Pix[i]]++
		}

		discard := int(float64(total) * cutoff / 100)
		lo, hi := bound(hist[:], discard)
		if hi <= lo {
			continue
		}

		scale := 255.0 / float64(hi-lo)
		var lut [256]uint8
		for v := 0; v < 256; v++ {
			stretched := float64(v-lo) * scale
			if stretched < 0 {
				stretched = 0
			} else if stretched > 255 {
				stretched = 255
			}
			lut[v] = uint8(stretched + 0.5)
		}
		for i := ch; i < len(src.Pix); i += 4 {
			src.Pix[i] = lut[src.Pix[i]]
		}
	}
	return src
}

// bound finds the channel values enclosing the histogram after
// discarding the given count from each tail.
func bound(hist []int, discard int) (lo, hi int) {
	remaining := discard
	for lo = 0; lo < 255; lo++ {
		remaining -= hist[lo]
		if remaining < 0 {
			break
		}
	}
	remaining = discard
	for hi = 255; hi > 0; hi-- {
		remaining -= hist[hi]
		if remaining < 0 {
			break
		}
	}
	return lo, hi
}
