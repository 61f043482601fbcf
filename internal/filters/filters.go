package filters

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies one of the supported edit operations. The set is
// closed: anything else fails validation at the pipeline boundary.
type Kind string

const (
	// KindCrop crops to a normalized box within the frame.
	KindCrop Kind = "crop"
	// KindRotate rotates by an arbitrary number of degrees.
	KindRotate Kind = "rotate"
	// KindHFlip mirrors horizontally.
	KindHFlip Kind = "hflip"
	// KindVFlip mirrors vertically.
	KindVFlip Kind = "vflip"
	// KindBrightness adjusts brightness by a percentage.
	KindBrightness Kind = "brightness"
	// KindContrast adjusts contrast by a percentage.
	KindContrast Kind = "contrast"
	// KindSaturation adjusts saturation by a percentage.
	KindSaturation Kind = "saturation"
	// KindHue shifts hue by degrees.
	KindHue Kind = "hue"
	// KindAutocontrast stretches the histogram, clipping the given
	// percentage of lightest and darkest pixels.
	KindAutocontrast Kind = "autocontrast"
)

// Kinds lists every supported filter kind.
var Kinds = []Kind{
	KindCrop, KindRotate, KindHFlip, KindVFlip, KindBrightness,
	KindContrast, KindSaturation, KindHue, KindAutocontrast,
}

// Errors returned at the pipeline boundary.
var (
	// ErrInvalidParams reports out-of-domain filter parameters.
	ErrInvalidParams = errors.New("invalid filter parameters")
	// ErrIndexOutOfRange reports a bad filter index on removal.
	ErrIndexOutOfRange = errors.New("filter index out of range")
)

// Params carries the kind-specific parameters for a filter. Only the
// fields relevant to the kind are consulted; Validate enforces the
// per-kind schema.
type Params struct {
	// Crop box corners, normalized to [0, 1] of the frame.
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
	// Degrees for rotate and hue.
	Degrees float64 `json:"degrees,omitempty"`
	// Percent for brightness, contrast, saturation, and autocontrast.
	Percent float64 `json:"percent,omitempty"`
}

// Filter is one committed, immutable edit step. Editing re-adds a new
// filter rather than mutating an existing one.
type Filter struct {
	Kind   Kind   `json:"kind"`
	Params Params `json:"params"`
}

// PixelAffecting reports whether the filter changes pixel content,
// which requires perceptual hashes to be recomputed.
func (f Filter) PixelAffecting() bool {
	return true // every supported kind alters pixels
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate checks params against the schema for the given kind.
func Validate(kind Kind, p Params) error {
	switch kind {
	case KindCrop:
		if !finite(p.X1, p.Y1, p.X2, p.Y2) {
			return fmt.Errorf("%w: crop box must be finite", ErrInvalidParams)
		}
		if p.X1 < 0 || p.Y1 < 0 || p.X2 > 1 || p.Y2 > 1 {
			return fmt.Errorf("%w: crop box outside [0,1]", ErrInvalidParams)
		}
		if p.X1 >= p.X2 || p.Y1 >= p.Y2 {
			return fmt.Errorf("%w: crop box is empty", ErrInvalidParams)
		}
	case KindRotate, KindHue:
		if !finite(p.Degrees) {
			return fmt.Errorf("%w: degrees must be finite", ErrInvalidParams)
		}
	case KindBrightness, KindContrast, KindSaturation:
		if !finite(p.Percent) || p.Percent < 0 {
			return fmt.Errorf("%w: percent must be non-negative", ErrInvalidParams)
		}
	case KindAutocontrast:
		if !finite(p.Percent) || p.Percent < 0 || p.Percent >= 50 {
			return fmt.Errorf("%w: clip percent must be in [0,50)", ErrInvalidParams)
		}
	case KindHFlip, KindVFlip:
		// No parameters.
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidParams, kind)
	}
	return nil
}

// New validates and constructs a single filter record.
func New(kind Kind, p Params) (Filter, error) {
	if err := Validate(kind, p); err != nil {
		return Filter{}, err
	}
	return Filter{Kind: kind, Params: p}, nil
}
