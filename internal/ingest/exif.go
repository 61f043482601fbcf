package ingest

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"media-catalog/internal/tags"
)

// exifDescription carries everything the importer learns from a
// photo's EXIF block.
type exifDescription struct {
	stamp     time.Time
	latitude  float64
	longitude float64
	tags      []string
}

// cameraNoiseWords are manufacturer and marketing words dropped from
// the camera model before it becomes a kit tag.
var cameraNoiseWords = map[string]bool{
	"canon":     true,
	"nikon":     true,
	"kodak":     true,
	"digital":   true,
	"camera":    true,
	"super":     true,
	"powershot": true,
}

// readExif decodes the EXIF block of the file at path. The second
// return is false when the file has no usable EXIF data.
func readExif(path string) (*exifDescription, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, false
	}

	d := &exifDescription{}
	if tm, err := x.DateTime(); err == nil {
		d.stamp = tm.UTC()
	}
	if lat, lng, err := x.LatLong(); err == nil {
		d.latitude = lat
		d.longitude = lng
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			if t := kitTag(model); t != "" {
				d.tags = append(d.tags, t)
			}
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil {
			if t := apertureTag(num, den); t != "" {
				d.tags = append(d.tags, t)
			}
		}
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := tag.Rat2(0); err == nil {
			if t := focalTag(num, den); t != "" {
				d.tags = append(d.tags, t)
			}
		}
	}
	return d, true
}

// kitTag turns a camera model into a kit tag, dropping noise words
// and past-tense or stabilizer suffixes. "Canon EOS 5D" becomes
// "kit-eos-5d". Returns "" when nothing survives.
func kitTag(model string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(model)) {
		if cameraNoiseWords[w] || strings.HasSuffix(w, "ed") || strings.HasSuffix(w, "is") {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return ""
	}
	return tags.Canonical("kit-" + strings.Join(kept, "-"))
}

// apertureTag renders an f-number to one decimal place: f/8 becomes
// "f-8" and f/5.6 becomes "f-5-6".
func apertureTag(num, den int64) string {
	if num <= 0 || den <= 0 {
		return ""
	}
	tenths := int(math.Round(10 * float64(num) / float64(den)))
	if tenths%10 == 0 {
		return fmt.Sprintf("f-%d", tenths/10)
	}
	return fmt.Sprintf("f-%d-%d", tenths/10, tenths%10)
}

// focalTag rounds a focal length to two significant digits of
// millimetres: 18.2 becomes "18mm" and 199 becomes "200mm".
func focalTag(num, den int64) string {
	if num <= 0 || den <= 0 {
		return ""
	}
	v := float64(num) / float64(den)
	scale := math.Pow(10, math.Ceil(math.Log10(v))-2)
	if scale < 1 {
		scale = 1
	}
	return fmt.Sprintf("%dmm", int(math.Round(v/scale)*scale))
}
