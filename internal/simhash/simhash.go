package simhash

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/bits"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Flavor identifies a hash algorithm and its grid size, e.g. "dhash-8"
// for an 8x8 difference hash (64 bits, 16 hex nibbles).
type Flavor string

// DefaultFlavor is used when no flavor is configured.
const DefaultFlavor Flavor = "dhash-8"

// Hash is one perceptual fingerprint of an asset's pixel content. For
// videos, Time records the frame offset in seconds the hash was taken
// at; it is zero for photos.
type Hash struct {
	Flavor  Flavor  `json:"flavor"`
	Nibbles string  `json:"nibbles"`
	Time    float64 `json:"time,omitempty"`
}

// Size returns the grid size encoded in a flavor ("dhash-6" -> 6).
// Unknown flavors fall back to the default size of 8.
func (f Flavor) Size() int {
	if i := strings.LastIndexByte(string(f), '-'); i >= 0 {
		if n, err := strconv.Atoi(string(f)[i+1:]); err == nil && n > 0 {
			return n
		}
	}
	return 8
}

// Bits returns the number of bits in a hash of this flavor.
func (f Flavor) Bits() int {
	s := f.Size()
	return s * s
}

// DHash computes a difference hash over an already-decoded image.
func DHash(img image.Image, flavor Flavor) Hash {
	size := flavor.Size()
	gray := imaging.Grayscale(imaging.Resize(img, size+1, size, imaging.Lanczos))

	bitstring := make([]bool, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			left := luminance(gray.At(x, y))
			right := luminance(gray.At(x+1, y))
			bitstring = append(bitstring, right > left)
		}
	}
	return Hash{Flavor: flavor, Nibbles: bitsToNibbles(bitstring)}
}

// FromFile decodes an image file and computes its difference hash.
func FromFile(path string, flavor Flavor) (Hash, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Hash{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return DHash(img, flavor), nil
}

func luminance(c color.Color) uint32 {
	r, _, _, _ := c.RGBA()
	return r // grayscale image: all channels equal
}

func bitsToNibbles(bitstring []bool) string {
	var sb strings.Builder
	for i := 0; i < len(bitstring); i += 4 {
		var nibble byte
		for j := 0; j < 4 && i+j < len(bitstring); j++ {
			nibble <<= 1
			if bitstring[i+j] {
				nibble |= 1
			}
		}
		fmt.Fprintf(&sb, "%x", nibble)
	}
	return sb.String()
}

// ErrMismatch reports an attempt to compare hashes of different
// lengths or flavors.
var ErrMismatch = errors.New("hashes are not comparable")

func nibbleValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Distance returns the Hamming distance between two hex-encoded hashes
// of equal length.
func Distance(a, b string) (int, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("%w: %q vs %q", ErrMismatch, a, b)
	}
	total := 0
	for i := 0; i < len(a); i++ {
		av, ok := nibbleValue(a[i])
		if !ok {
			return 0, fmt.Errorf("%w: bad nibble %q", ErrMismatch, a[i])
		}
		bv, ok := nibbleValue(b[i])
		if !ok {
			return 0, fmt.Errorf("%w: bad nibble %q", ErrMismatch, b[i])
		}
		total += bits.OnesCount8(av ^ bv)
	}
	return total, nil
}

// Neighbors returns every hex string within the given Hamming radius
// of the start hash, including the start itself. The expansion lets a
// store answer "all hashes within distance r" with indexed equality
// lookups instead of a linear scan.
func Neighbors(start string, radius int) []string {
	visited := map[string]bool{start: true}
	out := []string{start}
	frontier := []string{start}

	for r := 0; r < radius; r++ {
		var next []string
		for _, h := range frontier {
			for i := 0; i < len(h); i++ {
				v, ok := nibbleValue(h[i])
				if !ok {
					continue
				}
				for bit := 0; bit < 4; bit++ {
					flipped := fmt.Sprintf("%s%x%s", h[:i], v^(1<<bit), h[i+1:])
					if !visited[flipped] {
						visited[flipped] = true
						next = append(next, flipped)
					}
				}
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}
