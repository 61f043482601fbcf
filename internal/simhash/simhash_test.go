package simhash

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// gradient returns an image whose brightness increases left to right,
// so every dhash bit is 1.
func gradient(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func flat(w, h int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestFlavorSize(t *testing.T) {
	tests := []struct {
		flavor Flavor
		size   int
		bits   int
	}{
		{"dhash-8", 8, 64},
		{"dhash-6", 6, 36},
		{"dhash-4", 4, 16},
		{"bogus", 8, 64},
		{"", 8, 64},
	}
	for _, tt := range tests {
		if got := tt.flavor.Size(); got != tt.size {
			t.Errorf("Flavor(%q).Size() = %d, want %d", tt.flavor, got, tt.size)
		}
		if got := tt.flavor.Bits(); got != tt.bits {
			t.Errorf("Flavor(%q).Bits() = %d, want %d", tt.flavor, got, tt.bits)
		}
	}
}

func TestDHashLength(t *testing.T) {
	h := DHash(gradient(64, 64), "dhash-8")
	if len(h.Nibbles) != 16 {
		t.Errorf("dhash-8 nibbles = %q (len %d), want 16 hex chars", h.Nibbles, len(h.Nibbles))
	}
	h4 := DHash(gradient(64, 64), "dhash-4")
	if len(h4.Nibbles) != 4 {
		t.Errorf("dhash-4 nibbles = %q (len %d), want 4 hex chars", h4.Nibbles, len(h4.Nibbles))
	}
}

func TestDHashGradientAllOnes(t *testing.T) {
	h := DHash(gradient(64, 64), "dhash-8")
	if h.Nibbles != "ffffffffffffffff" {
		t.Errorf("gradient dhash = %q, want all ones", h.Nibbles)
	}
}

func TestDHashDeterministic(t *testing.T) {
	img := gradient(100, 80)
	a := DHash(img, DefaultFlavor)
	b := DHash(img, DefaultFlavor)
	if a != b {
		t.Errorf("DHash not deterministic: %+v vs %+v", a, b)
	}
}

func TestDHashFlatVsGradient(t *testing.T) {
	grad := DHash(gradient(64, 64), DefaultFlavor)
	flatHash := DHash(flat(64, 64, 128), DefaultFlavor)
	d, err := Distance(grad.Nibbles, flatHash.Nibbles)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if d != 64 {
		t.Errorf("distance gradient vs flat = %d, want 64", d)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0000", "0000", 0},
		{"0000", "0001", 1},
		{"0000", "000f", 4},
		{"ffff", "0000", 16},
		{"a", "b", 1},
	}
	for _, tt := range tests {
		got, err := Distance(tt.a, tt.b)
		if err != nil {
			t.Errorf("Distance(%q, %q): %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceMismatch(t *testing.T) {
	if _, err := Distance("abc", "ab"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Distance length mismatch = %v, want ErrMismatch", err)
	}
	if _, err := Distance("", ""); !errors.Is(err, ErrMismatch) {
		t.Errorf("Distance empty = %v, want ErrMismatch", err)
	}
	if _, err := Distance("xy", "ab"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Distance bad hex = %v, want ErrMismatch", err)
	}
}

func TestNeighborsRadiusZero(t *testing.T) {
	got := Neighbors("ab", 0)
	if len(got) != 1 || got[0] != "ab" {
		t.Errorf("Neighbors(ab, 0) = %v, want [ab]", got)
	}
}

func TestNeighborsRadiusOne(t *testing.T) {
	got := Neighbors("0", 1)
	// "0" has 4 bits, so 4 one-bit neighbors plus itself.
	if len(got) != 5 {
		t.Fatalf("Neighbors(0, 1) = %v, want 5 entries", got)
	}
	want := map[string]bool{"0": true, "1": true, "2": true, "4": true, "8": true}
	for _, h := range got {
		if !want[h] {
			t.Errorf("unexpected neighbor %q", h)
		}
	}
}

func TestNeighborsCoverHammingBall(t *testing.T) {
	start := "00"
	radius := 2
	got := Neighbors(start, radius)

	seen := make(map[string]bool, len(got))
	for _, h := range got {
		if seen[h] {
			t.Errorf("duplicate neighbor %q", h)
		}
		seen[h] = true
		d, err := Distance(start, h)
		if err != nil {
			t.Fatalf("Distance(%q, %q): %v", start, h, err)
		}
		if d > radius {
			t.Errorf("neighbor %q at distance %d > radius %d", h, d, radius)
		}
	}

	// 8 bits: C(8,0) + C(8,1) + C(8,2) = 1 + 8 + 28 = 37.
	if len(got) != 37 {
		t.Errorf("Neighbors(%q, %d) returned %d hashes, want 37", start, radius, len(got))
	}
}
