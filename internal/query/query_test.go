package query

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"beach/2019/", []string{"beach", "2019"}},
		{"beach/2019", []string{"beach", "2019"}},
		{"/beach//2019/", []string{"beach", "2019"}},
		{"  / beach /  ", []string{"beach"}},
		{"", nil},
		{"///", nil},
		{"Beach Trip/2019", []string{"beach-trip", "2019"}},
		{"beach/beach/2019", []string{"beach", "2019"}},
	}

	for _, tt := range tests {
		got := Parse(tt.in).Tags()
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q).Tags() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{"beach/2019/", "beach/", ""}
	for _, s := range tests {
		if got := Parse(s).String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
}

func TestMatchConjunction(t *testing.T) {
	a := []string{"x", "y"}
	b := []string{"x"}
	c := []string{"y"}

	q := Parse("x/y/")
	if !q.Match(a) {
		t.Error("x/y/ should match asset with tags {x,y}")
	}
	if q.Match(b) {
		t.Error("x/y/ should not match asset with tags {x}")
	}
	if q.Match(c) {
		t.Error("x/y/ should not match asset with tags {y}")
	}
}

func TestMatchEmptyQuery(t *testing.T) {
	q := Parse("")
	if !q.IsEmpty() {
		t.Fatal("Parse(\"\") not empty")
	}
	if !q.Match([]string{"anything"}) || !q.Match(nil) {
		t.Error("empty query must match all assets")
	}
}

func TestToggleAppendsAndRemoves(t *testing.T) {
	q := Parse("beach/2019/")

	q2 := Toggle(q, "sunset")
	if got := q2.String(); got != "beach/2019/sunset/" {
		t.Errorf("Toggle append: %q", got)
	}

	q3 := Toggle(q2, "beach")
	if got := q3.String(); got != "2019/sunset/" {
		t.Errorf("Toggle remove: %q", got)
	}
}

func TestToggleInvolution(t *testing.T) {
	queries := []Query{
		Parse(""),
		Parse("beach/"),
		Parse("beach/2019/sunset/"),
	}
	toggled := []string{"beach", "2019", "newtag", "Beach Trip"}

	// Toggling twice restores the tag set. Only the set is restored:
	// a re-added interior tag moves to the end, so positions may
	// differ.
	for _, q := range queries {
		for _, tag := range toggled {
			got := Toggle(Toggle(q, tag), tag)
			if !sameTagSet(got.Tags(), q.Tags()) {
				t.Errorf("Toggle(Toggle(%q, %q)) tags = %v, want set %v",
					q.String(), tag, got.Tags(), q.Tags())
			}
		}
	}
}

func TestToggleInvolutionPreservesOrder(t *testing.T) {
	// For absent tags and for the last tag, even positions survive a
	// double toggle.
	q := Parse("beach/2019/sunset/")
	for _, tag := range []string{"sunset", "newtag"} {
		got := Toggle(Toggle(q, tag), tag)
		if got.String() != q.String() {
			t.Errorf("Toggle(Toggle(%q, %q)) = %q, want %q",
				q.String(), tag, got.String(), q.String())
		}
	}
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if !set[t] {
			return false
		}
	}
	return true
}

func TestTogglePure(t *testing.T) {
	q := Parse("beach/2019/")
	before := q.String()
	_ = Toggle(q, "sunset")
	_ = Toggle(q, "beach")
	if q.String() != before {
		t.Errorf("Toggle mutated receiver: %q != %q", q.String(), before)
	}
}

func TestToggleCanonicalizes(t *testing.T) {
	q := Toggle(Parse(""), "Beach Trip")
	if got := q.String(); got != "beach-trip/" {
		t.Errorf("Toggle canonical form = %q", got)
	}
	q = Toggle(q, "beach-trip")
	if !q.IsEmpty() {
		t.Errorf("Toggle should remove canonical match, got %q", q.String())
	}
}

func TestTagsCopy(t *testing.T) {
	q := Parse("beach/2019/")
	got := q.Tags()
	got[0] = "mutated"
	if q.Tags()[0] != "beach" {
		t.Error("Tags() exposed internal slice")
	}
}
