package tags

import (
	"reflect"
	"testing"
	"time"
)

func TestClassifyGroups(t *testing.T) {
	tests := []struct {
		name  string
		group Group
		hue   int
	}{
		{"2019", GroupDate, HueYear},
		{"1987", GroupDate, HueYear},
		{"march", GroupDate, HueMonth},
		{"december", GroupDate, HueMonth},
		{"1st", GroupDate, HueDay},
		{"22nd", GroupDate, HueDay},
		{"monday", GroupDate, HueWeekday},
		{"saturday", GroupDate, HueWeekday},
		{"3am", GroupTime, HueTime},
		{"12pm", GroupTime, HueTime},
		{"11pm", GroupTime, HueTime},
		{"kit-powershot", GroupCamera, HueCamera},
		{"f-8", GroupCamera, HueCamera},
		{"f-16", GroupCamera, HueCamera},
		{"f-5-6", GroupCamera, HueCamera},
		{"f-11-5", GroupCamera, HueCamera},
		{"50mm", GroupCamera, HueCamera},
		{"1200mm", GroupCamera, HueCamera},
		{"country-iceland", GroupGeo, HueGeo},
		{"city-reykjavik", GroupGeo, HueGeo},
		{"beach", GroupUser, HueUser},
		{"family", GroupUser, HueUser},
	}

	for _, tt := range tests {
		c := Classify(tt.name)
		if c.Group != tt.group {
			t.Errorf("Classify(%q).Group = %q, want %q", tt.name, c.Group, tt.group)
		}
		if c.Hue != tt.hue {
			t.Errorf("Classify(%q).Hue = %d, want %d", tt.name, c.Hue, tt.hue)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "march" matches both the month rule and the user catch-all; the
	// month rule comes first and must win.
	c := Classify("march")
	if c.Group != GroupDate {
		t.Fatalf("Classify(march).Group = %q, want %q", c.Group, GroupDate)
	}
	if c.Order == UserOrder {
		t.Error("Classify(march) resolved to the catch-all rule")
	}
}

func TestClassifyAnchoring(t *testing.T) {
	// "3am" is a time tag; "3-day-old" merely starts like one and must
	// fall through to the user group.
	if c := Classify("3am"); c.Group != GroupTime {
		t.Errorf("Classify(3am).Group = %q, want %q", c.Group, GroupTime)
	}
	if c := Classify("3-day-old"); c.Group != GroupUser {
		t.Errorf("Classify(3-day-old).Group = %q, want %q", c.Group, GroupUser)
	}
	// Partial matches of the year rule must not fire either.
	if c := Classify("20191"); c.Group != GroupUser {
		t.Errorf("Classify(20191).Group = %q, want %q", c.Group, GroupUser)
	}
}

func TestClassifyCanonicalizes(t *testing.T) {
	a := Classify("F/8")
	b := Classify("f-8")
	if a != b {
		t.Errorf("Classify(F/8) = %+v, Classify(f-8) = %+v", a, b)
	}
	if a.Group != GroupCamera {
		t.Errorf("Classify(F/8).Group = %q, want %q", a.Group, GroupCamera)
	}
}

func TestClassifyUserOrderIsLast(t *testing.T) {
	user := Classify("somebody")
	if user.Order != UserOrder {
		t.Fatalf("user tag order = %d, want %d", user.Order, UserOrder)
	}
	for _, name := range []string{"2019", "may", "3pm", "kit-d70", "place-home"} {
		if c := Classify(name); c.Order >= user.Order {
			t.Errorf("Classify(%q).Order = %d, not below user order %d",
				name, c.Order, user.Order)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Beach Trip", "beach-trip"},
		{"f/8", "f-8"},
		{"  hello  ", "hello"},
		// Underscores are word characters and survive canonicalization.
		{"a__b", "a__b"},
		{"UPPER", "upper"},
		{"--x--", "x"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	names := []string{"zebra", "march", "monday", "2019", "beach", "3pm", "f-8", "22nd"}
	Sort(names)
	want := []string{"2019", "march", "22nd", "monday", "3pm", "f-8", "beach", "zebra"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Sort() = %v, want %v", names, want)
	}
}

func TestFromStamp(t *testing.T) {
	stamp := time.Date(2019, time.March, 22, 16, 10, 0, 0, time.UTC)
	want := []string{"2019", "march", "22nd", "friday", "4pm"}
	if got := FromStamp(stamp); !reflect.DeepEqual(got, want) {
		t.Errorf("FromStamp() = %v, want %v", got, want)
	}
}

func TestFromStampHourBias(t *testing.T) {
	// 10:49 and later belongs to the 11am bucket; 10:48 stays at 10am.
	late := time.Date(2020, time.June, 1, 10, 49, 0, 0, time.UTC)
	if got := FromStamp(late)[4]; got != "11am" {
		t.Errorf("FromStamp(10:49) hour tag = %q, want 11am", got)
	}
	early := time.Date(2020, time.June, 1, 10, 48, 0, 0, time.UTC)
	if got := FromStamp(early)[4]; got != "10am" {
		t.Errorf("FromStamp(10:48) hour tag = %q, want 10am", got)
	}
}

func TestFromStampZero(t *testing.T) {
	if got := FromStamp(time.Time{}); got != nil {
		t.Errorf("FromStamp(zero) = %v, want nil", got)
	}
}

func TestFromStampOrdinals(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"},
		{21, "21st"}, {22, "22nd"}, {23, "23rd"}, {31, "31st"},
	}
	for _, tt := range tests {
		stamp := time.Date(2021, time.January, tt.day, 12, 0, 0, 0, time.UTC)
		if got := FromStamp(stamp)[2]; got != tt.want {
			t.Errorf("FromStamp(day %d) ordinal = %q, want %q", tt.day, got, tt.want)
		}
	}
}
