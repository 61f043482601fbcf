package tags

import (
	"regexp"
	"sort"
	"strings"
)

// Group identifies the semantic family a tag belongs to.
type Group string

const (
	// GroupDate holds tags derived from the capture date (year, month,
	// day of month, day of week).
	GroupDate Group = "date"
	// GroupTime holds tags derived from the capture time of day.
	GroupTime Group = "time"
	// GroupCamera holds tags derived from camera metadata (kit,
	// aperture, focal length).
	GroupCamera Group = "camera"
	// GroupGeo holds geolocation tags.
	GroupGeo Group = "geo"
	// GroupUser holds user-defined tags; the catch-all group.
	GroupUser Group = "user"
)

// Display hues, in degrees on the color wheel. Every rule in a family
// shares a hue so the same kind of tag renders the same color across
// the whole library.
const (
	HueYear    = 0
	HueMonth   = 45
	HueDay     = 90
	HueWeekday = 150
	HueTime    = 210
	HueCamera  = 280
	HueGeo     = 320
	HueUser    = 30
)

// Classification describes how a single tag string was classified.
type Classification struct {
	Name  string `json:"name"`
	Group Group  `json:"group"`
	Hue   int    `json:"hue"`
	// Order is the index of the matching rule. Lower values are checked
	// first and sort first; the catch-all user rule always sorts last.
	Order int `json:"order"`
}

type rule struct {
	re    *regexp.Regexp
	group Group
	hue   int
}

func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)$`)
}

// rules is evaluated in order; the first full-string match wins. The
// ordering encodes display priority: date before time before camera
// before geo, with user tags last.
var rules = buildRules()

func buildRules() []rule {
	var rs []rule
	add := func(group Group, hue int, patterns ...string) {
		for _, p := range patterns {
			rs = append(rs, rule{re: anchored(p), group: group, hue: hue})
		}
	}

	// Year.
	add(GroupDate, HueYear, `(19|20)\d\d`)

	// Month.
	add(GroupDate, HueMonth,
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december")

	// Day of month.
	add(GroupDate, HueDay, `\d(st|nd|rd|th)`, `\d\d(st|nd|rd|th)`)

	// Day of week.
	add(GroupDate, HueWeekday,
		"sunday", "monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday")

	// Time of day.
	add(GroupTime, HueTime, `12am`, `\dam`, `\d\dam`, `12pm`, `\dpm`, `\d\dpm`)

	// Camera kit, aperture, focal length.
	add(GroupCamera, HueCamera, `kit-\S+`)
	add(GroupCamera, HueCamera, `f-\d`, `f-\d\d`, `f-\d\d\d`, `f-\d-\d`, `f-\d\d-\d`)
	add(GroupCamera, HueCamera, `\dmm`, `\d\dmm`, `\d\d\dmm`, `\d\d\d\dmm`)

	// Geolocation.
	add(GroupGeo, HueGeo, `country-\S+`, `state-\S+`, `city-\S+`, `place-\S+`)

	// User-defined: everything else.
	add(GroupUser, HueUser, `.*`)

	return rs
}

// UserOrder is the rule index of the catch-all user rule.
var UserOrder = len(rules) - 1

// Classify resolves a tag name to its group, hue, and priority. The
// name is canonicalized before matching, so "F/8" and "f-8" classify
// identically. Classification always succeeds: the user rule matches
// any string.
func Classify(name string) Classification {
	name = Canonical(name)
	for i, r := range rules {
		if r.re.MatchString(name) {
			return Classification{Name: name, Group: r.group, Hue: r.hue, Order: i}
		}
	}
	// Unreachable: the final rule matches everything.
	return Classification{Name: name, Group: GroupUser, Hue: HueUser, Order: UserOrder}
}

var nonWord = regexp.MustCompile(`\W+`)

// Canonical converts a raw tag to its canonical form: lowercase, with
// runs of non-word characters collapsed to single hyphens.
func Canonical(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Sort orders tag names in place for display: by matching rule
// priority first, then lexicographically within a rule. Because rules
// cluster by group, this yields date tags, then time, camera, geo,
// and finally user tags.
func Sort(names []string) {
	orders := make(map[string]int, len(names))
	for _, n := range names {
		orders[n] = Classify(n).Order
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if orders[a] != orders[b] {
			return orders[a] < orders[b]
		}
		return a < b
	})
}
