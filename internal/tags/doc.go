// Package tags classifies raw tag strings into semantic groups.
//
// Tags in the catalog come from three places: the capture timestamp
// (year, month, weekday, and so on), camera metadata (kit, aperture,
// focal length, geolocation), and the user. Classification is driven
// by an ordered list of anchored regular expressions; the first
// matching rule decides a tag's group, display hue, and sort priority.
// The order of the rule list is load-bearing: a tag that could match
// both a month name and the user catch-all must classify as a month.
package tags
