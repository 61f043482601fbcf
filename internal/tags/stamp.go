package tags

import (
	"strconv"
	"time"
)

// hourBias shifts the hour boundary to 49 minutes past the hour, so
// any time from e.g. 10:49 to 11:48 carries the "11am" tag.
const hourBias = 11 * time.Minute

// FromStamp derives the set of date and time tags for a capture
// timestamp: year ("2019"), month ("march"), day of month ("22nd"),
// day of week ("monday"), and hour of day ("4pm").
func FromStamp(t time.Time) []string {
	if t.IsZero() {
		return nil
	}
	hour := t.Add(hourBias)
	return []string{
		t.Format("2006"),
		Canonical(t.Format("January")),
		ordinal(t.Day()),
		Canonical(t.Format("Monday")),
		hour.Format("3pm"),
	}
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
