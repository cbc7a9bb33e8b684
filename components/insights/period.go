package insights

import (
	"strconv"
	"strings"
	"time"
)

var periodLayouts = []struct {
	layout  string
	hasYear bool
}{
	{layout: "Jan", hasYear: false},
	{layout: "January", hasYear: false},
	{layout: "2006-01", hasYear: true},
	{layout: "Jan 2006", hasYear: true},
	{layout: "January 2006", hasYear: true},
}

// period is a parsed calendar month label.
type period struct {
	year    int
	month   time.Month
	hasYear bool
}

func parsePeriod(label string) (period, bool) {
	label = strings.TrimSpace(label)
	for _, candidate := range periodLayouts {
		t, err := time.Parse(candidate.layout, label)
		if err != nil {
			continue
		}
		return period{year: t.Year(), month: t.Month(), hasYear: candidate.hasYear}, true
	}
	return period{}, false
}

// follows reports whether p is the calendar month right after prev.
func (p period) follows(prev period) bool {
	if p.hasYear != prev.hasYear {
		return false
	}
	if !p.hasYear {
		return p.month == prev.month%12+1
	}
	next := time.Date(prev.year, prev.month+1, 1, 0, 0, 0, 0, time.UTC)
	return next.Year() == p.year && next.Month() == p.month
}

// MonthName expands a period label to the full month name ("Dec" to
// "December"). Labels that are not months are returned unchanged.
func MonthName(label string) string {
	p, ok := parsePeriod(label)
	if !ok {
		return label
	}
	if p.hasYear {
		return p.month.String() + " " + strconv.Itoa(p.year)
	}
	return p.month.String()
}
