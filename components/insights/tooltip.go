package insights

import (
	"strconv"
	"strings"
)

// Series names understood by the tooltip formatter.
const (
	SeriesRevenue    = "revenue"
	SeriesUsers      = "users"
	SeriesConversion = "conversion"
)

// DefaultTooltipYear is appended to every tooltip header.
const DefaultTooltipYear = 2024

// TooltipEntry is one named value from a hovered point's payload.
type TooltipEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Tooltip is the formatted text for a hovered point.
type Tooltip struct {
	Header string   `json:"header"`
	Lines  []string `json:"lines"`
}

// String joins the header and lines with newlines.
func (t Tooltip) String() string {
	return strings.Join(append([]string{t.Header}, t.Lines...), "\n")
}

var tooltipFormatters = map[string]func(float64) string{
	SeriesRevenue: func(v float64) string {
		return "Revenue: $" + formatThousands(v)
	},
	SeriesUsers: func(v float64) string {
		return "Users: " + formatThousands(v)
	},
	SeriesConversion: func(v float64) string {
		return "Conversion: " + formatDecimal(v) + "%"
	},
}

// FormatTooltip formats a payload using the default header year.
func FormatTooltip(label string, entries []TooltipEntry) Tooltip {
	return formatTooltip(DefaultTooltipYear, label, entries)
}

func formatTooltip(year int, label string, entries []TooltipEntry) Tooltip {
	tip := Tooltip{
		Header: label + " " + strconv.Itoa(year),
		Lines:  make([]string, 0, len(entries)),
	}
	for _, entry := range entries {
		format, ok := tooltipFormatters[normalizeID(entry.Name)]
		if !ok {
			continue
		}
		tip.Lines = append(tip.Lines, format(entry.Value))
	}
	return tip
}

// PointPayload returns every named series of a point, in formatter order.
func PointPayload(point RevenuePoint) []TooltipEntry {
	return []TooltipEntry{
		{Name: SeriesRevenue, Value: float64(point.Revenue)},
		{Name: SeriesUsers, Value: float64(point.Users)},
		{Name: SeriesConversion, Value: point.ConversionRate},
	}
}
