package insights

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var numberPrinter = message.NewPrinter(language.English)

func sortedKeys(m map[string]bool) []string {
	return slices.Sorted(maps.Keys(m))
}

// formatThousands renders v with English digit grouping ("61,000").
func formatThousands(v float64) string {
	return numberPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// formatDecimal renders v without trailing zeros ("3.1").
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseChange reads a signed percentage such as "+12.5%" or "-2.1%".
func parseChange(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSuffix(trimmed, "%")
	trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "+")
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
