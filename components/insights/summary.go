package insights

import (
	"fmt"
	"math"
)

// Summary is derived from the revenue series on every call.
type Summary struct {
	HasData       bool    `json:"has_data"`
	Points        int     `json:"points"`
	TotalRevenue  int64   `json:"total_revenue"`
	BestMonth     string  `json:"best_month,omitempty"`
	BestRevenue   int64   `json:"best_revenue,omitempty"`
	HasGrowth     bool    `json:"has_growth"`
	AverageGrowth float64 `json:"average_growth"`
}

// Summarize computes total revenue, the first best month and the mean
// month over month growth. Steps whose previous revenue is zero are skipped.
func Summarize(points []RevenuePoint) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	summary := Summary{
		HasData:     true,
		Points:      len(points),
		BestMonth:   points[0].Period,
		BestRevenue: points[0].Revenue,
	}

	var (
		growthSum   float64
		growthSteps int
	)
	for i, point := range points {
		summary.TotalRevenue += point.Revenue
		if point.Revenue > summary.BestRevenue {
			summary.BestMonth = point.Period
			summary.BestRevenue = point.Revenue
		}
		if i == 0 {
			continue
		}
		prev := points[i-1].Revenue
		if prev == 0 {
			continue
		}
		growthSum += float64(point.Revenue-prev) / float64(prev) * 100
		growthSteps++
	}
	if growthSteps > 0 {
		summary.HasGrowth = true
		summary.AverageGrowth = growthSum / float64(growthSteps)
	}
	return summary
}

// GrowthLabel renders the average growth ("+12.5%").
func (s Summary) GrowthLabel() string {
	if !s.HasGrowth {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", s.AverageGrowth)
}

// TotalLabel renders total revenue compactly ("$812K", "$1.2M").
func (s Summary) TotalLabel() string {
	if !s.HasData {
		return "$0"
	}
	total := float64(s.TotalRevenue)
	switch abs := math.Abs(total); {
	case abs >= 1_000_000:
		return "$" + formatDecimal(math.Round(total/100_000)/10) + "M"
	case abs >= 1_000:
		return "$" + formatDecimal(math.Round(total/1_000)) + "K"
	}
	return "$" + formatDecimal(total)
}

// BestMonthLabel renders the full name of the best month.
func (s Summary) BestMonthLabel() string {
	if !s.HasData {
		return "n/a"
	}
	return MonthName(s.BestMonth)
}
