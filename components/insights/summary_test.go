package insights

import (
	"math"
	"testing"
)

func TestSummarizeDefaultSeries(t *testing.T) {
	summary := Summarize(DefaultFixture().Revenue)
	if summary.TotalRevenue != 812000 {
		t.Fatalf("expected total 812000, got %d", summary.TotalRevenue)
	}
	if summary.BestMonth != "Dec" || summary.BestRevenue != 95000 {
		t.Fatalf("expected December best month, got %s %d", summary.BestMonth, summary.BestRevenue)
	}
	if summary.TotalLabel() != "$812K" {
		t.Fatalf("unexpected total label %q", summary.TotalLabel())
	}
	if summary.BestMonthLabel() != "December" {
		t.Fatalf("unexpected best month label %q", summary.BestMonthLabel())
	}
	if !summary.HasGrowth || summary.AverageGrowth <= 0 {
		t.Fatalf("expected positive growth, got %+v", summary)
	}
}

func TestSummarizeFirstBestWins(t *testing.T) {
	summary := Summarize([]RevenuePoint{
		{Period: "Jan", Revenue: 10},
		{Period: "Feb", Revenue: 30},
		{Period: "Mar", Revenue: 30},
	})
	if summary.BestMonth != "Feb" {
		t.Fatalf("expected first maximum to win, got %s", summary.BestMonth)
	}
}

func TestSummarizeGrowthSkipsZeroBase(t *testing.T) {
	summary := Summarize([]RevenuePoint{
		{Period: "Jan", Revenue: 0},
		{Period: "Feb", Revenue: 100},
		{Period: "Mar", Revenue: 150},
	})
	if math.Abs(summary.AverageGrowth-50) > 1e-9 {
		t.Fatalf("expected 50%% growth, got %v", summary.AverageGrowth)
	}
	if summary.GrowthLabel() != "+50.0%" {
		t.Fatalf("unexpected growth label %q", summary.GrowthLabel())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.HasData || summary.TotalLabel() != "$0" || summary.BestMonthLabel() != "n/a" || summary.GrowthLabel() != "n/a" {
		t.Fatalf("unexpected empty summary %+v", summary)
	}

	single := Summarize([]RevenuePoint{{Period: "Jan", Revenue: 1_250_000}})
	if single.HasGrowth {
		t.Fatalf("single point has no growth")
	}
	if single.TotalLabel() != "$1.3M" {
		t.Fatalf("unexpected label %q", single.TotalLabel())
	}
}
