package insights

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// NavigationTab identifies a top-level dashboard tab.
type NavigationTab string

const (
	TabOverview  NavigationTab = "overview"
	TabAnalytics NavigationTab = "analytics"
	TabReports   NavigationTab = "reports"
)

// NavigationTabs lists the tabs in display order.
func NavigationTabs() []NavigationTab {
	return []NavigationTab{TabOverview, TabAnalytics, TabReports}
}

// ChartEncoding identifies the visual representation of the revenue series.
type ChartEncoding string

const (
	EncodingArea ChartEncoding = "area"
	EncodingLine ChartEncoding = "line"
	EncodingBar  ChartEncoding = "bar"
)

// ChartEncodings lists the encodings in display order.
func ChartEncodings() []ChartEncoding {
	return []ChartEncoding{EncodingArea, EncodingLine, EncodingBar}
}

// Trend is the direction arrow shown on a stat card.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// ActivityCategory groups activity feed entries.
type ActivityCategory string

const (
	ActivityUser    ActivityCategory = "user"
	ActivityPayment ActivityCategory = "payment"
	ActivityReport  ActivityCategory = "report"
	ActivitySystem  ActivityCategory = "system"
)

// Placement positions a tour tooltip relative to its anchor.
type Placement string

const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
)

// Region is an opaque layout anchor identifier. The presentation layer owns
// the mapping from a region to a physical location.
type Region string

const (
	RegionHeader   Region = "dashboard-header"
	RegionStats    Region = "stats-section"
	RegionChart    Region = "chart-section"
	RegionActivity Region = "activity-feed"
	RegionSettings Region = "settings-section"
)

// Regions lists the layout anchors in document order.
func Regions() []Region {
	return []Region{RegionHeader, RegionStats, RegionChart, RegionActivity, RegionSettings}
}

// StatMetric is one KPI card.
type StatMetric struct {
	Title       string `json:"title" yaml:"title"`
	Value       string `json:"value" yaml:"value"`
	Change      string `json:"change" yaml:"change"`
	Trend       Trend  `json:"trend" yaml:"trend"`
	Description string `json:"description" yaml:"description"`
}

// ActivityEntry is one feed item.
type ActivityEntry struct {
	Action   string           `json:"action" yaml:"action"`
	Time     string           `json:"time" yaml:"time"`
	Category ActivityCategory `json:"category" yaml:"category"`
}

// RevenuePoint is one sample of the monthly time series.
type RevenuePoint struct {
	Period         string  `json:"period" yaml:"period"`
	Revenue        int64   `json:"revenue" yaml:"revenue"`
	Users          int64   `json:"users" yaml:"users"`
	ConversionRate float64 `json:"conversion" yaml:"conversion"`
}

// MetricsStore serves the static dashboard data set.
type MetricsStore interface {
	Stats(ctx context.Context) ([]StatMetric, error)
	Activities(ctx context.Context, limit int) ([]ActivityEntry, error)
	RevenueSeries(ctx context.Context) ([]RevenuePoint, error)
}

// EventHook notifies transports about dashboard state changes.
type EventHook interface {
	DashboardChanged(ctx context.Context, event DashboardEvent) error
}

// ParseNavigationTab converts a tab id into a NavigationTab.
func ParseNavigationTab(value string) (NavigationTab, error) {
	tab := NavigationTab(normalizeID(value))
	for _, candidate := range NavigationTabs() {
		if candidate == tab {
			return tab, nil
		}
	}
	return "", badInput("UNKNOWN_TAB", fmt.Sprintf("insights: unknown navigation tab %q", value))
}

// ParseChartEncoding converts an encoding id into a ChartEncoding.
func ParseChartEncoding(value string) (ChartEncoding, error) {
	encoding := ChartEncoding(normalizeID(value))
	for _, candidate := range ChartEncodings() {
		if candidate == encoding {
			return encoding, nil
		}
	}
	return "", badInput("UNKNOWN_ENCODING", fmt.Sprintf("insights: unknown chart encoding %q", value))
}

func normalizeID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func badInput(code, message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(code)
}
