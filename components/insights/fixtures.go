package insights

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Fixture is the complete static data set behind the dashboard.
type Fixture struct {
	Stats       []StatMetric    `json:"stats" yaml:"stats"`
	Activities  []ActivityEntry `json:"activities" yaml:"activities"`
	Revenue     []RevenuePoint  `json:"revenue" yaml:"revenue"`
	Preferences []Preference    `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// DefaultFixture returns the built-in data set.
func DefaultFixture() Fixture {
	return Fixture{
		Stats: []StatMetric{
			{Title: "Total Revenue", Value: "$124,592", Change: "+12.5%", Trend: TrendUp, Description: "vs last month"},
			{Title: "Active Users", Value: "23,456", Change: "+8.2%", Trend: TrendUp, Description: "vs last month"},
			{Title: "Conversion Rate", Value: "3.24%", Change: "-2.1%", Trend: TrendDown, Description: "vs last month"},
			{Title: "Page Views", Value: "892,341", Change: "+15.3%", Trend: TrendUp, Description: "vs last month"},
		},
		Activities: []ActivityEntry{
			{Action: "New user registered", Time: "2 minutes ago", Category: ActivityUser},
			{Action: "Payment received", Time: "5 minutes ago", Category: ActivityPayment},
			{Action: "Report generated", Time: "12 minutes ago", Category: ActivityReport},
			{Action: "System backup completed", Time: "1 hour ago", Category: ActivitySystem},
		},
		Revenue: []RevenuePoint{
			{Period: "Jan", Revenue: 45000, Users: 2400, ConversionRate: 2.4},
			{Period: "Feb", Revenue: 52000, Users: 2800, ConversionRate: 2.8},
			{Period: "Mar", Revenue: 48000, Users: 2600, ConversionRate: 2.2},
			{Period: "Apr", Revenue: 61000, Users: 3200, ConversionRate: 3.1},
			{Period: "May", Revenue: 55000, Users: 2900, ConversionRate: 2.7},
			{Period: "Jun", Revenue: 67000, Users: 3500, ConversionRate: 3.4},
			{Period: "Jul", Revenue: 71000, Users: 3800, ConversionRate: 3.6},
			{Period: "Aug", Revenue: 69000, Users: 3600, ConversionRate: 3.3},
			{Period: "Sep", Revenue: 78000, Users: 4100, ConversionRate: 3.8},
			{Period: "Oct", Revenue: 82000, Users: 4300, ConversionRate: 4.1},
			{Period: "Nov", Revenue: 89000, Users: 4600, ConversionRate: 4.4},
			{Period: "Dec", Revenue: 95000, Users: 4900, ConversionRate: 4.7},
		},
		Preferences: DefaultPreferences(),
	}
}

// Validate checks every fixture invariant and reports all violations as a
// single validation error.
func (f Fixture) Validate() error {
	var fields []goerrors.FieldError
	add := func(field, message string, value any) {
		fields = append(fields, goerrors.FieldError{Field: field, Message: message, Value: value})
	}

	for i, stat := range f.Stats {
		field := fmt.Sprintf("stats[%d]", i)
		if stat.Title == "" {
			add(field+".title", "title is required", stat.Title)
		}
		if stat.Trend != TrendUp && stat.Trend != TrendDown {
			add(field+".trend", "trend must be up or down", stat.Trend)
			continue
		}
		change, ok := parseChange(stat.Change)
		if !ok {
			add(field+".change", "change must be a signed percentage", stat.Change)
			continue
		}
		if (change > 0 && stat.Trend != TrendUp) || (change < 0 && stat.Trend != TrendDown) {
			add(field+".trend", fmt.Sprintf("trend %s disagrees with change %s", stat.Trend, stat.Change), stat.Trend)
		}
	}

	for i, entry := range f.Activities {
		field := fmt.Sprintf("activities[%d]", i)
		if entry.Action == "" {
			add(field+".action", "action is required", entry.Action)
		}
		switch entry.Category {
		case ActivityUser, ActivityPayment, ActivityReport, ActivitySystem:
		default:
			add(field+".category", "unknown activity category", entry.Category)
		}
	}

	seen := make(map[string]int, len(f.Revenue))
	var prev period
	for i, point := range f.Revenue {
		field := fmt.Sprintf("revenue[%d]", i)
		if point.Period == "" {
			add(field+".period", "period is required", point.Period)
			continue
		}
		if first, dup := seen[point.Period]; dup {
			add(field+".period", fmt.Sprintf("duplicate period, first seen at revenue[%d]", first), point.Period)
		}
		seen[point.Period] = i
		if point.Revenue < 0 {
			add(field+".revenue", "revenue must not be negative", point.Revenue)
		}
		if point.Users < 0 {
			add(field+".users", "users must not be negative", point.Users)
		}
		current, ok := parsePeriod(point.Period)
		if ok && i > 0 && prev != (period{}) && !current.follows(prev) {
			add(field+".period", fmt.Sprintf("period does not follow %s", f.Revenue[i-1].Period), point.Period)
		}
		prev = current
	}

	ids := make(map[string]bool, len(f.Preferences))
	for i, pref := range f.Preferences {
		pref = pref.normalized()
		if pref.ID == "" {
			add(fmt.Sprintf("preferences[%d].label", i), "label or id is required", pref.Label)
			continue
		}
		if ids[pref.ID] {
			add(fmt.Sprintf("preferences[%d].id", i), "duplicate preference id", pref.ID)
		}
		ids[pref.ID] = true
	}

	if len(fields) == 0 {
		return nil
	}
	return goerrors.NewValidation("insights: fixture is invalid", fields...).
		WithTextCode("INVALID_FIXTURE")
}

// StaticMetricsStore serves a validated, immutable fixture.
type StaticMetricsStore struct {
	fixture Fixture
}

var _ MetricsStore = (*StaticMetricsStore)(nil)

// NewStaticMetricsStore validates the fixture and wraps it in a store.
func NewStaticMetricsStore(fixture Fixture) (*StaticMetricsStore, error) {
	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	if len(fixture.Preferences) == 0 {
		fixture.Preferences = DefaultPreferences()
	}
	return &StaticMetricsStore{fixture: cloneFixture(fixture)}, nil
}

// DefaultMetricsStore wraps DefaultFixture.
func DefaultMetricsStore() *StaticMetricsStore {
	store, err := NewStaticMetricsStore(DefaultFixture())
	if err != nil {
		panic(err)
	}
	return store
}

// Stats returns the summary cards.
func (s *StaticMetricsStore) Stats(context.Context) ([]StatMetric, error) {
	return append([]StatMetric(nil), s.fixture.Stats...), nil
}

// Activities returns up to limit feed entries; limit <= 0 returns all.
func (s *StaticMetricsStore) Activities(_ context.Context, limit int) ([]ActivityEntry, error) {
	entries := s.fixture.Activities
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return append([]ActivityEntry(nil), entries...), nil
}

// RevenueSeries returns the monthly series.
func (s *StaticMetricsStore) RevenueSeries(context.Context) ([]RevenuePoint, error) {
	return append([]RevenuePoint(nil), s.fixture.Revenue...), nil
}

// Preferences returns the preference switches declared by the fixture.
func (s *StaticMetricsStore) Preferences() []Preference {
	return append([]Preference(nil), s.fixture.Preferences...)
}

// Fixture returns a copy of the underlying data set.
func (s *StaticMetricsStore) Fixture() Fixture {
	return cloneFixture(s.fixture)
}

func cloneFixture(f Fixture) Fixture {
	out := Fixture{
		Stats:       append([]StatMetric(nil), f.Stats...),
		Activities:  append([]ActivityEntry(nil), f.Activities...),
		Revenue:     append([]RevenuePoint(nil), f.Revenue...),
		Preferences: make([]Preference, 0, len(f.Preferences)),
	}
	for _, pref := range f.Preferences {
		out.Preferences = append(out.Preferences, pref.normalized())
	}
	return out
}
