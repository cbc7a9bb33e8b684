package insights

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ettle/strcase"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	defaultTitle      = "Analytics Pro"
	defaultViewerName = "Sarah"
)

var errMissingStore = errors.New("insights: metrics store not configured")

// ChartHTMLRenderer turns a chart spec into embeddable markup.
type ChartHTMLRenderer interface {
	Render(spec ChartSpec) (string, error)
}

// PreferenceSource is implemented by stores that declare their own
// preference switches.
type PreferenceSource interface {
	Preferences() []Preference
}

// Options configures the insights Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Store                MetricsStore
	ChartHTML            ChartHTMLRenderer
	EventHook            EventHook
	Telemetry            Telemetry
	Steps                []TourStep
	Preferences          []Preference
	TooltipYear          int
	ActivityLimit        int
	DisableTourAutoStart bool
	Title                string
	ViewerName           string
	Now                  func() time.Time
}

// Service owns the viewer sessions and composes dashboard views.
type Service struct {
	opts     Options
	charts   ChartRenderer
	store    atomic.Pointer[storeRef]
	sessions *xsync.MapOf[string, *Dashboard]
}

type storeRef struct {
	store MetricsStore
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Store == nil {
		opts.Store = DefaultMetricsStore()
	}
	if opts.EventHook == nil {
		opts.EventHook = noopEventHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Steps == nil {
		opts.Steps = DefaultTourSteps()
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.ViewerName == "" {
		opts.ViewerName = defaultViewerName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Service{
		opts:     opts,
		charts:   NewChartRenderer(opts.TooltipYear),
		sessions: xsync.NewMapOf[string, *Dashboard](),
	}
	s.store.Store(&storeRef{store: opts.Store})
	return s
}

// Store returns the active metrics store.
func (s *Service) Store() MetricsStore {
	if ref := s.store.Load(); ref != nil {
		return ref.store
	}
	return nil
}

// ReplaceStore swaps the metrics store. Views built afterwards read the
// new data; session state is untouched.
func (s *Service) ReplaceStore(ctx context.Context, store MetricsStore) error {
	if store == nil {
		return errMissingStore
	}
	s.store.Store(&storeRef{store: store})
	s.recordTelemetry(ctx, "insights.store.replace", map[string]any{
		"sessions": s.sessions.Size(),
	})
	return nil
}

// ChartRenderer returns the chart builder used for views.
func (s *Service) ChartRenderer() ChartRenderer {
	return s.charts
}

// Open creates a new session. The tour starts immediately unless auto
// start is disabled.
func (s *Service) Open(ctx context.Context) (*Dashboard, error) {
	id := uuid.NewString()
	d := NewDashboard(id, DashboardConfig{
		Steps:       s.opts.Steps,
		Preferences: s.preferences(),
		Hook:        s.opts.EventHook,
		Telemetry:   s.opts.Telemetry,
		Now:         s.opts.Now,
	})
	s.sessions.Store(id, d)
	s.recordTelemetry(ctx, "insights.session.open", map[string]any{"session_id": id})
	if err := s.opts.EventHook.DashboardChanged(ctx, DashboardEvent{
		SessionID:  id,
		Kind:       EventSessionOpened,
		State:      d.State(),
		OccurredAt: s.opts.Now(),
	}); err != nil {
		s.sessions.Delete(id)
		return nil, err
	}
	if !s.opts.DisableTourAutoStart {
		if _, err := d.StartTour(ctx); err != nil {
			s.sessions.Delete(id)
			return nil, err
		}
	}
	return d, nil
}

// Session returns the dashboard for id.
func (s *Service) Session(id string) (*Dashboard, error) {
	if d, ok := s.sessions.Load(id); ok {
		return d, nil
	}
	return nil, sessionNotFound(id)
}

// Close removes the session.
func (s *Service) Close(ctx context.Context, id string) error {
	d, ok := s.sessions.LoadAndDelete(id)
	if !ok {
		return sessionNotFound(id)
	}
	s.recordTelemetry(ctx, "insights.session.close", map[string]any{"session_id": id})
	return s.opts.EventHook.DashboardChanged(ctx, DashboardEvent{
		SessionID:  id,
		Kind:       EventSessionClosed,
		State:      d.State(),
		OccurredAt: s.opts.Now(),
	})
}

// Sessions reports the number of open sessions.
func (s *Service) Sessions() int {
	return s.sessions.Size()
}

// PruneIdle closes every session idle for longer than maxIdle and reports
// how many were removed.
func (s *Service) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := s.opts.Now().Add(-maxIdle)
	var stale []string
	s.sessions.Range(func(id string, d *Dashboard) bool {
		if d.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
		return true
	})
	removed := 0
	for _, id := range stale {
		if err := s.Close(ctx, id); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.recordTelemetry(ctx, "insights.session.prune", map[string]any{"removed": removed})
	}
	return removed
}

// Option is a selectable control entry.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// PreferenceView is a preference switch with its current value.
type PreferenceView struct {
	Preference
	Enabled bool `json:"enabled"`
}

// SummaryDisplay holds the formatted summary values.
type SummaryDisplay struct {
	TotalRevenue string `json:"total_revenue"`
	BestMonth    string `json:"best_month"`
	Growth       string `json:"growth"`
}

// DashboardView is everything the presentation layer renders.
type DashboardView struct {
	SessionID      string           `json:"session_id"`
	Title          string           `json:"title"`
	Greeting       string           `json:"greeting"`
	Theme          string           `json:"theme"`
	State          DashboardState   `json:"state"`
	Stats          []StatMetric     `json:"stats"`
	Activities     []ActivityEntry  `json:"activities"`
	Tabs           []Option         `json:"tabs"`
	ChartTypes     []Option         `json:"chart_types"`
	Chart          ChartSpec        `json:"chart"`
	ChartHTML      string           `json:"chart_html,omitempty"`
	Summary        Summary          `json:"summary"`
	SummaryDisplay SummaryDisplay   `json:"summary_display"`
	Preferences    []PreferenceView `json:"preferences"`
	Tour           *TourView        `json:"tour,omitempty"`
	Steps          []TourStep       `json:"steps"`
	Regions        []Region         `json:"regions"`
}

// View composes the full view for a session. Derived values are rebuilt
// from the current store on every call.
func (s *Service) View(ctx context.Context, sessionID string) (DashboardView, error) {
	d, err := s.Session(sessionID)
	if err != nil {
		return DashboardView{}, err
	}
	d.markActive()
	store := s.Store()
	if store == nil {
		return DashboardView{}, errMissingStore
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return DashboardView{}, fmt.Errorf("insights: load stats: %w", err)
	}
	activities, err := store.Activities(ctx, s.opts.ActivityLimit)
	if err != nil {
		return DashboardView{}, fmt.Errorf("insights: load activities: %w", err)
	}
	points, err := store.RevenueSeries(ctx)
	if err != nil {
		return DashboardView{}, fmt.Errorf("insights: load revenue series: %w", err)
	}

	state := d.State()
	summary := Summarize(points)
	view := DashboardView{
		SessionID:  sessionID,
		Title:      s.opts.Title,
		Greeting:   fmt.Sprintf("Welcome back, %s!", s.opts.ViewerName),
		Theme:      themeFor(state),
		State:      state,
		Stats:      stats,
		Activities: activities,
		Tabs:       options(d.TabOptions(), state.Tab),
		ChartTypes: options(d.ChartOptions(), state.Chart),
		Chart:      s.charts.Build(state.Chart, points),
		Summary:    summary,
		SummaryDisplay: SummaryDisplay{
			TotalRevenue: summary.TotalLabel(),
			BestMonth:    summary.BestMonthLabel(),
			Growth:       summary.GrowthLabel(),
		},
		Tour:    state.TourStep,
		Steps:   d.Steps(),
		Regions: Regions(),
	}
	for _, pref := range d.Preferences() {
		view.Preferences = append(view.Preferences, PreferenceView{
			Preference: pref,
			Enabled:    state.Toggles[pref.ID],
		})
	}
	if s.opts.ChartHTML != nil {
		html, err := s.opts.ChartHTML.Render(view.Chart)
		if err != nil {
			return DashboardView{}, err
		}
		view.ChartHTML = html
	}
	s.recordTelemetry(ctx, "insights.view.resolve", map[string]any{
		"session_id": sessionID,
		"tab":        string(state.Tab),
		"chart":      string(state.Chart),
	})
	return view, nil
}

// Chart builds the chart spec for the session's current encoding and,
// when a markup renderer is configured, its HTML.
func (s *Service) Chart(ctx context.Context, sessionID string) (ChartSpec, string, error) {
	d, err := s.Session(sessionID)
	if err != nil {
		return ChartSpec{}, "", err
	}
	points, err := s.revenue(ctx)
	if err != nil {
		return ChartSpec{}, "", err
	}
	spec := s.charts.Build(d.State().Chart, points)
	if s.opts.ChartHTML == nil {
		return spec, "", nil
	}
	html, err := s.opts.ChartHTML.Render(spec)
	if err != nil {
		return ChartSpec{}, "", err
	}
	return spec, html, nil
}

// Summary derives the revenue summary from the current store.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	points, err := s.revenue(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(points), nil
}

func (s *Service) revenue(ctx context.Context) ([]RevenuePoint, error) {
	store := s.Store()
	if store == nil {
		return nil, errMissingStore
	}
	points, err := store.RevenueSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("insights: load revenue series: %w", err)
	}
	return points, nil
}

func (s *Service) preferences() []Preference {
	if s.opts.Preferences != nil {
		return s.opts.Preferences
	}
	if source, ok := s.Store().(PreferenceSource); ok {
		if prefs := source.Preferences(); len(prefs) > 0 {
			return prefs
		}
	}
	return DefaultPreferences()
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func options[T ~string](values []T, current T) []Option {
	out := make([]Option, len(values))
	for i, value := range values {
		out[i] = Option{
			ID:     string(value),
			Label:  strcase.ToPascal(string(value)),
			Active: value == current,
		}
	}
	return out
}

func themeFor(state DashboardState) string {
	if state.Toggles[DarkModePreference] {
		return "dark"
	}
	return "light"
}

func sessionNotFound(id string) error {
	return goerrors.New(fmt.Sprintf("insights: session %q not found", id), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode("SESSION_NOT_FOUND")
}
