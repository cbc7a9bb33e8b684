package insights

import (
	"context"
	"sync"
	"time"
)

// EventKind names a dashboard state change.
type EventKind string

const (
	EventTabSelected   EventKind = "tab.selected"
	EventChartSelected EventKind = "chart.selected"
	EventTourStep      EventKind = "tour.step"
	EventTourFinished  EventKind = "tour.finished"
	EventTourSkipped   EventKind = "tour.skipped"
	EventToggleChanged EventKind = "toggle.changed"
	EventSessionOpened EventKind = "session.opened"
	EventSessionClosed EventKind = "session.closed"
)

// DashboardState is the output snapshot consumed by the presentation layer.
type DashboardState struct {
	Tab          NavigationTab   `json:"tab"`
	Chart        ChartEncoding   `json:"chart"`
	Tour         TourStatus      `json:"tour"`
	TourStep     *TourView       `json:"tour_step,omitempty"`
	Toggles      map[string]bool `json:"toggles"`
	TargetRegion Region          `json:"target_region,omitempty"`
}

// DashboardEvent is published after every effective state change.
type DashboardEvent struct {
	SessionID    string         `json:"session_id"`
	Kind         EventKind      `json:"kind"`
	TargetRegion Region         `json:"target_region,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	State        DashboardState `json:"state"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

// DashboardConfig configures a Dashboard.
type DashboardConfig struct {
	Steps       []TourStep
	Preferences []Preference
	Hook        EventHook
	Telemetry   Telemetry
	Now         func() time.Time
}

// Dashboard owns the presentation state of one viewer session. Handlers
// are serialized so each event runs to completion before the next.
type Dashboard struct {
	id        string
	mu        sync.Mutex
	tabs      *TabController
	charts    *ChartTypeController
	tour      *TourController
	toggles   *ToggleState
	prefs     []Preference
	hook      EventHook
	telemetry Telemetry
	now       func() time.Time
	created   time.Time
	touched   time.Time
	pending   []DashboardEvent
}

// NewDashboard builds a dashboard in its initial state: overview tab, area
// chart, idle tour and default toggles.
func NewDashboard(id string, cfg DashboardConfig) *Dashboard {
	if cfg.Steps == nil {
		cfg.Steps = DefaultTourSteps()
	}
	if cfg.Preferences == nil {
		cfg.Preferences = DefaultPreferences()
	}
	if cfg.Hook == nil {
		cfg.Hook = noopEventHook{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	prefs := make([]Preference, len(cfg.Preferences))
	for i, pref := range cfg.Preferences {
		prefs[i] = pref.normalized()
	}
	d := &Dashboard{
		id:        id,
		tabs:      NewTabController(),
		charts:    NewChartTypeController(),
		tour:      NewTourController(cfg.Steps),
		toggles:   NewToggleState(PreferenceDefaults(prefs)),
		prefs:     prefs,
		hook:      cfg.Hook,
		telemetry: normalizeTelemetry(cfg.Telemetry),
		now:       cfg.Now,
	}
	d.created = d.now()
	d.touched = d.created
	d.tour.OnStep(func(step TourStep) {
		d.pending = append(d.pending, DashboardEvent{
			Kind:         EventTourStep,
			TargetRegion: step.Target,
			Detail:       map[string]any{"step": step.Index, "placement": string(step.Placement)},
		})
	})
	return d
}

// ID returns the session id.
func (d *Dashboard) ID() string {
	return d.id
}

// SelectTab activates tab.
func (d *Dashboard) SelectTab(ctx context.Context, tab NavigationTab) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	changed, err := d.tabs.Select(tab)
	if err != nil || !changed {
		return false, err
	}
	d.queue(EventTabSelected, map[string]any{"tab": string(tab)})
	return true, d.flush(ctx)
}

// SelectChart switches the chart encoding.
func (d *Dashboard) SelectChart(ctx context.Context, encoding ChartEncoding) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	changed, err := d.charts.Select(encoding)
	if err != nil || !changed {
		return false, err
	}
	d.queue(EventChartSelected, map[string]any{"encoding": string(encoding)})
	return true, d.flush(ctx)
}

// StartTour runs the tour unless it is already running.
func (d *Dashboard) StartTour(ctx context.Context) (bool, error) {
	return d.ApplyTour(ctx, TourActionStart)
}

// AdvanceTour moves the tour forward.
func (d *Dashboard) AdvanceTour(ctx context.Context) (bool, error) {
	return d.ApplyTour(ctx, TourActionAdvance)
}

// BackTour moves the tour back one step.
func (d *Dashboard) BackTour(ctx context.Context) (bool, error) {
	return d.ApplyTour(ctx, TourActionBack)
}

// SkipTour abandons the tour.
func (d *Dashboard) SkipTour(ctx context.Context) (bool, error) {
	return d.ApplyTour(ctx, TourActionSkip)
}

// RestartTour runs the tour from the first step.
func (d *Dashboard) RestartTour(ctx context.Context) (bool, error) {
	return d.ApplyTour(ctx, TourActionRestart)
}

// ApplyTour dispatches a tour action.
func (d *Dashboard) ApplyTour(ctx context.Context, action TourAction) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	changed, err := d.tour.Apply(action)
	if err != nil || !changed {
		return false, err
	}
	switch d.tour.Status() {
	case TourFinished:
		d.queue(EventTourFinished, map[string]any{"action": string(action)})
	case TourSkipped:
		d.queue(EventTourSkipped, map[string]any{"action": string(action)})
	}
	return true, d.flush(ctx)
}

// Toggle flips a preference and returns its new value.
func (d *Dashboard) Toggle(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	enabled := d.toggles.Toggle(id)
	d.queue(EventToggleChanged, map[string]any{"id": id, "enabled": enabled})
	return enabled, d.flush(ctx)
}

// State returns the current output snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// Preferences returns the preference switches with labels.
func (d *Dashboard) Preferences() []Preference {
	return append([]Preference(nil), d.prefs...)
}

// TabOptions lists the tabs in display order.
func (d *Dashboard) TabOptions() []NavigationTab {
	return d.tabs.Options()
}

// ChartOptions lists the chart encodings in display order.
func (d *Dashboard) ChartOptions() []ChartEncoding {
	return d.charts.Options()
}

// Steps returns the tour sequence.
func (d *Dashboard) Steps() []TourStep {
	return d.tour.Steps()
}

// LastActive reports when a handler last ran.
func (d *Dashboard) LastActive() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touched
}

// CreatedAt reports when the session was opened.
func (d *Dashboard) CreatedAt() time.Time {
	return d.created
}

func (d *Dashboard) snapshot() DashboardState {
	state := DashboardState{
		Tab:          d.tabs.Current(),
		Chart:        d.charts.Current(),
		Tour:         d.tour.Status(),
		Toggles:      d.toggles.Snapshot(),
		TargetRegion: d.tour.TargetRegion(),
	}
	if view, ok := d.tour.View(); ok {
		state.TourStep = &view
	}
	return state
}

func (d *Dashboard) touch() {
	d.touched = d.now()
}

// markActive records a read so viewers that only poll stay alive.
func (d *Dashboard) markActive() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
}

func (d *Dashboard) queue(kind EventKind, detail map[string]any) {
	d.pending = append(d.pending, DashboardEvent{Kind: kind, Detail: detail})
}

// flush publishes queued events with the post transition state.
func (d *Dashboard) flush(ctx context.Context) error {
	events := d.pending
	d.pending = nil
	if len(events) == 0 {
		return nil
	}
	state := d.snapshot()
	for _, event := range events {
		event.SessionID = d.id
		event.State = state
		event.OccurredAt = d.now()
		d.telemetry.Record(ctx, "insights."+string(event.Kind), telemetryPayload(event))
		if err := d.hook.DashboardChanged(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func telemetryPayload(event DashboardEvent) map[string]any {
	payload := map[string]any{
		"session_id": event.SessionID,
	}
	if event.TargetRegion != "" {
		payload["target_region"] = string(event.TargetRegion)
	}
	for key, value := range event.Detail {
		payload[key] = value
	}
	return payload
}
