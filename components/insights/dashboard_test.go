package insights

import (
	"context"
	"errors"
	"testing"
)

type recordingHook struct {
	events []DashboardEvent
	err    error
}

func (h *recordingHook) DashboardChanged(_ context.Context, event DashboardEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHook) kinds() []EventKind {
	out := make([]EventKind, len(h.events))
	for i, event := range h.events {
		out[i] = event.Kind
	}
	return out
}

func TestDashboardInitialState(t *testing.T) {
	d := NewDashboard("s1", DashboardConfig{})
	state := d.State()
	if state.Tab != TabOverview || state.Chart != EncodingArea || state.Tour != TourIdle {
		t.Fatalf("unexpected initial state %+v", state)
	}
	if !state.Toggles["email-notifications"] || state.Toggles[DarkModePreference] {
		t.Fatalf("unexpected initial toggles %v", state.Toggles)
	}
	if state.TargetRegion != "" || state.TourStep != nil {
		t.Fatalf("idle tour should not target a region")
	}
}

func TestDashboardPublishesEffectiveTransitions(t *testing.T) {
	ctx := context.Background()
	hook := &recordingHook{}
	d := NewDashboard("s1", DashboardConfig{Hook: hook})

	if changed, _ := d.SelectTab(ctx, TabOverview); changed {
		t.Fatalf("reselecting the current tab should be a no-op")
	}
	if _, err := d.SelectTab(ctx, NavigationTab("settings")); err == nil {
		t.Fatalf("expected error for unknown tab")
	}
	if changed, err := d.SelectTab(ctx, TabReports); err != nil || !changed {
		t.Fatalf("expected tab change, changed=%v err=%v", changed, err)
	}
	if changed, _ := d.SelectChart(ctx, EncodingBar); !changed {
		t.Fatalf("expected chart change")
	}
	if enabled, _ := d.Toggle(ctx, DarkModePreference); !enabled {
		t.Fatalf("expected dark mode enabled")
	}
	if changed, _ := d.AdvanceTour(ctx); changed {
		t.Fatalf("advancing an idle tour should be a no-op")
	}

	want := []EventKind{EventTabSelected, EventChartSelected, EventToggleChanged}
	got := hook.kinds()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
		if hook.events[i].SessionID != "s1" {
			t.Fatalf("event %d missing session id", i)
		}
	}
	last := hook.events[2]
	if last.State.Tab != TabReports || last.State.Chart != EncodingBar || !last.State.Toggles[DarkModePreference] {
		t.Fatalf("event should carry the post transition state, got %+v", last.State)
	}
}

func TestDashboardTourEvents(t *testing.T) {
	ctx := context.Background()
	hook := &recordingHook{}
	d := NewDashboard("s1", DashboardConfig{Hook: hook})

	if _, err := d.StartTour(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if hook.events[0].Kind != EventTourStep || hook.events[0].TargetRegion != RegionHeader {
		t.Fatalf("expected header step event, got %+v", hook.events[0])
	}
	if d.State().TargetRegion != RegionHeader {
		t.Fatalf("expected header target region")
	}

	for i := 0; i < 5; i++ {
		if _, err := d.AdvanceTour(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	kinds := hook.kinds()
	if len(kinds) != 6 {
		t.Fatalf("expected five step events and one finish, got %v", kinds)
	}
	if kinds[5] != EventTourFinished {
		t.Fatalf("expected finished event last, got %s", kinds[5])
	}
	if hook.events[4].TargetRegion != RegionSettings {
		t.Fatalf("expected settings step before finishing, got %s", hook.events[4].TargetRegion)
	}

	if changed, _ := d.SkipTour(ctx); changed {
		t.Fatalf("skipping a finished tour should be a no-op")
	}
	d.RestartTour(ctx)
	d.SkipTour(ctx)
	kinds = hook.kinds()
	if kinds[len(kinds)-1] != EventTourSkipped {
		t.Fatalf("expected skipped event, got %v", kinds)
	}
	if d.State().TargetRegion != "" {
		t.Fatalf("skipped tour should not target a region")
	}
}

func TestDashboardHookErrorSurfaces(t *testing.T) {
	hook := &recordingHook{err: errors.New("hook failed")}
	d := NewDashboard("s1", DashboardConfig{Hook: hook})
	if _, err := d.SelectChart(context.Background(), EncodingLine); err == nil {
		t.Fatalf("expected hook error")
	}
	if d.State().Chart != EncodingLine {
		t.Fatalf("state change should stand even when the hook fails")
	}
}

func TestDashboardRecordsTelemetry(t *testing.T) {
	telemetry := &recordingTelemetry{}
	d := NewDashboard("s1", DashboardConfig{Telemetry: telemetry})
	d.Toggle(context.Background(), "sound-alerts")
	if len(telemetry.events) != 1 || telemetry.events[0] != "insights.toggle.changed" {
		t.Fatalf("unexpected telemetry %v", telemetry.events)
	}
	if telemetry.payloads[0]["id"] != "sound-alerts" || telemetry.payloads[0]["session_id"] != "s1" {
		t.Fatalf("unexpected payload %v", telemetry.payloads[0])
	}
}

type recordingTelemetry struct {
	events   []string
	payloads []map[string]any
}

func (r *recordingTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}
