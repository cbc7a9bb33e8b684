package commands

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
)

type stubTelemetry struct {
	calls  int
	events []string
	last   map[string]any
}

func (s *stubTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	s.calls++
	s.events = append(s.events, event)
	s.last = payload
}

func openSession(t *testing.T, service *insights.Service) string {
	t.Helper()
	var result OpenSessionResult
	cmd := NewOpenSessionCommand(service, nil)
	if err := cmd.Execute(context.Background(), OpenSessionInput{Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.SessionID == "" {
		t.Fatalf("expected session id in result")
	}
	return result.SessionID
}

func TestOpenSessionCommand(t *testing.T) {
	service := insights.NewService(insights.Options{})
	telemetry := &stubTelemetry{}
	var result OpenSessionResult
	cmd := NewOpenSessionCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), OpenSessionInput{Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.State.Tour != insights.TourRunning {
		t.Fatalf("expected tour to auto start, got %s", result.State.Tour)
	}
	if telemetry.calls != 1 || telemetry.last["session_id"] != result.SessionID {
		t.Fatalf("expected telemetry for opened session, got %v", telemetry.last)
	}
	if err := NewOpenSessionCommand(nil, nil).Execute(context.Background(), OpenSessionInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestSelectTabCommand(t *testing.T) {
	service := insights.NewService(insights.Options{})
	sessionID := openSession(t, service)
	telemetry := &stubTelemetry{}
	cmd := NewSelectTabCommand(service, telemetry)

	if err := cmd.Execute(context.Background(), SelectTabInput{SessionID: sessionID, Tab: "Reports"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	d, _ := service.Session(sessionID)
	if d.State().Tab != insights.TabReports {
		t.Fatalf("expected reports tab, got %s", d.State().Tab)
	}
	if telemetry.last["changed"] != true {
		t.Fatalf("expected changed telemetry, got %v", telemetry.last)
	}

	err := cmd.Execute(context.Background(), SelectTabInput{SessionID: sessionID, Tab: "settings"})
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input, got %v", err)
	}
	err = cmd.Execute(context.Background(), SelectTabInput{SessionID: "missing", Tab: "overview"})
	if !goerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSelectChartCommand(t *testing.T) {
	service := insights.NewService(insights.Options{})
	sessionID := openSession(t, service)
	cmd := NewSelectChartCommand(service, nil)

	if err := cmd.Execute(context.Background(), SelectChartInput{SessionID: sessionID, Encoding: "bar"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	d, _ := service.Session(sessionID)
	if d.State().Chart != insights.EncodingBar {
		t.Fatalf("expected bar chart")
	}
	if err := cmd.Execute(context.Background(), SelectChartInput{SessionID: sessionID, Encoding: "pie"}); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestTourCommand(t *testing.T) {
	service := insights.NewService(insights.Options{})
	sessionID := openSession(t, service)
	telemetry := &stubTelemetry{}
	cmd := NewTourCommand(service, telemetry)

	if err := cmd.Execute(context.Background(), TourInput{SessionID: sessionID, Action: "advance"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if telemetry.last["target_region"] != string(insights.RegionStats) {
		t.Fatalf("expected stats region, got %v", telemetry.last)
	}
	if err := cmd.Execute(context.Background(), TourInput{SessionID: sessionID, Action: "skip"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := cmd.Execute(context.Background(), TourInput{SessionID: sessionID, Action: "advance"}); err != nil {
		t.Fatalf("no-op actions should not fail: %v", err)
	}
	if telemetry.last["changed"] != false || telemetry.last["status"] != string(insights.TourSkipped) {
		t.Fatalf("expected skipped no-op, got %v", telemetry.last)
	}
	if err := cmd.Execute(context.Background(), TourInput{SessionID: sessionID, Action: "jump"}); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestToggleSettingCommand(t *testing.T) {
	service := insights.NewService(insights.Options{})
	sessionID := openSession(t, service)
	cmd := NewToggleSettingCommand(service, nil)

	if err := cmd.Execute(context.Background(), ToggleSettingInput{SessionID: sessionID, ID: "dark-mode"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	d, _ := service.Session(sessionID)
	if !d.State().Toggles[insights.DarkModePreference] {
		t.Fatalf("expected dark mode enabled")
	}
	err := cmd.Execute(context.Background(), ToggleSettingInput{SessionID: sessionID, ID: " "})
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input for blank id, got %v", err)
	}
	err = cmd.Execute(context.Background(), ToggleSettingInput{ID: "dark-mode"})
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input without session id, got %v", err)
	}
}
