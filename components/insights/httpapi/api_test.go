package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/commands"
	"github.com/goliatone/go-insights/components/insights/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{goerrors.New("bad", goerrors.CategoryBadInput), http.StatusBadRequest},
		{goerrors.NewValidation("invalid"), http.StatusBadRequest},
		{goerrors.New("missing", goerrors.CategoryNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestDecodeActionPayload(t *testing.T) {
	payload, err := DecodeActionPayload(nil)
	if err != nil || payload.Value != "" {
		t.Fatalf("empty body should decode to zero payload, got %+v err=%v", payload, err)
	}
	payload, err = DecodeActionPayload([]byte(`{"value":"bar","encoding":"line"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Pick(payload.Encoding) != "line" || payload.Pick(payload.Tab) != "bar" {
		t.Fatalf("unexpected pick results %+v", payload)
	}
	if _, err := DecodeActionPayload([]byte("{")); StatusFor(err) != http.StatusBadRequest {
		t.Fatalf("expected bad request for malformed body, got %v", err)
	}
}

func TestHandleSelectTab(t *testing.T) {
	tab := &stubCommander[commands.SelectTabInput]{}
	view := &CommandExecutor{TabCmd: tab, ViewQuery: stubView{}}
	api := &Handlers{API: view}
	req := httptest.NewRequest(http.MethodPost, "/insights/sessions/s1/tab", strings.NewReader(`{"tab":"analytics"}`))
	req.SetPathValue("session", "s1")
	rec := httptest.NewRecorder()
	api.HandleSelectTab(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if tab.calls != 1 || tab.last.SessionID != "s1" || tab.last.Tab != "analytics" {
		t.Fatalf("expected tab command propagation, got %+v", tab.last)
	}
}

func TestHandleCommandError(t *testing.T) {
	chart := &stubCommander[commands.SelectChartInput]{
		err: goerrors.New("unknown", goerrors.CategoryBadInput).WithTextCode("UNKNOWN_ENCODING"),
	}
	api := &Handlers{API: &CommandExecutor{ChartCmd: chart}}
	req := httptest.NewRequest(http.MethodPost, "/insights/sessions/s1/chart", strings.NewReader(`{"value":"pie"}`))
	req.SetPathValue("session", "s1")
	rec := httptest.NewRecorder()
	api.HandleSelectChart(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TextCode != "UNKNOWN_ENCODING" {
		t.Fatalf("unexpected text code %q", body.TextCode)
	}
}

func TestExecutorMissingIdentifiersMapToBadRequest(t *testing.T) {
	service := insights.NewService(insights.Options{})
	api := NewCommandExecutor(service, nil)
	opened, err := api.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = api.Toggle(context.Background(), commands.ToggleSettingInput{SessionID: opened.SessionID})
	if got := StatusFor(err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank setting id, got %d (%v)", got, err)
	}
	err = api.Toggle(context.Background(), commands.ToggleSettingInput{ID: "dark-mode"})
	if got := StatusFor(err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank session id, got %d (%v)", got, err)
	}
}

func TestExecutorNotConfigured(t *testing.T) {
	api := &CommandExecutor{}
	if err := api.Toggle(context.Background(), commands.ToggleSettingInput{}); err == nil {
		t.Fatalf("expected error for missing command")
	}
	if _, err := api.OpenSession(context.Background()); err == nil {
		t.Fatalf("expected error for missing command")
	}
}

func TestMountedHandlersDriveSession(t *testing.T) {
	service := insights.NewService(insights.Options{})
	codec, err := insights.NewSessionCodec(nil)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	mux := http.NewServeMux()
	handlers := &Handlers{API: NewCommandExecutor(service, nil), Codec: codec}
	handlers.Mount(mux, "/insights/")
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Post(server.URL+"/insights/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var opened struct {
		Session string `json:"session"`
	}
	json.NewDecoder(resp.Body).Decode(&opened)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err = http.Post(server.URL+"/insights/sessions/"+opened.Session+"/toggles/sound-alerts", "application/json", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	var state insights.DashboardState
	json.NewDecoder(resp.Body).Decode(&state)
	resp.Body.Close()
	if !state.Toggles["sound-alerts"] {
		t.Fatalf("expected sound alerts enabled, got %v", state.Toggles)
	}

	resp, err = http.Get(server.URL + "/insights/sessions/" + opened.Session + "/_view")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	var view insights.DashboardView
	json.NewDecoder(resp.Body).Decode(&view)
	resp.Body.Close()
	if view.SummaryDisplay.TotalRevenue != "$812K" {
		t.Fatalf("unexpected view summary %+v", view.SummaryDisplay)
	}

	resp, err = http.Get(server.URL + "/insights/sessions/forged/_view")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for forged handle, got %d", resp.StatusCode)
	}
}

func TestHandleOutlivesSessionOpenTime(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for handle timestamps to age")
	}
	service := insights.NewService(insights.Options{})
	codec, err := insights.NewSessionCodec(nil)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	mux := http.NewServeMux()
	handlers := &Handlers{API: NewCommandExecutor(service, nil), Codec: codec}
	handlers.Mount(mux, "/insights/")
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Post(server.URL+"/insights/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var opened struct {
		Session string `json:"session"`
	}
	json.NewDecoder(resp.Body).Decode(&opened)
	resp.Body.Close()

	for i := 0; i < 5; i++ {
		resp, err := http.Post(server.URL+"/insights/sessions/"+opened.Session+"/toggles/sound-alerts", "application/json", nil)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle %d: expected 200 for an active session, got %d", i, resp.StatusCode)
		}
		time.Sleep(600 * time.Millisecond)
	}
	if service.Sessions() != 1 {
		t.Fatalf("expected session to stay registered, got %d", service.Sessions())
	}
}

type stubView struct{}

func (stubView) Query(_ context.Context, msg queries.DashboardViewInput) (insights.DashboardView, error) {
	return insights.DashboardView{SessionID: msg.SessionID}, nil
}
