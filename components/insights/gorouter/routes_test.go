package gorouter

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"
	"github.com/julienschmidt/httprouter"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfigKeepsOverrides(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Tour: "/walkthrough"})
	if routes.Tour != "/walkthrough" {
		t.Fatalf("expected override to survive, got %q", routes.Tour)
	}
	if routes.Page != "/sessions/:session" {
		t.Fatalf("unexpected page route %q", routes.Page)
	}
	if routes.WebSocket != "/ws" {
		t.Fatalf("unexpected websocket route %q", routes.WebSocket)
	}
}

func TestRoutesDriveSession(t *testing.T) {
	server, codec := newTestServer(t)

	resp := post(t, server.URL+"/insights/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var opened struct {
		Session string                  `json:"session"`
		State   insights.DashboardState `json:"state"`
	}
	decodeBody(t, resp, &opened)
	if opened.Session == "" {
		t.Fatalf("expected session handle")
	}
	if _, err := codec.Decode(opened.Session); err != nil {
		t.Fatalf("handle should decode: %v", err)
	}

	base := server.URL + "/insights/sessions/" + opened.Session

	resp = post(t, base+"/tab", `{"value":"analytics"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var state insights.DashboardState
	decodeBody(t, resp, &state)
	if state.Tab != insights.TabAnalytics {
		t.Fatalf("expected analytics tab, got %s", state.Tab)
	}

	resp = post(t, base+"/chart", `{"encoding":"bar"}`)
	decodeBody(t, resp, &state)
	if state.Chart != insights.EncodingBar {
		t.Fatalf("expected bar chart, got %s", state.Chart)
	}

	resp = post(t, base+"/tour", `{"action":"skip"}`)
	decodeBody(t, resp, &state)
	if state.Tour != insights.TourSkipped {
		t.Fatalf("expected skipped tour, got %s", state.Tour)
	}

	resp = post(t, base+"/toggles/dark-mode", "")
	decodeBody(t, resp, &state)
	if !state.Toggles[insights.DarkModePreference] {
		t.Fatalf("expected dark mode enabled")
	}

	resp, err := http.Get(base)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "page" {
		t.Fatalf("unexpected page response %d %q", resp.StatusCode, body)
	}
}

func TestRoutesRejectInvalidInput(t *testing.T) {
	server, _ := newTestServer(t)

	resp := post(t, server.URL+"/insights/sessions/forged/tab", `{"value":"overview"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for forged handle, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = post(t, server.URL+"/insights/sessions", "")
	var opened struct {
		Session string `json:"session"`
	}
	decodeBody(t, resp, &opened)

	resp = post(t, server.URL+"/insights/sessions/"+opened.Session+"/tab", `{"value":"settings"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tab, got %d", resp.StatusCode)
	}
	var body httpapi.ErrorBody
	decodeBody(t, resp, &body)
	if body.TextCode != "UNKNOWN_TAB" {
		t.Fatalf("unexpected text code %q", body.TextCode)
	}
}

// --- Test helpers ---

func newTestServer(t *testing.T) (*httptest.Server, *insights.SessionCodec) {
	t.Helper()
	codec, err := insights.NewSessionCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	service := insights.NewService(insights.Options{})
	controller := insights.NewController(service, insights.ControllerOptions{
		Renderer: stubRenderer{},
		Codec:    codec,
	})
	adapter := router.NewHTTPServer()
	err = Register(Config[*httprouter.Router]{
		Router:     adapter.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, nil),
		Codec:      codec,
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	server := httptest.NewServer(adapter.WrappedRouter())
	t.Cleanup(server.Close)
	return server, codec
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type stubRenderer struct{}

func (stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("page"))
	}
	return "page", nil
}
