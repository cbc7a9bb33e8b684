package gorouter

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/commands"
	"github.com/goliatone/go-insights/components/insights/httpapi"
)

// Config wires go-router with the insights controller, commands and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *insights.Controller
	API        httpapi.Executor
	Broadcast  *insights.BroadcastHook
	Codec      *insights.SessionCodec
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Sessions  string
	Page      string
	View      string
	Chart     string
	Tab       string
	ChartType string
	Tour      string
	Toggle    string
	WebSocket string
}

// Register mounts the dashboard routes (HTML, JSON, commands, WebSocket) on
// a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/insights"
	}
	sessions := sessionResolver{codec: cfg.Codec}
	group := cfg.Router.Group(base)

	group.Post(routes.Sessions, router.WrapHandler(func(ctx router.Context) error {
		result, err := cfg.API.OpenSession(ctx.Context())
		if err != nil {
			return respondError(ctx, err)
		}
		handle, err := sessions.encode(result.SessionID)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]any{
			"session": handle,
			"state":   result.State,
		})
	}))

	group.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		sessionID, err := sessions.decode(ctx.Param("session"))
		if err != nil {
			return respondError(ctx, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), sessionID, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		sessionID, err := sessions.decode(ctx.Param("session"))
		if err != nil {
			return respondError(ctx, err)
		}
		view, err := cfg.API.View(ctx.Context(), sessionID)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	group.Get(routes.Chart, router.WrapHandler(func(ctx router.Context) error {
		sessionID, err := sessions.decode(ctx.Param("session"))
		if err != nil {
			return respondError(ctx, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderChart(ctx.Context(), sessionID, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	registerCommands(group, cfg.API, sessions, routes)

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, sessions, routes.WebSocket)
	}
	return nil
}

func registerCommands[T any](r router.Router[T], api httpapi.Executor, sessions sessionResolver, routes RouteConfig) {
	r.Post(routes.Tab, router.WrapHandler(func(ctx router.Context) error {
		return runAction(ctx, api, sessions, func(sessionID string, payload httpapi.ActionPayload) error {
			return api.SelectTab(ctx.Context(), commands.SelectTabInput{
				SessionID: sessionID,
				Tab:       payload.Pick(payload.Tab),
			})
		})
	}))

	r.Post(routes.ChartType, router.WrapHandler(func(ctx router.Context) error {
		return runAction(ctx, api, sessions, func(sessionID string, payload httpapi.ActionPayload) error {
			return api.SelectChart(ctx.Context(), commands.SelectChartInput{
				SessionID: sessionID,
				Encoding:  payload.Pick(payload.Encoding),
			})
		})
	}))

	r.Post(routes.Tour, router.WrapHandler(func(ctx router.Context) error {
		return runAction(ctx, api, sessions, func(sessionID string, payload httpapi.ActionPayload) error {
			return api.Tour(ctx.Context(), commands.TourInput{
				SessionID: sessionID,
				Action:    payload.Pick(payload.Action),
			})
		})
	}))

	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error {
		return runAction(ctx, api, sessions, func(sessionID string, _ httpapi.ActionPayload) error {
			return api.Toggle(ctx.Context(), commands.ToggleSettingInput{
				SessionID: sessionID,
				ID:        ctx.Param("id"),
			})
		})
	}))
}

// runAction decodes the session and body, runs fn and replies with the
// post transition state.
func runAction(ctx router.Context, api httpapi.Executor, sessions sessionResolver, fn func(string, httpapi.ActionPayload) error) error {
	sessionID, err := sessions.decode(ctx.Param("session"))
	if err != nil {
		return respondError(ctx, err)
	}
	payload, err := httpapi.DecodeActionPayload(ctx.Body())
	if err != nil {
		return respondError(ctx, err)
	}
	if err := fn(sessionID, payload); err != nil {
		return respondError(ctx, err)
	}
	view, err := api.View(ctx.Context(), sessionID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view.State)
}

func registerWebSocket[T any](r router.Router[T], hook *insights.BroadcastHook, sessions sessionResolver, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		filter := ""
		if handle := strings.TrimSpace(ws.Query("session")); handle != "" {
			sessionID, err := sessions.decode(handle)
			if err != nil {
				return ws.Close()
			}
			filter = sessionID
		}
		events, cancel := hook.Subscribe(filter)
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

type sessionResolver struct {
	codec *insights.SessionCodec
}

func (s sessionResolver) encode(sessionID string) (string, error) {
	if s.codec == nil {
		return sessionID, nil
	}
	return s.codec.Encode(sessionID)
}

func (s sessionResolver) decode(handle string) (string, error) {
	if s.codec == nil {
		return handle, nil
	}
	return s.codec.Decode(handle)
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Sessions == "" {
		routes.Sessions = "/sessions"
	}
	if routes.Page == "" {
		routes.Page = "/sessions/:session"
	}
	if routes.View == "" {
		routes.View = "/sessions/:session/_view"
	}
	if routes.Chart == "" {
		routes.Chart = "/sessions/:session/chart"
	}
	if routes.Tab == "" {
		routes.Tab = "/sessions/:session/tab"
	}
	if routes.ChartType == "" {
		routes.ChartType = "/sessions/:session/chart"
	}
	if routes.Tour == "" {
		routes.Tour = "/sessions/:session/tour"
	}
	if routes.Toggle == "" {
		routes.Toggle = "/sessions/:session/toggles/:id"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
