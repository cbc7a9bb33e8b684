// Package client drives a running insights server over its JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/httpapi"
)

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	// BaseURL includes the mount path, e.g. http://127.0.0.1:8080/insights.
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPClient talks to the insights session endpoints.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Session is an opened remote session.
type Session struct {
	Handle string                  `json:"session"`
	State  insights.DashboardState `json:"state"`
}

// NewHTTPClient builds a client for the server at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpClient,
	}, nil
}

// OpenSession creates a session and returns its signed handle.
func (c *HTTPClient) OpenSession(ctx context.Context) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SelectTab activates tab in the session.
func (c *HTTPClient) SelectTab(ctx context.Context, handle, tab string) (insights.DashboardState, error) {
	return c.action(ctx, handle, "/tab", httpapi.ActionPayload{Tab: tab})
}

// SelectChart switches the chart encoding.
func (c *HTTPClient) SelectChart(ctx context.Context, handle, encoding string) (insights.DashboardState, error) {
	return c.action(ctx, handle, "/chart", httpapi.ActionPayload{Encoding: encoding})
}

// Tour applies a tour action (start, advance, back, skip, restart).
func (c *HTTPClient) Tour(ctx context.Context, handle, action string) (insights.DashboardState, error) {
	return c.action(ctx, handle, "/tour", httpapi.ActionPayload{Action: action})
}

// Toggle flips the preference with id.
func (c *HTTPClient) Toggle(ctx context.Context, handle, id string) (insights.DashboardState, error) {
	return c.action(ctx, handle, "/toggles/"+url.PathEscape(id), nil)
}

// View fetches the composed dashboard view.
func (c *HTTPClient) View(ctx context.Context, handle string) (insights.DashboardView, error) {
	var view insights.DashboardView
	if err := c.do(ctx, http.MethodGet, sessionPath(handle)+"/_view", nil, &view); err != nil {
		return insights.DashboardView{}, err
	}
	return view, nil
}

func (c *HTTPClient) action(ctx context.Context, handle, suffix string, payload any) (insights.DashboardState, error) {
	var state insights.DashboardState
	if err := c.do(ctx, http.MethodPost, sessionPath(handle)+suffix, payload, &state); err != nil {
		return insights.DashboardState{}, err
	}
	return state, nil
}

func sessionPath(handle string) string {
	return "/sessions/" + url.PathEscape(handle)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("client: encode payload: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("client: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return remoteError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// remoteError rebuilds a categorized error from the server's envelope so
// callers can use goerrors.IsNotFound and friends.
func remoteError(resp *http.Response) error {
	var envelope httpapi.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == "" {
		envelope.Error = fmt.Sprintf("client: remote error %d", resp.StatusCode)
	}
	category := goerrors.CategoryExternal
	switch resp.StatusCode {
	case http.StatusBadRequest:
		category = goerrors.CategoryBadInput
	case http.StatusNotFound:
		category = goerrors.CategoryNotFound
	}
	err := goerrors.New(envelope.Error, category).WithCode(resp.StatusCode)
	if envelope.TextCode != "" {
		err = err.WithTextCode(envelope.TextCode)
	}
	return err
}
