package insights

import (
	"context"
	"fmt"
	"io"
)

const (
	defaultPageTemplate  = "insights"
	defaultChartTemplate = "partials/chart"
)

// ControllerOptions configures template names and the renderer.
type ControllerOptions struct {
	Renderer      Renderer
	PageTemplate  string
	ChartTemplate string
	// BasePath is exposed to templates so client scripts can reach the API.
	BasePath string
	// Codec signs the session handle embedded in the page. Nil embeds the
	// raw session id.
	Codec *SessionCodec
}

// Controller renders dashboard views for HTTP transports.
type Controller struct {
	service *Service
	opts    ControllerOptions
}

// NewController wires the service into a controller.
func NewController(service *Service, opts ControllerOptions) *Controller {
	if opts.PageTemplate == "" {
		opts.PageTemplate = defaultPageTemplate
	}
	if opts.ChartTemplate == "" {
		opts.ChartTemplate = defaultChartTemplate
	}
	return &Controller{service: service, opts: opts}
}

// Service exposes the underlying service.
func (c *Controller) Service() *Service {
	return c.service
}

// ViewPayload returns the JSON payload for a session.
func (c *Controller) ViewPayload(ctx context.Context, sessionID string) (DashboardView, error) {
	if c.service == nil {
		return DashboardView{}, fmt.Errorf("insights: controller has no service")
	}
	return c.service.View(ctx, sessionID)
}

// RenderTemplate renders the dashboard page into out.
func (c *Controller) RenderTemplate(ctx context.Context, sessionID string, out io.Writer) error {
	view, err := c.ViewPayload(ctx, sessionID)
	if err != nil {
		return err
	}
	handle := sessionID
	if c.opts.Codec != nil {
		if handle, err = c.opts.Codec.Encode(sessionID); err != nil {
			return err
		}
	}
	return c.render(c.opts.PageTemplate, map[string]any{
		"view":      view,
		"session":   handle,
		"base_path": c.opts.BasePath,
	}, out)
}

// RenderChart renders the chart fragment for a session into out.
func (c *Controller) RenderChart(ctx context.Context, sessionID string, out io.Writer) error {
	if c.service == nil {
		return fmt.Errorf("insights: controller has no service")
	}
	spec, html, err := c.service.Chart(ctx, sessionID)
	if err != nil {
		return err
	}
	return c.render(c.opts.ChartTemplate, map[string]any{
		"chart":      spec,
		"chart_html": html,
	}, out)
}

func (c *Controller) render(name string, data map[string]any, out io.Writer) error {
	if c.opts.Renderer == nil {
		return fmt.Errorf("insights: template renderer not configured")
	}
	if _, err := c.opts.Renderer.Render(name, data, out); err != nil {
		return fmt.Errorf("insights: render %s: %w", name, err)
	}
	return nil
}
