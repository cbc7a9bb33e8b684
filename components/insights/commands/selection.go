package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/insights"
)

// SelectTabInput activates a navigation tab.
type SelectTabInput struct {
	SessionID string `json:"session_id"`
	Tab       string `json:"tab"`
}

// SelectTabCommand handles tab clicks.
type SelectTabCommand struct {
	service   sessionLookup
	telemetry Telemetry
}

// NewSelectTabCommand creates the command.
func NewSelectTabCommand(service sessionLookup, telemetry Telemetry) *SelectTabCommand {
	return &SelectTabCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectTabInput] = (*SelectTabCommand)(nil)

// Execute selects the tab. Unknown tab ids fail with bad input.
func (c *SelectTabCommand) Execute(ctx context.Context, msg SelectTabInput) error {
	tab, err := insights.ParseNavigationTab(msg.Tab)
	if err != nil {
		return err
	}
	d, err := lookup(c.service, msg.SessionID)
	if err != nil {
		return err
	}
	changed, err := d.SelectTab(ctx, tab)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.select_tab", map[string]any{
		"session_id": msg.SessionID,
		"tab":        string(tab),
		"changed":    changed,
	})
	return nil
}

// SelectChartInput switches the chart encoding.
type SelectChartInput struct {
	SessionID string `json:"session_id"`
	Encoding  string `json:"encoding"`
}

// SelectChartCommand handles chart type clicks.
type SelectChartCommand struct {
	service   sessionLookup
	telemetry Telemetry
}

// NewSelectChartCommand creates the command.
func NewSelectChartCommand(service sessionLookup, telemetry Telemetry) *SelectChartCommand {
	return &SelectChartCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectChartInput] = (*SelectChartCommand)(nil)

// Execute selects the encoding. Unknown encodings fail with bad input.
func (c *SelectChartCommand) Execute(ctx context.Context, msg SelectChartInput) error {
	encoding, err := insights.ParseChartEncoding(msg.Encoding)
	if err != nil {
		return err
	}
	d, err := lookup(c.service, msg.SessionID)
	if err != nil {
		return err
	}
	changed, err := d.SelectChart(ctx, encoding)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.select_chart", map[string]any{
		"session_id": msg.SessionID,
		"encoding":   string(encoding),
		"changed":    changed,
	})
	return nil
}
