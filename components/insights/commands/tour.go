package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/insights"
)

// TourInput drives the onboarding tour.
type TourInput struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
}

// TourCommand applies start, advance, back, skip and restart actions.
type TourCommand struct {
	service   sessionLookup
	telemetry Telemetry
}

// NewTourCommand creates the command.
func NewTourCommand(service sessionLookup, telemetry Telemetry) *TourCommand {
	return &TourCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TourInput] = (*TourCommand)(nil)

// Execute applies the action. Actions that do not apply to the current
// tour state are accepted as no-ops.
func (c *TourCommand) Execute(ctx context.Context, msg TourInput) error {
	action, err := insights.ParseTourAction(msg.Action)
	if err != nil {
		return err
	}
	d, err := lookup(c.service, msg.SessionID)
	if err != nil {
		return err
	}
	changed, err := d.ApplyTour(ctx, action)
	if err != nil {
		return err
	}
	state := d.State()
	c.telemetry.Record(ctx, "insights.command.tour", map[string]any{
		"session_id":    msg.SessionID,
		"action":        string(action),
		"changed":       changed,
		"status":        string(state.Tour),
		"target_region": string(state.TargetRegion),
	})
	return nil
}
