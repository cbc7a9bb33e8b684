package commands

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
)

// ToggleSettingInput flips a preference switch.
type ToggleSettingInput struct {
	SessionID string `json:"session_id"`
	ID        string `json:"id"`
}

// ToggleSettingCommand handles preference switch clicks.
type ToggleSettingCommand struct {
	service   sessionLookup
	telemetry Telemetry
}

// NewToggleSettingCommand creates the command.
func NewToggleSettingCommand(service sessionLookup, telemetry Telemetry) *ToggleSettingCommand {
	return &ToggleSettingCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSettingInput] = (*ToggleSettingCommand)(nil)

// Execute flips the flag. Unknown ids are accepted and start from false.
func (c *ToggleSettingCommand) Execute(ctx context.Context, msg ToggleSettingInput) error {
	id := strings.TrimSpace(msg.ID)
	if id == "" {
		return missingInput("MISSING_SETTING_ID", "toggle command requires setting id")
	}
	d, err := lookup(c.service, msg.SessionID)
	if err != nil {
		return err
	}
	enabled, err := d.Toggle(ctx, id)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.toggle", map[string]any{
		"session_id": msg.SessionID,
		"id":         id,
		"enabled":    enabled,
	})
	return nil
}
