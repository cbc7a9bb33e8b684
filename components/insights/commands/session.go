package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
)

type sessionLookup interface {
	Session(id string) (*insights.Dashboard, error)
}

type sessionOpener interface {
	Open(ctx context.Context) (*insights.Dashboard, error)
}

// OpenSessionResult carries the id of a newly opened session.
type OpenSessionResult struct {
	SessionID string                  `json:"session_id"`
	State     insights.DashboardState `json:"state"`
}

// OpenSessionInput opens a viewer session. Result is filled on success
// when provided.
type OpenSessionInput struct {
	Result *OpenSessionResult `json:"-"`
}

// OpenSessionCommand creates a dashboard session.
type OpenSessionCommand struct {
	service   sessionOpener
	telemetry Telemetry
}

// NewOpenSessionCommand creates the command.
func NewOpenSessionCommand(service sessionOpener, telemetry Telemetry) *OpenSessionCommand {
	return &OpenSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenSessionInput] = (*OpenSessionCommand)(nil)

// Execute opens the session.
func (c *OpenSessionCommand) Execute(ctx context.Context, msg OpenSessionInput) error {
	if c.service == nil {
		return errors.New("open session command requires service")
	}
	d, err := c.service.Open(ctx)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		msg.Result.SessionID = d.ID()
		msg.Result.State = d.State()
	}
	c.telemetry.Record(ctx, "insights.command.open_session", map[string]any{
		"session_id": d.ID(),
	})
	return nil
}

func lookup(service sessionLookup, sessionID string) (*insights.Dashboard, error) {
	if service == nil {
		return nil, errors.New("command requires service")
	}
	if sessionID == "" {
		return nil, missingInput("MISSING_SESSION_ID", "command requires session id")
	}
	return service.Session(sessionID)
}

func missingInput(code, message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(code)
}
