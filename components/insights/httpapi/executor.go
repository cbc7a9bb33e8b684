package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/commands"
	"github.com/goliatone/go-insights/components/insights/queries"
)

// Executor is the transport facing command surface shared by the net/http
// handlers and the go-router routes.
type Executor interface {
	OpenSession(ctx context.Context) (commands.OpenSessionResult, error)
	SelectTab(ctx context.Context, input commands.SelectTabInput) error
	SelectChart(ctx context.Context, input commands.SelectChartInput) error
	Tour(ctx context.Context, input commands.TourInput) error
	Toggle(ctx context.Context, input commands.ToggleSettingInput) error
	View(ctx context.Context, sessionID string) (insights.DashboardView, error)
}

// CommandExecutor dispatches to go-command handlers.
type CommandExecutor struct {
	OpenCmd   gocommand.Commander[commands.OpenSessionInput]
	TabCmd    gocommand.Commander[commands.SelectTabInput]
	ChartCmd  gocommand.Commander[commands.SelectChartInput]
	TourCmd   gocommand.Commander[commands.TourInput]
	ToggleCmd gocommand.Commander[commands.ToggleSettingInput]
	ViewQuery gocommand.Querier[queries.DashboardViewInput, insights.DashboardView]
}

// NewCommandExecutor wires the default commands and queries for service.
func NewCommandExecutor(service *insights.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		OpenCmd:   commands.NewOpenSessionCommand(service, telemetry),
		TabCmd:    commands.NewSelectTabCommand(service, telemetry),
		ChartCmd:  commands.NewSelectChartCommand(service, telemetry),
		TourCmd:   commands.NewTourCommand(service, telemetry),
		ToggleCmd: commands.NewToggleSettingCommand(service, telemetry),
		ViewQuery: queries.NewDashboardViewQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: command not configured")

func (e *CommandExecutor) OpenSession(ctx context.Context) (commands.OpenSessionResult, error) {
	if e.OpenCmd == nil {
		return commands.OpenSessionResult{}, errNotConfigured
	}
	var result commands.OpenSessionResult
	if err := e.OpenCmd.Execute(ctx, commands.OpenSessionInput{Result: &result}); err != nil {
		return commands.OpenSessionResult{}, err
	}
	return result, nil
}

func (e *CommandExecutor) SelectTab(ctx context.Context, input commands.SelectTabInput) error {
	if e.TabCmd == nil {
		return errNotConfigured
	}
	return e.TabCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SelectChart(ctx context.Context, input commands.SelectChartInput) error {
	if e.ChartCmd == nil {
		return errNotConfigured
	}
	return e.ChartCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Tour(ctx context.Context, input commands.TourInput) error {
	if e.TourCmd == nil {
		return errNotConfigured
	}
	return e.TourCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Toggle(ctx context.Context, input commands.ToggleSettingInput) error {
	if e.ToggleCmd == nil {
		return errNotConfigured
	}
	return e.ToggleCmd.Execute(ctx, input)
}

func (e *CommandExecutor) View(ctx context.Context, sessionID string) (insights.DashboardView, error) {
	if e.ViewQuery == nil {
		return insights.DashboardView{}, errNotConfigured
	}
	return e.ViewQuery.Query(ctx, queries.DashboardViewInput{SessionID: sessionID})
}
