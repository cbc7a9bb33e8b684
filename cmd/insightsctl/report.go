package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"github.com/fatih/color"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/pkg/client"
)

type summaryCmd struct {
	Fixture string `type:"path" help:"Fixture document; overrides fixture.path."`
}

func (cmd *summaryCmd) Run(ctx context.Context, a *app) error {
	store, err := a.loadStore(cmd.Fixture)
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(stats))
	for _, stat := range stats {
		trend := a.paint(stat.Change, color.FgGreen)
		if stat.Trend == insights.TrendDown {
			trend = a.paint(stat.Change, color.FgRed)
		}
		rows = append(rows, []string{stat.Title, stat.Value, trend, stat.Description})
	}
	if err := a.table([]string{"metric", "value", "change", "description"}, rows); err != nil {
		return err
	}

	points, err := store.RevenueSeries(ctx)
	if err != nil {
		return err
	}
	summary := insights.Summarize(points)
	a.printf("\n")
	a.printf("%s %s\n", a.paint("Total revenue:", color.Bold), summary.TotalLabel())
	a.printf("%s %s\n", a.paint("Best month:", color.Bold), summary.BestMonthLabel())
	growth := summary.GrowthLabel()
	switch {
	case summary.HasGrowth && summary.AverageGrowth < 0:
		growth = a.paint(growth, color.FgRed)
	case summary.HasGrowth:
		growth = a.paint(growth, color.FgGreen)
	}
	a.printf("%s %s\n", a.paint("Average growth:", color.Bold), growth)
	return nil
}

type chartCmd struct {
	Encoding string `short:"e" default:"area" enum:"area,line,bar" help:"Chart encoding (area, line, bar)."`
	HTML     bool   `name:"html" help:"Print the rendered go-echarts HTML instead of the spec table."`
	Fixture  string `type:"path" help:"Fixture document; overrides fixture.path."`
}

func (cmd *chartCmd) Run(ctx context.Context, a *app) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	encoding, err := insights.ParseChartEncoding(cmd.Encoding)
	if err != nil {
		return err
	}
	store, err := a.loadStore(cmd.Fixture)
	if err != nil {
		return err
	}
	points, err := store.RevenueSeries(ctx)
	if err != nil {
		return err
	}
	spec := insights.NewChartRenderer(cfg.Chart.TooltipYear).Build(encoding, points)

	if cmd.HTML {
		renderer := insights.NewEChartsRenderer(
			insights.WithChartTheme(cfg.Chart.Theme),
			insights.WithChartAssetsHost(cfg.Chart.AssetsHost),
		)
		html, err := renderer.Render(spec)
		if err != nil {
			return err
		}
		a.printf("%s\n", html)
		return nil
	}

	a.printf("%s %s chart, series %s\n", a.paint(strcase.ToPascal(string(spec.Encoding)), color.Bold), spec.Color, spec.Series)
	rows := make([][]string, 0, len(spec.Categories))
	for i, category := range spec.Categories {
		rows = append(rows, []string{
			category,
			strconv.FormatFloat(spec.Values[i], 'f', -1, 64),
			strings.Join(spec.Tooltips[i].Lines, " | "),
		})
	}
	if err := a.table([]string{"period", "revenue", "tooltip"}, rows); err != nil {
		return err
	}
	ticks := make([]string, len(spec.ValueAxis.Ticks))
	for i, tick := range spec.ValueAxis.Ticks {
		ticks[i] = tick.Label
	}
	a.printf("\n%s %s\n", a.paint("Axis:", color.Bold), strings.Join(ticks, " "))
	return nil
}

type tourCmd struct {
	Server string `help:"Base URL of a running server (e.g. http://127.0.0.1:8080/insights). Empty walks the tour in-process."`
}

func (cmd *tourCmd) Run(ctx context.Context, a *app) error {
	if cmd.Server != "" {
		return cmd.walkRemote(ctx, a)
	}
	tour := insights.NewTourController(insights.DefaultTourSteps())
	var rows [][]string
	tour.OnStep(func(step insights.TourStep) {
		view, _ := tour.View()
		rows = append(rows, stepRow(view.Progress, step))
	})
	tour.Start()
	for tour.Status() == insights.TourRunning {
		tour.Advance()
	}
	if err := a.table([]string{"progress", "target", "placement", "content"}, rows); err != nil {
		return err
	}
	a.printf("\n%s %s\n", a.paint("Tour:", color.Bold), tour.Status())
	return nil
}

// walkRemote opens a session on the server and advances until the tour
// leaves the running state.
func (cmd *tourCmd) walkRemote(ctx context.Context, a *app) error {
	remote, err := client.NewHTTPClient(client.HTTPConfig{BaseURL: cmd.Server})
	if err != nil {
		return err
	}
	session, err := remote.OpenSession(ctx)
	if err != nil {
		return err
	}
	state := session.State
	if state.Tour != insights.TourRunning {
		if state, err = remote.Tour(ctx, session.Handle, string(insights.TourActionStart)); err != nil {
			return err
		}
	}
	var rows [][]string
	for state.Tour == insights.TourRunning && state.TourStep != nil {
		rows = append(rows, stepRow(state.TourStep.Progress, state.TourStep.Step))
		if state, err = remote.Tour(ctx, session.Handle, string(insights.TourActionAdvance)); err != nil {
			return err
		}
	}
	if err := a.table([]string{"progress", "target", "placement", "content"}, rows); err != nil {
		return err
	}
	a.printf("\n%s %s\n", a.paint("Tour:", color.Bold), state.Tour)
	return nil
}

func stepRow(progress string, step insights.TourStep) []string {
	return []string{progress, string(step.Target), string(step.Placement), step.Content}
}

// loadStore resolves the fixture from override, then config, then the
// built-in data set.
func (a *app) loadStore(override string) (*insights.StaticMetricsStore, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	if override != "" {
		copied := *cfg
		copied.Fixture.Path = override
		cfg = &copied
	}
	store, err := a.store(cfg)
	if err != nil {
		return nil, fmt.Errorf("insightsctl: load fixture: %w", err)
	}
	return store, nil
}
