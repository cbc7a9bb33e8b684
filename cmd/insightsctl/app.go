package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/pkg/config"
)

// app carries what every subcommand needs: output, config source and
// color preference.
type app struct {
	out     io.Writer
	cfgFile string
	colors  bool
	cfg     *config.Config
}

func newApp(out io.Writer, cfgFile string, colors bool) *app {
	return &app{out: out, cfgFile: cfgFile, colors: colors}
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// store returns the fixture configured in cfg, or the built-in data set.
func (a *app) store(cfg *config.Config) (*insights.StaticMetricsStore, error) {
	if cfg.Fixture.Path == "" {
		return insights.DefaultMetricsStore(), nil
	}
	doc, err := insights.ReadFixture(cfg.Fixture.Path)
	if err != nil {
		return nil, err
	}
	return doc.Store()
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) paint(s string, attrs ...color.Attribute) string {
	if !a.colors {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

func (a *app) table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(a.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("insightsctl: table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("insightsctl: render table: %w", err)
	}
	return nil
}
