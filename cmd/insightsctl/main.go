package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config  string `short:"c" type:"path" help:"Path to an insights.yaml config file."`
	NoColor bool   `name:"no-color" help:"Disable colored output."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard over HTTP."`
	Summary  summaryCmd  `cmd:"" help:"Print the revenue summary and stat cards."`
	Chart    chartCmd    `cmd:"" help:"Print the chart spec for an encoding, or its rendered HTML."`
	Tour     tourCmd     `cmd:"" help:"Walk the onboarding tour locally or against a running server."`
	Validate validateCmd `cmd:"" help:"Validate a fixture document."`
	Scaffold scaffoldCmd `cmd:"" help:"Write a fixture document seeded with the built-in data set."`
}

func main() {
	var args cli
	parser := kong.Parse(&args,
		kong.Name("insightsctl"),
		kong.Description("Serve and inspect the go-insights analytics dashboard."),
		kong.UsageOnError(),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, args.Config, !args.NoColor)
	parser.BindTo(ctx, (*context.Context)(nil))
	err := parser.Run(a)
	parser.FatalIfErrorf(err)
}
