package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-insights/components/insights"
)

type validateCmd struct {
	Path string `arg:"" type:"path" help:"Fixture document to validate."`
}

func (cmd *validateCmd) Run(_ context.Context, a *app) error {
	doc, err := insights.ReadFixture(cmd.Path)
	if err != nil {
		if fieldErrs, ok := goerrors.GetValidationErrors(err); ok {
			rows := make([][]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				rows = append(rows, []string{fe.Field, fe.Message, fmt.Sprint(fe.Value)})
			}
			a.printf("%s %s\n", a.paint("✗", color.FgRed, color.Bold), cmd.Path)
			if tableErr := a.table([]string{"field", "problem", "value"}, rows); tableErr != nil {
				return tableErr
			}
		}
		return err
	}
	a.printf("%s %s: %d stats, %d activities, %d revenue points, %d preferences\n",
		a.paint("✓", color.FgGreen, color.Bold), cmd.Path,
		len(doc.Stats), len(doc.Activities), len(doc.Revenue), len(doc.Preferences))
	return nil
}

type scaffoldCmd struct {
	Path      string `arg:"" type:"path" help:"Where to write the fixture document."`
	Overwrite bool   `help:"Replace an existing file."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, a *app) error {
	path, err := filepath.Abs(cmd.Path)
	if err != nil {
		return fmt.Errorf("insightsctl: resolve fixture path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !cmd.Overwrite {
		return fmt.Errorf("insightsctl: fixture %s already exists (use --overwrite to replace)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("insightsctl: stat fixture: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("insightsctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("insightsctl: create fixture %s: %w", path, err)
	}
	defer file.Close()
	if err := insights.EncodeFixture(file, insights.DefaultFixture()); err != nil {
		return err
	}
	a.printf("%s wrote %s\n", a.paint("✓", color.FgGreen, color.Bold), path)
	return nil
}
