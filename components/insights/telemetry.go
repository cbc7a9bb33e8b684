package insights

import (
	"context"
	"errors"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

type noopEventHook struct{}

func (noopEventHook) DashboardChanged(context.Context, DashboardEvent) error { return nil }

// EventHooks forwards events to every hook in order and joins their errors.
type EventHooks []EventHook

func (h EventHooks) DashboardChanged(ctx context.Context, event DashboardEvent) error {
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.DashboardChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
