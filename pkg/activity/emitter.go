package activity

import (
	"context"

	"github.com/goliatone/go-insights/components/insights"
)

// Config toggles emission and names the channel stamped on events.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter publishes activity events and doubles as an insights.EventHook.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

var _ insights.EventHook = (*Emitter)(nil)

// NewEmitter builds an emitter. It stays disabled without hooks.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if cfg.Channel == "" {
		cfg.Channel = defaultChannel
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether Emit forwards events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit stamps the channel when missing and notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}

// DashboardChanged records a dashboard transition as a session activity.
func (e *Emitter) DashboardChanged(ctx context.Context, event insights.DashboardEvent) error {
	metadata := map[string]any{
		"tab":   string(event.State.Tab),
		"chart": string(event.State.Chart),
		"tour":  string(event.State.Tour),
	}
	if event.TargetRegion != "" {
		metadata["target_region"] = string(event.TargetRegion)
	}
	for key, value := range event.Detail {
		metadata[key] = value
	}
	return e.Emit(ctx, Event{
		Verb:       string(event.Kind),
		ObjectType: "session",
		ObjectID:   event.SessionID,
		Metadata:   metadata,
		OccurredAt: event.OccurredAt,
	})
}
