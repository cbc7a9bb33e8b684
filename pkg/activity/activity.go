// Package activity turns dashboard transitions into normalized activity
// records and forwards them to pluggable sinks (audit logs, feeds).
package activity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"
)

const defaultChannel = "insights"

// Event is a normalized activity record.
type Event struct {
	Channel    string         `json:"channel"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type"`
	ObjectID   string         `json:"object_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Hook receives activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, evt Event) error

func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Hooks fans events out to several sinks.
type Hooks []Hook

// Notify normalizes evt and calls every hook. Events without a verb or
// object type are dropped. Hook errors are joined.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if evt.Verb == "" || evt.ObjectType == "" {
		return nil
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims identifiers and clones metadata so sinks cannot
// mutate the caller's map.
func NormalizeEvent(evt Event) Event {
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	if evt.Metadata != nil {
		evt.Metadata = maps.Clone(evt.Metadata)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return evt
}
