// Package usersink forwards dashboard activity into go-users activity
// records.
package usersink

import (
	"context"
	"maps"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-insights/pkg/activity"
)

// Sink persists activity records.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, record types.ActivityRecord) error

func (f SinkFunc) Log(ctx context.Context, record types.ActivityRecord) error {
	return f(ctx, record)
}

// Hook maps activity events to records. Viewers are anonymous, so the
// session id doubles as the actor.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify implements activity.Hook.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil || evt.Verb == "" {
		return nil
	}
	return h.Sink.Log(ctx, Record(evt))
}

// Record converts an event. Object ids that are not uuids leave the actor
// unset.
func Record(evt activity.Event) types.ActivityRecord {
	data := map[string]any{}
	if evt.Metadata != nil {
		data = maps.Clone(evt.Metadata)
	}
	var actor uuid.UUID
	if evt.ObjectType == "session" {
		if id, err := uuid.Parse(evt.ObjectID); err == nil {
			actor = id
		}
	}
	return types.ActivityRecord{
		ActorID:    actor,
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	}
}
