// Package cache stores computed briefs per user and calendar day and
// invalidates them when the user's data changes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
)

// ErrMiss is returned by Store.Get when no live entry exists.
var ErrMiss = errors.New("cache miss")

// ErrUnknownEvent is returned by ParseEvent for unsupported event types.
var ErrUnknownEvent = errors.New("unknown invalidation event")

// Key addresses one cached brief.
type Key struct {
	UserID uuid.UUID
	Day    calendar.Day
}

func (k Key) String() string {
	return k.UserID.String() + "/" + k.Day.String()
}

// Store is a brief cache backend.
type Store interface {
	Get(ctx context.Context, key Key) (*brief.Response, error)
	Set(ctx context.Context, key Key, resp *brief.Response, ttl time.Duration) error
	// Invalidate drops every cached day for the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Event is a data change that makes a user's cached briefs stale.
type Event string

const (
	EventWorkoutSaved    Event = "workout_saved"
	EventWorkoutDeleted  Event = "workout_deleted"
	EventSettingsChanged Event = "settings_changed"
	EventNutritionLogged Event = "nutrition_logged"
)

// Events lists the supported invalidation events.
var Events = []Event{EventWorkoutSaved, EventWorkoutDeleted, EventSettingsChanged, EventNutritionLogged}

// ParseEvent validates an event type string.
func ParseEvent(s string) (Event, error) {
	for _, e := range Events {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}
