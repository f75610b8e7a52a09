// Package notify emits user-facing events raised by swipe activity. The
// default dispatcher only logs; delivery to a push channel hangs off the
// Dispatcher interface.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventType classifies a notification.
type EventType string

const (
	// EventMatch fires when a like completes a mutual connection.
	EventMatch EventType = "match"
	// EventLikeReceived fires when a user receives a new like.
	EventLikeReceived EventType = "like_received"
)

// Event is one notification addressed to UserID, triggered by ActorID.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	ActorID   string    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dispatcher delivers events. Implementations are best-effort; a lost
// notification never fails the action that raised it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// LogDispatcher writes events to the service log.
type LogDispatcher struct {
	log zerolog.Logger
}

func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, ev Event) {
	d.log.Info().
		Str("event_id", ev.ID).
		Str("type", string(ev.Type)).
		Str("user_id", ev.UserID).
		Str("actor_id", ev.ActorID).
		Time("created_at", ev.CreatedAt).
		Msg("notification dispatched")
}

// Notifier stamps, throttles and dispatches events. Repeat events for the
// same (type, recipient, actor) inside the throttle window are dropped so a
// swipe flip-flop cannot spam anyone.
type Notifier struct {
	throttle *Throttler
	out      Dispatcher
}

func NewNotifier(throttle *Throttler, out Dispatcher) *Notifier {
	return &Notifier{throttle: throttle, out: out}
}

func (n *Notifier) Notify(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	if !n.throttle.Allow(ev) {
		return
	}
	n.out.Dispatch(ctx, ev)
}
