package services

import (
	"context"
	"errors"

	"github.com/castmatch/castmatch-backend/internal/connections"
	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/notify"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// ActionService records swipes and answers action queries. Recording is the
// only mutation in the system; everything downstream derives from it.
type ActionService struct {
	store    store.Store
	graph    *connections.Graph
	notifier *notify.Notifier
}

func NewActionService(s store.Store, g *connections.Graph, n *notify.Notifier) *ActionService {
	return &ActionService{store: s, graph: g, notifier: n}
}

// RecordAction validates and upserts one swipe, invalidates both users'
// cached connection state, and reports whether a like completed a mutual
// connection. Notifications are raised best-effort after the write.
func (s *ActionService) RecordAction(ctx context.Context, actorID, targetID string, kind model.ActionKind) (*model.ActionResult, error) {
	if !kind.IsValid() {
		return nil, model.NewError(model.InvalidActionKind, "unsupported action kind %q", kind)
	}
	if actorID == targetID {
		return nil, model.NewError(model.SelfAction, "user %q cannot act on themselves", actorID)
	}

	action, err := s.store.Actions().Upsert(ctx, &model.Action{
		ActorID:  actorID,
		TargetID: targetID,
		Kind:     kind,
	})
	if err != nil {
		return nil, err
	}
	s.graph.Invalidate(actorID)
	s.graph.Invalidate(targetID)

	result := &model.ActionResult{Action: action}
	if kind != model.ActionLike {
		return result, nil
	}

	matched, err := s.graph.AreMutual(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	result.Matched = matched

	if s.notifier != nil {
		if matched {
			s.notifier.Notify(ctx, notify.Event{Type: notify.EventMatch, UserID: targetID, ActorID: actorID})
			s.notifier.Notify(ctx, notify.Event{Type: notify.EventMatch, UserID: actorID, ActorID: targetID})
		} else {
			s.notifier.Notify(ctx, notify.Event{Type: notify.EventLikeReceived, UserID: targetID, ActorID: actorID})
		}
	}
	return result, nil
}

// GetAction returns the action for the exact (actor, target) pair.
func (s *ActionService) GetAction(ctx context.Context, actorID, targetID string) (*model.Action, error) {
	a, err := s.store.Actions().Get(ctx, actorID, targetID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewError(model.NotFound, "no action from %q to %q", actorID, targetID)
		}
		return nil, err
	}
	return a, nil
}

// ActionsBy lists every swipe actorID has issued. Unknown users get an
// empty list, not an error.
func (s *ActionService) ActionsBy(ctx context.Context, actorID string) ([]*model.Action, error) {
	return s.store.Actions().ListByActor(ctx, actorID)
}

// ActionsOn lists every swipe aimed at targetID.
func (s *ActionService) ActionsOn(ctx context.Context, targetID string) ([]*model.Action, error) {
	return s.store.Actions().ListByTarget(ctx, targetID)
}
