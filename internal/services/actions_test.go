package services

import (
	"context"
	"testing"
	"time"

	"github.com/castmatch/castmatch-backend/internal/connections"
	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/notify"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// In-memory store backing the service tests.

type fakeStore struct {
	actions  *fakeActions
	personas *fakePersonas
}

func newFakeStore() *fakeStore {
	return &fakeStore{actions: &fakeActions{}, personas: &fakePersonas{data: map[string]*model.Persona{}}}
}

func (f *fakeStore) Actions() store.Actions   { return f.actions }
func (f *fakeStore) Personas() store.Personas { return f.personas }

type fakeActions struct{ list []*model.Action }

func (f *fakeActions) Upsert(ctx context.Context, in *model.Action) (*model.Action, error) {
	now := time.Now().UTC()
	for _, a := range f.list {
		if a.ActorID == in.ActorID && a.TargetID == in.TargetID {
			a.Kind = in.Kind
			a.UpdateTime = now
			cp := *a
			return &cp, nil
		}
	}
	a := &model.Action{
		ActorID: in.ActorID, TargetID: in.TargetID, Kind: in.Kind,
		CreationTime: now, UpdateTime: now,
	}
	f.list = append(f.list, a)
	cp := *a
	return &cp, nil
}

func (f *fakeActions) Get(ctx context.Context, actorID, targetID string) (*model.Action, error) {
	for _, a := range f.list {
		if a.ActorID == actorID && a.TargetID == targetID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeActions) ListByActor(ctx context.Context, actorID string) ([]*model.Action, error) {
	var out []*model.Action
	for _, a := range f.list {
		if a.ActorID == actorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActions) ListByTarget(ctx context.Context, targetID string) ([]*model.Action, error) {
	var out []*model.Action
	for _, a := range f.list {
		if a.TargetID == targetID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActions) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	for _, a := range f.list {
		if a.ActorID == actorID && a.TargetID == targetID {
			return a.Kind == model.ActionLike, nil
		}
	}
	return false, nil
}

type fakePersonas struct{ data map[string]*model.Persona }

func (f *fakePersonas) Upsert(ctx context.Context, p *model.Persona) (*model.Persona, error) {
	now := time.Now().UTC()
	cp := *p
	if existing, ok := f.data[p.UserID]; ok {
		cp.CreationTime = existing.CreationTime
	} else {
		cp.CreationTime = now
	}
	cp.UpdateTime = now
	f.data[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePersonas) Get(ctx context.Context, userID string) (*model.Persona, error) {
	p, ok := f.data[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePersonas) List(ctx context.Context, excludeUserID string) ([]*model.Persona, error) {
	var out []*model.Persona
	for id, p := range f.data {
		if id == excludeUserID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type captureDispatcher struct{ events []notify.Event }

func (d *captureDispatcher) Dispatch(ctx context.Context, ev notify.Event) {
	d.events = append(d.events, ev)
}

func newTestActionService() (*ActionService, *fakeStore, *captureDispatcher) {
	fs := newFakeStore()
	graph := connections.NewGraph(fs, time.Hour)
	out := &captureDispatcher{}
	notifier := notify.NewNotifier(notify.NewThrottler(10*time.Minute, 100), out)
	return NewActionService(fs, graph, notifier), fs, out
}

func TestRecordAction_RejectsInvalidKind(t *testing.T) {
	svc, _, _ := newTestActionService()
	_, err := svc.RecordAction(context.Background(), "alice", "bob", "superlike")
	if model.KindOf(err) != model.InvalidActionKind {
		t.Fatalf("err = %v, want kind %s", err, model.InvalidActionKind)
	}
}

func TestRecordAction_RejectsSelfAction(t *testing.T) {
	svc, _, _ := newTestActionService()
	_, err := svc.RecordAction(context.Background(), "alice", "alice", model.ActionLike)
	if model.KindOf(err) != model.SelfAction {
		t.Fatalf("err = %v, want kind %s", err, model.SelfAction)
	}
}

func TestRecordAction_FirstLikeIsNotAMatch(t *testing.T) {
	svc, _, out := newTestActionService()

	res, err := svc.RecordAction(context.Background(), "alice", "bob", model.ActionLike)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Matched {
		t.Error("one-sided like reported as a match")
	}
	if res.Action.CreationTime.IsZero() || res.Action.UpdateTime.IsZero() {
		t.Error("action returned without temporal fields")
	}

	if len(out.events) != 1 || out.events[0].Type != notify.EventLikeReceived {
		t.Fatalf("events = %+v, want one like_received", out.events)
	}
	if out.events[0].UserID != "bob" || out.events[0].ActorID != "alice" {
		t.Errorf("like notification addressed to %s from %s", out.events[0].UserID, out.events[0].ActorID)
	}
}

func TestRecordAction_ReciprocalLikeMatches(t *testing.T) {
	svc, _, out := newTestActionService()
	ctx := context.Background()

	if _, err := svc.RecordAction(ctx, "bob", "alice", model.ActionLike); err != nil {
		t.Fatalf("record first like: %v", err)
	}
	out.events = nil

	res, err := svc.RecordAction(ctx, "alice", "bob", model.ActionLike)
	if err != nil {
		t.Fatalf("record reciprocal like: %v", err)
	}
	if !res.Matched {
		t.Fatal("reciprocal like did not report a match")
	}

	if len(out.events) != 2 {
		t.Fatalf("events = %+v, want a match notification for each side", out.events)
	}
	recipients := map[string]bool{}
	for _, ev := range out.events {
		if ev.Type != notify.EventMatch {
			t.Errorf("event type = %s, want %s", ev.Type, notify.EventMatch)
		}
		recipients[ev.UserID] = true
	}
	if !recipients["alice"] || !recipients["bob"] {
		t.Errorf("match notifications reached %v, want both sides", recipients)
	}
}

func TestRecordAction_RejectNeverMatchesOrNotifies(t *testing.T) {
	svc, _, out := newTestActionService()
	ctx := context.Background()

	if _, err := svc.RecordAction(ctx, "bob", "alice", model.ActionLike); err != nil {
		t.Fatalf("record like: %v", err)
	}
	out.events = nil

	res, err := svc.RecordAction(ctx, "alice", "bob", model.ActionReject)
	if err != nil {
		t.Fatalf("record reject: %v", err)
	}
	if res.Matched {
		t.Error("reject reported as a match")
	}
	if len(out.events) != 0 {
		t.Errorf("reject raised notifications: %+v", out.events)
	}
}

func TestRecordAction_OverwriteFlipsKind(t *testing.T) {
	svc, fs, _ := newTestActionService()
	ctx := context.Background()

	first, err := svc.RecordAction(ctx, "alice", "bob", model.ActionReject)
	if err != nil {
		t.Fatalf("record reject: %v", err)
	}
	res, err := svc.RecordAction(ctx, "alice", "bob", model.ActionLike)
	if err != nil {
		t.Fatalf("record like over reject: %v", err)
	}
	if res.Action.Kind != model.ActionLike {
		t.Errorf("kind = %s, want like after overwrite", res.Action.Kind)
	}
	if !res.Action.CreationTime.Equal(first.Action.CreationTime) {
		t.Errorf("overwrite changed creation time: %v -> %v", first.Action.CreationTime, res.Action.CreationTime)
	}
	if len(fs.actions.list) != 1 {
		t.Errorf("store holds %d actions for the pair, want 1", len(fs.actions.list))
	}
}

func TestRecordAction_InvalidatesCachedConnections(t *testing.T) {
	svc, fs, _ := newTestActionService()
	graph := svc.graph
	ctx := context.Background()

	// Prime both users' cached mutual sets while they are empty.
	if _, err := graph.Mutuals(ctx, "alice"); err != nil {
		t.Fatalf("mutuals: %v", err)
	}
	if _, err := graph.Mutuals(ctx, "bob"); err != nil {
		t.Fatalf("mutuals: %v", err)
	}

	if _, err := svc.RecordAction(ctx, "alice", "bob", model.ActionLike); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := svc.RecordAction(ctx, "bob", "alice", model.ActionLike); err != nil {
		t.Fatalf("record: %v", err)
	}

	conns, err := graph.Mutuals(ctx, "alice")
	if err != nil {
		t.Fatalf("mutuals: %v", err)
	}
	if len(conns) != 1 || conns[0].UserID != "bob" {
		t.Fatalf("mutuals after actions = %+v, want [bob]; cache was not invalidated", conns)
	}
	if len(fs.actions.list) != 2 {
		t.Errorf("store holds %d actions, want 2", len(fs.actions.list))
	}
}

func TestGetAction_TranslatesNotFound(t *testing.T) {
	svc, _, _ := newTestActionService()
	_, err := svc.GetAction(context.Background(), "alice", "bob")
	if model.KindOf(err) != model.NotFound {
		t.Fatalf("err = %v, want kind %s", err, model.NotFound)
	}
}
