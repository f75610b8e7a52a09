package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Unique test identifiers so the suite can run against shared databases.
	alice := "u-" + uuid.New().String()
	bob := "u-" + uuid.New().String()
	carol := "u-" + uuid.New().String()

	// Actions: first write sets both temporal fields.
	first, err := s.Actions().Upsert(ctx, &model.Action{ActorID: alice, TargetID: bob, Kind: model.ActionLike})
	if err != nil {
		t.Fatalf("Upsert first: %v", err)
	}
	if first.CreationTime.IsZero() || first.UpdateTime.IsZero() {
		t.Fatalf("Upsert first: missing temporal fields: %+v", first)
	}

	// Overwrite flips the kind, keeps creation time, refreshes update time.
	second, err := s.Actions().Upsert(ctx, &model.Action{ActorID: alice, TargetID: bob, Kind: model.ActionReject})
	if err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}
	if !second.CreationTime.Equal(first.CreationTime) {
		t.Fatalf("overwrite changed creation time: first=%v second=%v", first.CreationTime, second.CreationTime)
	}
	if second.UpdateTime.Before(first.UpdateTime) {
		t.Fatalf("overwrite did not advance update time: first=%v second=%v", first.UpdateTime, second.UpdateTime)
	}

	got, err := s.Actions().Get(ctx, alice, bob)
	if err != nil || got.Kind != model.ActionReject {
		t.Fatalf("Get after overwrite: got=%+v err=%v", got, err)
	}

	// Get on a missing pair reports ErrNotFound.
	if _, err := s.Actions().Get(ctx, alice, carol); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}

	// Direction matters: the reverse pair is a distinct action.
	if _, err := s.Actions().Get(ctx, bob, alice); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get reverse pair: want ErrNotFound, got %v", err)
	}

	// HasLiked sees likes only.
	if _, err := s.Actions().Upsert(ctx, &model.Action{ActorID: alice, TargetID: carol, Kind: model.ActionLike}); err != nil {
		t.Fatalf("Upsert like: %v", err)
	}
	if liked, err := s.Actions().HasLiked(ctx, alice, carol); err != nil || !liked {
		t.Fatalf("HasLiked like: liked=%v err=%v", liked, err)
	}
	if liked, err := s.Actions().HasLiked(ctx, alice, bob); err != nil || liked {
		t.Fatalf("HasLiked reject should be false: liked=%v err=%v", liked, err)
	}
	if liked, err := s.Actions().HasLiked(ctx, carol, alice); err != nil || liked {
		t.Fatalf("HasLiked absent should be false: liked=%v err=%v", liked, err)
	}

	// ListByActor returns every action issued by the actor.
	byActor, err := s.Actions().ListByActor(ctx, alice)
	if err != nil || len(byActor) != 2 {
		t.Fatalf("ListByActor: n=%d err=%v", len(byActor), err)
	}
	for _, a := range byActor {
		if a.ActorID != alice {
			t.Fatalf("ListByActor returned foreign action: %+v", a)
		}
	}

	// ListByTarget returns every action aimed at the target.
	if _, err := s.Actions().Upsert(ctx, &model.Action{ActorID: bob, TargetID: carol, Kind: model.ActionLike}); err != nil {
		t.Fatalf("Upsert bob->carol: %v", err)
	}
	byTarget, err := s.Actions().ListByTarget(ctx, carol)
	if err != nil || len(byTarget) != 2 {
		t.Fatalf("ListByTarget: n=%d err=%v", len(byTarget), err)
	}

	// Lists on unknown users are empty, not errors.
	if lst, err := s.Actions().ListByActor(ctx, "u-"+uuid.New().String()); err != nil || len(lst) != 0 {
		t.Fatalf("ListByActor unknown: n=%d err=%v", len(lst), err)
	}

	// Personas: upsert, read back, replace.
	p := &model.Persona{
		UserID:          alice,
		CoreInterests:   []string{"zk-proofs", "onchain games"},
		Projects:        []string{"castmatch"},
		ContentThemes:   []string{"cryptography"},
		Channels:        []string{"dev"},
		ExpertiseLevel:  "expert",
		EngagementStyle: "builder",
	}
	stored, err := s.Personas().Upsert(ctx, p)
	if err != nil {
		t.Fatalf("Personas.Upsert: %v", err)
	}
	if stored.CreationTime.IsZero() || stored.UpdateTime.IsZero() {
		t.Fatalf("Personas.Upsert: missing temporal fields: %+v", stored)
	}

	gotP, err := s.Personas().Get(ctx, alice)
	if err != nil {
		t.Fatalf("Personas.Get: %v", err)
	}
	if len(gotP.CoreInterests) != 2 || gotP.ExpertiseLevel != "expert" || gotP.EngagementStyle != "builder" {
		t.Fatalf("Personas.Get mismatch: %+v", gotP)
	}

	p.CoreInterests = []string{"zk-proofs"}
	if _, err := s.Personas().Upsert(ctx, p); err != nil {
		t.Fatalf("Personas.Upsert replace: %v", err)
	}
	gotP, err = s.Personas().Get(ctx, alice)
	if err != nil || len(gotP.CoreInterests) != 1 {
		t.Fatalf("Personas.Get after replace: got=%+v err=%v", gotP, err)
	}
	if !gotP.CreationTime.Equal(stored.CreationTime) {
		t.Fatalf("persona replace changed creation time")
	}

	// Missing persona reports ErrNotFound.
	if _, err := s.Personas().Get(ctx, "u-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Personas.Get missing: want ErrNotFound, got %v", err)
	}

	// List excludes the named user.
	if _, err := s.Personas().Upsert(ctx, &model.Persona{UserID: bob, CoreInterests: []string{"defi"}}); err != nil {
		t.Fatalf("Personas.Upsert bob: %v", err)
	}
	all, err := s.Personas().List(ctx, alice)
	if err != nil {
		t.Fatalf("Personas.List: %v", err)
	}
	for _, cand := range all {
		if cand.UserID == alice {
			t.Fatalf("Personas.List returned excluded user")
		}
	}
	foundBob := false
	for _, cand := range all {
		if cand.UserID == bob {
			foundBob = true
		}
	}
	if !foundBob {
		t.Fatalf("Personas.List missing expected user")
	}
}
