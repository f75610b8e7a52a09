package services

import (
	"context"
	"testing"

	"github.com/castmatch/castmatch-backend/internal/model"
)

func TestPersonaService_PutThenGet(t *testing.T) {
	svc := NewPersonaService(newFakeStore())
	ctx := context.Background()

	in := &model.Persona{
		UserID:          "alice",
		CoreInterests:   []string{"defi", "zk-proofs"},
		ExpertiseLevel:  "expert",
		EngagementStyle: "builder",
	}
	stored, err := svc.PutPersona(ctx, in)
	if err != nil {
		t.Fatalf("put persona: %v", err)
	}
	if stored.CreationTime.IsZero() || stored.UpdateTime.IsZero() {
		t.Error("stored persona missing temporal fields")
	}

	got, err := svc.GetPersona(ctx, "alice")
	if err != nil {
		t.Fatalf("get persona: %v", err)
	}
	if got.UserID != "alice" || len(got.CoreInterests) != 2 {
		t.Errorf("got = %+v", got)
	}
}

func TestPersonaService_GetMissingIsNotFoundKind(t *testing.T) {
	svc := NewPersonaService(newFakeStore())
	_, err := svc.GetPersona(context.Background(), "ghost")
	if model.KindOf(err) != model.NotFound {
		t.Fatalf("err = %v, want kind %s", err, model.NotFound)
	}
}
