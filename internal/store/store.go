package store

import (
	"context"

	"github.com/castmatch/castmatch-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Actions() Actions
	Personas() Personas
}

// Actions persists directional swipe decisions. Implementations must provide
// atomic upsert-on-conflict semantics for a single (actor, target) pair.
type Actions interface {
	// Upsert stores a, overwriting any prior action for the same
	// (actor, target) pair. CreationTime is set on first write only;
	// UpdateTime is refreshed on every write.
	Upsert(ctx context.Context, a *model.Action) (*model.Action, error)
	// Get returns the action for the exact (actor, target) pair, or
	// model.ErrNotFound.
	Get(ctx context.Context, actorID, targetID string) (*model.Action, error)
	// ListByActor returns every action issued by actorID.
	ListByActor(ctx context.Context, actorID string) ([]*model.Action, error)
	// ListByTarget returns every action aimed at targetID.
	ListByTarget(ctx context.Context, targetID string) ([]*model.Action, error)
	// HasLiked reports whether a like action exists from actorID to targetID.
	HasLiked(ctx context.Context, actorID, targetID string) (bool, error)
}

// Personas persists externally produced interest profiles.
type Personas interface {
	// Upsert stores p, replacing any prior persona for the same user.
	Upsert(ctx context.Context, p *model.Persona) (*model.Persona, error)
	// Get returns the persona for userID, or model.ErrNotFound.
	Get(ctx context.Context, userID string) (*model.Persona, error)
	// List returns all personas except the one owned by excludeUserID.
	List(ctx context.Context, excludeUserID string) ([]*model.Persona, error)
}
