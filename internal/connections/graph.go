// Package connections derives connection state between users from the
// action store. A connection exists when two users have liked each other;
// pending relations are likes awaiting reciprocation. Everything here is a
// pure read over the store's current snapshot; nothing writes back.
package connections

import (
	"context"
	"sort"
	"time"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Graph answers connection queries for single users and pairs. Mutual sets
// are cached per user with a short TTL; writers must call Invalidate for
// both participants after recording an action.
type Graph struct {
	store store.Store
	cache *mutualCache
}

// NewGraph builds a Graph over st. cacheTTL <= 0 disables the mutuals cache.
func NewGraph(st store.Store, cacheTTL time.Duration) *Graph {
	return &Graph{store: st, cache: newMutualCache(cacheTTL, time.Now)}
}

// Mutuals returns every user connected to userID, sorted by user id for
// stable output. Unknown users yield an empty set, not an error.
func (g *Graph) Mutuals(ctx context.Context, userID string) ([]model.Connection, error) {
	if conns, ok := g.cache.get(userID); ok {
		return conns, nil
	}
	conns, err := g.deriveMutuals(ctx, userID)
	if err != nil {
		return nil, err
	}
	g.cache.put(userID, conns)
	return conns, nil
}

func (g *Graph) deriveMutuals(ctx context.Context, userID string) ([]model.Connection, error) {
	sent, err := g.store.Actions().ListByActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := g.store.Actions().ListByTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	likedBy := make(map[string]*model.Action, len(received))
	for _, a := range received {
		if a.Kind == model.ActionLike {
			likedBy[a.ActorID] = a
		}
	}

	var conns []model.Connection
	for _, a := range sent {
		if a.Kind != model.ActionLike {
			continue
		}
		back, ok := likedBy[a.TargetID]
		if !ok {
			continue
		}
		// The connection formed when the later of the two likes landed.
		at := a.UpdateTime
		if back.UpdateTime.After(at) {
			at = back.UpdateTime
		}
		conns = append(conns, model.Connection{UserID: a.TargetID, ConnectedAt: at})
	}

	sort.Slice(conns, func(i, j int) bool { return conns[i].UserID < conns[j].UserID })
	return conns, nil
}

// SentPending returns users userID has liked who have not liked back,
// annotated with the original like time, most recent first.
func (g *Graph) SentPending(ctx context.Context, userID string) ([]model.PendingLike, error) {
	sent, err := g.store.Actions().ListByActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := g.store.Actions().ListByTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	likedBy := make(map[string]struct{}, len(received))
	for _, a := range received {
		if a.Kind == model.ActionLike {
			likedBy[a.ActorID] = struct{}{}
		}
	}

	var pending []model.PendingLike
	for _, a := range sent {
		if a.Kind != model.ActionLike {
			continue
		}
		if _, mutual := likedBy[a.TargetID]; mutual {
			continue
		}
		pending = append(pending, model.PendingLike{UserID: a.TargetID, LikedAt: a.CreationTime})
	}

	sortPending(pending)
	return pending, nil
}

// ReceivedPending returns users who liked userID and have not been liked
// back. A rejected liker still appears here: only a reciprocal like removes
// an entry, so the caller can surface previously passed-over profiles.
func (g *Graph) ReceivedPending(ctx context.Context, userID string) ([]model.PendingLike, error) {
	sent, err := g.store.Actions().ListByActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := g.store.Actions().ListByTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked := make(map[string]struct{}, len(sent))
	for _, a := range sent {
		if a.Kind == model.ActionLike {
			liked[a.TargetID] = struct{}{}
		}
	}

	var pending []model.PendingLike
	for _, a := range received {
		if a.Kind != model.ActionLike {
			continue
		}
		if _, reciprocated := liked[a.ActorID]; reciprocated {
			continue
		}
		pending = append(pending, model.PendingLike{UserID: a.ActorID, LikedAt: a.CreationTime})
	}

	sortPending(pending)
	return pending, nil
}

// AreMutual reports whether a and b have liked each other. Point lookups,
// no cache involvement.
func (g *Graph) AreMutual(ctx context.Context, a, b string) (bool, error) {
	forward, err := g.store.Actions().HasLiked(ctx, a, b)
	if err != nil || !forward {
		return false, err
	}
	return g.store.Actions().HasLiked(ctx, b, a)
}

// Invalidate drops userID's cached mutual set. Callers recording an action
// invalidate both the actor and the target.
func (g *Graph) Invalidate(userID string) {
	g.cache.invalidate(userID)
}

func sortPending(pending []model.PendingLike) {
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].LikedAt.Equal(pending[j].LikedAt) {
			return pending[i].LikedAt.After(pending[j].LikedAt)
		}
		return pending[i].UserID < pending[j].UserID
	})
}
