// Package discovery ranks candidate users for a viewer by persona
// similarity, backfilling with unscored profiles so every page comes back
// full while the pool lasts.
package discovery

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/scoring"
	"github.com/castmatch/castmatch-backend/internal/store"
)

// Ranker produces paginated candidate lists. Read-only; safe for concurrent
// use by unrelated requests.
type Ranker struct {
	store       store.Store
	maxPageSize int
	shuffle     func([]model.CandidateMatch)
}

// NewRanker builds a Ranker over st. maxPageSize bounds the caller-supplied
// pageSize.
func NewRanker(st store.Store, maxPageSize int) *Ranker {
	return &Ranker{store: st, maxPageSize: maxPageSize, shuffle: defaultShuffle}
}

func defaultShuffle(candidates []model.CandidateMatch) {
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
}

// Rank scores every profiled user the viewer has not acted on and returns
// page/pageSize worth of candidates: similarity matches first in descending
// score order (ties broken by user id ascending), then random backfill from
// the zero-score pool. The backfill permutation is fresh per call, so repeat
// calls may surface different fill. Totals count matches plus backfill pool.
func (r *Ranker) Rank(ctx context.Context, userID string, page, pageSize int) (*model.DiscoverPage, error) {
	if page < 1 {
		return nil, model.NewError(model.InvalidPage, "page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > r.maxPageSize {
		return nil, model.NewError(model.InvalidPageSize, "pageSize must be between 1 and %d, got %d", r.maxPageSize, pageSize)
	}

	viewer, err := r.store.Personas().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewError(model.ProfileRequired, "user %q has no persona yet", userID)
		}
		return nil, err
	}

	acted, err := r.store.Actions().ListByActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(acted))
	for _, a := range acted {
		excluded[a.TargetID] = struct{}{}
	}

	candidates, err := r.store.Personas().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches, unscored []model.CandidateMatch
	for _, c := range candidates {
		if _, acted := excluded[c.UserID]; acted {
			continue
		}
		score, evidence := scoring.Score(viewer, c)
		cm := model.CandidateMatch{UserID: c.UserID, Score: score, Persona: c}
		if score > 0 {
			cm.MatchedOn = evidence
			matches = append(matches, cm)
		} else {
			unscored = append(unscored, cm)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})

	total := len(matches) + len(unscored)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	offset := (page - 1) * pageSize
	out := make([]model.CandidateMatch, 0, pageSize)
	if offset < total {
		capacity := pageSize
		if rem := total - offset; rem < capacity {
			capacity = rem
		}
		if offset < len(matches) {
			end := offset + capacity
			if end > len(matches) {
				end = len(matches)
			}
			out = append(out, matches[offset:end]...)
		}
		if fill := capacity - len(out); fill > 0 && len(unscored) > 0 {
			pool := make([]model.CandidateMatch, len(unscored))
			copy(pool, unscored)
			r.shuffle(pool)
			if fill > len(pool) {
				fill = len(pool)
			}
			out = append(out, pool[:fill]...)
		}
	}

	return &model.DiscoverPage{
		Candidates: out,
		Pagination: model.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
