package discovery

import (
	"context"
	"fmt"
	"testing"

	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/store"
)

type fakeStore struct {
	actions  *fakeActions
	personas *fakePersonas
}

func (f *fakeStore) Actions() store.Actions   { return f.actions }
func (f *fakeStore) Personas() store.Personas { return f.personas }

type fakeActions struct{ list []*model.Action }

func (f *fakeActions) Upsert(ctx context.Context, a *model.Action) (*model.Action, error) {
	panic("unused")
}

func (f *fakeActions) Get(ctx context.Context, actorID, targetID string) (*model.Action, error) {
	panic("unused")
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
	panic("unused")
}

func (f *fakeActions) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	panic("unused")
}

type fakePersonas struct{ list []*model.Persona }

func (f *fakePersonas) Upsert(ctx context.Context, p *model.Persona) (*model.Persona, error) {
	panic("unused")
}

func (f *fakePersonas) Get(ctx context.Context, userID string) (*model.Persona, error) {
	for _, p := range f.list {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakePersonas) List(ctx context.Context, excludeUserID string) ([]*model.Persona, error) {
	var out []*model.Persona
	for _, p := range f.list {
		if p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestRanker(fs *fakeStore) *Ranker {
	r := NewRanker(fs, 50)
	// Deterministic fill for assertions; production shuffles randomly.
	r.shuffle = func([]model.CandidateMatch) {}
	return r
}

func persona(userID string, interests ...string) *model.Persona {
	return &model.Persona{UserID: userID, CoreInterests: interests}
}

func TestRank_RequiresViewerPersona(t *testing.T) {
	fs := &fakeStore{actions: &fakeActions{}, personas: &fakePersonas{}}
	r := newTestRanker(fs)

	_, err := r.Rank(context.Background(), "alice", 1, 10)
	if model.KindOf(err) != model.ProfileRequired {
		t.Fatalf("err = %v, want kind %s", err, model.ProfileRequired)
	}
}

func TestRank_ValidatesPageInputs(t *testing.T) {
	fs := &fakeStore{
		actions:  &fakeActions{},
		personas: &fakePersonas{list: []*model.Persona{persona("alice", "defi")}},
	}
	r := newTestRanker(fs)
	ctx := context.Background()

	if _, err := r.Rank(ctx, "alice", 0, 10); model.KindOf(err) != model.InvalidPage {
		t.Errorf("page 0: err = %v, want kind %s", err, model.InvalidPage)
	}
	if _, err := r.Rank(ctx, "alice", 1, 0); model.KindOf(err) != model.InvalidPageSize {
		t.Errorf("pageSize 0: err = %v, want kind %s", err, model.InvalidPageSize)
	}
	if _, err := r.Rank(ctx, "alice", 1, 51); model.KindOf(err) != model.InvalidPageSize {
		t.Errorf("pageSize 51: err = %v, want kind %s", err, model.InvalidPageSize)
	}
}

func TestRank_ExcludesSelfAndActedUsers(t *testing.T) {
	fs := &fakeStore{
		actions: &fakeActions{list: []*model.Action{
			{ActorID: "alice", TargetID: "bob", Kind: model.ActionLike},
			{ActorID: "alice", TargetID: "carol", Kind: model.ActionReject},
		}},
		personas: &fakePersonas{list: []*model.Persona{
			persona("alice", "defi"),
			persona("bob", "defi"),
			persona("carol", "defi"),
			persona("dave", "defi"),
		}},
	}
	r := newTestRanker(fs)

	page, err := r.Rank(context.Background(), "alice", 1, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(page.Candidates) != 1 || page.Candidates[0].UserID != "dave" {
		t.Fatalf("candidates = %v, want only dave", candidateIDs(page.Candidates))
	}
	if page.Pagination.Total != 1 {
		t.Errorf("total = %d, want 1", page.Pagination.Total)
	}
}

func TestRank_BackfillsPageToQuota(t *testing.T) {
	personas := []*model.Persona{
		persona("alice", "defi", "nfts", "gaming"),
		persona("m-full", "defi", "nfts", "gaming"),
		persona("m-two", "defi", "nfts"),
		persona("m-one", "defi"),
	}
	for i := 0; i < 50; i++ {
		personas = append(personas, persona(fmt.Sprintf("filler-%02d", i), fmt.Sprintf("niche-%02d", i)))
	}
	fs := &fakeStore{actions: &fakeActions{}, personas: &fakePersonas{list: personas}}
	r := newTestRanker(fs)

	page, err := r.Rank(context.Background(), "alice", 1, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(page.Candidates) != 10 {
		t.Fatalf("page has %d candidates, want 10", len(page.Candidates))
	}

	wantOrder := []string{"m-full", "m-two", "m-one"}
	for i, want := range wantOrder {
		if page.Candidates[i].UserID != want {
			t.Fatalf("candidates[%d] = %s, want %s (got %v)", i, page.Candidates[i].UserID, want, candidateIDs(page.Candidates))
		}
	}
	if page.Candidates[0].Score <= page.Candidates[1].Score || page.Candidates[1].Score <= page.Candidates[2].Score {
		t.Errorf("match scores not strictly descending: %v", candidateScores(page.Candidates[:3]))
	}

	seen := map[string]struct{}{}
	for _, c := range page.Candidates {
		if _, dup := seen[c.UserID]; dup {
			t.Fatalf("duplicate candidate %s in one page", c.UserID)
		}
		seen[c.UserID] = struct{}{}
	}
	for _, c := range page.Candidates[3:] {
		if c.Score != 0 {
			t.Errorf("backfill candidate %s has score %v, want 0", c.UserID, c.Score)
		}
		if len(c.MatchedOn) != 0 {
			t.Errorf("backfill candidate %s carries evidence %v", c.UserID, c.MatchedOn)
		}
	}

	if page.Pagination.Total != 53 {
		t.Errorf("total = %d, want 53", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 6 {
		t.Errorf("totalPages = %d, want 6", page.Pagination.TotalPages)
	}
}

func TestRank_TiesBreakByUserID(t *testing.T) {
	fs := &fakeStore{
		actions: &fakeActions{},
		personas: &fakePersonas{list: []*model.Persona{
			persona("alice", "defi"),
			persona("zed", "defi"),
			persona("amy", "defi"),
		}},
	}
	r := newTestRanker(fs)

	page, err := r.Rank(context.Background(), "alice", 1, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	got := candidateIDs(page.Candidates)
	if len(got) != 2 || got[0] != "amy" || got[1] != "zed" {
		t.Fatalf("candidates = %v, want [amy zed]", got)
	}
}

func TestRank_LaterPagesAndExhaustion(t *testing.T) {
	personas := []*model.Persona{
		persona("alice", "defi", "nfts", "gaming"),
		persona("m-full", "defi", "nfts", "gaming"),
		persona("m-two", "defi", "nfts"),
		persona("m-one", "defi"),
	}
	for i := 0; i < 5; i++ {
		personas = append(personas, persona(fmt.Sprintf("filler-%d", i), fmt.Sprintf("niche-%d", i)))
	}
	fs := &fakeStore{actions: &fakeActions{}, personas: &fakePersonas{list: personas}}
	r := newTestRanker(fs)
	ctx := context.Background()

	// 3 matches + 5 backfill = 8 total, 3 pages of 3.
	page2, err := r.Rank(ctx, "alice", 2, 3)
	if err != nil {
		t.Fatalf("rank page 2: %v", err)
	}
	if len(page2.Candidates) != 3 {
		t.Fatalf("page 2 has %d candidates, want 3", len(page2.Candidates))
	}
	for _, c := range page2.Candidates {
		if c.Score != 0 {
			t.Errorf("page 2 candidate %s has score %v, want backfill only", c.UserID, c.Score)
		}
	}

	page3, err := r.Rank(ctx, "alice", 3, 3)
	if err != nil {
		t.Fatalf("rank page 3: %v", err)
	}
	if len(page3.Candidates) != 2 {
		t.Fatalf("page 3 has %d candidates, want 2 (total 8)", len(page3.Candidates))
	}

	page4, err := r.Rank(ctx, "alice", 4, 3)
	if err != nil {
		t.Fatalf("rank page 4: %v", err)
	}
	if len(page4.Candidates) != 0 {
		t.Fatalf("page 4 has %d candidates, want 0", len(page4.Candidates))
	}
	if page4.Pagination.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page4.Pagination.TotalPages)
	}
}

func TestRank_EmptyUniverse(t *testing.T) {
	fs := &fakeStore{
		actions:  &fakeActions{},
		personas: &fakePersonas{list: []*model.Persona{persona("alice", "defi")}},
	}
	r := newTestRanker(fs)

	page, err := r.Rank(context.Background(), "alice", 1, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(page.Candidates) != 0 {
		t.Fatalf("candidates = %v, want empty", candidateIDs(page.Candidates))
	}
	if page.Pagination.Total != 0 || page.Pagination.TotalPages != 0 {
		t.Errorf("pagination = %+v, want zero totals", page.Pagination)
	}
}

func candidateIDs(candidates []model.CandidateMatch) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.UserID)
	}
	return out
}

func candidateScores(candidates []model.CandidateMatch) []float64 {
	out := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Score)
	}
	return out
}
