package scoring

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/castmatch/castmatch-backend/internal/model"
)

func TestScore_IdenticalProfilesScoreFull(t *testing.T) {
	p := &model.Persona{
		UserID:          "alice",
		CoreInterests:   []string{"zk-proofs", "defi"},
		Projects:        []string{"rollup"},
		ContentThemes:   []string{"governance"},
		Channels:        []string{"dev"},
		ExpertiseLevel:  "expert",
		EngagementStyle: "builder",
	}
	got, evidence := Score(p, p)
	if got != 100 {
		t.Fatalf("score = %v, want 100", got)
	}
	want := map[string][]string{
		CategoryCoreInterests:   {"defi", "zk-proofs"},
		CategoryProjects:        {"rollup"},
		CategoryContentThemes:   {"governance"},
		CategoryChannels:        {"dev"},
		CategoryExpertiseLevel:  {"expert"},
		CategoryEngagementStyle: {"builder"},
	}
	if !reflect.DeepEqual(evidence, want) {
		t.Errorf("evidence = %v, want %v", evidence, want)
	}
}

func TestScore_CaseInsensitiveIntersection(t *testing.T) {
	a := &model.Persona{CoreInterests: []string{"DeFi", " ZK-Proofs "}}
	b := &model.Persona{CoreInterests: []string{"defi", "zk-proofs"}}
	got, evidence := Score(a, b)
	if got != 30 {
		t.Fatalf("score = %v, want 30", got)
	}
	if want := []string{"defi", "zk-proofs"}; !reflect.DeepEqual(evidence[CategoryCoreInterests], want) {
		t.Errorf("evidence = %v, want %v", evidence[CategoryCoreInterests], want)
	}
}

func TestScore_NormalizesByMaxCardinality(t *testing.T) {
	a := &model.Persona{CoreInterests: []string{"defi"}}
	b := &model.Persona{CoreInterests: []string{"defi", "nfts", "gaming", "music"}}
	got, _ := Score(a, b)
	// 1 shared of max(1,4) = 0.25 of the 30-point category.
	if got != 7.5 {
		t.Fatalf("score = %v, want 7.5", got)
	}
}

func TestScore_ExpertiseAdjacency(t *testing.T) {
	cases := []struct {
		name         string
		a, b         string
		want         float64
		wantEvidence bool
	}{
		{"exact match", "expert", "expert", 15, true},
		{"exact match is case-insensitive", "Expert", "expert", 15, true},
		{"adjacent levels half credit", "beginner", "intermediate", 7.5, false},
		{"adjacent levels other direction", "expert", "intermediate", 7.5, false},
		{"two steps apart", "beginner", "expert", 0, false},
		{"unknown level no adjacency", "beginner", "wizard", 0, false},
		{"unknown levels still exact-match", "wizard", "wizard", 15, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, evidence := Score(
				&model.Persona{ExpertiseLevel: tc.a},
				&model.Persona{ExpertiseLevel: tc.b},
			)
			if got != tc.want {
				t.Fatalf("score(%q,%q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if _, ok := evidence[CategoryExpertiseLevel]; ok != tc.wantEvidence {
				t.Errorf("evidence present = %v, want %v", ok, tc.wantEvidence)
			}
		})
	}
}

func TestScore_EngagementStyleExactMatchOnly(t *testing.T) {
	got, evidence := Score(
		&model.Persona{EngagementStyle: "Builder"},
		&model.Persona{EngagementStyle: "builder"},
	)
	if got != 10 {
		t.Fatalf("score = %v, want 10", got)
	}
	if want := []string{"builder"}; !reflect.DeepEqual(evidence[CategoryEngagementStyle], want) {
		t.Errorf("evidence = %v, want %v", evidence[CategoryEngagementStyle], want)
	}

	got, _ = Score(
		&model.Persona{EngagementStyle: "builder"},
		&model.Persona{EngagementStyle: "lurker"},
	)
	if got != 0 {
		t.Fatalf("score = %v, want 0 for different styles", got)
	}
}

func TestScore_MissingPersonaScoresZero(t *testing.T) {
	p := &model.Persona{CoreInterests: []string{"defi"}}
	for _, pair := range [][2]*model.Persona{{nil, p}, {p, nil}, {nil, nil}} {
		got, evidence := Score(pair[0], pair[1])
		if got != 0 {
			t.Fatalf("score = %v, want 0", got)
		}
		if len(evidence) != 0 {
			t.Errorf("evidence = %v, want empty", evidence)
		}
	}
}

func TestScore_DisjointProfilesScoreZero(t *testing.T) {
	a := &model.Persona{CoreInterests: []string{"defi"}, ExpertiseLevel: "beginner", EngagementStyle: "lurker"}
	b := &model.Persona{CoreInterests: []string{"gaming"}, ExpertiseLevel: "expert", EngagementStyle: "builder"}
	got, evidence := Score(a, b)
	if got != 0 {
		t.Fatalf("score = %v, want 0", got)
	}
	if len(evidence) != 0 {
		t.Errorf("evidence = %v, want empty", evidence)
	}
}

func TestScore_RoundsToTwoDecimals(t *testing.T) {
	// 1 shared project of max 3 is 25/3 = 8.333..., plus adjacent
	// expertise at 7.5.
	a := &model.Persona{Projects: []string{"rollup"}, ExpertiseLevel: "beginner"}
	b := &model.Persona{Projects: []string{"rollup", "indexer", "wallet"}, ExpertiseLevel: "intermediate"}
	got, _ := Score(a, b)
	if got != 15.83 {
		t.Fatalf("score = %v, want 15.83", got)
	}
}

func TestScore_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	interests := []string{"defi", "nfts", "gaming", "music", "zk-proofs", "daos"}
	projects := []string{"rollup", "indexer", "wallet", "marketplace"}
	themes := []string{"governance", "memes", "releases"}
	channels := []string{"dev", "founders", "art"}
	levels := []string{"beginner", "intermediate", "expert", ""}
	styles := []string{"builder", "lurker", "curator", ""}

	pick := func(pool []string) []string {
		n := rng.Intn(len(pool) + 1)
		out := make([]string, 0, n)
		for _, i := range rng.Perm(len(pool))[:n] {
			out = append(out, pool[i])
		}
		return out
	}
	randomPersona := func(id string) *model.Persona {
		return &model.Persona{
			UserID:          id,
			CoreInterests:   pick(interests),
			Projects:        pick(projects),
			ContentThemes:   pick(themes),
			Channels:        pick(channels),
			ExpertiseLevel:  levels[rng.Intn(len(levels))],
			EngagementStyle: styles[rng.Intn(len(styles))],
		}
	}

	for i := 0; i < 20; i++ {
		a := randomPersona("a")
		b := randomPersona("b")
		ab, _ := Score(a, b)
		ba, _ := Score(b, a)
		if ab != ba {
			t.Fatalf("asymmetric score: score(a,b)=%v score(b,a)=%v\na=%+v\nb=%+v", ab, ba, a, b)
		}
	}
}
