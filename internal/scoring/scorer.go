// Package scoring computes the weighted similarity between two personas.
// Pure and deterministic; no I/O.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/castmatch/castmatch-backend/internal/model"
)

// Category names. These key the evidence map returned by Score and surface
// verbatim in discovery responses.
const (
	CategoryCoreInterests   = "coreInterests"
	CategoryProjects        = "projects"
	CategoryContentThemes   = "contentThemes"
	CategoryChannels        = "channels"
	CategoryExpertiseLevel  = "expertiseLevel"
	CategoryEngagementStyle = "engagementStyle"
)

// Category weights. They sum to 100 so a full-overlap pair scores exactly
// 100. Set categories normalize by max cardinality, which keeps a sparse
// profile from scoring 100 by matching its only attribute.
const (
	weightCoreInterests   = 30.0
	weightProjects        = 25.0
	weightExpertiseLevel  = 15.0
	weightEngagementStyle = 10.0
	weightContentThemes   = 15.0
	weightChannels        = 5.0
)

// expertiseRank orders the known levels; levels at distance 1 earn half the
// expertise weight.
var expertiseRank = map[string]int{
	"beginner":     1,
	"intermediate": 2,
	"expert":       3,
}

// Score returns the similarity between a and b in [0, 100], rounded to two
// decimals, plus per-category evidence of the shared values. A missing
// persona on either side scores 0 with empty evidence; it is not an error.
func Score(a, b *model.Persona) (float64, map[string][]string) {
	evidence := make(map[string][]string)
	if a == nil || b == nil {
		return 0, evidence
	}

	total := 0.0
	total += setContribution(evidence, CategoryCoreInterests, a.CoreInterests, b.CoreInterests, weightCoreInterests)
	total += setContribution(evidence, CategoryProjects, a.Projects, b.Projects, weightProjects)
	total += expertiseContribution(evidence, a.ExpertiseLevel, b.ExpertiseLevel)
	total += engagementContribution(evidence, a.EngagementStyle, b.EngagementStyle)
	total += setContribution(evidence, CategoryContentThemes, a.ContentThemes, b.ContentThemes, weightContentThemes)
	total += setContribution(evidence, CategoryChannels, a.Channels, b.Channels, weightChannels)

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return math.Round(total*100) / 100, evidence
}

// setContribution scores one multi-valued category: the case-insensitive
// intersection size over the larger side's cardinality, times the weight.
// Shared values are recorded as evidence in sorted lowercase form.
func setContribution(evidence map[string][]string, category string, a, b []string, weight float64) float64 {
	as := normalizeSet(a)
	bs := normalizeSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	var shared []string
	for v := range as {
		if _, ok := bs[v]; ok {
			shared = append(shared, v)
		}
	}
	if len(shared) == 0 {
		return 0
	}
	sort.Strings(shared)
	evidence[category] = shared

	denom := len(as)
	if len(bs) > denom {
		denom = len(bs)
	}
	return float64(len(shared)) / float64(denom) * weight
}

func expertiseContribution(evidence map[string][]string, a, b string) float64 {
	a = normalizeValue(a)
	b = normalizeValue(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		evidence[CategoryExpertiseLevel] = []string{a}
		return weightExpertiseLevel
	}
	ra, okA := expertiseRank[a]
	rb, okB := expertiseRank[b]
	if okA && okB && abs(ra-rb) == 1 {
		// Adjacent levels earn half credit but share no value to cite.
		return weightExpertiseLevel / 2
	}
	return 0
}

func engagementContribution(evidence map[string][]string, a, b string) float64 {
	a = normalizeValue(a)
	b = normalizeValue(b)
	if a == "" || a != b {
		return 0
	}
	evidence[CategoryEngagementStyle] = []string{a}
	return weightEngagementStyle
}

func normalizeSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		v = normalizeValue(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func normalizeValue(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
