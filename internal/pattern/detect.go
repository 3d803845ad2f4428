package pattern

import (
	"sort"

	"github.com/ralvarado/sigma/internal/insight"
)

// DetectConsensus groups insights by category and emits one Consensus per
// category that at least two distinct perspectives contributed to.
// Categories are visited in vocabulary declaration order, perspectives are
// listed lexicographically, and contents keep the input order, so the result
// is deterministic for a given collection.
func DetectConsensus(insights []insight.Insight) []Consensus {
	byCategory := map[insight.Category][]insight.Insight{}
	for _, in := range insights {
		byCategory[in.Category] = append(byCategory[in.Category], in)
	}

	var patterns []Consensus
	for _, category := range insight.Categories() {
		members := byCategory[category]
		perspectives := distinctPerspectives(members)
		if len(perspectives) < 2 {
			continue
		}
		contents := make([]string, 0, len(members))
		for _, in := range members {
			contents = append(contents, in.Content)
		}
		patterns = append(patterns, Consensus{
			Category:     category,
			Perspectives: perspectives,
			Insights:     contents,
		})
	}
	return patterns
}

// DetectDivergence computes, for each perspective, the categories it touches
// that no other perspective touches. Perspectives with a non-empty unique
// set yield one Divergence each, in lexicographic perspective order. A
// category reported by exactly one perspective overall is always a
// divergence for that perspective and never a consensus.
func DetectDivergence(insights []insight.Insight) []Divergence {
	byPerspective := map[insight.Perspective][]insight.Insight{}
	categories := map[insight.Perspective]map[insight.Category]bool{}
	for _, in := range insights {
		byPerspective[in.Perspective] = append(byPerspective[in.Perspective], in)
		if categories[in.Perspective] == nil {
			categories[in.Perspective] = map[insight.Category]bool{}
		}
		categories[in.Perspective][in.Category] = true
	}

	ordered := make([]insight.Perspective, 0, len(byPerspective))
	for p := range byPerspective {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var patterns []Divergence
	for _, p := range ordered {
		unique := uniqueCategories(p, categories)
		if len(unique) == 0 {
			continue
		}
		uniqueSet := map[insight.Category]bool{}
		for _, c := range unique {
			uniqueSet[c] = true
		}
		var contents []string
		for _, in := range byPerspective[p] {
			if uniqueSet[in.Category] {
				contents = append(contents, in.Content)
			}
		}
		patterns = append(patterns, Divergence{
			Perspective: p,
			UniqueFocus: unique,
			Insights:    contents,
		})
	}
	return patterns
}

func distinctPerspectives(insights []insight.Insight) []insight.Perspective {
	seen := map[insight.Perspective]bool{}
	for _, in := range insights {
		seen[in.Perspective] = true
	}
	out := make([]insight.Perspective, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func uniqueCategories(p insight.Perspective, categories map[insight.Perspective]map[insight.Category]bool) []insight.Category {
	var out []insight.Category
	for _, category := range insight.Categories() {
		if !categories[p][category] {
			continue
		}
		sharedElsewhere := false
		for other, set := range categories {
			if other != p && set[category] {
				sharedElsewhere = true
				break
			}
		}
		if !sharedElsewhere {
			out = append(out, category)
		}
	}
	return out
}
