package pattern

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ralvarado/sigma/internal/insight"
)

func ins(id string, p insight.Perspective, c insight.Category, content string) insight.Insight {
	return insight.Insight{ID: id, Perspective: p, Category: c, Content: content, Confidence: 1}
}

func TestDetectConsensusSharedCategory(t *testing.T) {
	insights := []insight.Insight{
		ins("a", insight.PerspectiveO3, insight.CategoryArchitecture, "a"),
		ins("b", insight.PerspectiveSonnet, insight.CategoryArchitecture, "b"),
	}
	consensus := DetectConsensus(insights)
	want := []Consensus{{
		Category:     insight.CategoryArchitecture,
		Perspectives: []insight.Perspective{insight.PerspectiveSonnet, insight.PerspectiveO3},
		Insights:     []string{"a", "b"},
	}}
	if diff := cmp.Diff(want, consensus); diff != "" {
		t.Fatalf("consensus mismatch (-want +got):\n%s", diff)
	}
	if got := DetectDivergence(insights); len(got) != 0 {
		t.Fatalf("shared category must not diverge, got %+v", got)
	}
}

func TestDetectDivergenceDisjointCategories(t *testing.T) {
	insights := []insight.Insight{
		ins("a", insight.PerspectiveO3, insight.CategorySafety, "a"),
		ins("b", insight.PerspectiveSonnet, insight.CategoryPerformance, "b"),
	}
	if got := DetectConsensus(insights); len(got) != 0 {
		t.Fatalf("disjoint categories must not reach consensus, got %+v", got)
	}
	divergences := DetectDivergence(insights)
	want := []Divergence{
		{Perspective: insight.PerspectiveSonnet, UniqueFocus: []insight.Category{insight.CategoryPerformance}, Insights: []string{"b"}},
		{Perspective: insight.PerspectiveO3, UniqueFocus: []insight.Category{insight.CategorySafety}, Insights: []string{"a"}},
	}
	if diff := cmp.Diff(want, divergences); diff != "" {
		t.Fatalf("divergence mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectorsOnEmptyCollection(t *testing.T) {
	if got := DetectConsensus(nil); len(got) != 0 {
		t.Fatalf("DetectConsensus(nil) = %+v, want empty", got)
	}
	if got := DetectDivergence(nil); len(got) != 0 {
		t.Fatalf("DetectDivergence(nil) = %+v, want empty", got)
	}
}

func TestDetectConsensusRequiresDistinctPerspectives(t *testing.T) {
	// Three insights, one perspective: a cluster but not a consensus.
	insights := []insight.Insight{
		ins("a", insight.PerspectiveOpus, insight.CategoryTesting, "a"),
		ins("b", insight.PerspectiveOpus, insight.CategoryTesting, "b"),
		ins("c", insight.PerspectiveOpus, insight.CategoryTesting, "c"),
	}
	if got := DetectConsensus(insights); len(got) != 0 {
		t.Fatalf("single-perspective cluster must not reach consensus, got %+v", got)
	}
	divergences := DetectDivergence(insights)
	if len(divergences) != 1 || divergences[0].Perspective != insight.PerspectiveOpus {
		t.Fatalf("expected one opus divergence, got %+v", divergences)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, divergences[0].Insights); diff != "" {
		t.Fatalf("divergence contents (-want +got):\n%s", diff)
	}
}

func TestDetectDivergenceMixedOverlap(t *testing.T) {
	insights := []insight.Insight{
		ins("a", insight.PerspectiveO3, insight.CategoryArchitecture, "o3 arch"),
		ins("b", insight.PerspectiveSonnet, insight.CategoryArchitecture, "sonnet arch"),
		ins("c", insight.PerspectiveSonnet, insight.CategorySafety, "sonnet safety"),
		ins("d", insight.PerspectiveCursor, insight.CategoryDeployment, "cursor deploy"),
	}
	divergences := DetectDivergence(insights)
	want := []Divergence{
		{Perspective: insight.PerspectiveSonnet, UniqueFocus: []insight.Category{insight.CategorySafety}, Insights: []string{"sonnet safety"}},
		{Perspective: insight.PerspectiveCursor, UniqueFocus: []insight.Category{insight.CategoryDeployment}, Insights: []string{"cursor deploy"}},
	}
	if diff := cmp.Diff(want, divergences); diff != "" {
		t.Fatalf("divergence mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectorsAreIdempotent(t *testing.T) {
	insights := []insight.Insight{
		ins("a", insight.PerspectiveO3, insight.CategoryArchitecture, "a"),
		ins("b", insight.PerspectiveSonnet, insight.CategoryArchitecture, "b"),
		ins("c", insight.PerspectiveSonnet, insight.CategoryScalability, "c"),
	}
	firstConsensus := DetectConsensus(insights)
	firstDivergence := DetectDivergence(insights)
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(firstConsensus, DetectConsensus(insights)); diff != "" {
			t.Fatalf("consensus drifted on rerun (-first +rerun):\n%s", diff)
		}
		if diff := cmp.Diff(firstDivergence, DetectDivergence(insights)); diff != "" {
			t.Fatalf("divergence drifted on rerun (-first +rerun):\n%s", diff)
		}
	}
}
