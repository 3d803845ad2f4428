package score

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScoreMirrorsLegacyHeuristic(t *testing.T) {
	weights := DefaultWeights()
	m := Metrics{Tests: 10, TestsPassed: 10, AvgComplexity: 3, HasDockerfile: true}
	// 10*2 + 40 + 15*1.0 + max(0, 20-6) + 10 = 99
	if got := weights.Score(m); got != 99 {
		t.Fatalf("Score = %v, want 99", got)
	}
}

func TestScoreNoTestsEarnsNoTestPoints(t *testing.T) {
	weights := DefaultWeights()
	m := Metrics{AvgComplexity: 12}
	// complexity penalty floor: max(0, 20-24) = 0
	if got := weights.Score(m); got != 0 {
		t.Fatalf("Score = %v, want 0", got)
	}
}

func TestScoreImageSizePenaltyRequiresDockerfile(t *testing.T) {
	weights := DefaultWeights()
	with := weights.Score(Metrics{Tests: 1, TestsPassed: 1, HasDockerfile: true, ImageSizeMB: 500})
	without := weights.Score(Metrics{Tests: 1, TestsPassed: 1, ImageSizeMB: 500})
	if with >= without+weights.DockerBonus {
		t.Fatalf("image size penalty not applied: with=%v without=%v", with, without)
	}
}

func TestWithDefaultsKeepsOverrides(t *testing.T) {
	w := Weights{PerTest: 5}.WithDefaults()
	if w.PerTest != 5 {
		t.Fatalf("override lost: %+v", w)
	}
	if w.TestBase != DefaultWeights().TestBase {
		t.Fatalf("default not filled: %+v", w)
	}
}

func TestRankOrdersByScoreThenName(t *testing.T) {
	variants := map[string]Metrics{
		"baseline/o3":     {Tests: 8, TestsPassed: 8, AvgComplexity: 2},
		"baseline/sonnet": {Tests: 8, TestsPassed: 8, AvgComplexity: 2},
		"cross/o3-opus":   {Tests: 2, TestsPassed: 1, AvgComplexity: 9},
	}
	ranked, err := Rank(variants, Weights{})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if ranked[0].Variant != "baseline/o3" || ranked[1].Variant != "baseline/sonnet" {
		t.Fatalf("tie break by name failed: %+v", ranked)
	}
	if ranked[2].Variant != "cross/o3-opus" {
		t.Fatalf("lowest score not last: %+v", ranked)
	}
}

func TestRankRejectsInvalidMetrics(t *testing.T) {
	if _, err := Rank(map[string]Metrics{"bad": {Tests: 1, TestsPassed: 2}}, Weights{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	content := `
weights:
  per_test: 3
variants:
  baseline/o3:
    tests: 4
    tests_passed: 4
    avg_complexity: 1.5
    has_dockerfile: true
    image_size_mb: 120
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Weights.PerTest != 3 {
		t.Fatalf("weights not parsed: %+v", manifest.Weights)
	}
	m := manifest.Variants["baseline/o3"]
	if m.Tests != 4 || !m.HasDockerfile || m.ImageSizeMB != 120 {
		t.Fatalf("variant not parsed: %+v", m)
	}
}

func TestLoadManifestEmptyVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	if err := os.WriteFile(path, []byte("variants: {}\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected error for empty manifest")
	}
}
