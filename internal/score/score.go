// Package score ranks generated implementation variants with a single
// configurable weighted-sum policy. Earlier evaluation tooling for this
// workflow reimplemented the same heuristic per variant with slightly
// different constants; here the constants live in Weights and the formula
// exists once.
package score

import (
	"fmt"
	"math"
	"sort"
)

// Metrics captures the measured properties of one generated codebase.
type Metrics struct {
	Tests         int     `yaml:"tests"`
	TestsPassed   int     `yaml:"tests_passed"`
	AvgComplexity float64 `yaml:"avg_complexity"`
	Functions     int     `yaml:"functions"`
	Lines         int     `yaml:"lines"`
	HasDockerfile bool    `yaml:"has_dockerfile"`
	ImageSizeMB   float64 `yaml:"image_size_mb"`
}

// Validate rejects metrics that cannot have been measured.
func (m Metrics) Validate() error {
	if m.Tests < 0 || m.TestsPassed < 0 {
		return fmt.Errorf("score: negative test counts")
	}
	if m.TestsPassed > m.Tests {
		return fmt.Errorf("score: tests_passed %d exceeds tests %d", m.TestsPassed, m.Tests)
	}
	if m.AvgComplexity < 0 {
		return fmt.Errorf("score: negative complexity")
	}
	if m.ImageSizeMB < 0 {
		return fmt.Errorf("score: negative image size")
	}
	return nil
}

// Weights parameterizes the scoring formula. Zero values fall back to the
// defaults via WithDefaults, so a partial yaml block only overrides what it
// names.
type Weights struct {
	PerTest           float64 `yaml:"per_test,omitempty"`
	TestBase          float64 `yaml:"test_base,omitempty"`
	ComplexityCeiling float64 `yaml:"complexity_ceiling,omitempty"`
	ComplexityPenalty float64 `yaml:"complexity_penalty,omitempty"`
	DockerBonus       float64 `yaml:"docker_bonus,omitempty"`
	SizePenaltyPerMB  float64 `yaml:"size_penalty_per_mb,omitempty"`
	PassRateWeight    float64 `yaml:"pass_rate_weight,omitempty"`
}

// DefaultWeights mirrors the constants the original evaluation scripts
// converged on.
func DefaultWeights() Weights {
	return Weights{
		PerTest:           2,
		TestBase:          40,
		ComplexityCeiling: 20,
		ComplexityPenalty: 2,
		DockerBonus:       10,
		SizePenaltyPerMB:  0.02,
		PassRateWeight:    15,
	}
}

// WithDefaults fills zero-valued fields from DefaultWeights.
func (w Weights) WithDefaults() Weights {
	def := DefaultWeights()
	if w.PerTest == 0 {
		w.PerTest = def.PerTest
	}
	if w.TestBase == 0 {
		w.TestBase = def.TestBase
	}
	if w.ComplexityCeiling == 0 {
		w.ComplexityCeiling = def.ComplexityCeiling
	}
	if w.ComplexityPenalty == 0 {
		w.ComplexityPenalty = def.ComplexityPenalty
	}
	if w.DockerBonus == 0 {
		w.DockerBonus = def.DockerBonus
	}
	if w.SizePenaltyPerMB == 0 {
		w.SizePenaltyPerMB = def.SizePenaltyPerMB
	}
	if w.PassRateWeight == 0 {
		w.PassRateWeight = def.PassRateWeight
	}
	return w
}

// Score applies the weighted sum to one set of metrics.
func (w Weights) Score(m Metrics) float64 {
	total := 0.0
	if m.Tests > 0 {
		total += w.PerTest*float64(m.Tests) + w.TestBase
		total += w.PassRateWeight * float64(m.TestsPassed) / float64(m.Tests)
	}
	if m.AvgComplexity > 0 {
		total += math.Max(0, w.ComplexityCeiling-w.ComplexityPenalty*m.AvgComplexity)
	}
	if m.HasDockerfile {
		total += w.DockerBonus
		total -= w.SizePenaltyPerMB * m.ImageSizeMB
	}
	return math.Round(total*100) / 100
}

// Ranked is one leaderboard row.
type Ranked struct {
	Variant string
	Metrics Metrics
	Score   float64
}

// Rank scores every variant and sorts descending by score, breaking ties by
// variant name so output stays stable.
func Rank(variants map[string]Metrics, weights Weights) ([]Ranked, error) {
	weights = weights.WithDefaults()
	out := make([]Ranked, 0, len(variants))
	for name, metrics := range variants {
		if err := metrics.Validate(); err != nil {
			return nil, fmt.Errorf("score: variant %s: %w", name, err)
		}
		out = append(out, Ranked{Variant: name, Metrics: metrics, Score: weights.Score(metrics)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Variant < out[j].Variant
	})
	return out, nil
}
