// Package pattern derives consensus and divergence views from a flat
// collection of insights. Both detectors are pure functions over in-memory
// data: no IO, no failure modes, and repeated invocations over the same
// collection yield identical results.
package pattern

import "github.com/ralvarado/sigma/internal/insight"

// Consensus records a category that two or more distinct perspectives
// reported independently.
type Consensus struct {
	Category     insight.Category      `json:"category"`
	Perspectives []insight.Perspective `json:"perspectives"`
	Insights     []string              `json:"insights"`
}

// Divergence records the categories unique to a single perspective, absent
// from every other perspective's insights.
type Divergence struct {
	Perspective insight.Perspective `json:"perspective"`
	UniqueFocus []insight.Category  `json:"unique_focus"`
	Insights    []string            `json:"insights"`
}
