// Package insight defines the tagged units of extracted research text and
// the per-run store that holds them. A store lives for exactly one synthesis
// run: created empty, filled once during digestion, read-only afterwards,
// discarded with the run.
package insight

import "fmt"

// Insight is one tagged unit of extracted text. Immutable once added to a
// store.
type Insight struct {
	ID          string      `json:"id"`
	Perspective Perspective `json:"perspective"`
	Category    Category    `json:"category"`
	Content     string      `json:"content"`
	Confidence  float64     `json:"confidence"`
	SourceFile  string      `json:"source_file,omitempty"`
	// Related lists IDs of insights this one cites. Edges are only
	// materialized for IDs already present when the insight is added.
	Related []string `json:"related,omitempty"`
}

// Validate checks the invariants callers must uphold before an insight
// enters a store.
func (in Insight) Validate() error {
	if in.ID == "" {
		return fmt.Errorf("insight: id is required")
	}
	if _, err := ParsePerspective(string(in.Perspective)); err != nil {
		return fmt.Errorf("insight: %s: %w", in.ID, err)
	}
	if _, err := ParseCategory(string(in.Category)); err != nil {
		return fmt.Errorf("insight: %s: %w", in.ID, err)
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return fmt.Errorf("insight: %s: confidence %v outside [0,1]", in.ID, in.Confidence)
	}
	return nil
}
