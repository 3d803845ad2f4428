// Package ingest supplies labeled research fragments to the digestion
// phase. The synthesis engine never walks the filesystem itself; a Source
// implementation owns that and hands over plain fragments.
package ingest

import "context"

// Fragment is one labeled unit of raw research text, not yet validated
// against the closed vocabularies.
type Fragment struct {
	Perspective string
	Category    string
	Content     string
	Confidence  float64
	SourceFile  string
}

// Source produces the fragments for one synthesis run.
type Source interface {
	Fragments(ctx context.Context) ([]Fragment, error)
}

// StaticSource serves a fixed fragment list. Used by tests and by callers
// that already hold their material in memory.
type StaticSource []Fragment

// Fragments implements Source.
func (s StaticSource) Fragments(ctx context.Context) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Fragment(nil), s...), nil
}
