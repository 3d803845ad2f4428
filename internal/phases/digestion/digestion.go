// Package digestion implements the first synthesis phase: pull labeled
// fragments from the configured source, validate them against the closed
// vocabularies, and build the per-run knowledge graph with its derived
// consensus and divergence views.
package digestion

import (
	"context"
	"fmt"

	"github.com/ralvarado/sigma/internal/ingest"
	"github.com/ralvarado/sigma/internal/insight"
	"github.com/ralvarado/sigma/internal/pattern"
	"github.com/ralvarado/sigma/internal/phase"
)

const (
	phaseID      = phase.IDDigestion
	phaseVersion = "1.0.0"
)

// Digestion ingests research fragments and derives pattern views.
type Digestion struct {
	info phase.Info
}

// Register installs the phase.
func Register(reg *phase.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(New())
}

// New configures the phase metadata.
func New() *Digestion {
	return &Digestion{
		info: phase.Info{
			ID:          phaseID,
			Name:        "Research Digestion",
			Description: "Ingests labeled fragments and builds the knowledge graph.",
			Version:     phaseVersion,
		},
	}
}

// Info implements phase.Phase.
func (d *Digestion) Info() phase.Info {
	return d.info
}

// Run pulls fragments from the source, builds the store, and caches the
// detected patterns on the run state.
func (d *Digestion) Run(ctx context.Context, pc *phase.Context) (phase.Result, error) {
	if pc == nil || pc.State == nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: run context is required", phaseID)
	}
	if pc.Source == nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: fragment source is required", phaseID)
	}
	pc.Logbook.Info("%s: starting", phaseID)

	fragments, err := pc.Source.Fragments(ctx)
	if err != nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: read fragments: %w", phaseID, err)
	}

	store := insight.NewStore()
	files := map[string]bool{}
	for i, fragment := range fragments {
		in, err := toInsight(i, fragment)
		if err != nil {
			return phase.Result{Status: phase.StatusFailed}, err
		}
		store.Add(in)
		if fragment.SourceFile != "" {
			files[fragment.SourceFile] = true
		}
	}

	insights := store.Insights()
	pc.State.Graph = store
	pc.State.FilesProcessed = len(files)
	pc.State.Consensus = pattern.DetectConsensus(insights)
	pc.State.Divergences = pattern.DetectDivergence(insights)

	pc.Logbook.Info("%s: processed %d files, extracted %d insights (%d consensus, %d divergence)",
		phaseID, len(files), store.Len(), len(pc.State.Consensus), len(pc.State.Divergences))

	return phase.Result{
		Status:  phase.StatusCompleted,
		Message: fmt.Sprintf("extracted %d insights from %d fragments", store.Len(), len(fragments)),
	}, nil
}

func toInsight(index int, fragment ingest.Fragment) (insight.Insight, error) {
	perspective, err := insight.ParsePerspective(fragment.Perspective)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("%s: fragment %d: %w", phaseID, index, err)
	}
	category, err := insight.ParseCategory(fragment.Category)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("%s: fragment %d: %w", phaseID, index, err)
	}
	confidence := fragment.Confidence
	if confidence == 0 {
		confidence = 1.0
	}
	in := insight.Insight{
		ID:          fmt.Sprintf("%s_%s_%d", perspective, category, index),
		Perspective: perspective,
		Category:    category,
		Content:     fragment.Content,
		Confidence:  confidence,
		SourceFile:  fragment.SourceFile,
	}
	if err := in.Validate(); err != nil {
		return insight.Insight{}, fmt.Errorf("%s: fragment %d: %w", phaseID, index, err)
	}
	return in, nil
}
