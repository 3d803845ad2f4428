// Package planning implements the final synthesis phase: emit the fixed
// implementation plan as both a rendered document and a structured JSON
// artifact. The plan depends only on digestion having run, never on what it
// found.
package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ralvarado/sigma/internal/artifact"
	"github.com/ralvarado/sigma/internal/phase"
	"github.com/ralvarado/sigma/internal/plan"
)

const (
	phaseID      = phase.IDPlan
	phaseVersion = "1.0.0"
)

// Planning writes the implementation plan artifacts.
type Planning struct {
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
func New() *Planning {
	return &Planning{
		info: phase.Info{
			ID:          phaseID,
			Name:        "Implementation Plan",
			Description: "Emits the implementation plan derived from the synthesis.",
			Version:     phaseVersion,
		},
	}
}

// Info implements phase.Phase.
func (p *Planning) Info() phase.Info {
	return p.info
}

// Run writes plan.md and plan.json and records the plan on the run state.
func (p *Planning) Run(ctx context.Context, pc *phase.Context) (phase.Result, error) {
	if pc == nil || pc.State == nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: run context is required", phaseID)
	}
	if err := ctx.Err(); err != nil {
		return phase.Result{Status: phase.StatusFailed}, err
	}
	if pc.State.Graph == nil {
		return phase.Result{Status: phase.StatusFailed},
			fmt.Errorf("%s: digestion has not run: %w", phaseID, phase.ErrMissingPrerequisite)
	}
	pc.Logbook.Info("%s: creating implementation plan", phaseID)

	result := plan.Default()
	meta := artifact.Metadata{PhaseID: phaseID, Version: phaseVersion, Run: pc.RunID}

	if err := pc.Artifacts.Write(artifact.ImplementationPlanDoc, []byte(Render(result)), meta); err != nil {
		return phase.Result{Status: phase.StatusFailed}, err
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: encode plan: %w", phaseID, err)
	}
	jsonMeta := artifact.Metadata{PhaseID: phaseID, Version: phaseVersion, Run: pc.RunID}
	if err := pc.Artifacts.Write(artifact.ImplementationPlanJSON, encoded, jsonMeta); err != nil {
		return phase.Result{Status: phase.StatusFailed}, err
	}

	pc.State.Plan = &result
	pc.State.PlanPath = artifact.ImplementationPlanDoc.Path(pc.Workspace)
	pc.State.PlanJSONPath = artifact.ImplementationPlanJSON.Path(pc.Workspace)
	pc.Logbook.Info("%s: plan written to %s", phaseID, pc.State.PlanPath)

	return phase.Result{
		Status:  phase.StatusCompleted,
		Message: fmt.Sprintf("plan written to %s", pc.State.PlanPath),
	}, nil
}

// Render produces the plan document body. Map sections are sorted by key so
// the output is reproducible.
func Render(p plan.Plan) string {
	var b strings.Builder
	b.WriteString("# Implementation Plan\n\n")

	b.WriteString("## Directory Layout\n\n")
	for _, key := range sortedKeys(p.DirectoryLayout) {
		fmt.Fprintf(&b, "- `%s`: %s\n", key, p.DirectoryLayout[key])
	}

	b.WriteString("\n## Technology Stack\n\n")
	for _, key := range sortedKeys(p.TechnologyStack) {
		fmt.Fprintf(&b, "- %s: %s\n", key, p.TechnologyStack[key])
	}

	b.WriteString("\n## Milestones\n\n")
	for _, m := range p.Milestones {
		fmt.Fprintf(&b, "- %s: %s\n", m.ID, m.Description)
	}

	b.WriteString("\n## Risk Mitigation\n\n")
	for _, key := range sortedKeys(p.RiskMitigation) {
		fmt.Fprintf(&b, "- %s: %s\n", key, p.RiskMitigation[key])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
