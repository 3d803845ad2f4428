// Package report implements the second synthesis phase: render the
// consensus/divergence synthesis into a markdown artifact. Rendering is
// deterministic for a given run state; only the artifact metadata carries a
// timestamp.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ralvarado/sigma/internal/artifact"
	"github.com/ralvarado/sigma/internal/insight"
	"github.com/ralvarado/sigma/internal/phase"
)

const (
	phaseID      = phase.IDReport
	phaseVersion = "1.0.0"

	// excerptLimit bounds the per-perspective rows of the viewpoint matrix.
	excerptLimit = 3
)

// Requirements every generated implementation must satisfy, independent of
// the research content.
var actionableRequirements = []string{
	"Implement multi-agent architecture with clear separation of concerns",
	"Include comprehensive safety and validation mechanisms",
	"Design for horizontal scalability from the start",
	"Use structured logging and observability throughout",
	"Follow test-driven development practices",
}

// Report renders and writes the synthesis report.
type Report struct {
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
func New() *Report {
	return &Report{
		info: phase.Info{
			ID:          phaseID,
			Name:        "Synthesis Report",
			Description: "Renders the consensus/divergence synthesis into a report artifact.",
			Version:     phaseVersion,
		},
	}
}

// Info implements phase.Phase.
func (r *Report) Info() phase.Info {
	return r.info
}

// Run renders the report and writes it through the artifact store. A missing
// knowledge graph is a prerequisite violation, not an internal failure.
func (r *Report) Run(ctx context.Context, pc *phase.Context) (phase.Result, error) {
	if pc == nil || pc.State == nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: run context is required", phaseID)
	}
	if err := ctx.Err(); err != nil {
		return phase.Result{Status: phase.StatusFailed}, err
	}
	if pc.State.Graph == nil {
		return phase.Result{Status: phase.StatusFailed},
			fmt.Errorf("%s: knowledge graph not found in context: %w", phaseID, phase.ErrMissingPrerequisite)
	}
	pc.Logbook.Info("%s: rendering report", phaseID)

	body, err := Render(pc.State)
	if err != nil {
		return phase.Result{Status: phase.StatusFailed}, fmt.Errorf("%s: render: %w", phaseID, err)
	}
	meta := artifact.Metadata{
		PhaseID: phaseID,
		Version: phaseVersion,
		Run:     pc.RunID,
		Notes: map[string]string{
			"insights":    strconv.Itoa(pc.State.Graph.Len()),
			"consensus":   strconv.Itoa(len(pc.State.Consensus)),
			"divergences": strconv.Itoa(len(pc.State.Divergences)),
		},
	}
	if err := pc.Artifacts.Write(artifact.SynthesisReportDoc, []byte(body), meta); err != nil {
		return phase.Result{Status: phase.StatusFailed}, err
	}
	pc.State.ReportPath = artifact.SynthesisReportDoc.Path(pc.Workspace)
	pc.Logbook.Info("%s: report written to %s", phaseID, pc.State.ReportPath)

	return phase.Result{
		Status:  phase.StatusCompleted,
		Message: fmt.Sprintf("report written to %s", pc.State.ReportPath),
	}, nil
}

// Render produces the report body from the run state. Exposed so the TUI
// and HTTP surfaces can re-render without touching disk.
func Render(state *phase.State) (string, error) {
	var b strings.Builder

	b.WriteString("# Synthesis Report\n\n")
	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "Synthesized %d insights from multi-model research:\n\n", state.Graph.Len())
	fmt.Fprintf(&b, "- Identified %d consensus patterns\n", len(state.Consensus))
	fmt.Fprintf(&b, "- Found %d valuable divergences\n", len(state.Divergences))
	b.WriteString("- Key focus areas: Architecture, Safety, Performance, Scalability\n\n")

	b.WriteString("## Model Viewpoints Matrix\n\n")
	matrix := viewpointMatrix(state)
	matrixJSON, err := json.MarshalIndent(matrix, "", "  ")
	if err != nil {
		return "", err
	}
	writeJSONBlock(&b, matrixJSON)

	b.WriteString("## Consensus Patterns\n\n")
	consensusJSON, err := json.MarshalIndent(emptyAsList(state.Consensus), "", "  ")
	if err != nil {
		return "", err
	}
	writeJSONBlock(&b, consensusJSON)

	b.WriteString("## Valuable Divergences\n\n")
	divergenceJSON, err := json.MarshalIndent(emptyAsList(state.Divergences), "", "  ")
	if err != nil {
		return "", err
	}
	writeJSONBlock(&b, divergenceJSON)

	b.WriteString("## Actionable Requirements\n\n")
	for _, req := range actionableRequirements {
		fmt.Fprintf(&b, "- %s\n", req)
	}
	return b.String(), nil
}

// viewpointMatrix lists the first few insight excerpts per perspective, in
// vocabulary order so the section is stable across reruns.
func viewpointMatrix(state *phase.State) []map[string]any {
	grouped := state.Graph.ByPerspective()
	out := make([]map[string]any, 0, len(grouped))
	for _, perspective := range insight.Perspectives() {
		members := grouped[perspective]
		if len(members) == 0 {
			continue
		}
		excerpts := make([]string, 0, excerptLimit)
		for _, in := range members {
			if len(excerpts) == excerptLimit {
				break
			}
			excerpts = append(excerpts, in.Content)
		}
		out = append(out, map[string]any{
			"perspective": perspective.String(),
			"insights":    excerpts,
		})
	}
	return out
}

func writeJSONBlock(b *strings.Builder, data []byte) {
	b.WriteString("```json\n")
	b.Write(data)
	b.WriteString("\n```\n\n")
}

// emptyAsList keeps empty sections rendering as [] instead of null.
func emptyAsList[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
