// Package artifact defines the filesystem contracts for documents the
// synthesis phases produce. Each artifact has a stable identifier, a kind,
// and a resolver mapping it to a path inside the project's .sigma tree.
package artifact

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ralvarado/sigma/internal/workspace"
)

// Kind captures the storage shape and serialization format for an artifact.
type Kind string

const (
	// KindDocument represents a markdown document with YAML frontmatter.
	KindDocument Kind = "document"
	// KindJSON represents a JSON document enriched with a _sigma metadata block.
	KindJSON Kind = "json"
	// KindDirectory represents a directory that must exist.
	KindDirectory Kind = "directory"
)

// PathResolver returns the fully-qualified path to an artifact within a
// workspace.
type PathResolver func(*workspace.Workspace) string

// Ref declares a stable identifier and metadata for an artifact.
type Ref struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	path        PathResolver
}

// Path resolves the artifact path for the provided workspace.
func (r Ref) Path(ws *workspace.Workspace) string {
	if ws == nil || r.path == nil {
		return ""
	}
	return filepath.Clean(r.path(ws))
}

// Validate ensures the reference is well-formed.
func (r Ref) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.path == nil {
		return fmt.Errorf("artifact: path resolver missing for %s", r.ID)
	}
	return nil
}

// Metadata captures provenance stored inside artifact frontmatter or
// metadata blocks.
type Metadata struct {
	ArtifactID string
	PhaseID    string
	Version    string
	Run        string
	CreatedAt  time.Time
	Notes      map[string]string
}

// WithDefaults ensures metadata carries the artifact ID and timestamps.
func (m Metadata) WithDefaults(ref Ref, now time.Time) Metadata {
	clone := m
	if clone.ArtifactID == "" {
		clone.ArtifactID = ref.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	return clone
}

// ValidateFor ensures metadata matches the artifact contract.
func (m Metadata) ValidateFor(ref Ref) error {
	if m.ArtifactID != ref.ID {
		return fmt.Errorf("artifact: metadata id %s does not match ref %s", m.ArtifactID, ref.ID)
	}
	if m.PhaseID == "" {
		return fmt.Errorf("artifact: phase id is required for %s", ref.ID)
	}
	if m.Version == "" {
		return fmt.Errorf("artifact: version is required for %s", ref.ID)
	}
	return nil
}

// State captures the readiness of an artifact on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures Store.Check results.
type CheckResult struct {
	Ref      Ref
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}

func newDocRef(id, name, desc string, resolver PathResolver) Ref {
	return Ref{ID: id, Name: name, Description: desc, Kind: KindDocument, path: resolver}
}

func newJSONRef(id, name, desc string, resolver PathResolver) Ref {
	return Ref{ID: id, Name: name, Description: desc, Kind: KindJSON, path: resolver}
}

// Canonical artifact references for the synthesis workflow.
var (
	SynthesisReportDoc = newDocRef("synthesis-report", "Synthesis Report",
		"Consensus/divergence synthesis across research perspectives",
		func(ws *workspace.Workspace) string { return ws.ReportPath() })
	ImplementationPlanDoc = newDocRef("implementation-plan", "Implementation Plan",
		"Rendered implementation plan derived from the synthesis",
		func(ws *workspace.Workspace) string { return ws.PlanPath() })
	ImplementationPlanJSON = newJSONRef("implementation-plan-json", "Implementation Plan (structured)",
		"Machine-readable implementation plan",
		func(ws *workspace.Workspace) string { return ws.PlanJSONPath() })
)
