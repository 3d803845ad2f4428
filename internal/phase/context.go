package phase

import (
	"github.com/ralvarado/sigma/internal/artifact"
	"github.com/ralvarado/sigma/internal/config"
	"github.com/ralvarado/sigma/internal/ingest"
	"github.com/ralvarado/sigma/internal/insight"
	"github.com/ralvarado/sigma/internal/logbook"
	"github.com/ralvarado/sigma/internal/pattern"
	"github.com/ralvarado/sigma/internal/plan"
	"github.com/ralvarado/sigma/internal/workspace"
)

// State accumulates what the phases produce during one run. Digestion fills
// the graph and pattern fields; report and plan read them and record the
// paths they wrote. One State belongs to exactly one run and is never shared
// across runs.
type State struct {
	Graph          *insight.Store
	FilesProcessed int
	Consensus      []pattern.Consensus
	Divergences    []pattern.Divergence

	ReportPath string

	Plan         *plan.Plan
	PlanPath     string
	PlanJSONPath string
}

// Context carries shared runtime dependencies and the accumulated state into
// every phase. It replaces any process-wide registry: create one per run,
// discard it with the run.
type Context struct {
	RunID     string
	Config    *config.Config
	Workspace *workspace.Workspace
	Logbook   *logbook.Logbook
	Artifacts *artifact.Store
	Source    ingest.Source
	State     *State
}

// NewContext builds a run context with a fresh artifact store and empty
// state.
func NewContext(cfg *config.Config, ws *workspace.Workspace, lb *logbook.Logbook, source ingest.Source) *Context {
	return &Context{
		Config:    cfg,
		Workspace: ws,
		Logbook:   lb,
		Artifacts: artifact.NewStore(ws),
		Source:    source,
		State:     &State{},
	}
}

// WithArtifacts allows dependency injection of a pre-built store.
func (c *Context) WithArtifacts(store *artifact.Store) *Context {
	clone := *c
	clone.Artifacts = store
	return &clone
}

// WithRunID stamps the run identifier used in artifact metadata.
func (c *Context) WithRunID(id string) *Context {
	clone := *c
	clone.RunID = id
	return &clone
}
