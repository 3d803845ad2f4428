// Package workspace resolves the on-disk layout for synthesis output. Every
// run writes beneath a project's .sigma directory:
//
// .sigma/
// ├── analysis/        <- synthesis reports
// ├── implementation/  <- implementation plans
// ├── logs/            <- run logbooks
// └── research/        <- default research bundle root (input)
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// SigmaDir is the directory created in each project root.
const SigmaDir = ".sigma"

// Workspace resolves artifact paths for one project.
type Workspace struct {
	projectDir string
}

// New returns a workspace rooted at the given project directory.
func New(projectDir string) *Workspace {
	return &Workspace{projectDir: projectDir}
}

// Init creates the .sigma tree. Safe to call repeatedly.
func (w *Workspace) Init() error {
	dirs := []string{
		w.AnalysisDir(),
		w.ImplementationDir(),
		w.LogsDir(),
		w.ResearchDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("workspace: ensure %s: %w", dir, err)
		}
	}
	return nil
}

// Dir returns the .sigma root.
func (w *Workspace) Dir() string {
	return filepath.Join(w.projectDir, SigmaDir)
}

// ProjectDir returns the project root this workspace belongs to.
func (w *Workspace) ProjectDir() string {
	return w.projectDir
}

// AnalysisDir holds generated synthesis reports.
func (w *Workspace) AnalysisDir() string {
	return filepath.Join(w.Dir(), "analysis")
}

// ReportPath is the synthesis report document for the current run.
func (w *Workspace) ReportPath() string {
	return filepath.Join(w.AnalysisDir(), "synthesis.md")
}

// ImplementationDir holds generated implementation plans.
func (w *Workspace) ImplementationDir() string {
	return filepath.Join(w.Dir(), "implementation")
}

// PlanPath is the rendered implementation plan document.
func (w *Workspace) PlanPath() string {
	return filepath.Join(w.ImplementationDir(), "plan.md")
}

// PlanJSONPath is the structured implementation plan artifact.
func (w *Workspace) PlanJSONPath() string {
	return filepath.Join(w.ImplementationDir(), "plan.json")
}

// LogsDir holds per-run logbooks.
func (w *Workspace) LogsDir() string {
	return filepath.Join(w.Dir(), "logs")
}

// LogbookPath is the append-only run log.
func (w *Workspace) LogbookPath() string {
	return filepath.Join(w.LogsDir(), "sigma.log")
}

// ResearchDir is the default root for research bundles.
func (w *Workspace) ResearchDir() string {
	return filepath.Join(w.projectDir, "research")
}
