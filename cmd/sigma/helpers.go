package main

import (
	"fmt"

	"github.com/ralvarado/sigma/internal/config"
	"github.com/ralvarado/sigma/internal/engine"
	"github.com/ralvarado/sigma/internal/ingest"
	"github.com/ralvarado/sigma/internal/logbook"
	"github.com/ralvarado/sigma/internal/phase"
)

// projectDirFromArgs resolves the optional positional project directory.
func projectDirFromArgs(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// newRunContext initializes the .sigma workspace for a project directory and
// wires a run context over its configured research roots.
func newRunContext(projectDir string) (*phase.Context, error) {
	cfg, err := config.Init(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.Workspace.LogbookPath())
	if err != nil {
		return nil, err
	}
	roots := cfg.ResearchRoots()
	sources := make(ingest.Multi, 0, len(roots))
	for _, root := range roots {
		sources = append(sources, ingest.NewDirSource(root))
	}
	return phase.NewContext(cfg, cfg.Workspace, lb, sources), nil
}

func newEngine() (*engine.Engine, error) {
	eng, err := engine.New(engine.DefaultRegistry())
	if err != nil {
		return nil, fmt.Errorf("sigma: %w", err)
	}
	return eng, nil
}
