package planning

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ralvarado/sigma/internal/ingest"
	"github.com/ralvarado/sigma/internal/insight"
	"github.com/ralvarado/sigma/internal/logbook"
	"github.com/ralvarado/sigma/internal/phase"
	"github.com/ralvarado/sigma/internal/plan"
	"github.com/ralvarado/sigma/internal/workspace"
)

func newContext(t *testing.T) *phase.Context {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	lb, err := logbook.New(ws.LogbookPath())
	if err != nil {
		t.Fatalf("open logbook: %v", err)
	}
	pc := phase.NewContext(nil, ws, lb, ingest.StaticSource{})
	store := insight.NewStore()
	store.Add(insight.Insight{
		ID: "o3_architecture_0", Perspective: insight.PerspectiveO3,
		Category: insight.CategoryArchitecture, Content: "layered", Confidence: 0.9,
	})
	pc.State.Graph = store
	return pc
}

func TestRunWritesPlanArtifacts(t *testing.T) {
	pc := newContext(t)
	result, err := New().Run(context.Background(), pc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.StatusCompleted {
		t.Fatalf("status = %s, want completed", result.Status)
	}
	if pc.State.Plan == nil {
		t.Fatal("plan not recorded on state")
	}

	doc, err := os.ReadFile(pc.State.PlanPath)
	if err != nil {
		t.Fatalf("read plan.md: %v", err)
	}
	for _, section := range []string{"# Implementation Plan", "## Directory Layout", "## Technology Stack", "## Milestones", "## Risk Mitigation"} {
		if !strings.Contains(string(doc), section) {
			t.Errorf("plan.md missing section %q", section)
		}
	}

	raw, err := os.ReadFile(pc.State.PlanJSONPath)
	if err != nil {
		t.Fatalf("read plan.json: %v", err)
	}
	var decoded struct {
		plan.Plan
		Sigma map[string]any `json:"_sigma"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("parse plan.json: %v", err)
	}
	if len(decoded.Milestones) != len(plan.Default().Milestones) {
		t.Errorf("milestones = %d, want %d", len(decoded.Milestones), len(plan.Default().Milestones))
	}
	if len(decoded.Sigma) == 0 {
		t.Error("plan.json missing artifact metadata block")
	}
}

func TestRunWithoutDigestionFails(t *testing.T) {
	pc := newContext(t)
	pc.State.Graph = nil
	_, err := New().Run(context.Background(), pc)
	if !errors.Is(err, phase.ErrMissingPrerequisite) {
		t.Fatalf("err = %v, want ErrMissingPrerequisite", err)
	}
}

func TestRenderSortsMapSections(t *testing.T) {
	p := plan.Plan{
		DirectoryLayout: map[string]string{"zeta/": "last", "alpha/": "first"},
	}
	body := Render(p)
	alpha := strings.Index(body, "alpha/")
	zeta := strings.Index(body, "zeta/")
	if alpha == -1 || zeta == -1 || alpha > zeta {
		t.Fatalf("directory layout not sorted: %q", body)
	}
}
