package digestion

import (
	"context"
	"strings"
	"testing"

	"github.com/ralvarado/sigma/internal/ingest"
	"github.com/ralvarado/sigma/internal/logbook"
	"github.com/ralvarado/sigma/internal/phase"
	"github.com/ralvarado/sigma/internal/workspace"
)

func newContext(t *testing.T, source ingest.Source) *phase.Context {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	lb, err := logbook.New(ws.LogbookPath())
	if err != nil {
		t.Fatalf("open logbook: %v", err)
	}
	return phase.NewContext(nil, ws, lb, source)
}

func TestRunBuildsGraphAndPatterns(t *testing.T) {
	source := ingest.StaticSource{
		{Perspective: "o3", Category: "architecture", Content: "layered", Confidence: 0.9, SourceFile: "o3/01_overview.md"},
		{Perspective: "claude-4-sonnet", Category: "architecture", Content: "hexagonal", Confidence: 0.8, SourceFile: "claude-4-sonnet/01_overview.md"},
		{Perspective: "claude-4-sonnet", Category: "testing", Content: "table tests", Confidence: 0.8, SourceFile: "claude-4-sonnet/04_operations.md"},
	}
	pc := newContext(t, source)

	result, err := New().Run(context.Background(), pc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.StatusCompleted {
		t.Fatalf("status = %s, want completed", result.Status)
	}
	if !strings.Contains(result.Message, "3 insights") {
		t.Errorf("message = %q, want insight count", result.Message)
	}
	if pc.State.Graph == nil || pc.State.Graph.Len() != 3 {
		t.Fatalf("graph missing or wrong size: %+v", pc.State.Graph)
	}
	if pc.State.FilesProcessed != 3 {
		t.Errorf("files processed = %d, want 3", pc.State.FilesProcessed)
	}
	if len(pc.State.Consensus) != 1 {
		t.Errorf("consensus = %d, want 1 (architecture shared by two perspectives)", len(pc.State.Consensus))
	}
	if len(pc.State.Divergences) != 1 {
		t.Errorf("divergences = %d, want 1 (testing unique to sonnet)", len(pc.State.Divergences))
	}
}

func TestRunAssignsStableInsightIDs(t *testing.T) {
	source := ingest.StaticSource{
		{Perspective: "o3", Category: "safety", Content: "validate inputs", Confidence: 0.7},
	}
	pc := newContext(t, source)
	if _, err := New().Run(context.Background(), pc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := pc.State.Graph.Get("o3_safety_0"); !ok {
		t.Fatal("expected insight id o3_safety_0")
	}
}

func TestRunDefaultsZeroConfidence(t *testing.T) {
	source := ingest.StaticSource{
		{Perspective: "cursor-agent", Category: "performance", Content: "pool buffers"},
	}
	pc := newContext(t, source)
	if _, err := New().Run(context.Background(), pc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	in, ok := pc.State.Graph.Get("cursor-agent_performance_0")
	if !ok {
		t.Fatal("insight not stored")
	}
	if in.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", in.Confidence)
	}
}

func TestRunRejectsUnknownVocabulary(t *testing.T) {
	source := ingest.StaticSource{
		{Perspective: "gpt-9", Category: "architecture", Content: "nope"},
	}
	pc := newContext(t, source)
	result, err := New().Run(context.Background(), pc)
	if err == nil {
		t.Fatal("expected vocabulary error")
	}
	if result.Status != phase.StatusFailed {
		t.Errorf("status = %s, want failed", result.Status)
	}
}

func TestRunEmptySourceYieldsEmptyGraph(t *testing.T) {
	pc := newContext(t, ingest.StaticSource{})
	result, err := New().Run(context.Background(), pc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.StatusCompleted {
		t.Fatalf("status = %s, want completed", result.Status)
	}
	if pc.State.Graph.Len() != 0 {
		t.Errorf("graph size = %d, want 0", pc.State.Graph.Len())
	}
	if len(pc.State.Consensus) != 0 || len(pc.State.Divergences) != 0 {
		t.Error("expected no patterns for empty input")
	}
}

func TestRunRequiresSource(t *testing.T) {
	pc := newContext(t, ingest.StaticSource{})
	pc.Source = nil
	if _, err := New().Run(context.Background(), pc); err == nil {
		t.Fatal("expected error for missing source")
	}
}
