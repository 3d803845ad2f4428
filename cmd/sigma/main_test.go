package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ralvarado/sigma/internal/engine"
)

func seedResearch(t *testing.T, projectDir string) {
	t.Helper()
	files := map[string]string{
		"research/o3/01_overview.md":                  "# Overview\nEvent-driven synthesis core.",
		"research/claude-4-sonnet/01_overview.md":     "# Overview\nPipeline of small phases.",
		"research/claude-4-sonnet/05_enhancements.md": "Shard the insight store per run.",
	}
	for rel, content := range files {
		path := filepath.Join(projectDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestRunContextEndToEnd(t *testing.T) {
	projectDir := t.TempDir()
	seedResearch(t, projectDir)

	pc, err := newRunContext(projectDir)
	if err != nil {
		t.Fatalf("newRunContext: %v", err)
	}
	eng, err := newEngine()
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	record := eng.Run(context.Background(), pc)
	if record.Status != engine.StatusCompleted {
		t.Fatalf("run failed: %s", record.Error)
	}
	if record.InsightCount != 3 {
		t.Fatalf("insight count = %d, want 3", record.InsightCount)
	}
	if len(record.Consensus) != 1 {
		t.Fatalf("consensus patterns = %d, want 1", len(record.Consensus))
	}
	if _, err := os.Stat(record.ReportPath); err != nil {
		t.Fatalf("report missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".sigma", "config.yaml")); err != nil {
		t.Fatalf("config not seeded: %v", err)
	}
}

func TestProjectDirFromArgs(t *testing.T) {
	if got := projectDirFromArgs(nil); got != "." {
		t.Fatalf("default dir = %q, want .", got)
	}
	if got := projectDirFromArgs([]string{"/tmp/p"}); got != "/tmp/p" {
		t.Fatalf("dir = %q, want /tmp/p", got)
	}
}
