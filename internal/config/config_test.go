package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitSeedsDefaultConfig(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := Init(projectDir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("version = %d, want 1", cfg.Project.Version)
	}
	if len(cfg.Project.ResearchRoots) != 1 || cfg.Project.ResearchRoots[0] != "research" {
		t.Fatalf("research roots = %v, want [research]", cfg.Project.ResearchRoots)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".sigma", "config.yaml")); err != nil {
		t.Fatalf("config.yaml not seeded: %v", err)
	}
	// Weight defaults survive an empty score block.
	if cfg.Project.Score.TestBase == 0 {
		t.Fatal("expected default score weights")
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	projectDir := t.TempDir()
	sigmaDir := filepath.Join(projectDir, ".sigma")
	if err := os.MkdirAll(sigmaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "version: 2\nresearch_roots:\n  - notes\n  - /abs/research\nserver:\n  port: 9100\n"
	if err := os.WriteFile(filepath.Join(sigmaDir, "config.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Init(projectDir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.Project.Version != 2 {
		t.Fatalf("version = %d, want 2", cfg.Project.Version)
	}
	if cfg.Project.Server.Port != 9100 {
		t.Fatalf("server port = %d, want 9100", cfg.Project.Server.Port)
	}

	roots := cfg.ResearchRoots()
	if len(roots) != 2 {
		t.Fatalf("roots = %v, want 2 entries", roots)
	}
	if roots[0] != filepath.Join(projectDir, "notes") {
		t.Fatalf("relative root not resolved: %s", roots[0])
	}
	if roots[1] != filepath.Clean("/abs/research") {
		t.Fatalf("absolute root altered: %s", roots[1])
	}
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	projectDir := t.TempDir()
	sigmaDir := filepath.Join(projectDir, ".sigma")
	if err := os.MkdirAll(sigmaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sigmaDir, "config.yaml"), []byte("version: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(projectDir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingConfigFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config.yaml")
	}
}
