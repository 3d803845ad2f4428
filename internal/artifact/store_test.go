package artifact

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ralvarado/sigma/internal/workspace"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) (*Store, *workspace.Workspace) {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatalf("workspace init: %v", err)
	}
	return NewStore(ws, WithClock(testClock)), ws
}

func TestWriteAndCheckDocument(t *testing.T) {
	store, ws := newTestStore(t)
	meta := Metadata{PhaseID: "synthesis_report", Version: "1.0.0", Run: "run-1"}
	if err := store.Write(SynthesisReportDoc, []byte("# Report\n"), meta); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(ws.ReportPath())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(raw), "---\n") {
		t.Fatalf("document missing frontmatter fence:\n%s", raw)
	}
	result, err := store.Check(SynthesisReportDoc)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != StateReady {
		t.Fatalf("state = %s, want ready (%v)", result.State, result.Err)
	}
	if result.Metadata.PhaseID != "synthesis_report" || result.Metadata.Run != "run-1" {
		t.Fatalf("metadata round trip: %+v", result.Metadata)
	}
	if !result.Metadata.CreatedAt.Equal(testClock()) {
		t.Fatalf("created = %v, want injected clock", result.Metadata.CreatedAt)
	}
}

func TestWriteJSONEmbedsMetadataBlock(t *testing.T) {
	store, ws := newTestStore(t)
	body := []byte(`{"milestones": []}`)
	meta := Metadata{PhaseID: "implementation_plan", Version: "1.0.0"}
	if err := store.Write(ImplementationPlanJSON, body, meta); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(ws.PlanJSONPath())
	if err != nil {
		t.Fatalf("read plan json: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("plan json invalid: %v", err)
	}
	if _, ok := payload["_sigma"]; !ok {
		t.Fatalf("missing _sigma block: %v", payload)
	}
	result, err := store.Check(ImplementationPlanJSON)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != StateReady {
		t.Fatalf("state = %s, want ready (%v)", result.State, result.Err)
	}
}

func TestCheckMissingArtifact(t *testing.T) {
	store, _ := newTestStore(t)
	result, err := store.Check(ImplementationPlanDoc)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.State != StateMissing {
		t.Fatalf("state = %s, want missing", result.State)
	}
}

func TestWriteRejectsMetadataWithoutPhase(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Write(SynthesisReportDoc, nil, Metadata{Version: "1.0.0"}); err == nil {
		t.Fatalf("expected validation error for missing phase id")
	}
}

func TestFrontMatterRoundTrip(t *testing.T) {
	meta := Metadata{
		ArtifactID: "synthesis-report",
		PhaseID:    "synthesis_report",
		Version:    "1.0.0",
		CreatedAt:  testClock(),
		Notes:      map[string]string{"insights": "12"},
	}
	content, err := WriteFrontMatter(meta, []byte("body text\n"))
	if err != nil {
		t.Fatalf("WriteFrontMatter: %v", err)
	}
	parsed, body, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if parsed.ArtifactID != meta.ArtifactID || parsed.Notes["insights"] != "12" {
		t.Fatalf("metadata mismatch: %+v", parsed)
	}
	if string(body) != "body text\n" {
		t.Fatalf("body mismatch: %q", body)
	}
}

func TestParseFrontMatterErrors(t *testing.T) {
	if _, _, err := ParseFrontMatter(nil); err != ErrMissingFrontMatter {
		t.Fatalf("nil content err = %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("no fences here")); err != ErrMissingFrontMatter {
		t.Fatalf("fenceless err = %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("---\nsigma:\n  artifact: x\n")); err != ErrMalformedFrontMatter {
		t.Fatalf("unterminated fence err = %v", err)
	}
}
