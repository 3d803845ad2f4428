// Package plan holds the implementation-plan data model. The plan is
// configuration, not computation: its content is fixed and does not consult
// the knowledge graph beyond requiring that a synthesis ran at all.
package plan

// Milestone is one ordered delivery step.
type Milestone struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Plan is the structured implementation plan emitted after synthesis.
type Plan struct {
	DirectoryLayout map[string]string `json:"directory_layout"`
	TechnologyStack map[string]string `json:"technology_stack"`
	Milestones      []Milestone       `json:"milestones"`
	RiskMitigation  map[string]string `json:"risk_mitigation"`
}

// Default returns the canonical plan for an agent-runtime build-out.
func Default() Plan {
	return Plan{
		DirectoryLayout: map[string]string{
			"agent-runtime/":         "Core runtime components",
			"agent-runtime/src/":     "Source code",
			"agent-runtime/tests/":   "Test suites",
			"agent-runtime/docs/":    "Documentation",
			"agent-runtime/configs/": "Configuration files",
			"agent-runtime/scripts/": "Utility scripts",
		},
		TechnologyStack: map[string]string{
			"language":  "Go 1.21+",
			"transport": "net/http",
			"testing":   "go test",
			"logging":   "append-only logbook",
			"config":    "yaml",
			"docs":      "markdown artifacts",
		},
		Milestones: []Milestone{
			{ID: "M1", Description: "Core scaffolding and base types"},
			{ID: "M2", Description: "Phase implementations and orchestration"},
			{ID: "M3", Description: "Safety guards and validation"},
			{ID: "M4", Description: "Testing and CI setup"},
			{ID: "M5", Description: "Documentation and demos"},
		},
		RiskMitigation: map[string]string{
			"complexity":  "Start with simple implementations, iterate",
			"performance": "Profile early, optimize hotspots",
			"safety":      "Multiple validation layers, fail-safe defaults",
			"scalability": "Design for horizontal scaling from the start",
		},
	}
}
