// Package engine sequences the synthesis phases. It is the single error
// boundary of a run: phases return errors, the engine converts them into a
// failed run record and stops. No phase is retried and nothing after a
// failure executes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ralvarado/sigma/internal/pattern"
	"github.com/ralvarado/sigma/internal/phase"
	"github.com/ralvarado/sigma/internal/phases/digestion"
	"github.com/ralvarado/sigma/internal/phases/planning"
	"github.com/ralvarado/sigma/internal/phases/report"
	"github.com/ralvarado/sigma/internal/plan"
)

// ErrInvalidPhase signals a request for a phase identifier outside the
// fixed enumeration. Surfaced as a rejected request, never fatal to the
// process.
var ErrInvalidPhase = errors.New("engine: invalid phase")

// Status enumerates run outcomes.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// RunRecord is the structured result of one synthesis run.
type RunRecord struct {
	RunID          string               `json:"run_id"`
	Status         Status               `json:"status"`
	PhasesExecuted []string             `json:"phases_executed"`
	CurrentPhase   string               `json:"current_phase,omitempty"`
	InsightCount   int                  `json:"insights_count"`
	FilesProcessed int                  `json:"files_processed"`
	Consensus      []pattern.Consensus  `json:"consensus_patterns"`
	Divergences    []pattern.Divergence `json:"divergences"`
	ReportPath     string               `json:"report_path,omitempty"`
	Plan           *plan.Plan           `json:"plan,omitempty"`
	PlanPath       string               `json:"plan_path,omitempty"`
	PlanJSONPath   string               `json:"plan_json_path,omitempty"`
	Error          string               `json:"error,omitempty"`
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     time.Time            `json:"finished_at,omitempty"`
}

// Engine coordinates the phase registry for sequential runs.
type Engine struct {
	registry *phase.Registry
	clock    func() time.Time
	newRunID func() string
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRunIDSource overrides run ID generation (primarily for tests).
func WithRunIDSource(source func() string) Option {
	return func(e *Engine) {
		if source != nil {
			e.newRunID = source
		}
	}
}

// New wires an engine to a phase registry.
func New(registry *phase.Registry, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("engine: phase registry is required")
	}
	e := &Engine{
		registry: registry,
		clock:    time.Now,
		newRunID: func() string { return "run-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DefaultRegistry returns a registry with the canonical three phases in
// workflow order.
func DefaultRegistry() *phase.Registry {
	reg := phase.NewRegistry()
	digestion.Register(reg)
	report.Register(reg)
	planning.Register(reg)
	return reg
}

// Run executes every registered phase in order against a fresh run context.
// The context accumulates phase output; a phase error aborts the run and no
// later phase executes.
func (e *Engine) Run(ctx context.Context, pc *phase.Context) RunRecord {
	record := e.newRecord(pc)
	pc.Logbook.Info("engine: starting run %s", record.RunID)

	for _, id := range e.registry.Sequence() {
		if err := ctx.Err(); err != nil {
			return e.fail(pc, record, id, err)
		}
		p, ok := e.registry.Get(id)
		if !ok {
			return e.fail(pc, record, id, fmt.Errorf("%w: %s", ErrInvalidPhase, id))
		}
		record.CurrentPhase = id
		result, err := p.Run(ctx, pc)
		if err != nil {
			return e.fail(pc, record, id, err)
		}
		pc.Logbook.Info("engine: phase %s %s: %s", id, result.Status, result.Message)
		record.PhasesExecuted = append(record.PhasesExecuted, id)
	}
	return e.complete(pc, record)
}

// RunPhase executes a single phase by identifier against the provided run
// context. Unknown identifiers yield a failed record wrapping
// ErrInvalidPhase; no insight processing occurs in that case.
func (e *Engine) RunPhase(ctx context.Context, pc *phase.Context, id string) RunRecord {
	record := e.newRecord(pc)
	p, ok := e.registry.Get(strings.TrimSpace(id))
	if !ok {
		return e.fail(pc, record, id, fmt.Errorf("%w: %q", ErrInvalidPhase, id))
	}
	record.CurrentPhase = p.Info().ID
	result, err := p.Run(ctx, pc)
	if err != nil {
		return e.fail(pc, record, p.Info().ID, err)
	}
	pc.Logbook.Info("engine: phase %s %s: %s", p.Info().ID, result.Status, result.Message)
	record.PhasesExecuted = append(record.PhasesExecuted, p.Info().ID)
	return e.complete(pc, record)
}

// Sequence exposes the registered phase order.
func (e *Engine) Sequence() []string {
	return e.registry.Sequence()
}

// NewRunID mints a run identifier from the engine's configured source, so
// callers that pre-register runs use the same ID scheme as Run itself.
func (e *Engine) NewRunID() string {
	return e.newRunID()
}

func (e *Engine) newRecord(pc *phase.Context) RunRecord {
	record := RunRecord{
		RunID:     pc.RunID,
		Status:    StatusRunning,
		StartedAt: e.clock().UTC(),
	}
	if record.RunID == "" {
		record.RunID = e.newRunID()
		pc.RunID = record.RunID
	}
	return record
}

func (e *Engine) complete(pc *phase.Context, record RunRecord) RunRecord {
	record.Status = StatusCompleted
	record.CurrentPhase = ""
	record.FinishedAt = e.clock().UTC()
	e.mergeState(pc, &record)
	pc.Logbook.Info("engine: run %s completed", record.RunID)
	return record
}

func (e *Engine) fail(pc *phase.Context, record RunRecord, phaseID string, err error) RunRecord {
	record.Status = StatusFailed
	record.CurrentPhase = ""
	record.Error = err.Error()
	record.FinishedAt = e.clock().UTC()
	e.mergeState(pc, &record)
	pc.Logbook.Error("engine: run %s failed in %s: %v", record.RunID, phaseID, err)
	return record
}

// mergeState copies the accumulated phase output into the record so callers
// get one self-contained result.
func (e *Engine) mergeState(pc *phase.Context, record *RunRecord) {
	state := pc.State
	if state == nil {
		return
	}
	if state.Graph != nil {
		record.InsightCount = state.Graph.Len()
	}
	record.FilesProcessed = state.FilesProcessed
	record.Consensus = state.Consensus
	record.Divergences = state.Divergences
	record.ReportPath = state.ReportPath
	record.Plan = state.Plan
	record.PlanPath = state.PlanPath
	record.PlanJSONPath = state.PlanJSONPath
}

// IsInvalidPhase reports whether the record failed because of an unknown
// phase identifier.
func IsInvalidPhase(record RunRecord) bool {
	return record.Status == StatusFailed && strings.Contains(record.Error, ErrInvalidPhase.Error())
}
