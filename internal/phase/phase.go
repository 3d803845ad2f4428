// Package phase defines the runtime units of a synthesis run. Each phase
// receives the accumulated run context, performs its work, and merges its
// additions back into the context for later phases. Phases do not catch
// their own failures; the engine is the single boundary that converts
// errors into failed run records.
package phase

import (
	"context"
	"errors"
	"fmt"
)

// Canonical phase identifiers, executed strictly in this order.
const (
	IDDigestion = "research_digestion"
	IDReport    = "synthesis_report"
	IDPlan      = "implementation_plan"
)

// ErrMissingPrerequisite signals that a phase was invoked without the
// context an earlier phase should have produced. Surfaced to callers as a
// client error, never retried.
var ErrMissingPrerequisite = errors.New("phase: missing prerequisite context")

// Info describes a phase's identity.
type Info struct {
	ID          string
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("phase: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("phase: name is required for %s", i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("phase: version is required for %s", i.ID)
	}
	return nil
}

// Status enumerates phase run outcomes.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result captures the outcome of a phase execution.
type Result struct {
	Status  Status
	Message string
}

// Phase is implemented by every synthesis phase.
type Phase interface {
	Info() Info
	Run(ctx context.Context, pc *Context) (Result, error)
}
