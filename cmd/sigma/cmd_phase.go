package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ralvarado/sigma/internal/engine"
	"github.com/ralvarado/sigma/internal/phase"
)

var phaseFlags struct {
	through bool
}

var phaseCmd = &cobra.Command{
	Use:   "phase <id> [dir]",
	Short: "Run a single workflow phase",
	Long: fmt.Sprintf(`Run one phase by identifier. Valid identifiers:

  %s
  %s
  %s

Later phases need the output of earlier ones; use --through to run every
phase up to and including the requested one in a single invocation.`,
		phase.IDDigestion, phase.IDReport, phase.IDPlan),
	Args: cobra.RangeArgs(1, 2),
	RunE: runPhase,
}

func init() {
	phaseCmd.Flags().BoolVar(&phaseFlags.through, "through", false, "Run all phases up to and including <id>")
}

func runPhase(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	pc, err := newRunContext(projectDirFromArgs(args[1:]))
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	var record engine.RunRecord
	if phaseFlags.through {
		known := false
		for _, seqID := range eng.Sequence() {
			if seqID == id {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("unknown phase %q", id)
		}
		for _, seqID := range eng.Sequence() {
			record = eng.RunPhase(cmd.Context(), pc, seqID)
			if record.Status == engine.StatusFailed || seqID == id {
				break
			}
		}
	} else {
		record = eng.RunPhase(cmd.Context(), pc, id)
	}

	printRecord(record)
	if record.Status == engine.StatusFailed {
		return fmt.Errorf("phase %s failed: %s", id, record.Error)
	}
	return nil
}
