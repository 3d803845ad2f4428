package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ralvarado/sigma/internal/engine"
)

var runFlags struct {
	jsonOut  bool
	variants []string
}

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run the full synthesis workflow",
	Long: `Run digestion, report, and planning over the project's research roots.

The project directory defaults to the current directory. Outputs land under
.sigma/: the synthesis report at analysis/synthesis.md and the plan at
implementation/plan.md (with a machine-readable plan.json alongside).

With --variants, each named subdirectory is treated as an independent
project and synthesized concurrently; runs share nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.jsonOut, "json", false, "Print the run record as JSON")
	runCmd.Flags().StringSliceVar(&runFlags.variants, "variants", nil, "Subdirectories to synthesize concurrently")
}

func runRun(cmd *cobra.Command, args []string) error {
	projectDir := projectDirFromArgs(args)
	if len(runFlags.variants) > 0 {
		return runVariants(cmd, projectDir)
	}
	pc, err := newRunContext(projectDir)
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}
	record := eng.Run(cmd.Context(), pc)
	if err := emitRecord(record); err != nil {
		return err
	}
	if record.Status == engine.StatusFailed {
		return fmt.Errorf("run %s failed: %s", record.RunID, record.Error)
	}
	return nil
}

// runVariants synthesizes each variant subdirectory as its own project.
// Every variant gets its own engine, workspace, and insight store.
func runVariants(cmd *cobra.Command, projectDir string) error {
	records := make([]engine.RunRecord, len(runFlags.variants))
	group, ctx := errgroup.WithContext(cmd.Context())
	for i, variant := range runFlags.variants {
		i, variant := i, variant
		group.Go(func() error {
			pc, err := newRunContext(filepath.Join(projectDir, variant))
			if err != nil {
				return fmt.Errorf("variant %s: %w", variant, err)
			}
			eng, err := newEngine()
			if err != nil {
				return err
			}
			records[i] = eng.Run(ctx, pc)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, record := range records {
		fmt.Printf("== %s ==\n", runFlags.variants[i])
		if err := emitRecord(record); err != nil {
			return err
		}
		if record.Status == engine.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d variant runs failed", failed, len(records))
	}
	return nil
}

func emitRecord(record engine.RunRecord) error {
	if runFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("sigma: encode record: %w", err)
		}
		return nil
	}
	printRecord(record)
	return nil
}

func printRecord(record engine.RunRecord) {
	fmt.Printf("Run:        %s\n", record.RunID)
	fmt.Printf("Status:     %s\n", record.Status)
	fmt.Printf("Phases:     %d\n", len(record.PhasesExecuted))
	fmt.Printf("Insights:   %d (from %d files)\n", record.InsightCount, record.FilesProcessed)
	fmt.Printf("Consensus:  %d\n", len(record.Consensus))
	fmt.Printf("Divergence: %d\n", len(record.Divergences))
	if record.ReportPath != "" {
		fmt.Printf("Report:     %s\n", record.ReportPath)
	}
	if record.PlanPath != "" {
		fmt.Printf("Plan:       %s\n", record.PlanPath)
	}
	if record.PlanJSONPath != "" {
		fmt.Printf("Plan JSON:  %s\n", record.PlanJSONPath)
	}
}
