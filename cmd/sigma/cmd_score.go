package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ralvarado/sigma/internal/score"
)

var scoreFlags struct {
	manifestPath string
}

var scoreCmd = &cobra.Command{
	Use:   "score -f <manifest>",
	Short: "Rank measured implementation variants",
	Long: `Score and rank implementation variants from a metrics manifest.

The manifest is a YAML file listing per-variant measurements (test counts,
complexity, lines, Docker presence) plus optional weight overrides:

  weights:
    docker_bonus: 15
  variants:
    hybrid:
      tests: 21
      avg_complexity: 3.2
      functions: 42
      lines: 1180
      has_dockerfile: true`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreFlags.manifestPath, "file", "f", "", "Metrics manifest path (required)")
	_ = scoreCmd.MarkFlagRequired("file")
}

func runScore(cmd *cobra.Command, _ []string) error {
	manifest, err := score.LoadManifest(scoreFlags.manifestPath)
	if err != nil {
		return err
	}
	ranked, err := score.Rank(manifest.Variants, manifest.Weights)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tVARIANT\tSCORE\tTESTS\tCOMPLEXITY\tLINES\tDOCKER")
	for i, row := range ranked {
		docker := "no"
		if row.Metrics.HasDockerfile {
			docker = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%.1f\t%d\t%s\n",
			i+1, row.Variant, row.Score, row.Metrics.Tests, row.Metrics.AvgComplexity, row.Metrics.Lines, docker)
	}
	return w.Flush()
}
