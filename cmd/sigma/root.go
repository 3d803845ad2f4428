package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "sigma",
	Short: "Synthesize multi-model research into a report and build plan",
	Long: "Sigma ingests research notes written from several model perspectives,\n" +
		"extracts categorized insights, detects where the perspectives agree and\n" +
		"where each one stands alone, and writes a synthesis report plus an\n" +
		"implementation plan.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(phaseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.Version = version
}
