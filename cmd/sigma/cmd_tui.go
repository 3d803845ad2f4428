package main

import (
	"github.com/spf13/cobra"

	"github.com/ralvarado/sigma/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [dir]",
	Short: "Run the synthesis workflow with an interactive viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func runTUI(_ *cobra.Command, args []string) error {
	pc, err := newRunContext(projectDirFromArgs(args))
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}
	return tui.Run(eng, pc)
}
