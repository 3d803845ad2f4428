// sigma distills multi-model research notes into a synthesis report and an
// implementation plan.
//
// Usage:
//
//	sigma run [dir]            # full three-phase synthesis
//	sigma phase <id> [dir]     # run a single phase
//	sigma serve [dir]          # expose the workflow over HTTP
//	sigma score -f <manifest>  # rank measured variants
//	sigma tui [dir]            # interactive run viewer
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
