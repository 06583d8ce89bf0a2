// Command navcli is a one-shot command-line entry point into the
// navigation core: given a source and destination coordinate, it prints the
// resulting RoutePlan.
package main

import (
	"fmt"
	"os"

	"github.com/pkmnav/navcore/cmd/navcli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
