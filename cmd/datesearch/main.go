// Command datesearch searches patient records by birth date using
// prefix-based date terms.
//
// Usage:
//
//	# Explain how terms are parsed and compiled
//	datesearch parse ge2023 le2023-06
//
//	# Load patients from a YAML fixture
//	datesearch import --db patients.db fixtures/patients.yaml
//
//	# Search stored patients
//	datesearch search --db patients.db ap2024-05-14
//
//	# Run search scenarios against golden files
//	datesearch test ./scenarios
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/datesearch/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// Commands that already rendered their failure return a bare ExitError
		// wrapping the cause; print everything else.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
