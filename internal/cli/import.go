package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	DB string // database path
}

// ImportResult is the import command's output.
type ImportResult struct {
	Database string `json:"database"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Load patients from a YAML fixture",
		Long: `Validate a patient fixture against the patient schema and insert
every record into the database in one transaction.

Patients without an id are assigned a new UUIDv7.

Exit codes:
  0 - All patients imported
  1 - Fixture is invalid
  2 - Command error (missing file, database error)

Examples:
  datesearch import --db ./patients.db fixtures/patients.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runImport(opts *ImportOptions, fixturePath string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read fixture", err)
	}

	patients, err := patient.LoadFixture(data)
	if err != nil {
		if ferr := out.Error(CodeInvalidFixture, err.Error(), fixtureDetails(err)); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "invalid fixture", err)
	}

	dbPath := opts.database(opts.DB)
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.InsertPatients(ctx, patients); err != nil {
		return WrapExitError(ExitCommandError, "failed to import patients", err)
	}

	total, err := st.CountPatients(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count patients", err)
	}

	opts.logger().Info("patients imported", "database", dbPath, "count", len(patients))

	result := ImportResult{Database: dbPath, Imported: len(patients), Total: total}
	if out.IsJSON() {
		return out.Success(result)
	}
	return out.Success(fmt.Sprintf("Imported %d patient(s) into %s (%d total)", result.Imported, dbPath, total))
}

func fixtureDetails(err error) any {
	var fe *patient.FixtureError
	if errors.As(err, &fe) && fe.Index >= 0 {
		return map[string]int{"index": fe.Index}
	}
	return nil
}
