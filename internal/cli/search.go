package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/datesearch/internal/engine"
	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/searchterm"
	"github.com/roach88/datesearch/internal/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	DB  string // database path
	Now string // evaluation instant override (RFC 3339)
}

// SearchResult is the search command's output.
type SearchResult struct {
	Terms    []string          `json:"terms"`
	Now      string            `json:"now"`
	Count    int               `json:"count"`
	Patients []patient.Patient `json:"patients"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search patients by birth date",
		Long: `Search stored patients by birth date. All terms must match.

Nothing is returned if any term is invalid; the error names the first
offending term and its position.

Exit codes:
  0 - Search completed (possibly with no matches)
  1 - A term is invalid
  2 - Command error (database not found, etc.)

Examples:
  datesearch search --db ./patients.db ge2023 le2023-06
  datesearch search --db ./patients.db ap2024-05-14 --now 2025-01-01T00:00:00Z
  datesearch search --db ./patients.db --format json eq2024-05-14`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "evaluation instant for ap terms (RFC 3339, default: current time)")

	return cmd
}

func runSearch(opts *SearchOptions, terms []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	now, err := resolveNow(opts.Now, opts.RootOptions)
	if err != nil {
		return err
	}

	dbPath := opts.database(opts.DB)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	logger := opts.logger()
	ev := engine.New(
		engine.WithClock(engine.ClockFunc(func() time.Time { return now })),
		engine.WithLogger(logger),
	)

	patients, err := engine.Evaluate[patient.Patient](ctx, ev, terms, st.Source(logger))
	if err != nil {
		if engine.IsCompositionFailure(err) {
			if ferr := out.SearchError(err); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitFailure, "invalid search", err)
		}
		return WrapExitError(ExitCommandError, "search failed", err)
	}

	result := SearchResult{
		Terms:    terms,
		Now:      now.Format(searchterm.InstantLayout),
		Count:    len(patients),
		Patients: patients,
	}
	if result.Terms == nil {
		result.Terms = []string{}
	}

	if out.IsJSON() {
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, p := range patients {
		fmt.Fprintf(w, "%s  %s  %s\n", p.BirthDate.Format(searchterm.InstantLayout), p.ID, displayName(p))
	}
	fmt.Fprintf(w, "%d match(es)\n", len(patients))
	return nil
}

func displayName(p patient.Patient) string {
	given := strings.TrimSpace(strings.Join([]string{p.FirstName, p.MiddleName}, " "))
	if given == "" {
		return p.Family
	}
	return p.Family + ", " + given
}
