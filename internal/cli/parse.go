package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/datesearch/internal/compiler"
	"github.com/roach88/datesearch/internal/engine"
	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/querysql"
	"github.com/roach88/datesearch/internal/searchterm"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Now string // evaluation instant override (RFC 3339)
}

// ParsedTerm is the parse command's view of one term.
type ParsedTerm struct {
	searchterm.Term
	Predicate string   `json:"predicate"`
	SQL       string   `json:"sql"`
	Params    []int64  `json:"params"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ParseResult is the parse command's output.
type ParseResult struct {
	Now   string       `json:"now"`
	Terms []ParsedTerm `json:"terms"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <term>...",
		Short: "Explain how terms are parsed and compiled",
		Long: `Parse each term and show its operator, precision, instant window,
compiled predicate and SQL fragment.

Exit codes:
  0 - All terms parsed
  1 - A term is invalid
  2 - Command error

Examples:
  datesearch parse ge2023 le2023-06
  datesearch parse ap2024-05-14 --now 2025-01-01T00:00:00Z
  datesearch parse eb2024-05-14T18:25:43.1234 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Now, "now", "", "evaluation instant for ap terms (RFC 3339, default: current time)")

	return cmd
}

func runParse(opts *ParseOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	now, err := resolveNow(opts.Now, opts.RootOptions)
	if err != nil {
		return err
	}

	sqlc := querysql.NewSQLCompiler("patients", "birth_date")
	result := ParseResult{
		Now:   now.Format(searchterm.InstantLayout),
		Terms: make([]ParsedTerm, 0, len(args)),
	}

	for i, raw := range args {
		term, err := searchterm.Parse(raw)
		if err == nil {
			var pred queryir.Predicate
			pred, err = compiler.CompileTerm(term, now)
			if err == nil {
				parsed, perr := explain(term, pred, sqlc)
				if perr != nil {
					return WrapExitError(ExitCommandError, "compile sql", perr)
				}
				result.Terms = append(result.Terms, parsed)
				opts.logger().Debug("term parsed", "term", raw, "operator", term.Operator.String())
				continue
			}
		}

		if ferr := out.SearchError(engine.NewCompositionError(i, raw, err)); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("invalid term %q", raw), err)
	}

	if out.IsJSON() {
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "now: %s\n", result.Now)
	for _, t := range result.Terms {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", t.Raw)
		fmt.Fprintf(w, "  operator:  %s\n", t.Operator)
		fmt.Fprintf(w, "  precision: %s\n", t.Precision)
		fmt.Fprintf(w, "  window:    %s\n", t.Range)
		fmt.Fprintf(w, "  predicate: %s\n", t.Predicate)
		fmt.Fprintf(w, "  sql:       %s %v\n", t.SQL, t.Params)
		for _, warning := range t.Warnings {
			fmt.Fprintf(w, "  warning:   %s\n", warning)
		}
	}
	return nil
}

func explain(term searchterm.Term, pred queryir.Predicate, sqlc *querysql.SQLCompiler) (ParsedTerm, error) {
	where, params, err := sqlc.CompileWhere(pred)
	if err != nil {
		return ParsedTerm{}, err
	}

	ints := make([]int64, len(params))
	for i, p := range params {
		ints[i] = p.(int64)
	}

	return ParsedTerm{
		Term:      term,
		Predicate: queryir.Format(pred, "birth_date"),
		SQL:       where,
		Params:    ints,
		Warnings:  queryir.Validate(pred).Warnings,
	}, nil
}

// resolveNow picks the evaluation instant: flag, then config, then wall clock.
func resolveNow(flagValue string, root *RootOptions) (time.Time, error) {
	value := strings.TrimSpace(flagValue)
	if value == "" {
		value = root.Config.Now
	}
	if value == "" {
		return engine.SystemClock{}.Now(), nil
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --now %q", value), err)
	}
	return t.UTC(), nil
}
