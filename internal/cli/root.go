package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/datesearch/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	LogFormat  string // "json" | "text"

	// Config is the resolved configuration, set before any subcommand runs.
	Config config.Config

	// Logger is built from Config; nil until resolved.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.Formats

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"format":     config.KeyFormat,
	"verbose":    config.KeyVerbose,
	"log-format": config.KeyLogFormat,
	"db":         config.KeyDatabase,
	"now":        config.KeyNow,
}

// NewRootCommand creates the root command for the datesearch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "datesearch",
		Short: "datesearch - prefix-based date search over patient records",
		Long: `Search patient records by birth date using compact terms such as
ge2023, eq2024-05-14 or ap2024-05-14T18:25:43.

Each term is a two-letter comparison prefix (eq, ne, gt, lt, ge, le, sa,
eb, ap) followed by a partial timestamp whose precision sets the width of
the matched window. Multiple terms are combined with AND.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve merges flags, environment and config file into opts.Config and
// builds the logger. Only flags the user set override lower layers.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	v := config.NewViper()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return WrapExitError(ExitCommandError, "bind flag "+name, err)
			}
		}
	}

	cfg, err := config.Load(v, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.Logger = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// logger returns the resolved logger, or a discarding one when commands run
// without the root command (as in tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// formatter builds an OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// database returns the flag value if set, else the configured database.
func (o *RootOptions) database(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return o.Config.Database
}
