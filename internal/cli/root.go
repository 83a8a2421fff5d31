package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/config"
)

// RootOptions holds global flags for all commands and the state resolved
// from them before a subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigFile string

	// TraceIDs allows overriding the trace id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TraceIDs TraceIDGenerator

	Config  *config.Config
	TraceID string
	Logger  *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the carebase CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carebase",
		Short: "Carebase - patient records manager",
		Long: `Carebase keeps patient records in a SQLite database.

Each patient is entered as one wide record whose illness and surgery fields
may list several comma-separated occurrences. Carebase splits them into
medical and surgery history rows, keeps the disease masterlist in step,
and rebuilds the wide view on demand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", config.DefaultDatabase, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: carebase.yaml in . or ~/.config/carebase)")

	// Add subcommands
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewDiseaseCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// resolve loads configuration, applies flag overrides, and sets up logging
// and the trace id for the command about to run.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	v := config.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag(config.KeyDatabase, flags.Lookup("db")); err != nil {
		return WrapExitError(ExitCommandError, "bind --db", err)
	}
	if err := v.BindPFlag(config.KeyFormat, flags.Lookup("format")); err != nil {
		return WrapExitError(ExitCommandError, "bind --format", err)
	}

	cfg, err := config.Load(v, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	o.Config = cfg
	o.Format = cfg.Format
	o.Database = cfg.Database

	level, _ := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})

	gen := o.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	o.TraceID = gen.Generate()
	o.Logger = slog.New(handler).With("trace_id", o.TraceID)
	slog.SetDefault(o.Logger)

	o.Logger.Debug("command starting", "command", cmd.CommandPath(), "db", o.Database, "format", o.Format)
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   o.TraceID,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
