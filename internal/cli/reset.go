package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/seed"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Empty bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every table, then load the seed patients",
		Long: `Drop and recreate all five tables, discarding every record.

The canonical seed patients are loaded afterwards unless --empty is given.

Example:
  carebase reset
  carebase reset --empty --db /tmp/scratch.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "leave the tables empty")

	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openStore(ctx, false)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	if opts.Empty {
		if err := st.Reset(ctx); err != nil {
			return out.Fail(err)
		}
		opts.Logger.Info("database reset", "path", opts.Database)
		return out.Success(message("Database reset; all tables are empty"))
	}

	if err := seed.Load(ctx, st, opts.Logger); err != nil {
		return out.Fail(err)
	}
	records, err := seed.Records()
	if err != nil {
		return out.Fail(err)
	}
	n := int64(len(records))
	return out.Success(countMessage(n, "Database reset; loaded %s", pluralize(n, "seed patient")))
}
