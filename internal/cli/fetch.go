package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/record"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <kind>",
		Short: "List every row of one record kind",
		Long: `List every row of one record kind in insertion order.

Kinds: ` + kindNames() + `.
Names are matched ignoring case; spaces may replace underscores.

Example:
  carebase fetch credential
  carebase fetch "medical history" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runFetch(opts *RootOptions, kindName string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	kind, ok := record.ParseKind(kindName)
	if !ok {
		return out.Fail(usageErrorf("unknown record kind %q (want one of %s)", kindName, kindNames()))
	}

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	table, err := st.FetchAll(ctx, kind)
	if err != nil {
		return out.Fail(err)
	}
	opts.Logger.Debug("fetched", "kind", kind, "rows", len(table.Rows))
	return out.Success(tableResult(table))
}
