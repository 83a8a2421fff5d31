package cli

import (
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <patient-number>...",
		Short: "Remove patients and all their history",
		Long: `Remove patients together with their profile, medical history and
surgery history. Unknown patient numbers are ignored. All patients are
removed in one transaction.

Example:
  carebase delete 2 4`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, patientIDs []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	n, err := st.BatchDelete(ctx, patientIDs)
	if err != nil {
		return out.Fail(err)
	}
	opts.Logger.Info("patients deleted", "requested", len(patientIDs), "deleted", n)
	return out.Success(countMessage(n, "Deleted %s", pluralize(n, "patient")))
}
