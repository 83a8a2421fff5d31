package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/validate"
)

// NewDiseaseCommand creates the disease command group.
func NewDiseaseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disease",
		Short: "Manage the disease masterlist",
	}

	cmd.AddCommand(newDiseaseAddCommand(rootOpts))
	cmd.AddCommand(newDiseaseDeleteCommand(rootOpts))

	return cmd
}

func newDiseaseAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <disease-name> <illness-code>",
		Short:         "Add a disease to the masterlist",
		Example:       `  carebase disease add "Chicken Pox" CP`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiseaseAdd(rootOpts, args[0], args[1], cmd)
		},
	}
}

func newDiseaseDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <illness-code>...",
		Short: "Remove illness codes from the masterlist",
		Long: `Remove illness codes from the masterlist.

Codes still used by a patient's medical history cannot be removed; if any
given code is in use nothing is deleted and every code in use is reported.`,
		Example:       `  carebase disease delete CP FL`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiseaseDelete(rootOpts, args, cmd)
		},
	}
}

func runDiseaseAdd(opts *RootOptions, name, code string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	name, code, err := validate.MasterlistEntry(name, code)
	if err != nil {
		return out.Fail(err)
	}

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	if err := st.InsertDiseaseMasterlistEntry(ctx, name, code); err != nil {
		return out.Fail(err)
	}
	opts.Logger.Info("disease added", "code", code)
	return out.Success(message("Added disease %s (%s)", name, code))
}

func runDiseaseDelete(opts *RootOptions, codes []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	n, err := st.DeleteDiseaseCodes(ctx, codes)
	if err != nil {
		return out.Fail(err)
	}
	opts.Logger.Info("disease codes deleted", "requested", len(codes), "deleted", n)
	return out.Success(countMessage(n, "Deleted %s", pluralize(n, "disease code")))
}
