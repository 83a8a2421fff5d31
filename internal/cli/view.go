package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/store"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <patient-number> <illness-code>",
		Short: "Show a patient's wide record for one illness",
		Long: `Show the current wide record of a patient.

Illness fields describe the given illness code when the patient has it;
otherwise the stored values are shown. Surgery fields always list every
recorded surgery.

Example:
  carebase view 1 TB`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runView(opts *RootOptions, patientID, illnessCode string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	view, found, err := st.GetCurrentWideView(ctx, patientID, illnessCode)
	if err != nil {
		return out.Fail(err)
	}
	if !found {
		return out.Fail(&store.Error{
			Kind:    store.KindNotFound,
			Op:      "view",
			Message: fmt.Sprintf("no record found for patient %q", patientID),
		})
	}
	return out.Success(RecordResult{Record: view, order: credentialOrder()})
}
