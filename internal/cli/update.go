package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/store"
	"github.com/roach88/carebase/internal/validate"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Input RecordInput
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <patient-number> <illness-code>",
		Short: "Change fields of an existing patient",
		Long: `Change fields of an existing patient.

Fields given a non-empty value replace the stored value; everything else is
kept as shown by "carebase view <patient-number> <illness-code>". The
patient's medical and surgery history is rebuilt from the merged record.

Example:
  carebase update 3 BD --set occupation=Engineer
  carebase update 3 BD --set medicinesTaken="Aspirin, Metformin"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Input.Sets, "set", nil, "field=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Input.File, "file", "f", "", "YAML file with field: value pairs")

	return cmd
}

func runUpdate(opts *UpdateOptions, patientID, illnessCode string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	fields, err := opts.Input.Record()
	if err != nil {
		return out.Fail(err)
	}
	if len(fields) == 0 {
		return out.Fail(usageErrorf("nothing to update: give at least one --set or --file"))
	}
	fields, err = validate.Partial(fields)
	if err != nil {
		return out.Fail(err)
	}

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	cond := store.Conditions{PatientID: patientID, IllnessCode: illnessCode}
	if err := st.UpdatePatient(ctx, fields, cond); err != nil {
		return out.Fail(err)
	}
	opts.Logger.Info("patient updated", "patient", patientID, "illness", illnessCode, "fields", len(fields))
	return out.Success(message("Updated patient %s", patientID))
}
