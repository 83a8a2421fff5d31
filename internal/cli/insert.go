package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/validate"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Input RecordInput
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Add a patient from a wide record",
		Long: `Add a patient. The record is validated, then written together with
its medical and surgery history rows. Unknown illness codes are added to
the disease masterlist.

Multi-valued fields take comma-separated items aligned by position; use
N/A for a missing item. Dates may be MM/DD/YYYY or YYYY-MM-DD.

Example:
  carebase insert --set patientNumber=5 --set patientName="Lia Cruz" \
    --set illnessCode="TB, FL" --set diseaseName="Tuberculosis, Flu"
  carebase insert --file patient.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Input.Sets, "set", nil, "field=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Input.File, "file", "f", "", "YAML file with field: value pairs")

	return cmd
}

func runInsert(opts *InsertOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	rec, err := opts.Input.Record()
	if err != nil {
		return out.Fail(err)
	}
	rec, err = validate.Record(rec)
	if err != nil {
		return out.Fail(err)
	}

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	if err := st.InsertPatient(ctx, rec); err != nil {
		return out.Fail(err)
	}
	opts.Logger.Info("patient inserted", "patient", rec.PatientNumber())
	return out.Success(message("Inserted patient %s", rec.PatientNumber()))
}
