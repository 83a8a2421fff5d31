package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/validate"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Input RecordInput
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a wide record without writing it",
		Long: `Check a wide record against the insert rules without touching the
database. Prints the cleaned record (trimmed values, ISO dates, civil status
and education codes) or every field that failed.

Example:
  carebase validate --file patient.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Input.Sets, "set", nil, "field=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Input.File, "file", "f", "", "YAML file with field: value pairs")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	rec, err := opts.Input.Record()
	if err != nil {
		return out.Fail(err)
	}
	cleaned, err := validate.Record(rec)
	if err != nil {
		return out.Fail(err)
	}
	return out.Success(RecordResult{Record: cleaned, order: credentialOrder()})
}
