package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/gateway"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Run a raw SQL statement",
		Long: `Run one SQL statement directly against the database.

Reads (SELECT, WITH, PRAGMA, EXPLAIN, VALUES) print their rows; other
statements report the number of rows affected. Statements bypass the
normal insert and update path, so the wide record and its history rows
are not kept in step. Use "-" to read the statement from standard input.

Example:
  carebase query "SELECT * FROM Disease_Masterlist ORDER BY illnessCode"
  echo "DELETE FROM Surgery_History WHERE surgeryID = 3" | carebase query -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runQuery(opts *RootOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	stmt := strings.Join(args, " ")
	if stmt == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return out.Fail(usageErrorf("read statement: %v", err))
		}
		stmt = string(data)
	}
	if strings.TrimSpace(stmt) == "" {
		return out.Fail(usageErrorf("%v", gateway.ErrEmptyStatement))
	}

	st, err := opts.openStore(ctx, true)
	if err != nil {
		return out.Fail(err)
	}
	defer opts.closeStore(st)

	res, err := gateway.New(st.DB()).Execute(ctx, stmt)
	if err != nil {
		return out.Fail(err)
	}

	if res.Read {
		opts.Logger.Debug("query returned rows", "rows", len(res.Rows))
		return out.Success(queryTableResult(res))
	}
	opts.Logger.Info("statement executed", "rows_affected", res.RowsAffected)
	return out.Success(countMessage(res.RowsAffected, "%s affected", pluralize(res.RowsAffected, "row")))
}
