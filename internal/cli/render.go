package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/carebase/internal/gateway"
	"github.com/roach88/carebase/internal/record"
)

// TableResult is the payload of fetch and of read statements run by query.
type TableResult struct {
	Kind    record.Kind `json:"kind,omitempty"`
	Columns []string    `json:"columns"`
	Rows    [][]string  `json:"rows"`
}

func tableResult(t *record.Table) TableResult {
	return TableResult{Kind: t.Kind, Columns: t.Columns, Rows: t.Rows}
}

func queryTableResult(r *gateway.Result) TableResult {
	return TableResult{Columns: r.Columns, Rows: r.Rows}
}

// RenderText writes an aligned table, one line per row.
func (t TableResult) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "\t", " ")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%s)\n", pluralize(int64(len(t.Rows)), "row"))
	return err
}

// RecordResult is the payload of view and validate.
type RecordResult struct {
	Record record.WideRecord `json:"record"`

	order []string
}

// RenderText writes one "field  value" line per field in catalog order.
func (r RecordResult) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range r.order {
		if v, ok := r.Record[field]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", field, v)
		}
	}
	return tw.Flush()
}

// MessageResult is the payload of write commands.
type MessageResult struct {
	Message string `json:"message"`
	Count   *int64 `json:"count,omitempty"`
}

func message(format string, args ...any) MessageResult {
	return MessageResult{Message: fmt.Sprintf(format, args...)}
}

func countMessage(n int64, format string, args ...any) MessageResult {
	return MessageResult{Message: fmt.Sprintf(format, args...), Count: &n}
}

func (m MessageResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, m.Message)
	return err
}
