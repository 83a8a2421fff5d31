// Package gateway executes ad-hoc SQL statements against the patient
// database.
//
// It sits beside the record store, not in front of it: statements run as
// given, in autocommit mode, and bypass the normalization path entirely. A
// write issued here can leave Credential and the history tables out of step;
// callers own that risk.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrEmptyStatement is returned when Execute is given only whitespace.
var ErrEmptyStatement = errors.New("empty statement")

// readVerbs are the leading keywords of statements that return rows.
var readVerbs = []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN", "VALUES"}

// Result is the outcome of one statement.
// For reads Columns and Rows are set; for writes RowsAffected is.
type Result struct {
	Read         bool       `json:"read"`
	Columns      []string   `json:"columns,omitempty"`
	Rows         [][]string `json:"rows,omitempty"`
	RowsAffected int64      `json:"rows_affected"`
}

// Gateway runs raw statements on a database handle.
type Gateway struct {
	db *sqlx.DB
}

// New returns a Gateway over db.
func New(db *sqlx.DB) *Gateway {
	return &Gateway{db: db}
}

// IsRead reports whether stmt is a row-returning statement.
func IsRead(stmt string) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	// "SELECT(" and "WITH(" are not keywords but a leading paren is legal SQL.
	verb := strings.ToUpper(strings.SplitN(fields[0], "(", 2)[0])
	for _, v := range readVerbs {
		if verb == v {
			return true
		}
	}
	return false
}

// Execute runs stmt. Reads return every row with values rendered as text
// and NULL as "". Anything else is executed and reports rows affected.
func (g *Gateway) Execute(ctx context.Context, stmt string) (*Result, error) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil, ErrEmptyStatement
	}
	if IsRead(stmt) {
		return g.query(ctx, stmt)
	}
	return g.exec(ctx, stmt)
}

func (g *Gateway) query(ctx context.Context, stmt string) (*Result, error) {
	rows, err := g.db.QueryxContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: columns: %w", err)
	}

	result := &Result{Read: true, Columns: cols, Rows: [][]string{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("query: scan: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = render(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: iterate: %w", err)
	}
	return result, nil
}

func (g *Gateway) exec(ctx context.Context, stmt string) (*Result, error) {
	res, err := g.db.ExecContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("exec: rows affected: %w", err)
	}
	return &Result{RowsAffected: n}, nil
}

// render converts a driver value to its text form.
func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
