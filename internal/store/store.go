package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/carebase/internal/catalog"
	"github.com/roach88/carebase/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// dropOrder lists the tables dependents-first so drops never trip a foreign key.
var dropOrder = []record.Kind{
	record.KindMedicalHistory,
	record.KindSurgeryHistory,
	record.KindPatientProfile,
	record.KindCredential,
	record.KindDiseaseMasterlist,
}

// Store provides durable storage for patient records.
// Uses SQLite with a single connection; every write runs in its own transaction.
type Store struct {
	db      *sqlx.DB
	catalog *catalog.Catalog
	fresh   bool
}

// querier is satisfied by both *sqlx.DB and *sqlx.Tx so reads can run
// inside or outside a write transaction.
type querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and creates missing tables.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	// _foreign_keys is applied by the driver to every new connection.
	db, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	fresh, err := isFresh(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, catalog: catalog.Default(), fresh: fresh}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying handle for raw statements.
// Statements run through it bypass every integrity rule of the store.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Fresh reports whether Open created the schema, i.e. the database had no
// patient tables before.
func (s *Store) Fresh() bool {
	return s.fresh
}

// Catalog returns the schema catalog the store was opened with.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Reset drops the five tables and recreates them empty, in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	const op = "reset"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(op, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	for _, k := range dropOrder {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", k)); err != nil {
			return classify(op, fmt.Errorf("drop %s: %w", k, err))
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return classify(op, fmt.Errorf("create tables: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return classify(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// isFresh reports whether the Credential table is missing.
func isFresh(db *sqlx.DB) (bool, error) {
	var count int
	err := db.Get(&count,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		string(record.KindCredential))
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
