package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/carebase/internal/record"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if !s.Fresh() {
		t.Error("new database should be fresh")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if err := s1.InsertDiseaseMasterlistEntry(context.Background(), "Flu", "FL"); err != nil {
		t.Fatalf("InsertDiseaseMasterlistEntry() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	if s2.Fresh() {
		t.Error("reopened database should not be fresh")
	}
	if n := countRows(t, s2, "SELECT COUNT(*) FROM Disease_Masterlist"); n != 1 {
		t.Errorf("masterlist rows = %d, want 1 (data must survive reopen)", n)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range record.Kinds {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			string(table),
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	path := "/nonexistent/dir/test.db"

	_, err := Open(path)
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

// Pragma tests

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_ForeignKeys(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("foreign_keys", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestSchema_MatchesCatalog(t *testing.T) {
	s := createTestStore(t)

	for _, kind := range s.Catalog().Kinds {
		rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", string(kind.Name))
		if err != nil {
			t.Fatalf("table_info(%s) failed: %v", kind.Name, err)
		}
		columns := map[string]bool{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			columns[name] = true
		}
		rows.Close()

		for _, col := range kind.Columns() {
			if !columns[col] {
				t.Errorf("table %s lacks catalog column %s", kind.Name, col)
			}
		}
	}
}

func TestReset_EmptiesEveryTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestPatient())

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	for _, kind := range record.Kinds {
		if n := countRows(t, s, "SELECT COUNT(*) FROM "+string(kind)); n != 0 {
			t.Errorf("%s has %d rows after reset, want 0", kind, n)
		}
	}

	// Tables are usable again
	mustInsert(t, s, createTestPatient())
}

func TestReset_RestartsSurgeryIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestPatient())

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	mustInsert(t, s, createTestPatient())

	surgeries, err := s.ReadSurgeryHistory(ctx, "10")
	if err != nil {
		t.Fatalf("ReadSurgeryHistory() failed: %v", err)
	}
	if len(surgeries) != 1 || surgeries[0].SurgeryID != 1 {
		t.Errorf("surgeries = %+v, want a single row with surgeryID 1", surgeries)
	}
}
