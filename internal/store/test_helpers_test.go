package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/carebase/internal/record"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPatient returns patient "10" with two illnesses and one surgery.
func createTestPatient() record.WideRecord {
	return record.WideRecord{
		record.FieldPatientNumber:  "10",
		record.FieldPatientName:    "Ada Reyes",
		record.FieldBirthDate:      "1990-05-01",
		record.FieldCivilStatus:    "M",
		record.FieldOccupation:     "Nurse",
		record.FieldReligion:       "None",
		record.FieldEducation:      "UG",
		record.FieldIllnessCode:    "AB, CD",
		record.FieldDiseaseName:    "Flu, Cold",
		record.FieldDetectionDate:  "2020-01-01, 2020-02-02",
		record.FieldMedicinesTaken: "X, Y",
		record.FieldSurgeryHistory: "Appendectomy",
		record.FieldSurgeryDate:    "2019-03-03",
		record.FieldContact:        "Ben Reyes",
		record.FieldEmergencyPhone: "+639150000000",
		record.FieldRelationship:   "Spouse",
	}
}

// mustInsert inserts rec or fails the test.
func mustInsert(t *testing.T, s *Store, rec record.WideRecord) {
	t.Helper()
	if err := s.InsertPatient(context.Background(), rec); err != nil {
		t.Fatalf("InsertPatient(%s) failed: %v", rec.PatientNumber(), err)
	}
}

// countRows runs a COUNT(*) query.
func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
