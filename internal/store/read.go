package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/roach88/carebase/internal/normalize"
	"github.com/roach88/carebase/internal/record"
)

// FetchAll returns every row of one record kind, columns in the catalog's
// declared order and rows in insertion order. NULL cells are returned as "".
//
// Returns an empty Rows slice (not nil) if the table is empty.
func (s *Store) FetchAll(ctx context.Context, kind record.Kind) (*record.Table, error) {
	const op = "fetch all"

	k, ok := s.catalog.Kind(kind)
	if !ok {
		return nil, &Error{Kind: KindConstraintViolation, Op: op, Message: fmt.Sprintf("unknown record kind %q", kind)}
	}
	cols := k.Columns()

	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid ASC", strings.Join(exprs, ", "), kind)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(op, fmt.Errorf("query %s: %w", kind, err))
	}
	defer rows.Close()

	table := &record.Table{Kind: kind, Columns: cols, Rows: [][]string{}}
	for rows.Next() {
		row := make([]string, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, classify(op, fmt.Errorf("scan %s: %w", kind, err))
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, fmt.Errorf("iterate %s: %w", kind, err))
	}

	return table, nil
}

// GetCurrentWideView reconstructs a Credential-shaped record for one patient.
//
// The Credential row is the base. If a Medical_History row exists for
// (patientID, illnessCode) its code, detection date, and medicines, plus the
// masterlist disease name, replace the base's illness fields. If the patient
// has any Surgery_History rows they replace the surgery fields, joined with
// ", " in surgeryID order.
//
// found is false when the patient does not exist; that is not an error.
func (s *Store) GetCurrentWideView(ctx context.Context, patientID, illnessCode string) (view record.WideRecord, found bool, err error) {
	view, found, err = s.wideView(ctx, s.db, patientID, illnessCode)
	if err != nil {
		return nil, false, classify("current wide view", err)
	}
	return view, found, nil
}

// ReadMedicalHistory returns a patient's medical history with masterlist
// disease names, ordered by illness code.
func (s *Store) ReadMedicalHistory(ctx context.Context, patientID string) ([]record.MedicalHistoryEntry, error) {
	entries, err := readMedicalHistory(ctx, s.db, patientID)
	if err != nil {
		return nil, classify("read medical history", err)
	}
	return entries, nil
}

// ReadSurgeryHistory returns a patient's surgeries in surgeryID order.
func (s *Store) ReadSurgeryHistory(ctx context.Context, patientID string) ([]record.SurgeryHistoryEntry, error) {
	entries, err := readSurgeryHistory(ctx, s.db, patientID)
	if err != nil {
		return nil, classify("read surgery history", err)
	}
	return entries, nil
}

func (s *Store) wideView(ctx context.Context, q querier, patientID, illnessCode string) (record.WideRecord, bool, error) {
	cols := s.catalog.MustKind(record.KindCredential).Columns()
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = fmt.Sprintf("COALESCE(%s, '') AS %s", c, c)
	}

	var cred record.Credential
	err := sqlx.GetContext(ctx, q, &cred,
		fmt.Sprintf("SELECT %s FROM Credential WHERE patientNumber = ?", strings.Join(exprs, ", ")),
		patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read credential: %w", err)
	}
	view := cred.Wide()

	var med record.MedicalHistoryEntry
	err = sqlx.GetContext(ctx, q, &med, `
		SELECT m.patientNumber,
		       m.illnessCode,
		       COALESCE(d.diseaseName, '') AS diseaseName,
		       COALESCE(m.detectionDate, '') AS detectionDate,
		       COALESCE(m.medicinesTaken, '') AS medicinesTaken
		FROM Medical_History m
		LEFT JOIN Disease_Masterlist d ON d.illnessCode = m.illnessCode
		WHERE m.patientNumber = ? AND m.illnessCode = ?
	`, patientID, illnessCode)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Credential-only view
	case err != nil:
		return nil, false, fmt.Errorf("read medical history: %w", err)
	default:
		view[record.FieldIllnessCode] = med.IllnessCode
		view[record.FieldDiseaseName] = med.DiseaseName
		view[record.FieldDetectionDate] = med.DetectionDate
		view[record.FieldMedicinesTaken] = med.MedicinesTaken
	}

	surgeries, err := readSurgeryHistory(ctx, q, patientID)
	if err != nil {
		return nil, false, err
	}
	if len(surgeries) > 0 {
		histories := make([]string, len(surgeries))
		dates := make([]string, len(surgeries))
		for i, sg := range surgeries {
			histories[i] = sg.SurgeryHistory
			dates[i] = sg.SurgeryDate
		}
		view[record.FieldSurgeryHistory] = normalize.Join(histories)
		view[record.FieldSurgeryDate] = normalize.Join(dates)
	}

	return view, true, nil
}

func readMedicalHistory(ctx context.Context, q querier, patientID string) ([]record.MedicalHistoryEntry, error) {
	entries := []record.MedicalHistoryEntry{}
	err := sqlx.SelectContext(ctx, q, &entries, `
		SELECT m.patientNumber,
		       m.illnessCode,
		       COALESCE(d.diseaseName, '') AS diseaseName,
		       COALESCE(m.detectionDate, '') AS detectionDate,
		       COALESCE(m.medicinesTaken, '') AS medicinesTaken
		FROM Medical_History m
		LEFT JOIN Disease_Masterlist d ON d.illnessCode = m.illnessCode
		WHERE m.patientNumber = ?
		ORDER BY m.illnessCode ASC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("read medical history: %w", err)
	}
	return entries, nil
}

func readSurgeryHistory(ctx context.Context, q querier, patientID string) ([]record.SurgeryHistoryEntry, error) {
	entries := []record.SurgeryHistoryEntry{}
	err := sqlx.SelectContext(ctx, q, &entries, `
		SELECT surgeryID,
		       patientNumber,
		       COALESCE(surgeryHistory, '') AS surgeryHistory,
		       COALESCE(surgeryDate, '') AS surgeryDate
		FROM Surgery_History
		WHERE patientNumber = ?
		ORDER BY surgeryID ASC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("read surgery history: %w", err)
	}
	return entries, nil
}
