package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/roach88/carebase/internal/catalog"
	"github.com/roach88/carebase/internal/normalize"
	"github.com/roach88/carebase/internal/record"
)

// Conditions identify the patient and the medical-history key an update was
// issued against.
type Conditions struct {
	PatientID   string
	IllnessCode string
}

// InsertPatient writes a new patient: the Credential row, its Patient_Profile
// shadow, and every Medical_History and Surgery_History row derived from the
// record's multi-valued fields. Missing illness codes are added to the
// masterlist. Field contents are not validated.
//
// All writes happen in one transaction.
func (s *Store) InsertPatient(ctx context.Context, rec record.WideRecord) error {
	const op = "insert patient"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(op, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	if err := s.insertRow(ctx, tx, record.KindCredential, rec); err != nil {
		return classify(op, err)
	}
	if err := s.insertRow(ctx, tx, record.KindPatientProfile, rec); err != nil {
		return classify(op, err)
	}
	if err := s.deriveHistories(ctx, tx, rec.PatientNumber(), rec); err != nil {
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// UpdatePatient merges fields over the patient's current wide view and
// rewrites the patient.
//
// Merge is per Credential field: a non-empty value in fields wins, otherwise
// the current value is kept. Credential and Patient_Profile are updated in
// place; the patient's Medical_History and Surgery_History rows are deleted
// and re-derived from the merged record, so the derived set after the update
// is exactly what the merged record describes.
//
// Returns a KindNotFound error if the patient does not exist. The patient
// identifier itself cannot be changed.
func (s *Store) UpdatePatient(ctx context.Context, fields record.WideRecord, cond Conditions) error {
	const op = "update patient"

	if cond.PatientID == "" || cond.IllnessCode == "" {
		return &Error{Kind: KindConstraintViolation, Op: op,
			Message: "patient number and illness code are required for updating"}
	}
	if id := fields.PatientNumber(); id != "" && id != cond.PatientID {
		return &Error{Kind: KindConstraintViolation, Op: op,
			Message: fmt.Sprintf("patient number cannot be changed from %q to %q", cond.PatientID, id)}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(op, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	current, found, err := s.wideView(ctx, tx, cond.PatientID, cond.IllnessCode)
	if err != nil {
		return classify(op, err)
	}
	if !found {
		return &Error{Kind: KindNotFound, Op: op,
			Message: fmt.Sprintf("no record found for patient %q", cond.PatientID)}
	}

	merged := s.merge(current, fields)
	merged[record.FieldPatientNumber] = cond.PatientID

	if err := s.updateRow(ctx, tx, record.KindCredential, merged, cond.PatientID); err != nil {
		return classify(op, err)
	}
	if err := s.updateRow(ctx, tx, record.KindPatientProfile, merged, cond.PatientID); err != nil {
		return classify(op, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM Medical_History WHERE patientNumber = ?", cond.PatientID); err != nil {
		return classify(op, fmt.Errorf("clear medical history: %w", err))
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM Surgery_History WHERE patientNumber = ?", cond.PatientID); err != nil {
		return classify(op, fmt.Errorf("clear surgery history: %w", err))
	}

	if err := s.deriveHistories(ctx, tx, cond.PatientID, merged); err != nil {
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// BatchDelete deletes the Credential rows of the given patients; their
// profile and history rows go with them by cascade. Unknown identifiers are
// ignored. Returns the number of patients removed.
//
// The whole batch is one transaction.
func (s *Store) BatchDelete(ctx context.Context, patientIDs []string) (int64, error) {
	const op = "batch delete"

	if len(patientIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, classify(op, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	query, args, err := sqlx.In("DELETE FROM Credential WHERE patientNumber IN (?)", patientIDs)
	if err != nil {
		return 0, classify(op, fmt.Errorf("build query: %w", err))
	}
	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, classify(op, fmt.Errorf("delete credentials: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify(op, fmt.Errorf("rows affected: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(op, fmt.Errorf("commit: %w", err))
	}
	return n, nil
}

// DeleteDiseaseCodes removes illness codes from the masterlist.
//
// If any of the codes is still referenced by a Medical_History row, nothing is
// deleted and a KindIntegrityViolation error naming every referenced code is
// returned. Returns the number of masterlist rows removed.
func (s *Store) DeleteDiseaseCodes(ctx context.Context, codes []string) (int64, error) {
	const op = "delete disease codes"

	if len(codes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, classify(op, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`
		SELECT DISTINCT illnessCode FROM Medical_History
		WHERE illnessCode IN (?)
		ORDER BY illnessCode`, codes)
	if err != nil {
		return 0, classify(op, fmt.Errorf("build query: %w", err))
	}
	var referenced []string
	if err := sqlx.SelectContext(ctx, tx, &referenced, tx.Rebind(query), args...); err != nil {
		return 0, classify(op, fmt.Errorf("check references: %w", err))
	}
	if len(referenced) > 0 {
		return 0, integrityViolation(op, referenced)
	}

	query, args, err = sqlx.In("DELETE FROM Disease_Masterlist WHERE illnessCode IN (?)", codes)
	if err != nil {
		return 0, classify(op, fmt.Errorf("build query: %w", err))
	}
	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, classify(op, fmt.Errorf("delete codes: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify(op, fmt.Errorf("rows affected: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(op, fmt.Errorf("commit: %w", err))
	}
	return n, nil
}

// InsertDiseaseMasterlistEntry adds a (disease name, illness code) pair.
// A duplicate code is a KindConstraintViolation.
func (s *Store) InsertDiseaseMasterlistEntry(ctx context.Context, name, code string) error {
	const op = "insert disease"

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO Disease_Masterlist (diseaseName, illnessCode) VALUES (?, ?)",
		nullable(name), nullable(code))
	if err != nil {
		return classify(op, fmt.Errorf("insert masterlist: %w", err))
	}
	return nil
}

// deriveHistories is the single derive-and-write step shared by insert and
// update. Items whose key is the sentinel (or empty) produce no row.
func (s *Store) deriveHistories(ctx context.Context, q querier, patientID string, rec record.WideRecord) error {
	illness, ok := s.catalog.Group(catalog.GroupIllness)
	if !ok {
		return fmt.Errorf("catalog has no %q group", catalog.GroupIllness)
	}
	for _, sub := range normalize.Normalize(rec, illness) {
		if sub.Blank(illness.Key) {
			continue
		}
		code := sub[record.FieldIllnessCode]

		// ON CONFLICT DO NOTHING keeps the first name registered for a code.
		if _, err := q.ExecContext(ctx, `
			INSERT INTO Disease_Masterlist (diseaseName, illnessCode)
			VALUES (?, ?)
			ON CONFLICT(illnessCode) DO NOTHING
		`, sub[record.FieldDiseaseName], code); err != nil {
			return fmt.Errorf("upsert masterlist %s: %w", code, err)
		}

		if _, err := q.ExecContext(ctx, `
			INSERT INTO Medical_History
			(patientNumber, illnessCode, detectionDate, medicinesTaken)
			VALUES (?, ?, ?, ?)
		`,
			patientID,
			code,
			sub[record.FieldDetectionDate],
			sub[record.FieldMedicinesTaken],
		); err != nil {
			return fmt.Errorf("insert medical history %s: %w", code, err)
		}
	}

	surgery, ok := s.catalog.Group(catalog.GroupSurgery)
	if !ok {
		return fmt.Errorf("catalog has no %q group", catalog.GroupSurgery)
	}
	for _, sub := range normalize.Normalize(rec, surgery) {
		if sub.Blank(surgery.Key) {
			continue
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO Surgery_History
			(patientNumber, surgeryHistory, surgeryDate)
			VALUES (?, ?, ?)
		`,
			patientID,
			sub[record.FieldSurgeryHistory],
			sub[record.FieldSurgeryDate],
		); err != nil {
			return fmt.Errorf("insert surgery history: %w", err)
		}
	}

	return nil
}

// insertRow inserts rec into the table of kind using the catalog's columns.
func (s *Store) insertRow(ctx context.Context, q querier, kind record.Kind, rec record.WideRecord) error {
	k := s.catalog.MustKind(kind)
	cols := k.Columns()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", kind, strings.Join(cols, ", "), placeholders)

	if _, err := q.ExecContext(ctx, query, columnValues(k, rec)...); err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

// updateRow overwrites every non-key column of the patient's row in kind.
func (s *Store) updateRow(ctx context.Context, q querier, kind record.Kind, rec record.WideRecord, patientID string) error {
	k := s.catalog.MustKind(kind)

	var sets []string
	var args []any
	for _, f := range k.Fields {
		if f.Name == record.FieldPatientNumber {
			continue
		}
		sets = append(sets, f.Name+" = ?")
		args = append(args, fieldValue(f, rec))
	}
	args = append(args, patientID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE patientNumber = ?", kind, strings.Join(sets, ", "))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return nil
}

// merge applies "last non-empty wins" over every Credential field.
func (s *Store) merge(current, fields record.WideRecord) record.WideRecord {
	merged := make(record.WideRecord)
	for _, col := range s.catalog.MustKind(record.KindCredential).Columns() {
		if v := fields.Get(col); v != "" {
			merged[col] = v
		} else {
			merged[col] = current.Get(col)
		}
	}
	return merged
}

func columnValues(k catalog.Kind, rec record.WideRecord) []any {
	values := make([]any, len(k.Fields))
	for i, f := range k.Fields {
		values[i] = fieldValue(f, rec)
	}
	return values
}

// fieldValue returns the value stored for f: the record's value, else the
// catalog default, else NULL.
func fieldValue(f catalog.Field, rec record.WideRecord) any {
	if v := rec.Get(f.Name); v != "" {
		return v
	}
	if f.Default != "" {
		return f.Default
	}
	return nil
}

// nullable maps "" to NULL so NOT NULL columns reject missing values.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
