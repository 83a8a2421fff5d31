// Package store provides SQLite-backed storage for carebase patient records.
//
// A patient lives in two shapes at once:
//   - Credential: one wide row per patient with illness and surgery fields comma-joined
//   - Patient_Profile, Medical_History, Surgery_History: the normalized rows derived from it
//
// Disease_Masterlist holds the canonical illness codes shared by every patient.
//
// # Write Path
//
// Insert and update share a single derive-and-write step: the Credential's
// multi-valued fields are aligned by package normalize and each non-sentinel
// item becomes a Medical_History or Surgery_History row. The normalized rows
// are never edited directly; an update replaces the patient's whole derived
// set.
//
// # Integrity
//
//   - Deleting a Credential cascades to every dependent row (ON DELETE CASCADE)
//   - A Medical_History code must exist in Disease_Masterlist; the store
//     creates missing codes during derive-and-write
//   - A masterlist code still referenced by Medical_History cannot be deleted;
//     DeleteDiseaseCodes reports every offending code
//
// Every public write runs in its own transaction and either commits as a
// whole or rolls back as a whole.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: required for the cascade rules
//   - a single open connection
package store
