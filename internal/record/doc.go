// Package record provides the record types shared by every carebase package.
//
// This package contains type definitions only. All other internal packages
// import record; record imports nothing internal.
//
// Key conventions:
//   - Field names are the persisted column names (camelCase, e.g. patientNumber)
//   - A WideRecord holds multi-valued fields comma-joined ("TB, SH")
//   - The literal NoData ("N/A") fills positions missing from a multi-valued field
package record
