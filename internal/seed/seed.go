// Package seed loads the canonical patients into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/carebase/internal/record"
)

//go:embed seed.yaml
var seedYAML []byte

// Writer is the subset of the record store the loader needs.
type Writer interface {
	Reset(ctx context.Context) error
	InsertPatient(ctx context.Context, rec record.WideRecord) error
}

type document struct {
	Patients []record.WideRecord `yaml:"patients"`
}

// Records returns the canonical patients in load order.
func Records() ([]record.WideRecord, error) {
	return Parse(seedYAML)
}

// Parse decodes a seed document: a top-level "patients" list of wide records.
func Parse(data []byte) ([]record.WideRecord, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, rec := range doc.Patients {
		if rec.PatientNumber() == "" {
			return nil, fmt.Errorf("parse seed: patient %d has no %s", i, record.FieldPatientNumber)
		}
	}
	return doc.Patients, nil
}

// Load drops and recreates every table, then inserts the canonical patients
// through the normal insert path so their history rows are derived.
// A nil logger uses slog.Default().
func Load(ctx context.Context, w Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	records, err := Records()
	if err != nil {
		return err
	}

	if err := w.Reset(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	for _, rec := range records {
		if err := w.InsertPatient(ctx, rec); err != nil {
			return fmt.Errorf("seed patient %s: %w", rec.PatientNumber(), err)
		}
		logger.Debug("seeded patient", "patient", rec.PatientNumber())
	}

	logger.Info("database seeded", "patients", len(records))
	return nil
}
