package gateway

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/carebase/internal/record"
	"github.com/roach88/carebase/internal/store"
)

func newTestGateway(t *testing.T) (*Gateway, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s.DB()), s
}

func TestIsRead(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"SELECT 1", true},
		{"  select * from Credential", true},
		{"\n\tWITH x AS (SELECT 1) SELECT * FROM x", true},
		{"pragma foreign_keys", true},
		{"EXPLAIN QUERY PLAN SELECT 1", true},
		{"VALUES (1), (2)", true},
		{"SELECT(1)", true},
		{"INSERT INTO Disease_Masterlist VALUES ('a', 'b')", false},
		{"DELETE FROM Credential", false},
		{"selected", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRead(tt.stmt), "IsRead(%q)", tt.stmt)
	}
}

func TestExecute_EmptyStatement(t *testing.T) {
	g, _ := newTestGateway(t)

	_, err := g.Execute(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ErrEmptyStatement)
}

func TestExecute_WriteThenRead(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	res, err := g.Execute(ctx, `INSERT INTO Disease_Masterlist (diseaseName, illnessCode)
		VALUES ('Flu', 'FL'), ('Cold', 'CD')`)
	require.NoError(t, err)
	assert.False(t, res.Read)
	assert.Equal(t, int64(2), res.RowsAffected)

	res, err = g.Execute(ctx, "SELECT illnessCode, diseaseName FROM Disease_Masterlist ORDER BY illnessCode")
	require.NoError(t, err)
	assert.True(t, res.Read)
	assert.Equal(t, []string{"illnessCode", "diseaseName"}, res.Columns)
	assert.Equal(t, [][]string{{"CD", "Cold"}, {"FL", "Flu"}}, res.Rows)
}

func TestExecute_RendersTypesAsText(t *testing.T) {
	g, _ := newTestGateway(t)

	res, err := g.Execute(context.Background(), "SELECT 42, 1.5, NULL, 'text'")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"42", "1.5", "", "text"}, res.Rows[0])
}

func TestExecute_EmptyResultIsNotNil(t *testing.T) {
	g, _ := newTestGateway(t)

	res, err := g.Execute(context.Background(), "SELECT * FROM Credential")
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.Len(t, res.Columns, 16)
}

func TestExecute_SeesStoreWrites(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPatient(ctx, record.WideRecord{
		record.FieldPatientNumber: "7",
		record.FieldPatientName:   "Lin Ocampo",
		record.FieldIllnessCode:   "TB",
		record.FieldDiseaseName:   "Tuberculosis",
	}))

	res, err := g.Execute(ctx, "SELECT patientNumber, illnessCode FROM Medical_History")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"7", "TB"}}, res.Rows)
}

func TestExecute_BypassesStoreRules(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	// A direct Credential insert creates no profile or history rows.
	_, err := g.Execute(ctx, "INSERT INTO Credential (patientNumber, patientName, illnessCode) VALUES ('8', 'Raw', 'XX')")
	require.NoError(t, err)

	profiles, err := s.FetchAll(ctx, record.KindPatientProfile)
	require.NoError(t, err)
	assert.Empty(t, profiles.Rows)
}

func TestExecute_EngineErrorsSurface(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.Execute(ctx, "SELECT * FROM NoSuchTable")
	assert.Error(t, err)

	// Foreign keys still apply: the history row needs a Credential.
	_, err = g.Execute(ctx, "INSERT INTO Surgery_History (patientNumber, surgeryHistory) VALUES ('99', 'X')")
	assert.Error(t, err)
}
