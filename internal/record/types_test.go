package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"Credential", KindCredential, true},
		{"credential", KindCredential, true},
		{"patient profile", KindPatientProfile, true},
		{" MEDICAL_HISTORY ", KindMedicalHistory, true},
		{"Surgery_History", KindSurgeryHistory, true},
		{"disease_masterlist", KindDiseaseMasterlist, true},
		{"Billing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWideRecordGetOnNil(t *testing.T) {
	var r WideRecord
	assert.Equal(t, "", r.Get(FieldPatientNumber))
}

func TestWideRecordClone(t *testing.T) {
	r := WideRecord{FieldPatientNumber: "1"}
	c := r.Clone()
	c[FieldPatientNumber] = "2"
	assert.Equal(t, "1", r.PatientNumber())
	assert.Equal(t, "2", c.PatientNumber())
}

func TestCredentialWideHasEveryField(t *testing.T) {
	w := Credential{PatientNumber: "7", IllnessCode: "TB"}.Wide()
	assert.Len(t, w, 16)
	assert.Equal(t, "7", w[FieldPatientNumber])
	assert.Equal(t, "TB", w[FieldIllnessCode])
	assert.Equal(t, "", w[FieldSurgeryDate])
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, "CU", CodeFor(CivilStatusCodes, "civil union"))
	assert.Equal(t, "M", CodeFor(CivilStatusCodes, "M"))
	assert.Equal(t, "JHS", CodeFor(EducationCodes, "Junior High School"))
	assert.Equal(t, "XYZ", CodeFor(EducationCodes, "XYZ"))
}
