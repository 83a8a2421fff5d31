package record

import "strings"

// NoData is the sentinel that fills a position missing from a multi-valued field.
const NoData = "N/A"

// Kind identifies one of the five persisted record kinds.
// The value is the table name.
type Kind string

const (
	KindCredential        Kind = "Credential"
	KindPatientProfile    Kind = "Patient_Profile"
	KindMedicalHistory    Kind = "Medical_History"
	KindSurgeryHistory    Kind = "Surgery_History"
	KindDiseaseMasterlist Kind = "Disease_Masterlist"
)

// Kinds lists every record kind in dependency order (owners first).
var Kinds = []Kind{
	KindCredential,
	KindPatientProfile,
	KindMedicalHistory,
	KindSurgeryHistory,
	KindDiseaseMasterlist,
}

// ParseKind resolves a kind by table name, ignoring case.
// Spaces are accepted in place of underscores ("patient profile").
func ParseKind(s string) (Kind, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	for _, k := range Kinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// Field names as persisted.
const (
	FieldPatientNumber  = "patientNumber"
	FieldPatientName    = "patientName"
	FieldBirthDate      = "birthDate"
	FieldCivilStatus    = "civilStatus"
	FieldOccupation     = "occupation"
	FieldReligion       = "religion"
	FieldEducation      = "education"
	FieldIllnessCode    = "illnessCode"
	FieldDiseaseName    = "diseaseName"
	FieldDetectionDate  = "detectionDate"
	FieldMedicinesTaken = "medicinesTaken"
	FieldSurgeryHistory = "surgeryHistory"
	FieldSurgeryDate    = "surgeryDate"
	FieldContact        = "contact"
	FieldEmergencyPhone = "emergencyPhone"
	FieldRelationship   = "relationship"
	FieldSurgeryID      = "surgeryID"
)

// WideRecord is a single patient record keyed by field name.
// Illness and surgery fields are comma-joined to carry several occurrences.
// A missing key and an empty value are equivalent.
type WideRecord map[string]string

// Get returns the value of field, or "" when absent.
func (r WideRecord) Get(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

// Clone returns a shallow copy of the record.
func (r WideRecord) Clone() WideRecord {
	out := make(WideRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PatientNumber returns the patient identifier of the record.
func (r WideRecord) PatientNumber() string {
	return r.Get(FieldPatientNumber)
}

// Credential is the authoritative wide row for one patient.
type Credential struct {
	PatientNumber  string `db:"patientNumber" json:"patientNumber"`
	PatientName    string `db:"patientName" json:"patientName"`
	BirthDate      string `db:"birthDate" json:"birthDate"`
	CivilStatus    string `db:"civilStatus" json:"civilStatus"`
	Occupation     string `db:"occupation" json:"occupation"`
	Religion       string `db:"religion" json:"religion"`
	Education      string `db:"education" json:"education"`
	IllnessCode    string `db:"illnessCode" json:"illnessCode"`
	DiseaseName    string `db:"diseaseName" json:"diseaseName"`
	DetectionDate  string `db:"detectionDate" json:"detectionDate"`
	MedicinesTaken string `db:"medicinesTaken" json:"medicinesTaken"`
	SurgeryHistory string `db:"surgeryHistory" json:"surgeryHistory"`
	SurgeryDate    string `db:"surgeryDate" json:"surgeryDate"`
	Contact        string `db:"contact" json:"contact"`
	EmergencyPhone string `db:"emergencyPhone" json:"emergencyPhone"`
	Relationship   string `db:"relationship" json:"relationship"`
}

// Wide converts the row into a WideRecord holding every Credential field.
func (c Credential) Wide() WideRecord {
	return WideRecord{
		FieldPatientNumber:  c.PatientNumber,
		FieldPatientName:    c.PatientName,
		FieldBirthDate:      c.BirthDate,
		FieldCivilStatus:    c.CivilStatus,
		FieldOccupation:     c.Occupation,
		FieldReligion:       c.Religion,
		FieldEducation:      c.Education,
		FieldIllnessCode:    c.IllnessCode,
		FieldDiseaseName:    c.DiseaseName,
		FieldDetectionDate:  c.DetectionDate,
		FieldMedicinesTaken: c.MedicinesTaken,
		FieldSurgeryHistory: c.SurgeryHistory,
		FieldSurgeryDate:    c.SurgeryDate,
		FieldContact:        c.Contact,
		FieldEmergencyPhone: c.EmergencyPhone,
		FieldRelationship:   c.Relationship,
	}
}

// MedicalHistoryEntry is one illness occurrence for a patient.
// DiseaseName is not persisted on the row; readers fill it from the masterlist.
type MedicalHistoryEntry struct {
	PatientNumber  string `db:"patientNumber" json:"patientNumber"`
	IllnessCode    string `db:"illnessCode" json:"illnessCode"`
	DiseaseName    string `db:"diseaseName" json:"diseaseName,omitempty"`
	DetectionDate  string `db:"detectionDate" json:"detectionDate"`
	MedicinesTaken string `db:"medicinesTaken" json:"medicinesTaken"`
}

// SurgeryHistoryEntry is one surgery event for a patient.
type SurgeryHistoryEntry struct {
	SurgeryID      int64  `db:"surgeryID" json:"surgeryID"`
	PatientNumber  string `db:"patientNumber" json:"patientNumber"`
	SurgeryHistory string `db:"surgeryHistory" json:"surgeryHistory"`
	SurgeryDate    string `db:"surgeryDate" json:"surgeryDate"`
}

// DiseaseMasterlistEntry is a canonical (disease name, illness code) pair.
type DiseaseMasterlistEntry struct {
	DiseaseName string `db:"diseaseName" json:"diseaseName"`
	IllnessCode string `db:"illnessCode" json:"illnessCode"`
}

// Table is the full content of one record kind.
// Columns follow the kind's declared field order; every row has len(Columns) cells.
type Table struct {
	Kind    Kind       `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
