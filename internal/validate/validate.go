// Package validate checks patient records before they reach the store.
//
// The store accepts any field contents; width limits, identifier shape and
// date formats are enforced here. Validation returns a cleaned copy of the
// record: values trimmed, dates rewritten to YYYY-MM-DD, civil status and
// education labels replaced by their codes.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/carebase/internal/record"
)

const (
	tagDate     = "carebase_date"
	tagDateList = "carebase_datelist"

	layoutInput  = "1/2/2006"
	layoutStored = "2006-01-02"
)

// rule binds a field to a validator tag string.
type rule struct {
	field string
	tag   string
}

// recordRules are checked in order; errors are reported in the same order.
var recordRules = []rule{
	{record.FieldPatientNumber, "required,number,max=5"},
	{record.FieldPatientName, "required,max=150"},
	{record.FieldBirthDate, "omitempty," + tagDate},
	{record.FieldOccupation, "max=60"},
	{record.FieldReligion, "max=60"},
	{record.FieldIllnessCode, "max=30"},
	{record.FieldDiseaseName, "max=120"},
	{record.FieldDetectionDate, "omitempty," + tagDateList},
	{record.FieldMedicinesTaken, "max=120"},
	{record.FieldSurgeryHistory, "max=120"},
	{record.FieldSurgeryDate, "omitempty," + tagDateList},
	{record.FieldContact, "max=60"},
	{record.FieldEmergencyPhone, "max=14"},
	{record.FieldRelationship, "max=60"},
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	if err := val.RegisterValidation(tagDate, func(fl validator.FieldLevel) bool {
		_, ok := normalizeDate(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	if err := val.RegisterValidation(tagDateList, func(fl validator.FieldLevel) bool {
		_, ok := normalizeDateList(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return val
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid record: " + strings.Join(msgs, "; ")
}

// IsValidation returns true if err carries field validation failures.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Record validates a complete record for insertion.
// The patient number and name are required.
func Record(rec record.WideRecord) (record.WideRecord, error) {
	return check(rec, false)
}

// Partial validates the fields of an update. Empty fields mean "keep the
// stored value" and are not checked, so nothing is required.
func Partial(fields record.WideRecord) (record.WideRecord, error) {
	return check(fields, true)
}

// MasterlistEntry validates a (disease name, illness code) pair and returns
// the trimmed values.
func MasterlistEntry(name, code string) (string, string, error) {
	name, code = strings.TrimSpace(name), strings.TrimSpace(code)

	var errs []FieldError
	for _, r := range []rule{
		{record.FieldDiseaseName, "required,max=120"},
		{record.FieldIllnessCode, "required,max=30"},
	} {
		value := name
		if r.field == record.FieldIllnessCode {
			value = code
		}
		errs = append(errs, checkField(r, value)...)
	}
	if len(errs) > 0 {
		return "", "", &Error{Fields: errs}
	}
	return name, code, nil
}

func check(rec record.WideRecord, partial bool) (record.WideRecord, error) {
	out := make(record.WideRecord, len(rec))
	for k, val := range rec {
		out[k] = strings.TrimSpace(val)
	}

	var errs []FieldError
	for _, r := range recordRules {
		value := out.Get(r.field)
		if partial {
			if value == "" {
				continue
			}
			r.tag = strings.TrimPrefix(r.tag, "required,")
		}
		errs = append(errs, checkField(r, value)...)
	}
	if len(errs) > 0 {
		return nil, &Error{Fields: errs}
	}

	if d := out.Get(record.FieldBirthDate); d != "" {
		out[record.FieldBirthDate], _ = normalizeDate(d)
	}
	for _, field := range []string{record.FieldDetectionDate, record.FieldSurgeryDate} {
		if d := out.Get(field); d != "" {
			out[field], _ = normalizeDateList(d)
		}
	}
	if cs := out.Get(record.FieldCivilStatus); cs != "" {
		out[record.FieldCivilStatus] = record.CodeFor(record.CivilStatusCodes, cs)
	}
	if ed := out.Get(record.FieldEducation); ed != "" {
		out[record.FieldEducation] = record.CodeFor(record.EducationCodes, ed)
	}

	return out, nil
}

func checkField(r rule, value string) []FieldError {
	err := v.Var(value, r.tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: r.field, Rule: "invalid", Message: fmt.Sprintf("%s: %v", r.field, err)}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   r.field,
			Rule:    fe.Tag(),
			Message: message(r.field, fe),
		})
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "number":
		return field + " must contain digits only"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case tagDate:
		return field + " must be MM/DD/YYYY, YYYY-MM-DD or n/a"
	case tagDateList:
		return "each " + field + " must be MM/DD/YYYY, YYYY-MM-DD or n/a"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// normalizeDate rewrites MM/DD/YYYY to YYYY-MM-DD. ISO dates and "n/a" in
// any case are returned unchanged.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "n/a") {
		return s, true
	}
	if t, err := time.Parse(layoutInput, s); err == nil {
		return t.Format(layoutStored), true
	}
	if _, err := time.Parse(layoutStored, s); err == nil {
		return s, true
	}
	return "", false
}

// normalizeDateList applies normalizeDate to every comma-separated item and
// rejoins them with ", ".
func normalizeDateList(s string) (string, bool) {
	items := strings.Split(s, ",")
	for i, item := range items {
		d, ok := normalizeDate(item)
		if !ok {
			return "", false
		}
		items[i] = d
	}
	return strings.Join(items, ", "), true
}
