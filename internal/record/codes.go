package record

import "strings"

// CivilStatusCodes maps civil status labels to their stored codes.
var CivilStatusCodes = map[string]string{
	"Single":      "S",
	"Married":     "M",
	"Engaged":     "E",
	"Civil Union": "CU",
	"Widow(er)":   "W",
	"Lives Alone": "LA",
	"Separated":   "SP",
}

// EducationCodes maps education labels to their stored codes.
var EducationCodes = map[string]string{
	"None":               "N",
	"Preschool":          "P",
	"Grade School":       "GS",
	"Junior High School": "JHS",
	"Senior High School": "SHS",
	"Undergraduate":      "UG",
	"Masters":            "MA",
	"Doctorate":          "DR",
}

// CodeFor resolves value against a label-to-code mapping.
// A label (matched ignoring case) yields its code; anything else is returned unchanged,
// so codes pass through as-is.
func CodeFor(mapping map[string]string, value string) string {
	for label, code := range mapping {
		if strings.EqualFold(label, value) {
			return code
		}
	}
	return value
}
