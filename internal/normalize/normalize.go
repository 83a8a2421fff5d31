// Package normalize splits the comma-joined multi-valued fields of a wide
// record into positionally aligned sub-records.
//
// Alignment is ragged-to-rectangular: a group yields as many sub-records as
// its longest field has items, and shorter fields are padded with
// record.NoData. Item counts are never validated.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/carebase/internal/catalog"
	"github.com/roach88/carebase/internal/record"
)

// SubRecord holds one aligned item per group field.
type SubRecord map[string]string

// Blank reports whether the sub-record's value for field is the sentinel or empty.
func (s SubRecord) Blank(field string) bool {
	v := s[field]
	return v == "" || v == record.NoData
}

// Split breaks a comma-joined value into trimmed, NFC-normalized items.
// An empty or whitespace-only value has no items.
func Split(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, len(parts))
	for i, p := range parts {
		items[i] = norm.NFC.String(strings.TrimSpace(p))
	}
	return items
}

// Join is the inverse of Split for display: items joined with ", ".
func Join(items []string) string {
	return strings.Join(items, ", ")
}

// Normalize aligns the fields of one group on rec.
// The result is empty (never nil) when no group field is present.
func Normalize(rec record.WideRecord, g catalog.Group) []SubRecord {
	values := make(map[string][]string, len(g.Fields))
	n := 0
	for _, field := range g.Fields {
		items := Split(rec.Get(field))
		values[field] = items
		if len(items) > n {
			n = len(items)
		}
	}

	out := make([]SubRecord, n)
	for i := 0; i < n; i++ {
		sub := make(SubRecord, len(g.Fields))
		for _, field := range g.Fields {
			items := values[field]
			if i < len(items) {
				sub[field] = items[i]
			} else {
				sub[field] = record.NoData
			}
		}
		out[i] = sub
	}
	return out
}

// All normalizes every group, keyed by group name.
func All(rec record.WideRecord, groups []catalog.Group) map[string][]SubRecord {
	out := make(map[string][]SubRecord, len(groups))
	for _, g := range groups {
		out[g.Name] = Normalize(rec, g)
	}
	return out
}
