package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/carebase/internal/catalog"
	"github.com/roach88/carebase/internal/record"
)

// RecordInput holds the flags that describe a wide record.
type RecordInput struct {
	Sets []string // field=value assignments
	File string   // YAML mapping of field: value
}

// Record builds the wide record: file values first, then --set assignments
// in order. Only Credential fields are accepted.
func (in RecordInput) Record() (record.WideRecord, error) {
	rec := record.WideRecord{}

	if in.File != "" {
		data, err := os.ReadFile(in.File)
		if err != nil {
			return nil, usageErrorf("read record file: %v", err)
		}
		var fromFile map[string]string
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, usageErrorf("parse record file %s: %v", in.File, err)
		}
		for k, v := range fromFile {
			rec[k] = v
		}
	}

	for _, s := range in.Sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, usageErrorf("invalid --set %q: want field=value", s)
		}
		rec[strings.TrimSpace(field)] = value
	}

	cred := catalog.Default().MustKind(record.KindCredential)
	for field := range rec {
		if _, ok := cred.Field(field); !ok {
			return nil, usageErrorf("unknown field %q (want one of %s)", field, strings.Join(cred.Columns(), ", "))
		}
	}
	return rec, nil
}

// kindNames lists the record kinds for help and error text.
func kindNames() string {
	names := make([]string, len(record.Kinds))
	for i, k := range record.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// credentialOrder returns the Credential field order used to print records.
func credentialOrder() []string {
	return catalog.Default().MustKind(record.KindCredential).Columns()
}

func pluralize(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
