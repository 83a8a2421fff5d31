// Package catalog describes the five record kinds carebase persists and the
// multi-valued field groups that travel together on a wide record.
//
// The catalog is declared in catalog.cue (embedded) and decoded once with the
// CUE SDK. It has no behavior beyond lookups; the store, the normalizer, and
// the CLI all read column orders and groups from here.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/carebase/internal/record"
)

//go:embed catalog.cue
var catalogCUE string

// Group names declared by the embedded catalog.
const (
	GroupIllness = "illness"
	GroupSurgery = "surgery"
)

// Field describes one column of a record kind.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	// Width is the declared column width; 0 means unbounded.
	Width    int    `json:"width"`
	Default  string `json:"default"`
	Required bool   `json:"required"`
	// Multi marks comma-joined fields on the wide record.
	Multi bool `json:"multi"`
}

// Kind describes one persisted record kind.
type Kind struct {
	Name   record.Kind `json:"name"`
	Key    []string    `json:"key"`
	Fields []Field     `json:"fields"`
}

// Columns returns the field names in declared order.
func (k Kind) Columns() []string {
	cols := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Field looks up a field by name.
func (k Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Group is a set of wide-record fields whose comma-joined items align
// positionally. Key is the field whose sentinel marks an empty item.
type Group struct {
	Name   string   `json:"name"`
	Key    string   `json:"key"`
	Fields []string `json:"fields"`
}

// Catalog is the decoded schema description.
type Catalog struct {
	Kinds  []Kind  `json:"kinds"`
	Groups []Group `json:"groups"`
}

// Kind looks up a record kind.
func (c *Catalog) Kind(k record.Kind) (Kind, bool) {
	for _, kind := range c.Kinds {
		if kind.Name == k {
			return kind, true
		}
	}
	return Kind{}, false
}

// MustKind looks up a record kind and panics if the catalog lacks it.
// Load guarantees every record.Kinds entry is present.
func (c *Catalog) MustKind(k record.Kind) Kind {
	kind, ok := c.Kind(k)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown kind %q", k))
	}
	return kind
}

// Group looks up a multi-valued field group by name.
func (c *Catalog) Group(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog decoded from the embedded catalog.cue.
// It panics if the embedded document is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(catalogCUE)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog.cue: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load compiles a CUE catalog document and checks its internal consistency.
func Load(src string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("catalog.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{}
	kindsVal := v.LookupPath(cue.ParsePath("kinds"))
	if !kindsVal.Exists() {
		return nil, &LoadError{Field: "kinds", Message: "kinds are required", Pos: v.Pos()}
	}
	if err := kindsVal.Decode(&c.Kinds); err != nil {
		return nil, formatCUEError(err)
	}

	groupsVal := v.LookupPath(cue.ParsePath("groups"))
	if groupsVal.Exists() {
		if err := groupsVal.Decode(&c.Groups); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// check verifies that every record kind is declared once, keys name declared
// fields, and every group field lives on Credential.
func (c *Catalog) check() error {
	seen := make(map[record.Kind]bool, len(c.Kinds))
	for _, k := range c.Kinds {
		if seen[k.Name] {
			return &LoadError{Field: "kinds", Message: fmt.Sprintf("kind %q declared twice", k.Name)}
		}
		seen[k.Name] = true
		for _, key := range k.Key {
			if _, ok := k.Field(key); !ok {
				return &LoadError{
					Field:   fmt.Sprintf("kinds.%s.key", k.Name),
					Message: fmt.Sprintf("key %q is not a declared field", key),
				}
			}
		}
	}
	for _, k := range record.Kinds {
		if !seen[k] {
			return &LoadError{Field: "kinds", Message: fmt.Sprintf("kind %q is missing", k)}
		}
	}

	cred := c.MustKind(record.KindCredential)
	for _, g := range c.Groups {
		keyed := false
		for _, name := range g.Fields {
			f, ok := cred.Field(name)
			if !ok {
				return &LoadError{
					Field:   fmt.Sprintf("groups.%s", g.Name),
					Message: fmt.Sprintf("field %q is not a Credential field", name),
				}
			}
			if !f.Multi {
				return &LoadError{
					Field:   fmt.Sprintf("groups.%s", g.Name),
					Message: fmt.Sprintf("field %q is not multi-valued", name),
				}
			}
			if name == g.Key {
				keyed = true
			}
		}
		if !keyed {
			return &LoadError{
				Field:   fmt.Sprintf("groups.%s.key", g.Name),
				Message: fmt.Sprintf("key %q is not one of the group fields", g.Key),
			}
		}
	}
	return nil
}

// LoadError represents a catalog error with source position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
