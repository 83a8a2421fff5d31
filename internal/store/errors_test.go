package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := &Error{Kind: KindStorageFault, Op: "fetch all", Err: errors.New("disk I/O error")}
	assert.Equal(t, "fetch all: STORAGE_FAULT: disk I/O error", err.Error())

	err = &Error{Kind: KindNotFound, Op: "update patient", Message: `no record found for patient "7"`}
	assert.Equal(t, `update patient: NOT_FOUND: no record found for patient "7"`, err.Error())
}

func TestClassify_PassesThroughStoreErrors(t *testing.T) {
	inner := integrityViolation("delete disease codes", []string{"AB"})
	wrapped := fmt.Errorf("outer: %w", inner)

	got := classify("other op", wrapped)
	assert.Same(t, wrapped, got)
	assert.True(t, IsIntegrityViolation(got))
}

func TestClassify_DefaultsToStorageFault(t *testing.T) {
	got := classify("reset", errors.New("boom"))
	assert.True(t, IsStorageFault(got))
	assert.False(t, IsConstraintViolation(got))
	assert.Nil(t, classify("reset", nil))
}

func TestReferencedCodes(t *testing.T) {
	err := fmt.Errorf("cli: %w", integrityViolation("delete disease codes", []string{"AB", "TB"}))
	assert.Equal(t, []string{"AB", "TB"}, ReferencedCodes(err))
	assert.Contains(t, err.Error(), "AB, TB")

	assert.Nil(t, ReferencedCodes(errors.New("plain")))
	assert.Nil(t, ReferencedCodes(&Error{Kind: KindNotFound}))
}
