package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("u1", "missing")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", Conflict("x", "dup"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause, "get failed")

	assert.Equal(t, "internal: get failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad_request: ids differ", BadRequest("ids %s", "differ").Error())
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(FieldError{Field: "workoutName", Message: "is required"})

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "validation_failed", err.Kind.String())
	assert.Len(t, err.Fields, 1)
}
