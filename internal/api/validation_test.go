package api

import (
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "exercises[2].numberReps", fieldPath("WorkoutRequest.exercises[2].numberReps"))
	assert.Equal(t, "workoutName", fieldPath("WorkoutRequest.workoutName"))
	assert.Equal(t, "plain", fieldPath("plain"))
}

func TestToValidationErrorFallsBackToBody(t *testing.T) {
	err := toValidationError(errors.New("invalid character"))

	var se *service.Error
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, service.KindValidation, se.Kind)
	assert.Equal(t, []service.FieldError{{Field: "body", Message: "malformed JSON"}}, se.Fields)
}
