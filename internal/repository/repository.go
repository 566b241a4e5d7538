package repository

import (
	"alcyxob/workout-tracker/internal/domain"
	"context"
)

// Error constants for the repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrAlreadyExists = RepositoryError("already exists")
	ErrUpdateFailed  = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRecordRepository is the document store behind per-user workout records.
//
// Every array mutation is a single atomic conditional update at the store. For
// the mutating methods ErrNotFound means "no matching document": nothing was
// applied.
type WorkoutRecordRepository interface {
	// Get returns the record for userID or ErrNotFound.
	Get(ctx context.Context, userID string) (*domain.UserWorkoutRecord, error)
	// Exists reports whether a record for userID is present.
	Exists(ctx context.Context, userID string) (bool, error)
	// Create stores an empty record. Uniqueness is enforced by the store and
	// surfaces as ErrAlreadyExists.
	Create(ctx context.Context, userID string) error
	// Delete removes the record and reports whether one was removed.
	Delete(ctx context.Context, userID string) (bool, error)

	// PushWorkout appends workout if the record exists and holds no workout
	// with the same name (case-insensitive).
	PushWorkout(ctx context.Context, userID string, workout domain.Workout) (*domain.UserWorkoutRecord, error)
	// ReplaceWorkout overwrites, in place, the workout whose name equals name.
	ReplaceWorkout(ctx context.Context, userID, name string, workout domain.Workout) (*domain.UserWorkoutRecord, error)
	// PullWorkout removes every workout whose name equals name. ErrNotFound only
	// when the record itself is missing.
	PullWorkout(ctx context.Context, userID, name string) (*domain.UserWorkoutRecord, error)

	// Ping checks store connectivity.
	Ping(ctx context.Context) error
}
