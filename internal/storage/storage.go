package storage

import (
	"alcyxob/workout-tracker/internal/domain"
	"context"
)

// RecordArchiver keeps a copy of a user's record before it is destroyed.
type RecordArchiver interface {
	// ArchiveRecord writes a snapshot of rec and returns the object key.
	ArchiveRecord(ctx context.Context, rec *domain.UserWorkoutRecord) (string, error)
}
