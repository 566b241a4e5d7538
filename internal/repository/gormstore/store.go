package gormstore

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxMutationAttempts bounds retries when a version-guarded update loses a race.
const maxMutationAttempts = 3

// recordRow stores one user's record. Workouts are kept as a JSON document so
// the aggregate keeps its order and shape; Version guards concurrent writers.
type recordRow struct {
	UserID    string           `gorm:"primaryKey;size:191"`
	Workouts  []domain.Workout `gorm:"serializer:json;type:text;not null"`
	Version   int64            `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recordRow) TableName() string { return "workout_records" }

// Store implements repository.WorkoutRecordRepository on top of GORM.
type Store struct {
	db *gorm.DB
	// lockRows adds SELECT ... FOR UPDATE; SQLite has no row locks and
	// serializes write transactions instead.
	lockRows bool
}

// New wraps an opened database.
func New(db *gorm.DB) *Store {
	return &Store{db: db, lockRows: db.Dialector.Name() == "postgres"}
}

var _ repository.WorkoutRecordRepository = (*Store)(nil)

// Get loads the record for userID.
func (s *Store) Get(ctx context.Context, userID string) (*domain.UserWorkoutRecord, error) {
	var row recordRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	return row.toDomain(), nil
}

// Exists reports whether a row for userID is present.
func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&recordRow{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count records: %w", err)
	}
	return n > 0, nil
}

// Create inserts an empty record. The primary key enforces uniqueness; a
// conflicting insert affects no rows.
func (s *Store) Create(ctx context.Context, userID string) error {
	row := recordRow{UserID: userID, Workouts: []domain.Workout{}}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("insert record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrAlreadyExists
	}
	return nil
}

// Delete removes the row for userID.
func (s *Store) Delete(ctx context.Context, userID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&recordRow{})
	if res.Error != nil {
		return false, fmt.Errorf("delete record: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// PushWorkout appends workout unless the name is taken (case-insensitive).
func (s *Store) PushWorkout(ctx context.Context, userID string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	return s.mutate(ctx, userID, func(rec *domain.UserWorkoutRecord) error {
		if rec.HasWorkoutNamed(workout.WorkoutName) {
			return repository.ErrNotFound
		}
		rec.Workouts = append(rec.Workouts, workout.Clone())
		return nil
	})
}

// ReplaceWorkout overwrites the first workout named name, keeping its position.
func (s *Store) ReplaceWorkout(ctx context.Context, userID, name string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	return s.mutate(ctx, userID, func(rec *domain.UserWorkoutRecord) error {
		for i := range rec.Workouts {
			if rec.Workouts[i].WorkoutName == name {
				rec.Workouts[i] = workout.Clone()
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

// PullWorkout drops every workout named name.
func (s *Store) PullWorkout(ctx context.Context, userID, name string) (*domain.UserWorkoutRecord, error) {
	return s.mutate(ctx, userID, func(rec *domain.UserWorkoutRecord) error {
		kept := make([]domain.Workout, 0, len(rec.Workouts))
		for _, w := range rec.Workouts {
			if w.WorkoutName != name {
				kept = append(kept, w)
			}
		}
		rec.Workouts = kept
		return nil
	})
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var errVersionConflict = errors.New("record changed concurrently")

// mutate applies fn to the record inside one transaction. The row is locked
// where the dialect supports it and the write is guarded by the version read,
// so the read-check-write sequence is atomic with respect to other writers.
func (s *Store) mutate(ctx context.Context, userID string, fn func(*domain.UserWorkoutRecord) error) (*domain.UserWorkoutRecord, error) {
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		var out *domain.UserWorkoutRecord
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			q := tx.Where("user_id = ?", userID)
			if s.lockRows {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var row recordRow
			if err := q.Take(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return repository.ErrNotFound
				}
				return err
			}

			rec := row.toDomain()
			if err := fn(rec); err != nil {
				return err
			}

			// Select forces the write even when the workout list becomes empty.
			res := tx.Model(&recordRow{}).
				Where("user_id = ? AND version = ?", userID, row.Version).
				Select("workouts", "version", "updated_at").
				Updates(&recordRow{Workouts: rec.Workouts, Version: row.Version + 1, UpdatedAt: time.Now().UTC()})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}
			out = rec
			return nil
		})
		switch {
		case err == nil:
			return out, nil
		case errors.Is(err, errVersionConflict):
			continue
		case errors.Is(err, repository.ErrNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("update record: %w", err)
		}
	}
	return nil, repository.ErrUpdateFailed
}

func (r recordRow) toDomain() *domain.UserWorkoutRecord {
	rec := &domain.UserWorkoutRecord{UserID: r.UserID, Workouts: r.Workouts}
	if rec.Workouts == nil {
		rec.Workouts = []domain.Workout{}
	}
	for i := range rec.Workouts {
		if rec.Workouts[i].Exercises == nil {
			rec.Workouts[i].Exercises = []domain.Exercise{}
		}
	}
	return rec
}
