// Package memory implements an in-process workout record store for local
// development and tests.
package memory

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"sync"
)

// Store keeps records in a map guarded by a single mutex, which makes every
// operation trivially atomic.
type Store struct {
	mu      sync.Mutex
	records map[string]*domain.UserWorkoutRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]*domain.UserWorkoutRecord)}
}

// Ensure interface is met.
var _ repository.WorkoutRecordRepository = (*Store)(nil)

// Get returns a copy of the record for userID.
func (s *Store) Get(ctx context.Context, userID string) (*domain.UserWorkoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.Clone(), nil
}

// Exists reports whether userID has a record.
func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[userID]
	return ok, nil
}

// Create inserts an empty record.
func (s *Store) Create(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; ok {
		return repository.ErrAlreadyExists
	}
	s.records[userID] = &domain.UserWorkoutRecord{UserID: userID, Workouts: []domain.Workout{}}
	return nil
}

// Delete drops the record for userID.
func (s *Store) Delete(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; !ok {
		return false, nil
	}
	delete(s.records, userID)
	return true, nil
}

// PushWorkout appends workout unless a workout with the same name exists.
func (s *Store) PushWorkout(ctx context.Context, userID string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || rec.HasWorkoutNamed(workout.WorkoutName) {
		return nil, repository.ErrNotFound
	}
	rec.Workouts = append(rec.Workouts, workout.Clone())
	return rec.Clone(), nil
}

// ReplaceWorkout overwrites the first workout named name.
func (s *Store) ReplaceWorkout(ctx context.Context, userID, name string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i := range rec.Workouts {
		if rec.Workouts[i].WorkoutName == name {
			rec.Workouts[i] = workout.Clone()
			return rec.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

// PullWorkout removes all workouts named name.
func (s *Store) PullWorkout(ctx context.Context, userID, name string) (*domain.UserWorkoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := rec.Workouts[:0]
	for _, w := range rec.Workouts {
		if w.WorkoutName != name {
			kept = append(kept, w)
		}
	}
	rec.Workouts = kept
	return rec.Clone(), nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }
