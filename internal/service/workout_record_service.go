package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// WorkoutRecordService owns all reads and writes of per-user workout records.
// Every failure it returns is an *Error.
type WorkoutRecordService interface {
	CreateUserRecord(ctx context.Context, userID string) error
	DeleteUserRecord(ctx context.Context, userID string) (bool, error)
	GetUserRecord(ctx context.Context, userID string) (*domain.UserWorkoutRecord, error)
	AddWorkout(ctx context.Context, userID string, workout domain.Workout) (*domain.UserWorkoutRecord, error)
	UpdateWorkout(ctx context.Context, userID, workoutName string, workout domain.Workout) (*domain.UserWorkoutRecord, error)
	DeleteWorkout(ctx context.Context, userID, workoutName string) (*domain.UserWorkoutRecord, error)
}

// workoutRecordService implements the WorkoutRecordService interface. It keeps
// no state between calls; atomicity comes from the repository.
type workoutRecordService struct {
	records  repository.WorkoutRecordRepository
	archiver storage.RecordArchiver // optional
	logger   zerolog.Logger
}

// NewWorkoutRecordService creates a new instance of workoutRecordService.
// archiver may be nil, in which case records are deleted without a snapshot.
func NewWorkoutRecordService(records repository.WorkoutRecordRepository, archiver storage.RecordArchiver, logger zerolog.Logger) WorkoutRecordService {
	return &workoutRecordService{
		records:  records,
		archiver: archiver,
		logger:   logger.With().Str("component", "workout_records").Logger(),
	}
}

// CreateUserRecord provisions an empty record for userID.
func (s *workoutRecordService) CreateUserRecord(ctx context.Context, userID string) (err error) {
	ctx, span := startSpan(ctx, "CreateUserRecord", userID)
	defer func() {
		endSpan(span, err)
		observe("create_user_record", err)
	}()

	if err = requireUserID(userID); err != nil {
		return err
	}
	if err = s.records.Create(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return Conflict(userID, "user record %q already exists", userID)
		}
		return s.internal(err, "create_user_record", userID)
	}
	s.logger.Debug().Str("user_id", userID).Msg("user record created")
	return nil
}

// DeleteUserRecord removes the record for userID. Absence is reported as
// false, not as an error.
func (s *workoutRecordService) DeleteUserRecord(ctx context.Context, userID string) (deleted bool, err error) {
	ctx, span := startSpan(ctx, "DeleteUserRecord", userID)
	defer func() {
		endSpan(span, err)
		observe("delete_user_record", err)
	}()

	if err = requireUserID(userID); err != nil {
		return false, err
	}

	if s.archiver != nil {
		rec, getErr := s.records.Get(ctx, userID)
		if errors.Is(getErr, repository.ErrNotFound) {
			return false, nil
		}
		if getErr != nil {
			return false, s.internal(getErr, "delete_user_record", userID)
		}
		key, archErr := s.archiver.ArchiveRecord(ctx, rec)
		if archErr != nil {
			return false, s.internal(archErr, "delete_user_record", userID)
		}
		s.logger.Info().Str("user_id", userID).Str("archive_key", key).Msg("user record archived")
	}

	deleted, err = s.records.Delete(ctx, userID)
	if err != nil {
		return false, s.internal(err, "delete_user_record", userID)
	}
	s.logger.Debug().Str("user_id", userID).Bool("deleted", deleted).Msg("user record delete")
	return deleted, nil
}

// GetUserRecord fetches the full record for userID.
func (s *workoutRecordService) GetUserRecord(ctx context.Context, userID string) (rec *domain.UserWorkoutRecord, err error) {
	ctx, span := startSpan(ctx, "GetUserRecord", userID)
	defer func() {
		endSpan(span, err)
		observe("get_user_record", err)
	}()

	if err = requireUserID(userID); err != nil {
		return nil, err
	}
	rec, err = s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(userID)
		}
		return nil, s.internal(err, "get_user_record", userID)
	}
	return rec, nil
}

// AddWorkout appends a workout with a trimmed name. Existence, the
// case-insensitive duplicate check and the append happen in one conditional
// store update; when it matches nothing a follow-up existence check decides
// between NotFound and Conflict.
func (s *workoutRecordService) AddWorkout(ctx context.Context, userID string, workout domain.Workout) (rec *domain.UserWorkoutRecord, err error) {
	ctx, span := startSpan(ctx, "AddWorkout", userID)
	defer func() {
		endSpan(span, err)
		observe("add_workout", err)
	}()

	if err = requireUserID(userID); err != nil {
		return nil, err
	}
	workout = normalizeWorkout(workout)
	if workout.WorkoutName == "" {
		return nil, BadRequest("workout name must not be empty")
	}

	rec, err = s.records.PushWorkout(ctx, userID, workout)
	if err == nil {
		s.logger.Debug().Str("user_id", userID).Str("workout", workout.WorkoutName).Msg("workout added")
		return rec, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal(err, "add_workout", userID)
	}

	exists, existsErr := s.records.Exists(ctx, userID)
	if existsErr != nil {
		return nil, s.internal(existsErr, "add_workout", userID)
	}
	if !exists {
		return nil, userNotFound(userID)
	}
	return nil, Conflict(workout.WorkoutName, "workout %q already exists", workout.WorkoutName)
}

// UpdateWorkout replaces the workout named workoutName in place. The route
// name must equal the body name; a missing user and a missing workout both
// come back as NotFound.
func (s *workoutRecordService) UpdateWorkout(ctx context.Context, userID, workoutName string, workout domain.Workout) (rec *domain.UserWorkoutRecord, err error) {
	ctx, span := startSpan(ctx, "UpdateWorkout", userID)
	defer func() {
		endSpan(span, err)
		observe("update_workout", err)
	}()

	if workoutName != workout.WorkoutName {
		return nil, BadRequest("workout name %q does not match body name %q", workoutName, workout.WorkoutName)
	}
	if err = requireUserID(userID); err != nil {
		return nil, err
	}
	workout = normalizeWorkout(workout)
	if workout.WorkoutName == "" {
		return nil, BadRequest("workout name must not be empty")
	}

	rec, err = s.records.ReplaceWorkout(ctx, userID, workout.WorkoutName, workout)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(workout.WorkoutName, "workout %q not found", workout.WorkoutName)
		}
		return nil, s.internal(err, "update_workout", userID)
	}
	s.logger.Debug().Str("user_id", userID).Str("workout", workout.WorkoutName).Msg("workout updated")
	return rec, nil
}

// DeleteWorkout removes every workout named workoutName (after trimming).
// Removing nothing is not an error.
func (s *workoutRecordService) DeleteWorkout(ctx context.Context, userID, workoutName string) (rec *domain.UserWorkoutRecord, err error) {
	ctx, span := startSpan(ctx, "DeleteWorkout", userID)
	defer func() {
		endSpan(span, err)
		observe("delete_workout", err)
	}()

	if err = requireUserID(userID); err != nil {
		return nil, err
	}
	name := domain.NormalizeWorkoutName(workoutName)

	rec, err = s.records.PullWorkout(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(userID)
		}
		return nil, s.internal(err, "delete_workout", userID)
	}
	s.logger.Debug().Str("user_id", userID).Str("workout", name).Msg("workout deleted")
	return rec, nil
}

// internal logs the cause and returns a generic error for callers.
func (s *workoutRecordService) internal(err error, op, userID string) *Error {
	s.logger.Error().Err(err).Str("operation", op).Str("user_id", userID).Msg("workout record store failure")
	return Internal(err, "%s failed", op)
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return BadRequest("user id must not be empty")
	}
	return nil
}

func userNotFound(userID string) *Error {
	return NotFound(userID, "user record %q not found", userID)
}

func normalizeWorkout(w domain.Workout) domain.Workout {
	w.WorkoutName = domain.NormalizeWorkoutName(w.WorkoutName)
	if w.Exercises == nil {
		w.Exercises = []domain.Exercise{}
	}
	return w
}
