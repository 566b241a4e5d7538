// internal/repository/mongo/record_repo.go
package mongo

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const recordCollectionName = "workout_records"

// recordDocument is the persisted shape. Timestamps are bookkeeping and are
// projected away on every read.
type recordDocument struct {
	UserID    string           `bson:"userId"`
	Workouts  []domain.Workout `bson:"workouts"`
	CreatedAt time.Time        `bson:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt"`
}

// recordProjection strips storage-internal fields from returned documents.
var recordProjection = bson.M{"_id": 0, "createdAt": 0, "updatedAt": 0}

// mongoRecordRepository implements repository.WorkoutRecordRepository
type mongoRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRecordRepository creates a new workout record repository.
func NewMongoRecordRepository(db *mongo.Database) repository.WorkoutRecordRepository {
	return &mongoRecordRepository{
		collection: db.Collection(recordCollectionName),
	}
}

// Get retrieves the record for a user.
func (r *mongoRecordRepository) Get(ctx context.Context, userID string) (*domain.UserWorkoutRecord, error) {
	var rec domain.UserWorkoutRecord
	opts := options.FindOne().SetProjection(recordProjection)
	err := r.collection.FindOne(ctx, userFilter(userID), opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	normalize(&rec)
	return &rec, nil
}

// Exists checks for the record without decoding it.
func (r *mongoRecordRepository) Exists(ctx context.Context, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, userFilter(userID), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count records: %w", err)
	}
	return n > 0, nil
}

// Create inserts an empty record. The unique index on userId turns a second
// insert into a duplicate key error.
func (r *mongoRecordRepository) Create(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	doc := recordDocument{
		UserID:    userID,
		Workouts:  []domain.Workout{}, // must be an array, $push fails on null
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Delete removes the record for a user.
func (r *mongoRecordRepository) Delete(ctx context.Context, userID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, userFilter(userID))
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// PushWorkout appends a workout when no element shares its name. The name
// check lives in the filter so it is part of the same atomic update.
func (r *mongoRecordRepository) PushWorkout(ctx context.Context, userID string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	return r.findOneAndUpdate(ctx, pushFilter(userID, workout.WorkoutName), pushUpdate(workout), returnAfter())
}

// ReplaceWorkout overwrites the matched element through the positional operator.
func (r *mongoRecordRepository) ReplaceWorkout(ctx context.Context, userID, name string, workout domain.Workout) (*domain.UserWorkoutRecord, error) {
	return r.findOneAndUpdate(ctx, replaceFilter(userID, name), replaceUpdate(workout), returnAfter())
}

// PullWorkout removes every element with the given name.
func (r *mongoRecordRepository) PullWorkout(ctx context.Context, userID, name string) (*domain.UserWorkoutRecord, error) {
	return r.findOneAndUpdate(ctx, userFilter(userID), pullUpdate(name), returnAfter())
}

// Ping verifies the primary is reachable.
func (r *mongoRecordRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoRecordRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, opts *options.FindOneAndUpdateOptions) (*domain.UserWorkoutRecord, error) {
	var rec domain.UserWorkoutRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	normalize(&rec)
	return &rec, nil
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(recordProjection)
}

func userFilter(userID string) bson.M {
	return bson.M{"userId": userID}
}

// pushFilter matches the user's record only if no workout name equals name
// case-insensitively. A collation would also fold userId, so an anchored
// case-insensitive regex is used instead.
func pushFilter(userID, name string) bson.M {
	return bson.M{
		"userId":               userID,
		"workouts.workoutName": bson.M{"$not": exactNameRegex(name)},
	}
}

func exactNameRegex(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

func pushUpdate(workout domain.Workout) bson.M {
	return bson.M{
		"$push": bson.M{"workouts": withExercises(workout)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
}

func replaceFilter(userID, name string) bson.M {
	return bson.M{
		"userId":               userID,
		"workouts.workoutName": name,
	}
}

func replaceUpdate(workout domain.Workout) bson.M {
	return bson.M{
		"$set": bson.M{
			"workouts.$": withExercises(workout),
			"updatedAt":  time.Now().UTC(),
		},
	}
}

func pullUpdate(name string) bson.M {
	return bson.M{
		"$pull": bson.M{"workouts": bson.M{"workoutName": name}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
}

// withExercises keeps exercises an array in storage.
func withExercises(w domain.Workout) domain.Workout {
	if w.Exercises == nil {
		w.Exercises = []domain.Exercise{}
	}
	return w
}

func normalize(rec *domain.UserWorkoutRecord) {
	if rec.Workouts == nil {
		rec.Workouts = []domain.Workout{}
	}
	for i := range rec.Workouts {
		if rec.Workouts[i].Exercises == nil {
			rec.Workouts[i].Exercises = []domain.Exercise{}
		}
	}
}

// EnsureRecordIndexes creates necessary indexes. Call during startup.
func EnsureRecordIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One record per user; this is what makes Create race-free.
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// RecordCollection returns the collection the repository works on.
func RecordCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(recordCollectionName)
}
