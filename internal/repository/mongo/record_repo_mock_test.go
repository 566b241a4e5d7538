package mongo

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func repoFor(mt *mtest.T) *mongoRecordRepository {
	return &mongoRecordRepository{collection: mt.Coll}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func legDayDoc(userID string) bson.D {
	return bson.D{
		{Key: "userId", Value: userID},
		{Key: "workouts", Value: bson.A{
			bson.D{
				{Key: "workoutName", Value: "Leg Day"},
				{Key: "exercises", Value: bson.A{
					bson.D{{Key: "name", Value: "Squat"}, {Key: "numberSets", Value: 5}},
				}},
			},
			bson.D{{Key: "workoutName", Value: "Cardio"}},
		}},
	}
}

func TestCreate_Mock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("inserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, repoFor(mt).Create(context.Background(), "u1"))
	})

	mt.Run("duplicate key is ErrAlreadyExists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: workout_records index: userId_1",
		}))
		err := repoFor(mt).Create(context.Background(), "u1")
		assert.ErrorIs(mt, err, repository.ErrAlreadyExists)
	})

	mt.Run("other write errors are wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "document failed validation"}))
		err := repoFor(mt).Create(context.Background(), "u1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrAlreadyExists)
		assert.Contains(mt, err.Error(), "insert record")
	})
}

func TestGet_Mock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes the record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, legDayDoc("u1")))

		rec, err := repoFor(mt).Get(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", rec.UserID)
		require.Len(mt, rec.Workouts, 2)
		assert.Equal(mt, "Leg Day", rec.Workouts[0].WorkoutName)
		require.Len(mt, rec.Workouts[0].Exercises, 1)
		assert.Equal(mt, "Squat", rec.Workouts[0].Exercises[0].Name)
		require.NotNil(mt, rec.Workouts[0].Exercises[0].NumberSets)
		assert.Equal(mt, 5, *rec.Workouts[0].Exercises[0].NumberSets)
		assert.NotNil(mt, rec.Workouts[1].Exercises, "missing exercises decode as an empty list")
	})

	mt.Run("no document is ErrNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repoFor(mt).Get(context.Background(), "ghost")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestExists_Mock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("present", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))
		ok, err := repoFor(mt).Exists(context.Background(), "u1")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		ok, err := repoFor(mt).Exists(context.Background(), "ghost")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestDelete_Mock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("reports a removed record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))
		deleted, err := repoFor(mt).Delete(context.Background(), "u1")
		require.NoError(mt, err)
		assert.True(mt, deleted)
	})

	mt.Run("reports nothing removed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))
		deleted, err := repoFor(mt).Delete(context.Background(), "ghost")
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})
}

func TestFindOneAndUpdate_Mock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("returns the updated record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: legDayDoc("u1")}))

		rec, err := repoFor(mt).PushWorkout(context.Background(), "u1", domain.Workout{WorkoutName: "Cardio"})
		require.NoError(mt, err)
		require.Len(mt, rec.Workouts, 2)
		assert.Equal(mt, "Cardio", rec.Workouts[1].WorkoutName)
	})

	mt.Run("no matching document is ErrNotFound", func(mt *mtest.T) {
		// findAndModify answers ok:1 without a value when the filter matches nothing.
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := repoFor(mt).PushWorkout(context.Background(), "u1", domain.Workout{WorkoutName: "Leg Day"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("replace miss is ErrNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := repoFor(mt).ReplaceWorkout(context.Background(), "u1", "Yoga", domain.Workout{WorkoutName: "Yoga"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("server errors are wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad"}))

		_, err := repoFor(mt).PullWorkout(context.Background(), "u1", "Cardio")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrNotFound)
		assert.Contains(mt, err.Error(), "update record")
	})
}
