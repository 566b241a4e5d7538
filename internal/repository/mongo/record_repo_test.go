package mongo

import (
	"alcyxob/workout-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPushFilter_ExcludesExistingName(t *testing.T) {
	f := pushFilter("u1", "Leg Day")
	assert.Equal(t, "u1", f["userId"])
	assert.Equal(t, bson.M{"$not": primitive.Regex{Pattern: "^Leg Day$", Options: "i"}}, f["workouts.workoutName"])
}

func TestExactNameRegex_EscapesMetacharacters(t *testing.T) {
	re := exactNameRegex("Day 1 (A+B)?")
	assert.Equal(t, `^Day 1 \(A\+B\)\?$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestPushUpdate_AlwaysStoresExerciseArray(t *testing.T) {
	u := pushUpdate(domain.Workout{WorkoutName: "Leg Day"})
	push, ok := u["$push"].(bson.M)
	require.True(t, ok)
	w, ok := push["workouts"].(domain.Workout)
	require.True(t, ok)
	assert.NotNil(t, w.Exercises)
	assert.Contains(t, u, "$set")
}

func TestReplaceUpdate_UsesPositionalOperator(t *testing.T) {
	u := replaceUpdate(domain.Workout{WorkoutName: "Leg Day"})
	set, ok := u["$set"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, set, "workouts.$")

	f := replaceFilter("u1", "Leg Day")
	assert.Equal(t, "Leg Day", f["workouts.workoutName"])
}

func TestPullUpdate_MatchesByName(t *testing.T) {
	u := pullUpdate("Cardio")
	assert.Equal(t, bson.M{"workouts": bson.M{"workoutName": "Cardio"}}, u["$pull"])
}

func TestRecordProjection_HidesBookkeeping(t *testing.T) {
	for _, field := range []string{"_id", "createdAt", "updatedAt"} {
		assert.Equal(t, 0, recordProjection[field], field)
	}
}

func TestNormalize_FillsNilSlices(t *testing.T) {
	rec := &domain.UserWorkoutRecord{UserID: "u1", Workouts: []domain.Workout{{WorkoutName: "Cardio"}}}
	normalize(rec)
	assert.NotNil(t, rec.Workouts[0].Exercises)

	empty := &domain.UserWorkoutRecord{UserID: "u2"}
	normalize(empty)
	assert.NotNil(t, empty.Workouts)
}
