package domain

import "strings"

// UserWorkoutRecord is the aggregate of one user's workouts.
// Exactly one record exists per provisioned user.
type UserWorkoutRecord struct {
	UserID   string    `bson:"userId" json:"userId"`
	Workouts []Workout `bson:"workouts" json:"workouts"`
}

// Workout is a named, ordered collection of exercises. The name identifies
// the workout inside its parent record.
type Workout struct {
	WorkoutName string     `bson:"workoutName" json:"workoutName"`
	Exercises   []Exercise `bson:"exercises" json:"exercises"`
}

// NormalizeWorkoutName strips leading and trailing whitespace from a workout name.
// Stored names and lookups always use the normalized form.
func NormalizeWorkoutName(name string) string {
	return strings.TrimSpace(name)
}

// SameWorkoutName reports whether two names collide under the uniqueness rule
// (trimmed, case-insensitive).
func SameWorkoutName(a, b string) bool {
	return strings.EqualFold(NormalizeWorkoutName(a), NormalizeWorkoutName(b))
}

// HasWorkoutNamed reports whether the record already holds a workout whose
// name collides with name.
func (r *UserWorkoutRecord) HasWorkoutNamed(name string) bool {
	for _, w := range r.Workouts {
		if SameWorkoutName(w.WorkoutName, name) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate store-owned slices.
func (r *UserWorkoutRecord) Clone() *UserWorkoutRecord {
	if r == nil {
		return nil
	}
	out := &UserWorkoutRecord{UserID: r.UserID, Workouts: make([]Workout, len(r.Workouts))}
	for i, w := range r.Workouts {
		out.Workouts[i] = w.Clone()
	}
	return out
}

// Clone returns a deep copy of the workout.
func (w Workout) Clone() Workout {
	out := Workout{WorkoutName: w.WorkoutName, Exercises: make([]Exercise, len(w.Exercises))}
	for i, ex := range w.Exercises {
		out.Exercises[i] = ex.Clone()
	}
	return out
}
