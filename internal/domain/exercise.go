// internal/domain/exercise.go
package domain

// Exercise is one movement inside a workout. All numeric parameters are
// optional; non-negativity is checked by request validation, not here.
type Exercise struct {
	Name              string   `bson:"name" json:"name"`
	Weight            *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	NumberSets        *int     `bson:"numberSets,omitempty" json:"numberSets,omitempty"`
	NumberReps        *int     `bson:"numberReps,omitempty" json:"numberReps,omitempty"`
	RestTimeInSeconds *int     `bson:"restTimeInSeconds,omitempty" json:"restTimeInSeconds,omitempty"`
}

// Clone copies the exercise including its optional values.
func (e Exercise) Clone() Exercise {
	out := Exercise{Name: e.Name}
	if e.Weight != nil {
		v := *e.Weight
		out.Weight = &v
	}
	out.NumberSets = cloneInt(e.NumberSets)
	out.NumberReps = cloneInt(e.NumberReps)
	out.RestTimeInSeconds = cloneInt(e.RestTimeInSeconds)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
