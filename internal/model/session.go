// Package model defines the workout tracker's domain types as exchanged with
// the remote API.
package model

import (
	"fmt"
	"time"
)

// PerformedSet is one logged set. SetNumber is 1-based within its exercise.
type PerformedSet struct {
	SetNumber int      `json:"set_number"`
	Reps      int      `json:"reps"`
	Weight    float64  `json:"weight"`
	RPE       *float64 `json:"rpe,omitempty"`
	Completed bool     `json:"completed"`
	Notes     *string  `json:"notes,omitempty"`
}

// Volume returns weight × reps.
func (s PerformedSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// PerformedExercise is the as-executed record of an exercise in a session.
type PerformedExercise struct {
	ID            string         `json:"id"`
	ExerciseID    string         `json:"exercise_id"`
	ExerciseName  *string        `json:"exercise_name,omitempty"`
	RoutineItemID *string        `json:"routine_item_id,omitempty"`
	IsAdhoc       bool           `json:"is_adhoc"`
	Sets          []PerformedSet `json:"sets"`
	Order         int            `json:"order"`
	Notes         *string        `json:"notes,omitempty"`
}

// DisplayName returns the denormalized exercise name.
func (e PerformedExercise) DisplayName() string {
	if e.ExerciseName == nil || *e.ExerciseName == "" {
		return "Unknown Exercise"
	}
	return *e.ExerciseName
}

// SetNumbersContiguous reports whether the sets are numbered 1..N in order.
func SetNumbersContiguous(sets []PerformedSet) bool {
	for i, s := range sets {
		if s.SetNumber != i+1 {
			return false
		}
	}
	return true
}

// WorkoutSession is a workout, in progress while EndTime is nil.
type WorkoutSession struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	RoutineID          *string             `json:"routine_id,omitempty"`
	RoutineName        *string             `json:"routine_name,omitempty"`
	Date               Date                `json:"date"`
	StartTime          time.Time           `json:"start_time"`
	EndTime            *time.Time          `json:"end_time,omitempty"`
	PerformedExercises []PerformedExercise `json:"performed_exercises"`
	Notes              *string             `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// InProgress reports whether the session has not been finished.
func (s WorkoutSession) InProgress() bool {
	return s.EndTime == nil
}

// Title returns the routine name or a generic label for ad hoc workouts.
func (s WorkoutSession) Title() string {
	if s.RoutineName == nil || *s.RoutineName == "" {
		return "Quick Workout"
	}
	return *s.RoutineName
}

// Exercise returns the performed exercise with the given id.
func (s WorkoutSession) Exercise(id string) (PerformedExercise, bool) {
	for _, e := range s.PerformedExercises {
		if e.ID == id {
			return e, true
		}
	}
	return PerformedExercise{}, false
}

// Clone returns a deep copy.
func (s WorkoutSession) Clone() WorkoutSession {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	if s.PerformedExercises != nil {
		out.PerformedExercises = make([]PerformedExercise, len(s.PerformedExercises))
		for i, e := range s.PerformedExercises {
			e.Sets = append([]PerformedSet(nil), e.Sets...)
			out.PerformedExercises[i] = e
		}
	}
	return out
}

// SessionInput is the body for starting a session.
type SessionInput struct {
	RoutineID   *string `json:"routine_id,omitempty"`
	RoutineName *string `json:"routine_name,omitempty"`
	Date        Date    `json:"date"`
	Notes       *string `json:"notes,omitempty"`
}

// AddExerciseInput is the body for appending an exercise to a session.
type AddExerciseInput struct {
	ExerciseID    string  `json:"exercise_id"`
	RoutineItemID *string `json:"routine_item_id,omitempty"`
	IsAdhoc       bool    `json:"is_adhoc"`
}

// SetInput is the body for logging a set.
type SetInput struct {
	Reps   int      `json:"reps"`
	Weight float64  `json:"weight"`
	RPE    *float64 `json:"rpe,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// Validate checks the set against the limits the API enforces.
func (in SetInput) Validate() error {
	if in.Reps < 0 || in.Reps > 200 {
		return fmt.Errorf("reps must be between 0 and 200")
	}
	if in.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}
	if in.RPE != nil && (*in.RPE < 1 || *in.RPE > 10) {
		return fmt.Errorf("RPE must be between 1 and 10")
	}
	return nil
}
