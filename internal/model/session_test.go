package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionDecodeInProgress(t *testing.T) {
	data := []byte(`{"id":"s1","user_id":"u","date":"2026-03-02","start_time":"2026-03-02T09:00:00Z",
		"end_time":null,"performed_exercises":[{"id":"pe1","exercise_id":"e1","exercise_name":"Squat","is_adhoc":true,
		"sets":[{"set_number":1,"reps":5,"weight":100,"completed":true}],"order":0}],
		"created_at":"2026-03-02T09:00:00Z","updated_at":"2026-03-02T09:00:00Z"}`)
	var s WorkoutSession
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !s.InProgress() {
		t.Fatalf("expected session in progress")
	}
	if s.Date.String() != "2026-03-02" {
		t.Fatalf("unexpected date %s", s.Date)
	}
	if s.Title() != "Quick Workout" {
		t.Fatalf("unexpected title %q", s.Title())
	}
	if got := s.PerformedExercises[0].DisplayName(); got != "Squat" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestDateAcceptsTimestamp(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-01-05T00:00:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != (Date{Year: 2026, Month: time.January, Day: 5}) {
		t.Fatalf("unexpected date %v", d)
	}
}

func TestZeroDateRoundTrip(t *testing.T) {
	data, err := json.Marshal(WorkoutSession{ID: "s1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var s WorkoutSession
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if s.ID != "s1" || !s.Date.IsZero() {
		t.Fatalf("unexpected session %+v", s)
	}

	d := Date{Year: 2026, Month: time.March, Day: 9}
	data, err = json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil || back != d {
		t.Fatalf("round trip %s: %v %v", data, back, err)
	}
}

func TestCloneDoesNotShareSets(t *testing.T) {
	s := WorkoutSession{PerformedExercises: []PerformedExercise{{ID: "a", Sets: []PerformedSet{{SetNumber: 1}}}}}
	c := s.Clone()
	c.PerformedExercises[0].Sets[0].Reps = 99
	c.PerformedExercises[0].ID = "b"
	if s.PerformedExercises[0].Sets[0].Reps != 0 || s.PerformedExercises[0].ID != "a" {
		t.Fatalf("clone shares memory with original")
	}
}

func TestSetNumbersContiguous(t *testing.T) {
	if !SetNumbersContiguous([]PerformedSet{{SetNumber: 1}, {SetNumber: 2}, {SetNumber: 3}}) {
		t.Fatalf("expected contiguous")
	}
	if SetNumbersContiguous([]PerformedSet{{SetNumber: 1}, {SetNumber: 3}}) {
		t.Fatalf("expected gap to be detected")
	}
	if SetNumbersContiguous([]PerformedSet{{SetNumber: 0}}) {
		t.Fatalf("expected zero-based numbering to be rejected")
	}
}

func TestSetInputValidate(t *testing.T) {
	rpe := 11.0
	if err := (SetInput{Reps: 5, Weight: 20, RPE: &rpe}).Validate(); err == nil {
		t.Fatalf("expected RPE error")
	}
	if err := (SetInput{Reps: 201}).Validate(); err == nil {
		t.Fatalf("expected reps error")
	}
	if err := (SetInput{Reps: 5, Weight: -1}).Validate(); err == nil {
		t.Fatalf("expected weight error")
	}
	rpe = 8.5
	if err := (SetInput{Reps: 5, Weight: 20, RPE: &rpe}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
