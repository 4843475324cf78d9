package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProvisionsDecodeTaggedVariants(t *testing.T) {
	data := []byte(`[
		{"type":"exercise","id":"p1","exercise_id":"ex1","target_sets":3,"target_reps":10,"rest_seconds":60,"order":0},
		{"type":"superset","id":"p2","name":"Arms","rest_seconds":120,"order":1,
		 "items":[{"id":"i1","exercise_id":"ex2","target_sets":3,"target_reps":12,"rest_seconds":0,"order":0}]}
	]`)
	var ps Provisions
	if err := json.Unmarshal(data, &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 provisions, got %d", len(ps))
	}
	ex, ok := ps[0].(ExerciseProvision)
	if !ok {
		t.Fatalf("expected exercise provision, got %T", ps[0])
	}
	if ex.ExerciseID != "ex1" || ex.RestSeconds != 60 {
		t.Fatalf("unexpected exercise provision: %+v", ex)
	}
	ss, ok := ps[1].(SupersetProvision)
	if !ok {
		t.Fatalf("expected superset provision, got %T", ps[1])
	}
	if len(ss.Items) != 1 || ss.Items[0].ExerciseID != "ex2" || ss.RestSeconds != 120 {
		t.Fatalf("unexpected superset provision: %+v", ss)
	}
}

func TestProvisionsDecodeDefaultsRest(t *testing.T) {
	var ps Provisions
	if err := json.Unmarshal([]byte(`[{"type":"exercise","id":"p1","exercise_id":"e","target_sets":1,"target_reps":1,"order":0}]`), &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := ps[0].(ExerciseProvision).RestSeconds; got != 90 {
		t.Fatalf("expected default rest 90, got %d", got)
	}
}

func TestProvisionsRejectUnknownType(t *testing.T) {
	var ps Provisions
	err := json.Unmarshal([]byte(`[{"type":"circuit","id":"x","order":0}]`), &ps)
	if err == nil || !strings.Contains(err.Error(), "circuit") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestProvisionsEncodeDiscriminant(t *testing.T) {
	ps := Provisions{
		ExerciseProvision{RoutineItem: RoutineItem{ID: "p1", ExerciseID: "ex1", TargetSets: 3, TargetReps: 10, RestSeconds: 90}},
		SupersetProvision{ID: "p2", Order: 1},
	}
	data, err := json.Marshal(ps)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"type":"exercise"`, `"type":"superset"`, `"items":[]`, `"rest_seconds":90`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	if n := strings.Count(out, `"items"`); n != 1 {
		t.Fatalf("expected items only on the superset, got %d in %s", n, out)
	}
}

func TestRoutineExerciseCount(t *testing.T) {
	r := Routine{Provisions: Provisions{
		ExerciseProvision{},
		SupersetProvision{Items: []RoutineItem{{}, {}}},
	}}
	if got := r.ExerciseCount(); got != 3 {
		t.Fatalf("expected 3 exercises, got %d", got)
	}
}

func TestRoutineInputValidate(t *testing.T) {
	in := RoutineInput{Name: "Push", Provisions: Provisions{
		ExerciseProvision{RoutineItem: RoutineItem{ExerciseID: "e", TargetSets: 30, TargetReps: 10}},
	}}
	if err := in.Validate(); err == nil {
		t.Fatalf("expected target sets error")
	}
	in.Provisions = Provisions{ExerciseProvision{RoutineItem: RoutineItem{ExerciseID: "e", TargetSets: 3, TargetReps: 10, RestSeconds: 90}}}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.Name = " "
	if err := in.Validate(); err == nil {
		t.Fatalf("expected name error")
	}
}
