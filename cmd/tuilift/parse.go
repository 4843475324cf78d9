package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/routine"
)

// exerciseArg is one --exercise flag: ID[:sets[:reps[:rest]]].
type exerciseArg struct {
	ExerciseID string
	Targets    routine.Targets
}

func parseExerciseArg(raw string) (exerciseArg, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 4 {
		return exerciseArg{}, fmt.Errorf("invalid --exercise %q (expected ID[:sets[:reps[:rest]]])", raw)
	}
	arg := exerciseArg{ExerciseID: strings.TrimSpace(parts[0])}
	if arg.ExerciseID == "" {
		return exerciseArg{}, fmt.Errorf("invalid --exercise %q: exercise id is empty", raw)
	}
	fields := []struct {
		name   string
		target **int
	}{
		{"sets", &arg.Targets.Sets},
		{"reps", &arg.Targets.Reps},
		{"rest", &arg.Targets.RestSeconds},
	}
	for i, value := range parts[1:] {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return exerciseArg{}, fmt.Errorf("invalid --exercise %q: %s must be an integer", raw, fields[i].name)
		}
		*fields[i].target = &n
	}
	return arg, nil
}

// parseMove reads FROM:TO, both 1-based as shown by `routines show`.
func parseMove(raw string) (from, to int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --move %q (expected FROM:TO)", raw)
	}
	from, errA := strconv.Atoi(strings.TrimSpace(a))
	to, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA != nil || errB != nil || from < 1 || to < 1 {
		return 0, 0, fmt.Errorf("invalid --move %q (positions start at 1)", raw)
	}
	return from - 1, to - 1, nil
}

func parseDateFlag(name, raw string) (*model.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value: %w", name, err)
	}
	return &d, nil
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
