package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provision kinds as they appear in the "type" field on the wire.
const (
	ProvisionExercise = "exercise"
	ProvisionSuperset = "superset"
)

// RoutineItem is a planned exercise with its targets.
type RoutineItem struct {
	ID           string   `json:"id"`
	ExerciseID   string   `json:"exercise_id"`
	TargetSets   int      `json:"target_sets"`
	TargetReps   int      `json:"target_reps"`
	TargetWeight *float64 `json:"target_weight,omitempty"`
	TargetRPE    *float64 `json:"target_rpe,omitempty"`
	RestSeconds  int      `json:"rest_seconds"`
	Notes        *string  `json:"notes,omitempty"`
	Order        int      `json:"order"`
}

// Validate checks target limits.
func (it RoutineItem) Validate() error {
	if it.ExerciseID == "" {
		return fmt.Errorf("exercise id is required")
	}
	if it.TargetSets < 1 || it.TargetSets > 20 {
		return fmt.Errorf("target sets must be between 1 and 20")
	}
	if it.TargetReps < 1 || it.TargetReps > 100 {
		return fmt.Errorf("target reps must be between 1 and 100")
	}
	if it.TargetWeight != nil && *it.TargetWeight < 0 {
		return fmt.Errorf("target weight must be >= 0")
	}
	if it.TargetRPE != nil && (*it.TargetRPE < 1 || *it.TargetRPE > 10) {
		return fmt.Errorf("target RPE must be between 1 and 10")
	}
	if it.RestSeconds < 0 || it.RestSeconds > 600 {
		return fmt.Errorf("rest seconds must be between 0 and 600")
	}
	if it.Order < 0 {
		return fmt.Errorf("order must be >= 0")
	}
	return nil
}

// Provision is one planned unit of a routine: either an ExerciseProvision or a
// SupersetProvision. The set of implementations is closed.
type Provision interface {
	ProvisionID() string
	ProvisionOrder() int
	provision()
}

// ExerciseProvision plans a single exercise.
type ExerciseProvision struct {
	RoutineItem
}

// SupersetProvision groups items that share one rest period.
type SupersetProvision struct {
	ID          string        `json:"id"`
	Name        *string       `json:"name,omitempty"`
	Items       []RoutineItem `json:"items"`
	RestSeconds int           `json:"rest_seconds"`
	Order       int           `json:"order"`
}

func (p ExerciseProvision) ProvisionID() string { return p.ID }
func (p ExerciseProvision) ProvisionOrder() int { return p.Order }
func (ExerciseProvision) provision()            {}
func (p SupersetProvision) ProvisionID() string { return p.ID }
func (p SupersetProvision) ProvisionOrder() int { return p.Order }
func (SupersetProvision) provision()            {}

// WithOrder returns a copy of p carrying the given order.
func WithOrder(p Provision, order int) Provision {
	switch v := p.(type) {
	case ExerciseProvision:
		v.Order = order
		return v
	case SupersetProvision:
		v.Order = order
		v.Items = append([]RoutineItem(nil), v.Items...)
		return v
	default:
		panic(fmt.Sprintf("unhandled provision type %T", p))
	}
}

// ExerciseCount returns how many exercises a provision plans.
func ExerciseCount(p Provision) int {
	switch v := p.(type) {
	case ExerciseProvision:
		return 1
	case SupersetProvision:
		return len(v.Items)
	default:
		panic(fmt.Sprintf("unhandled provision type %T", p))
	}
}

// wireProvision is the flat JSON shape with a type discriminant.
type wireProvision struct {
	Type         string         `json:"type"`
	ID           string         `json:"id"`
	ExerciseID   string         `json:"exercise_id,omitempty"`
	TargetSets   int            `json:"target_sets,omitempty"`
	TargetReps   int            `json:"target_reps,omitempty"`
	TargetWeight *float64       `json:"target_weight,omitempty"`
	TargetRPE    *float64       `json:"target_rpe,omitempty"`
	RestSeconds  *int           `json:"rest_seconds,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Name         *string        `json:"name,omitempty"`
	Order        int            `json:"order"`
	Items        *[]RoutineItem `json:"items,omitempty"`
}

// Provisions is an ordered list of provisions with a tagged JSON encoding.
type Provisions []Provision

// MarshalJSON implements json.Marshaler.
func (ps Provisions) MarshalJSON() ([]byte, error) {
	out := make([]wireProvision, 0, len(ps))
	for _, p := range ps {
		switch v := p.(type) {
		case ExerciseProvision:
			rest := v.RestSeconds
			out = append(out, wireProvision{
				Type:         ProvisionExercise,
				ID:           v.ID,
				ExerciseID:   v.ExerciseID,
				TargetSets:   v.TargetSets,
				TargetReps:   v.TargetReps,
				TargetWeight: v.TargetWeight,
				TargetRPE:    v.TargetRPE,
				RestSeconds:  &rest,
				Notes:        v.Notes,
				Order:        v.Order,
			})
		case SupersetProvision:
			rest := v.RestSeconds
			items := v.Items
			if items == nil {
				items = []RoutineItem{}
			}
			out = append(out, wireProvision{
				Type:        ProvisionSuperset,
				ID:          v.ID,
				Name:        v.Name,
				RestSeconds: &rest,
				Order:       v.Order,
				Items:       &items,
			})
		default:
			return nil, fmt.Errorf("unhandled provision type %T", p)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ps *Provisions) UnmarshalJSON(data []byte) error {
	var raw []wireProvision
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Provisions, 0, len(raw))
	for i, w := range raw {
		rest := defaultRestSeconds
		if w.RestSeconds != nil {
			rest = *w.RestSeconds
		}
		switch w.Type {
		case ProvisionExercise:
			out = append(out, ExerciseProvision{RoutineItem: RoutineItem{
				ID:           w.ID,
				ExerciseID:   w.ExerciseID,
				TargetSets:   w.TargetSets,
				TargetReps:   w.TargetReps,
				TargetWeight: w.TargetWeight,
				TargetRPE:    w.TargetRPE,
				RestSeconds:  rest,
				Notes:        w.Notes,
				Order:        w.Order,
			}})
		case ProvisionSuperset:
			var items []RoutineItem
			if w.Items != nil {
				items = *w.Items
			}
			out = append(out, SupersetProvision{
				ID:          w.ID,
				Name:        w.Name,
				Items:       items,
				RestSeconds: rest,
				Order:       w.Order,
			})
		default:
			return fmt.Errorf("provision %d: unknown type %q", i, w.Type)
		}
	}
	*ps = out
	return nil
}

const defaultRestSeconds = 90

// Routine is a named workout plan.
type Routine struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Name              string     `json:"name"`
	Description       *string    `json:"description,omitempty"`
	ScheduleStartDate *Date      `json:"schedule_start_date,omitempty"`
	ScheduleEndDate   *Date      `json:"schedule_end_date,omitempty"`
	Provisions        Provisions `json:"provisions"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ExerciseCount sums the exercises planned across all provisions.
func (r Routine) ExerciseCount() int {
	n := 0
	for _, p := range r.Provisions {
		n += ExerciseCount(p)
	}
	return n
}

// RoutineInput is the body for creating a routine.
type RoutineInput struct {
	Name              string     `json:"name"`
	Description       *string    `json:"description,omitempty"`
	ScheduleStartDate *Date      `json:"schedule_start_date,omitempty"`
	ScheduleEndDate   *Date      `json:"schedule_end_date,omitempty"`
	Provisions        Provisions `json:"provisions"`
}

// Validate checks the routine and every exercise provision.
func (in RoutineInput) Validate() error {
	if err := ValidateName(in.Name); err != nil {
		return err
	}
	if in.ScheduleStartDate != nil && in.ScheduleEndDate != nil && in.ScheduleEndDate.Before(*in.ScheduleStartDate) {
		return fmt.Errorf("schedule end date is before start date")
	}
	return validateProvisions(in.Provisions)
}

// RoutinePatch is a partial update; nil fields are left unchanged.
type RoutinePatch struct {
	Name              *string     `json:"name,omitempty"`
	Description       *string     `json:"description,omitempty"`
	ScheduleStartDate *Date       `json:"schedule_start_date,omitempty"`
	ScheduleEndDate   *Date       `json:"schedule_end_date,omitempty"`
	Provisions        *Provisions `json:"provisions,omitempty"`
}

// Validate checks the fields that are set.
func (p RoutinePatch) Validate() error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Provisions != nil {
		return validateProvisions(*p.Provisions)
	}
	return nil
}

func validateProvisions(ps Provisions) error {
	for i, p := range ps {
		switch v := p.(type) {
		case ExerciseProvision:
			if err := v.RoutineItem.Validate(); err != nil {
				return fmt.Errorf("provision %d: %w", i+1, err)
			}
		case SupersetProvision:
			// Supersets are passed through untouched.
		default:
			return fmt.Errorf("provision %d: unhandled type %T", i+1, p)
		}
	}
	return nil
}
