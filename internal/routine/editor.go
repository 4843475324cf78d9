// Package routine edits the ordered provision list of a routine before it is
// submitted to the server.
package routine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuilift/internal/model"
)

// Defaults for a newly added exercise provision.
const (
	DefaultSets        = 3
	DefaultReps        = 10
	DefaultRestSeconds = 90

	tempIDPrefix = "temp-"
)

var (
	ErrIndexOutOfRange = errors.New("provision index out of range")
	ErrSuperset        = errors.New("superset provisions cannot be edited here")
)

// Targets are the editable fields of an exercise provision. Nil fields keep
// their current value.
type Targets struct {
	Sets        *int
	Reps        *int
	Weight      *float64
	RPE         *float64
	RestSeconds *int
	Notes       *string
}

// Editor holds a working copy of a routine's provisions. Orders are kept
// dense and equal to the position in the list.
type Editor struct {
	provisions model.Provisions
	newID      func() string
}

// NewEditor starts from existing provisions, sorted by their current order.
func NewEditor(existing []model.Provision) *Editor {
	e := &Editor{newID: func() string { return tempIDPrefix + uuid.NewString() }}
	e.Load(existing)
	return e
}

// Load replaces the contents, typically with the server's response after a
// successful save.
func (e *Editor) Load(provisions []model.Provision) {
	e.provisions = make(model.Provisions, len(provisions))
	copy(e.provisions, provisions)
	sortByOrder(e.provisions)
	e.renumber()
}

// Len returns the number of provisions.
func (e *Editor) Len() int {
	return len(e.provisions)
}

// Provisions returns a copy suitable for submission.
func (e *Editor) Provisions() model.Provisions {
	out := make(model.Provisions, len(e.provisions))
	for i, p := range e.provisions {
		out[i] = model.WithOrder(p, i)
	}
	return out
}

// AddExercise appends an exercise provision with default targets and returns
// its temporary id.
func (e *Editor) AddExercise(exerciseID string) (string, error) {
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return "", errors.New("exercise id is required")
	}
	id := e.newID()
	e.provisions = append(e.provisions, model.ExerciseProvision{RoutineItem: model.RoutineItem{
		ID:          id,
		ExerciseID:  exerciseID,
		TargetSets:  DefaultSets,
		TargetReps:  DefaultReps,
		RestSeconds: DefaultRestSeconds,
		Order:       len(e.provisions),
	}})
	return id, nil
}

// Remove deletes the provision at index and renumbers the rest.
func (e *Editor) Remove(index int) error {
	if index < 0 || index >= len(e.provisions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	e.provisions = append(e.provisions[:index], e.provisions[index+1:]...)
	e.renumber()
	return nil
}

// Move relocates the provision at from to position to.
func (e *Editor) Move(from, to int) error {
	n := len(e.provisions)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, to)
	}
	p := e.provisions[from]
	e.provisions = append(e.provisions[:from], e.provisions[from+1:]...)
	e.provisions = append(e.provisions[:to], append(model.Provisions{p}, e.provisions[to:]...)...)
	e.renumber()
	return nil
}

// SetTargets edits the exercise provision at index. Supersets are passed
// through unchanged and cannot be edited.
func (e *Editor) SetTargets(index int, t Targets) error {
	if index < 0 || index >= len(e.provisions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	switch p := e.provisions[index].(type) {
	case model.ExerciseProvision:
		item := p.RoutineItem
		if t.Sets != nil {
			item.TargetSets = *t.Sets
		}
		if t.Reps != nil {
			item.TargetReps = *t.Reps
		}
		if t.Weight != nil {
			item.TargetWeight = t.Weight
		}
		if t.RPE != nil {
			item.TargetRPE = t.RPE
		}
		if t.RestSeconds != nil {
			item.RestSeconds = *t.RestSeconds
		}
		if t.Notes != nil {
			item.Notes = t.Notes
		}
		if err := item.Validate(); err != nil {
			return err
		}
		e.provisions[index] = model.ExerciseProvision{RoutineItem: item}
		return nil
	case model.SupersetProvision:
		return ErrSuperset
	default:
		panic(fmt.Sprintf("unhandled provision type %T", p))
	}
}

// HasTemporaryIDs reports whether any provision was added locally and not
// yet saved.
func (e *Editor) HasTemporaryIDs() bool {
	for _, p := range e.provisions {
		if isTemporaryID(p.ProvisionID()) {
			return true
		}
	}
	return false
}

// isTemporaryID reports whether id was assigned by the editor.
func isTemporaryID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

func (e *Editor) renumber() {
	for i, p := range e.provisions {
		e.provisions[i] = model.WithOrder(p, i)
	}
}

func sortByOrder(ps model.Provisions) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].ProvisionOrder() < ps[j].ProvisionOrder()
	})
}
