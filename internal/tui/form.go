package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
)

const (
	fieldWeight = iota
	fieldReps
	fieldRPE
)

// setForm is the weight/reps/RPE entry row under the set list.
type setForm struct {
	inputs  []textinput.Model
	focused int
}

func newSetForm() setForm {
	f := setForm{inputs: []textinput.Model{
		newNumberInput("Weight: ", "kg", 7),
		newNumberInput("Reps: ", "0", 3),
		newNumberInput("RPE: ", "opt", 4),
	}}
	f.focus(fieldWeight)
	return f
}

func newNumberInput(prompt, placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Width = limit + 1
	input.Cursor.SetMode(cursor.CursorStatic)
	return input
}

func (f *setForm) focus(idx int) tea.Cmd {
	count := len(f.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	f.focused = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *setForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// prefill copies weight and reps from the exercise's last set so repeating
// a set is a single keypress.
func (f *setForm) prefill(e model.PerformedExercise, ok bool) {
	f.inputs[fieldRPE].SetValue("")
	if !ok || len(e.Sets) == 0 {
		f.inputs[fieldWeight].SetValue("")
		f.inputs[fieldReps].SetValue("")
		return
	}
	last := e.Sets[len(e.Sets)-1]
	f.inputs[fieldWeight].SetValue(stats.FormatNumber(last.Weight))
	f.inputs[fieldReps].SetValue(strconv.Itoa(last.Reps))
}

func (f *setForm) parse() (model.SetInput, error) {
	var in model.SetInput
	weight := strings.TrimSpace(f.inputs[fieldWeight].Value())
	if weight != "" {
		v, err := strconv.ParseFloat(weight, 64)
		if err != nil {
			return in, fmt.Errorf("invalid weight %q", weight)
		}
		in.Weight = v
	}
	reps := strings.TrimSpace(f.inputs[fieldReps].Value())
	if reps == "" {
		return in, fmt.Errorf("reps are required")
	}
	n, err := strconv.Atoi(reps)
	if err != nil {
		return in, fmt.Errorf("invalid reps %q", reps)
	}
	in.Reps = n
	if rpe := strings.TrimSpace(f.inputs[fieldRPE].Value()); rpe != "" {
		v, err := strconv.ParseFloat(rpe, 64)
		if err != nil {
			return in, fmt.Errorf("invalid RPE %q", rpe)
		}
		in.RPE = &v
	}
	return in, in.Validate()
}

func (f *setForm) view() string {
	parts := make([]string, len(f.inputs))
	for i, input := range f.inputs {
		parts[i] = input.View()
	}
	return strings.Join(parts, "   ")
}
