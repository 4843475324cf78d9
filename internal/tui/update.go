package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuilift/internal/model"
)

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.dashIndex > 0 {
			m.dashIndex--
		}
		return m, nil
	case "down", "j":
		if m.dashIndex < len(m.routines) {
			m.dashIndex++
		}
		return m, nil
	case "enter":
		if m.ctrl.Busy() {
			return m, nil
		}
		var routine *model.Routine
		if m.dashIndex > 0 && m.dashIndex <= len(m.routines) {
			r := m.routines[m.dashIndex-1]
			routine = &r
		}
		pending, err := m.ctrl.BeginStart(routine)
		return m, m.run(pending, err, "start")
	case "r":
		if m.routinesLoading {
			return m, nil
		}
		m.routinesLoading = true
		svc := m.svc
		return m, func() tea.Msg {
			routines, err := svc.ListRoutines(context.Background(), true)
			return routinesMsg{routines: routines, err: err}
		}
	}
	return m, nil
}

type routinesMsg struct {
	routines []model.Routine
	err      error
}

func (m *Model) updateWorkout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Busy() {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyLeft:
		m.ctrl.SelectPrev()
		m.form.prefill(m.ctrl.ActiveExercise())
		return m, nil
	case tea.KeyRight:
		m.ctrl.SelectNext()
		m.form.prefill(m.ctrl.ActiveExercise())
		return m, nil
	case tea.KeyTab:
		return m, m.form.focus(m.form.focused + 1)
	case tea.KeyShiftTab:
		return m, m.form.focus(m.form.focused - 1)
	case tea.KeyEnter:
		in, err := m.form.parse()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		pending, err := m.ctrl.BeginLogSet(in)
		return m, m.run(pending, err, "log set")
	case tea.KeyBackspace, tea.KeyDelete:
		return m, m.form.update(msg)
	case tea.KeyRunes:
		if numericRunes(msg.Runes) {
			return m, m.form.update(msg)
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s":
		m.ctrl.SkipRest()
		return m, nil
	case "a":
		return m, m.openPicker()
	case "f":
		m.confirm = confirmFinish
		return m, nil
	case "x":
		m.confirm = confirmDiscard
		return m, nil
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirm
	switch msg.String() {
	case "y", "Y":
		m.confirm = confirmNone
		switch kind {
		case confirmFinish:
			pending, err := m.ctrl.BeginFinish()
			return m, m.run(pending, err, "finish")
		case confirmDiscard:
			pending, err := m.ctrl.BeginDiscard()
			return m, m.run(pending, err, "discard")
		case confirmResume:
			m.conflict = nil
			pending, err := m.ctrl.BeginResume()
			return m, m.run(pending, err, "resume")
		}
	case "n", "N", "esc":
		m.confirm = confirmNone
		if kind == confirmResume {
			m.conflict = nil
			m.status = "Finish or discard the open workout before starting another."
		}
	}
	return m, nil
}

func (m *Model) openPicker() tea.Cmd {
	m.pickerOpen = true
	m.picker.ResetFilter()
	if m.exercises != nil || m.pickerLoading {
		return nil
	}
	m.pickerLoading = true
	svc := m.svc
	return func() tea.Msg {
		exercises, err := svc.ListExercises(context.Background(), "")
		return exercisesMsg{exercises: exercises, err: err}
	}
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc", "q":
			m.pickerOpen = false
			return m, nil
		case "enter":
			item, ok := m.picker.SelectedItem().(exerciseItem)
			if !ok {
				return m, nil
			}
			m.pickerOpen = false
			pending, err := m.ctrl.BeginAddExercise(item.ID, "")
			return m, m.run(pending, err, "add exercise")
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func numericRunes(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
