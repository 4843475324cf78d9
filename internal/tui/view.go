package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
	"github.com/verte-zerg/tuilift/internal/workout"
)

const (
	maxTabLabelWidth = 18
	pickerMaxWidth   = 60
)

func (m *Model) layout() {
	w := min(m.width-4, pickerMaxWidth)
	h := m.height - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.picker.SetSize(w, h)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenLoading:
		body = mutedStyle.Render("Loading...")
	case screenDashboard:
		body = m.renderDashboard()
	case screenWorkout:
		body = m.renderWorkout()
	}

	switch {
	case m.confirm != confirmNone:
		body = m.renderConfirm()
	case m.pickerOpen:
		body = m.renderPicker()
	}

	footer := m.renderFooter()
	if m.width > 0 && m.height > 0 {
		bodyHeight := m.height - lipgloss.Height(footer)
		body = lipgloss.Place(m.width, max(bodyHeight, 1), lipgloss.Center, lipgloss.Top, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tuilift"))
	b.WriteString("\n\n")
	if m.ctrl.InFlight() == workout.OpStart {
		b.WriteString(accentStyle.Render("Starting..."))
		return b.String()
	}
	b.WriteString(m.dashboardRow(0, "Quick start", "empty workout"))
	b.WriteString("\n")
	if len(m.routines) == 0 {
		b.WriteString(mutedStyle.Render("  No active routines"))
	}
	for i, r := range m.routines {
		detail := fmt.Sprintf("%d exercises", r.ExerciseCount())
		b.WriteString(m.dashboardRow(i+1, r.Name, detail))
		if i < len(m.routines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) dashboardRow(idx int, name, detail string) string {
	if idx == m.dashIndex {
		return selectedRowStyle.Render("> "+name) + "  " + mutedStyle.Render(detail)
	}
	return "  " + name + "  " + mutedStyle.Render(detail)
}

func (m *Model) renderWorkout() string {
	session := m.ctrl.Session()
	if session == nil {
		return mutedStyle.Render("No workout in progress")
	}

	sections := []string{m.renderHeader(session)}
	if rest := m.ctrl.Rest(); rest.Active() {
		sections = append(sections, restStyle.Render("Rest "+rest.Format()))
	}
	if len(session.PerformedExercises) == 0 {
		sections = append(sections, mutedStyle.Render("No exercises yet. Press a to add one."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}
	sections = append(sections, m.renderTabs(session))
	if active, ok := m.ctrl.ActiveExercise(); ok {
		sections = append(sections, renderSets(active), m.form.view())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader(s *model.WorkoutSession) string {
	started := s.StartTime.Local().Format("15:04")
	header := titleStyle.Render(s.Title()) + "  " + mutedStyle.Render("started "+started)
	if op := m.ctrl.InFlight(); op != 0 {
		header += "  " + accentStyle.Render(inFlightLabel(op))
	}
	return header
}

func inFlightLabel(op workout.Op) string {
	switch op {
	case workout.OpLogSet:
		return "Saving set..."
	case workout.OpAddExercise:
		return "Adding exercise..."
	case workout.OpFinish:
		return "Finishing..."
	case workout.OpDiscard:
		return "Discarding..."
	default:
		return "Working..."
	}
}

func (m *Model) renderTabs(s *model.WorkoutSession) string {
	activeID := m.ctrl.ActiveExerciseID()
	tabs := make([]string, 0, len(s.PerformedExercises))
	for _, e := range s.PerformedExercises {
		label := fmt.Sprintf("%s (%d)", truncate(e.DisplayName(), maxTabLabelWidth), len(e.Sets))
		if e.ID == activeID {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderSets(e model.PerformedExercise) string {
	if len(e.Sets) == 0 {
		return mutedStyle.Render("No sets logged")
	}
	lines := make([]string, len(e.Sets))
	for i, set := range e.Sets {
		line := fmt.Sprintf("%2d  %s kg × %d", set.SetNumber, stats.FormatNumber(set.Weight), set.Reps)
		if set.RPE != nil {
			line += "  @" + stats.FormatNumber(*set.RPE)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirm() string {
	var prompt string
	switch m.confirm {
	case confirmFinish:
		prompt = "Finish this workout?"
	case confirmDiscard:
		prompt = "Discard this workout? Logged sets will be lost."
	case confirmResume:
		title := "a workout"
		if m.conflict != nil {
			title = fmt.Sprintf("%q (started %s)", m.conflict.Title(), m.conflict.StartTime.Local().Format("Jan 2 15:04"))
		}
		prompt = "You already have " + title + " in progress. Resume it?"
	}
	return modalStyle.Render(prompt + "\n\n" + mutedStyle.Render("y confirm · n cancel"))
}

func (m *Model) renderPicker() string {
	if m.pickerLoading {
		return modalStyle.Render(mutedStyle.Render("Loading exercises..."))
	}
	if len(m.exercises) == 0 {
		return modalStyle.Render("No exercises yet. Add some with `tuilift exercises add`.")
	}
	return m.picker.View()
}

func (m *Model) renderFooter() string {
	width := m.width
	var line string
	switch {
	case m.errMsg != "":
		line = errorStyle.Render(wrapText(m.errMsg, width))
	case m.status != "":
		line = wrapText(m.status, width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, footerStyle.Render(wrapText(m.keyHints(), width)))
}

func (m *Model) keyHints() string {
	switch {
	case m.confirm != confirmNone:
		return "y yes · n no"
	case m.pickerOpen:
		return "/ filter · enter add · esc close"
	case m.screen == screenWorkout:
		return "enter log set · tab field · ←/→ exercise · a add · s skip rest · f finish · x discard · q quit"
	case m.screen == screenDashboard:
		return "↑/↓ select · enter start · r reload · q quit"
	}
	return "ctrl+c quit"
}
