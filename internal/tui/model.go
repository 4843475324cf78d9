// Package tui provides the Bubble Tea workout interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
	"github.com/verte-zerg/tuilift/internal/workout"
)

// Services is what the workout screens read besides the session itself.
type Services interface {
	workout.SessionAPI
	ListRoutines(ctx context.Context, activeOnly bool) ([]model.Routine, error)
	ListExercises(ctx context.Context, muscleGroup model.MuscleGroup) ([]model.Exercise, error)
}

type screen int

const (
	screenLoading screen = iota
	screenDashboard
	screenWorkout
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmFinish
	confirmDiscard
	confirmResume
)

var (
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	accentStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	restStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeTabStyle   = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Bold(true).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

type dashboardMsg struct {
	outcome     workout.Outcome
	routines    []model.Routine
	routinesErr error
}

type outcomeMsg struct {
	outcome workout.Outcome
}

type exercisesMsg struct {
	exercises []model.Exercise
	err       error
}

type restTickMsg struct {
	gen uint64
}

// Model implements the Bubble Tea workout UI.
type Model struct {
	ctrl *workout.Controller
	svc  Services

	screen screen
	width  int
	height int

	routines        []model.Routine
	routinesLoading bool
	dashIndex       int

	form setForm

	pickerOpen    bool
	pickerLoading bool
	picker        list.Model
	exercises     []model.Exercise

	confirm  confirmKind
	conflict *model.WorkoutSession

	status string
	errMsg string
}

// New constructs the workout UI around a controller.
func New(ctrl *workout.Controller, svc Services) *Model {
	m := &Model{
		ctrl:   ctrl,
		svc:    svc,
		screen: screenLoading,
		form:   newSetForm(),
		picker: newPicker(),
	}
	return m
}

// Init implements tea.Model. It resumes an active session and loads today's
// routines concurrently.
func (m *Model) Init() tea.Cmd {
	pending, err := m.ctrl.BeginResume()
	if err != nil {
		m.setError("resume", err)
		m.screen = screenDashboard
		return nil
	}
	svc := m.svc
	return func() tea.Msg {
		var msg dashboardMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			msg.outcome = pending.Run(ctx)
			return nil
		})
		g.Go(func() error {
			msg.routines, msg.routinesErr = svc.ListRoutines(ctx, true)
			return nil
		})
		_ = g.Wait()
		return msg
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case dashboardMsg:
		return m.handleDashboard(msg)
	case outcomeMsg:
		return m.handleOutcome(msg.outcome)
	case exercisesMsg:
		return m.handleExercises(msg)
	case routinesMsg:
		m.routinesLoading = false
		if msg.err != nil {
			m.setError("list routines", msg.err)
			return m, nil
		}
		m.routines = msg.routines
		m.dashIndex = min(m.dashIndex, len(m.routines))
		return m, nil
	case restTickMsg:
		if m.ctrl.TickRest(msg.gen) {
			return m, restTick(msg.gen)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		if m.pickerOpen {
			return m.updatePicker(msg)
		}
		switch m.screen {
		case screenDashboard:
			return m.updateDashboard(msg)
		case screenWorkout:
			return m.updateWorkout(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.pickerOpen {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleDashboard(msg dashboardMsg) (tea.Model, tea.Cmd) {
	m.routines = msg.routines
	if msg.routinesErr != nil {
		m.setError("list routines", msg.routinesErr)
	}
	session, err := m.ctrl.Apply(msg.outcome)
	if err != nil {
		m.setError("resume", err)
	}
	if session != nil {
		m.enterWorkout("Resumed " + session.Title())
		return m, nil
	}
	m.screen = screenDashboard
	return m, nil
}

func (m *Model) handleOutcome(o workout.Outcome) (tea.Model, tea.Cmd) {
	session, err := m.ctrl.Apply(o)
	if err != nil {
		var active *workout.ActiveSessionError
		if errors.As(err, &active) && active.Session != nil {
			m.conflict = active.Session
			m.confirm = confirmResume
			m.errMsg = ""
			return m, nil
		}
		m.setError(o.Op.String(), err)
		return m, nil
	}
	m.errMsg = ""

	switch o.Op {
	case workout.OpResume:
		if session == nil {
			m.screen = screenDashboard
			m.status = "The workout is no longer active."
			return m, nil
		}
		m.enterWorkout("Resumed " + session.Title())
	case workout.OpStart:
		m.enterWorkout("Started " + session.Title())
		return m, m.openPicker()
	case workout.OpAddExercise:
		m.form.prefill(m.ctrl.ActiveExercise())
		if active, ok := m.ctrl.ActiveExercise(); ok {
			m.status = "Added " + active.DisplayName()
		}
		return m, m.form.focus(0)
	case workout.OpLogSet:
		m.status = "Set logged"
		m.form.prefill(m.ctrl.ActiveExercise())
		rest := m.ctrl.Rest()
		if rest.Active() {
			return m, restTick(rest.Generation())
		}
	case workout.OpFinish:
		m.screen = screenDashboard
		m.status = finishSummary(session)
	case workout.OpDiscard:
		m.screen = screenDashboard
		m.status = "Workout discarded"
	}
	return m, nil
}

func (m *Model) handleExercises(msg exercisesMsg) (tea.Model, tea.Cmd) {
	m.pickerLoading = false
	if msg.err != nil {
		m.pickerOpen = false
		m.setError("list exercises", msg.err)
		return m, nil
	}
	m.exercises = msg.exercises
	cmd := m.picker.SetItems(exerciseItems(msg.exercises))
	return m, cmd
}

func (m *Model) enterWorkout(status string) {
	m.screen = screenWorkout
	m.status = status
	m.form.prefill(m.ctrl.ActiveExercise())
}

// run executes the pending action off the UI goroutine; its outcome comes
// back as an outcomeMsg and is applied in Update.
func (m *Model) run(pending *workout.Pending, err error, op string) tea.Cmd {
	if err != nil {
		m.setError(op, err)
		return nil
	}
	m.errMsg = ""
	m.status = ""
	return func() tea.Msg {
		return outcomeMsg{outcome: pending.Run(context.Background())}
	}
}

func (m *Model) setError(op string, err error) {
	if errors.Is(err, workout.ErrBusy) {
		return
	}
	m.errMsg = err.Error()
	m.status = ""
	log.WithField("op", op).WithError(err).Error("workout ui action failed")
}

func restTick(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return restTickMsg{gen: gen}
	})
}

func finishSummary(s *model.WorkoutSession) string {
	if s == nil {
		return "Workout finished"
	}
	summary := fmt.Sprintf("Finished %s: %d sets, %s kg", s.Title(), stats.TotalSets(*s), stats.FormatNumber(stats.TotalVolume(*s)))
	if d, ok := stats.SessionDuration(*s); ok {
		summary += ", " + stats.FormatDuration(d)
	}
	return summary
}
