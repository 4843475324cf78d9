package historyui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
)

const (
	filterSince = iota
	filterUntil
	filterLimit
	filterMonths
	filterWindow
)

type filterForm struct {
	inputs []textinput.Model
	index  int
}

func newFilterForm() filterForm {
	return filterForm{inputs: []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Until (YYYY-MM-DD): "),
		newFilterInput("Limit: "),
		newFilterInput("Weight months: "),
		newFilterInput("Trend window: "),
	}}
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (f *filterForm) resize(width int) {
	for i := range f.inputs {
		promptWidth := lipgloss.Width(f.inputs[i].Prompt)
		f.inputs[i].Width = max(10, width-promptWidth-2)
	}
}

func (f *filterForm) setValues(cfg stats.HistoryConfig, window int) {
	f.inputs[filterSince].SetValue(dateValue(cfg.Start))
	f.inputs[filterUntil].SetValue(dateValue(cfg.End))
	f.inputs[filterLimit].SetValue(positive(cfg.Limit))
	f.inputs[filterMonths].SetValue(positive(cfg.Months))
	f.inputs[filterWindow].SetValue(strconv.Itoa(window))
}

func dateValue(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (f *filterForm) setIndex(idx int) tea.Cmd {
	count := len(f.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	f.index = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.index {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// parse reads the form. Empty limit and months fall back to the API
// defaults.
func (f *filterForm) parse() (stats.HistoryConfig, int, error) {
	var cfg stats.HistoryConfig
	var err error
	if cfg.Start, err = parseOptionalDate(f.inputs[filterSince].Value(), "since"); err != nil {
		return cfg, 0, err
	}
	if cfg.End, err = parseOptionalDate(f.inputs[filterUntil].Value(), "until"); err != nil {
		return cfg, 0, err
	}
	if cfg.Start != nil && cfg.End != nil && cfg.End.Before(*cfg.Start) {
		return cfg, 0, fmt.Errorf("until date is before since date")
	}
	if cfg.Limit, err = parseCount(f.inputs[filterLimit].Value(), "limit", 0); err != nil {
		return cfg, 0, err
	}
	if cfg.Months, err = parseCount(f.inputs[filterMonths].Value(), "months", 0); err != nil {
		return cfg, 0, err
	}
	window, err := parseCount(f.inputs[filterWindow].Value(), "trend window", defaultWindow)
	if err != nil {
		return cfg, 0, err
	}
	if window < 1 {
		return cfg, 0, fmt.Errorf("invalid trend window (use integer >= 1)")
	}
	return cfg, window, nil
}

func parseOptionalDate(raw, name string) (*model.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date (expected YYYY-MM-DD)", name)
	}
	return &d, nil
}

func parseCount(raw, name string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value (use 0 or positive integer)", name)
	}
	return n, nil
}

func (f *filterForm) view(errMsg string) string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if errMsg != "" {
		lines = append(lines, errorStyle.Render(errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filter.setValues(m.cfg, m.window)
	return m, m.filter.setIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, window, err := m.filter.parse()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.cfg = cfg
		m.window = window
		m.updateLayout()
		return m, m.load()
	case tea.KeyTab:
		return m, m.filter.setIndex(m.filter.index + 1)
	case tea.KeyShiftTab:
		return m, m.filter.setIndex(m.filter.index - 1)
	}
	var cmd tea.Cmd
	m.filter.inputs[m.filter.index], cmd = m.filter.inputs[m.filter.index].Update(msg)
	return m, cmd
}
