// Package historyui provides the Bubble Tea history interface.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuilift/internal/stats"
)

const (
	tabSessions = iota
	tabTrends
	tabWeight
)

const (
	plotHeight    = 10
	defaultWindow = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Source is what the history screens read and delete.
type Source interface {
	stats.Source
	DeleteSession(ctx context.Context, id string) error
}

// Config holds the initial filter and plot window.
type Config struct {
	History stats.HistoryConfig
	Window  int
}

type reportMsg struct {
	report stats.Report
	err    error
}

type deletedMsg struct {
	id  string
	err error
}

// Model implements the Bubble Tea history UI.
type Model struct {
	src    Source
	cfg    stats.HistoryConfig
	window int

	report  stats.Report
	loading bool
	errMsg  string
	status  string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	sessionTable table.Model
	tableLayout  tableLayout

	detailMode bool
	detail     viewport.Model

	confirmDelete string
	deleting      bool

	width  int
	height int

	filterMode  bool
	filter      filterForm
	filterError string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a history UI model. Data is loaded by Init.
func NewModel(src Source, cfg Config) *Model {
	window := cfg.Window
	if window < 1 {
		window = defaultWindow
	}
	m := &Model{
		src:    src,
		cfg:    cfg.History,
		window: window,
		tabs:   []string{"Sessions", "Trends", "Body Weight"},
		filter: newFilterForm(),
		detail: viewport.New(0, 0),
	}
	m.sessionTable = buildSessionTable(nil, 0, 1)
	m.initViewports()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	src, cfg := m.src, m.cfg
	return func() tea.Msg {
		report, err := stats.BuildReport(context.Background(), src, cfg)
		return reportMsg{report: report, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			log.WithError(msg.err).Error("history load failed")
			m.renderTabContents()
			return m, nil
		}
		m.errMsg = ""
		m.report = msg.report
		m.applySessionTable(true)
		m.renderTabContents()
		return m, nil
	case deletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			log.WithField("session_id", msg.id).WithError(msg.err).Error("delete session failed")
			return m, nil
		}
		m.status = "Deleted workout"
		return m, m.load()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.confirmDelete != "" {
			return m.updateConfirm(msg)
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		return m.updateTabs(msg)
	}
	return m, nil
}

func (m *Model) updateTabs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.window = nextWindow(m.window)
		m.renderTabContents()
		return m, nil
	case "-":
		m.window = prevWindow(m.window)
		m.renderTabContents()
		return m, nil
	case "/":
		return m.startFilter()
	case "r":
		if m.loading || m.deleting {
			return m, nil
		}
		m.status = ""
		return m, m.load()
	case "enter":
		if m.activeTab == tabSessions {
			m.openDetail()
		}
		return m, nil
	case "d":
		if m.activeTab == tabSessions && !m.deleting {
			if s, ok := m.selectedSession(); ok {
				m.confirmDelete = s
			}
		}
		return m, nil
	case "g", "home":
		if m.activeTab == tabSessions {
			m.sessionTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabSessions {
			m.sessionTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabSessions {
		m.sessionTable, cmd = m.sessionTable.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter", "backspace":
		m.detailMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = ""
		m.deleting = true
		src := m.src
		return m, func() tea.Msg {
			return deletedMsg{id: id, err: src.DeleteSession(context.Background(), id)}
		}
	case "n", "N", "esc", "q":
		m.confirmDelete = ""
	}
	return m, nil
}

// selectedSession returns the id of the highlighted session row.
func (m *Model) selectedSession() (string, bool) {
	idx := m.sessionTable.Cursor()
	if idx < 0 || idx >= len(m.report.Sessions) {
		return "", false
	}
	return m.report.Sessions[idx].ID, true
}

func (m *Model) openDetail() {
	id, ok := m.selectedSession()
	if !ok {
		return
	}
	s, _ := m.report.Session(id)
	var buf bytes.Buffer
	if err := stats.RenderSessionDetail(&buf, s); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.detail.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.detail.GotoTop()
	m.detailMode = true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmDelete != "" {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && (m.errMsg != "" || m.status != "") {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.detail.Width = m.width
	m.detail.Height = vpHeight
	m.setTableSize(m.width, vpHeight)
	m.filter.resize(m.width)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since, until := "any", "any"
	if m.cfg.Start != nil {
		since = m.cfg.Start.String()
	}
	if m.cfg.End != nil {
		until = m.cfg.End.String()
	}
	summary := fmt.Sprintf("Filter: since=%s  until=%s  limit=%d  months=%d  window=%d", since, until, m.cfg.Limit, m.cfg.Months, m.window)
	if m.loading {
		summary += "  loading..."
	}
	if m.deleting {
		summary += "  deleting..."
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Reload: r  Quit: q"
	switch {
	case m.detailMode:
		help = "Back: esc  Scroll: up/down/pgup/pgdn  Quit: q"
	case m.activeTab == tabSessions:
		help = "Nav: left/right  Details: enter  Delete: d  Filter: /  Reload: r  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.status != "":
		return m.renderHelp() + "\n" + truncateLine(m.status, m.width)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.filter.view(m.filterError), m.width, height)
	}
	if m.detailMode {
		return fitLines(m.detail.View(), m.width, height)
	}
	if m.loading && len(m.report.Sessions) == 0 && len(m.report.WeightLogs) == 0 {
		return fitLines("Loading...", m.width, height)
	}
	if m.activeTab == tabSessions {
		if len(m.report.Sessions) == 0 {
			return fitLines("No workouts found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderConfirmModal() string {
	name := m.confirmDelete
	if s, ok := m.report.Session(m.confirmDelete); ok {
		name = fmt.Sprintf("%s on %s", s.Title(), s.Date)
	}
	body := strings.Join([]string{
		cardValueStyle.Render("Delete workout"),
		fmt.Sprintf("Delete %q? This cannot be undone.", name),
		headerStyle.Render("y confirm / n cancel"),
	}, "\n")
	box := modalStyle.Width(modalWidth(m.width)).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" && len(m.report.Sessions) == 0 && len(m.report.WeightLogs) == 0 {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	opts := stats.RenderOptions{TotalWidth: width, Height: plotHeight, Window: m.window, ForceColor: true}
	m.viewports[tabTrends].SetContent(renderTrends(m.report, opts))
	m.viewports[tabWeight].SetContent(renderWeight(m.report, opts))
}

func renderTrends(r stats.Report, opts stats.RenderOptions) string {
	if len(r.Sessions) == 0 {
		return "No workouts found."
	}
	cards := renderSummaryCards(r, opts.TotalWidth)
	var buf bytes.Buffer
	if err := stats.RenderVolumeTrend(&buf, r.Chronological(), opts); err != nil {
		return fmt.Sprintf("Failed to render volume trend: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderWeight(r stats.Report, opts stats.RenderOptions) string {
	var buf bytes.Buffer
	if err := stats.RenderWeight(&buf, r.WeightLogs, opts); err != nil {
		return fmt.Sprintf("Failed to render body weight: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	var volume float64
	var sets int
	var elapsed time.Duration
	timed := 0
	for _, s := range r.Sessions {
		volume += stats.TotalVolume(s)
		sets += stats.TotalSets(s)
		if d, ok := stats.SessionDuration(s); ok {
			elapsed += d
			timed++
		}
	}
	avg := "-"
	if timed > 0 {
		avg = stats.FormatDuration(elapsed / time.Duration(timed))
	}
	cards := []string{
		metricCard("Workouts", fmt.Sprintf("%d", len(r.Sessions))),
		metricCard("Sets", fmt.Sprintf("%d", sets)),
		metricCard("Volume", stats.FormatNumber(volume)),
		metricCard("Avg Duration", avg),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
