// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/progress"
	"github.com/verte-zerg/tuilees/internal/stats"
)

const (
	tabOverview = iota
	tabDays
	tabHistory
	tabWords
)

const plotHeight = 10

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
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src   stats.HistorySource
	state *progress.State
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports map[int]*viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model over the history and the saved progress.
func NewModel(src stats.HistorySource, state *progress.State, cfg model.StatsConfig) *Model {
	m := &Model{
		src:   src,
		state: state,
		cfg:   cfg,
		tabs:  []string{"Overview", "Days", "History", "Words"},
	}
	overview := viewport.New(0, 0)
	words := viewport.New(0, 0)
	m.viewports = map[int]*viewport.Model{tabOverview: &overview, tabWords: &words}
	days := newTable(dayColumns(), nil)
	history := newTable(historyColumns(), nil)
	m.tables = map[int]*table.Model{tabDays: &days, tabHistory: &history}
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
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
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		if t, ok := m.tables[m.activeTab]; ok {
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		vp := m.viewports[m.activeTab]
		*vp, cmd = vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Day: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable(cols []table.Column, rows []table.Row) table.Model {
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(optionalInt(m.cfg.Day))
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(optionalInt(m.cfg.Last))
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func optionalInt(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for _, vp := range m.viewports {
		vp.Width = m.width
		vp.Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		// One line for the header, one for its border.
		t.SetHeight(max(bodyHeight-2, 1))
	}
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for idx, t := range m.tables {
		if idx == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) gotoEdge(top bool) {
	if t, ok := m.tables[m.activeTab]; ok {
		if top {
			t.GotoTop()
		} else {
			t.GotoBottom()
		}
		return
	}
	if top {
		m.viewports[m.activeTab].GotoTop()
	} else {
		m.viewports[m.activeTab].GotoBottom()
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
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	day := "all"
	if m.cfg.Day > 0 {
		day = strconv.Itoa(m.cfg.Day)
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: day=%s  since=%s  last=%s  window=%d", day, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	}
	switch m.activeTab {
	case tabDays:
		if len(m.report.Days) == 0 {
			return fitLines("No days started.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.tables[tabDays].View()), m.width, height)
	case tabHistory:
		if len(m.report.Runs) == 0 {
			return fitLines("No finished blocks yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.tables[tabHistory].View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.state, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for _, vp := range m.viewports {
			vp.SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.tables[tabDays].SetRows(dayRows(report.Days))
	m.tables[tabHistory].SetRows(historyRows(report.Runs))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.viewports[tabWords].SetContent(renderWords(m.report))
}

func renderOverview(r stats.Report, window, width int) string {
	cards := []string{
		metricCard("Words read", fmt.Sprintf("%d", r.WordsRead)),
		metricCard("Challenge", fmt.Sprintf("%d", r.Totals.TotalWords)),
		metricCard("Days done", fmt.Sprintf("%d", len(r.Totals.CompletedDays))),
		metricCard("Avg pace", fmt.Sprintf("%.2f s/word", r.Totals.AverageSpeed)),
		metricCard("Blocks", fmt.Sprintf("%d", len(r.Runs))),
		metricCard("Recent pace", fmt.Sprintf("%.2f s/word", stats.MeanPace(r.Window))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	var buf bytes.Buffer
	if err := stats.RenderCurveWithSize(&buf, r.Runs, window, width, plotHeight, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderWords(r stats.Report) string {
	if len(r.Difficult) == 0 && len(r.Slowest) == 0 {
		return "No word statistics yet."
	}
	var buf bytes.Buffer
	if err := stats.RenderWordTables(&buf, r); err != nil {
		return fmt.Sprintf("Failed to render words: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func dayColumns() []table.Column {
	return []table.Column{
		{Title: "Day", Width: 4},
		{Title: "Words", Width: 8},
		{Title: "Blocks", Width: 7},
		{Title: "Time", Width: 7},
		{Title: "s/word", Width: 7},
		{Title: "Done", Width: 5},
	}
}

func dayRows(days []stats.DayRow) []table.Row {
	rows := make([]table.Row, 0, len(days))
	for _, d := range days {
		done := ""
		if d.Completed {
			done = "yes"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(d.Day),
			fmt.Sprintf("%d/%d", d.WordsRead, curriculum.WordsPerDay),
			fmt.Sprintf("%d/%d", d.BlocksDone, curriculum.BlocksPerDay),
			stats.FormatDuration(d.TotalSeconds),
			fmt.Sprintf("%.2f", d.SecondsPerWord),
			done,
		})
	}
	return rows
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Finished", Width: 16},
		{Title: "Day", Width: 4},
		{Title: "Block", Width: 6},
		{Title: "Mode", Width: 9},
		{Title: "Time", Width: 6},
		{Title: "s/word", Width: 7},
		{Title: "Replays", Width: 8},
		{Title: "Hard", Width: 5},
	}
}

// historyRows lists runs newest first.
func historyRows(runs []model.BlockRun) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		rows = append(rows, table.Row{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.Day + 1),
			strconv.Itoa(r.Block + 1),
			r.Mode,
			stats.FormatDuration(r.ElapsedSeconds),
			fmt.Sprintf("%.2f", r.SecondsPerWord()),
			strconv.Itoa(r.ReplayCount),
			strconv.Itoa(r.DifficultCount),
		})
	}
	return rows
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(inputs []textinput.Model) (model.StatsConfig, error) {
	var cfg model.StatsConfig
	if v := strings.TrimSpace(inputs[0].Value()); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil || day < 1 {
			return cfg, fmt.Errorf("invalid day (use a day number from 1)")
		}
		cfg.Day = day
	}
	if v := strings.TrimSpace(inputs[1].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if v := strings.TrimSpace(inputs[2].Value()); v != "" {
		last, err := strconv.Atoi(v)
		if err != nil || last < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = last
	}
	if v := strings.TrimSpace(inputs[3].Value()); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = window
	}
	return cfg, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
