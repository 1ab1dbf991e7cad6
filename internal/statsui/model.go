// Package statsui provides the Bubble Tea interviewer dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/scoring"
	"github.com/verte-zerg/tuiview/internal/stats"
)

const (
	tabOverview = iota
	tabCandidates
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

	tierStyles = map[string]lipgloss.Style{
		"Excellent": lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		"Good":      lipgloss.NewStyle().Foreground(lipgloss.Color("#1890FF")),
		"Average":   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		"Poor":      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	loader stats.Loader
	cfg    model.DashboardConfig
	log    *zap.Logger

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	table     table.Model

	detailMode bool
	detail     viewport.Model

	searchMode  bool
	searchInput textinput.Model

	width  int
	height int
}

// NewModel constructs a dashboard model and loads the first report.
func NewModel(loader stats.Loader, cfg model.DashboardConfig, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		loader:   loader,
		cfg:      cfg,
		log:      log,
		tabs:     []string{"Overview", "Candidates"},
		overview: viewport.New(0, 0),
		detail:   viewport.New(0, 0),
	}
	m.searchInput = textinput.New()
	m.searchInput.Prompt = "Search: "
	m.searchInput.Placeholder = "name, email or phone"
	m.searchInput.Cursor.SetMode(cursor.CursorBlink)
	m.table = table.New(
		table.WithColumns(candidateColumns(0)),
		table.WithHeight(1),
		table.WithFocused(true),
	)
	m.table.SetStyles(candidateTableStyles())
	m.refreshReport()
	return m
}

// Config returns the active filters and ordering.
func (m *Model) Config() model.DashboardConfig {
	return m.cfg
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
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.searchMode {
			return m.updateSearch(msg)
		}
		if m.detailMode {
			return m.updateDetail(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			m.searchMode = true
			m.searchInput.SetValue(m.cfg.Search)
			m.searchInput.CursorEnd()
			return m, m.searchInput.Focus()
		case "s":
			m.cfg.SortBy = stats.Next(stats.SortKeys, m.cfg.SortBy)
			m.cfg.Order = stats.OrderDesc
			m.applyConfig()
			return m, nil
		case "o":
			if m.cfg.Order == stats.OrderAsc {
				m.cfg.Order = stats.OrderDesc
			} else {
				m.cfg.Order = stats.OrderAsc
			}
			m.applyConfig()
			return m, nil
		case "f":
			m.cfg.Status = stats.Next(stats.StatusFilters, m.cfg.Status)
			m.applyConfig()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "enter":
			if m.activeTab == tabCandidates {
				m.openDetail()
			}
			return m, nil
		}
		if m.activeTab == tabCandidates {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
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
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		m.cfg.Search = strings.TrimSpace(m.searchInput.Value())
		m.applyConfig()
		m.activeTab = tabCandidates
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.detailMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) openDetail() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.report.Candidates) {
		return
	}
	var buf bytes.Buffer
	if err := stats.RenderDetail(&buf, m.report.Candidates[idx]); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.detail.SetContent(wrapText(buf.String(), m.width))
	m.detail.GotoTop()
	m.detailMode = true
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabCandidates {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.LoadReport(context.Background(), m.loader, m.cfg)
	if err != nil {
		m.log.Error("failed to load dashboard report", zap.Error(err))
		m.errMsg = err.Error()
		m.renderContents()
		return
	}
	m.errMsg = ""
	m.report = report
	m.table.SetRows(candidateRows(report.Candidates))
	m.renderContents()
}

// applyConfig re-filters the loaded sessions without touching the database.
func (m *Model) applyConfig() {
	m.report = stats.BuildReport(m.report.All, m.cfg)
	m.table.SetRows(candidateRows(m.report.Candidates))
	m.table.GotoTop()
	m.renderContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.table.SetColumns(candidateColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, bodyHeight-1))
	m.searchInput.Width = max(10, m.width-lipgloss.Width(m.searchInput.Prompt)-2)
}

func (m *Model) renderContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load interviews.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == tabCandidates {
			tab = fmt.Sprintf("%s (%d)", tab, len(m.report.Candidates))
		}
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
	return tabs + "\n" + padLines(m.renderSettings(), m.width)
}

func (m *Model) renderSettings() string {
	search := m.cfg.Search
	if search == "" {
		search = "-"
	}
	summary := fmt.Sprintf("Search: %s  Status: %s  Sort: %s %s", search, m.cfg.Status, m.cfg.SortBy, m.cfg.Order)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.searchMode:
		help = "enter: apply  esc: cancel"
	case m.detailMode:
		help = "Scroll: up/down/pgup/pgdn  Back: esc"
	default:
		help = "Nav: left/right  Search: /  Sort: s  Order: o  Status: f  Reload: r  Open: enter  Quit: q"
	}
	help = headerStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	switch {
	case m.searchMode:
		return m.searchInput.View()
	case m.detailMode:
		return m.detail.View()
	case m.activeTab == tabCandidates:
		if len(m.report.Candidates) == 0 {
			return "No candidates match."
		}
		return tableMutedStyle.Render(m.table.View())
	default:
		return m.overview.View()
	}
}

func renderOverview(report stats.Report, width int) string {
	ov := report.Overview
	if ov.Total == 0 {
		return "No interviews yet."
	}
	cards := []string{
		metricCard("Candidates", fmt.Sprintf("%d", ov.Total)),
		metricCard("Completed", fmt.Sprintf("%d", ov.Completed)),
		metricCard("In Progress", fmt.Sprintf("%d", ov.InProgress)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", ov.AverageScore)),
		metricCard("Best", fmt.Sprintf("%d/%d", ov.BestScore, scoring.MaxScore)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	parts := []string{summary}
	tiers := make([]string, 0, len(stats.Tiers))
	for _, t := range stats.Tiers {
		tiers = append(tiers, tierStyles[t].Render(fmt.Sprintf("%s %d", t, ov.TierCounts[t])))
	}
	parts = append(parts, "Tiers: "+strings.Join(tiers, "  "))
	if ov.Trend != "" {
		parts = append(parts, "Score trend: "+ov.Trend)
	}

	var buf bytes.Buffer
	if err := stats.RenderDifficultyTable(&buf, report.Difficulty); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render difficulty table: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}

	if len(report.Top) > 0 {
		lines := []string{"Top Candidates"}
		for i, s := range report.Top {
			score := *s.Score
			lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, s.CandidateInfo.Name,
				tierStyles[scoring.Tier(score)].Render(stats.FormatScore(s.Score))))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func candidateColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 24},
		{Title: "Phone", Width: 14},
		{Title: "Status", Width: 11},
		{Title: "Answered", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "Date", Width: 16},
	}
	if width <= 0 {
		return cols
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	// Give spare columns to name and email, take overflow from them too.
	extra := width - used
	nameShare := extra / 2
	cols[0].Width = max(8, cols[0].Width+nameShare)
	cols[1].Width = max(8, cols[1].Width+extra-nameShare)
	return cols
}

func candidateRows(sessions []model.Session) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row(stats.CandidateRow(s)))
	}
	return rows
}

func candidateTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
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
