package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alogtools/alog/internal/ranker"
	"github.com/alogtools/alog/pkg/models"
)

// View represents different views in the TUI
type View int

const (
	ViewOverview View = iota
	ViewAddresses
	ViewURIs
	ViewStatus
)

const viewCount = 4

// Model represents the TUI application state
type Model struct {
	result *models.AnalysisResult
	topN   int

	currentView View

	width  int
	height int

	keys keyMap
}

// keyMap defines keyboard shortcuts
type keyMap struct {
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding
	Quit  key.Binding
	View1 key.Binding
	View2 key.Binding
	View3 key.Binding
	View4 key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous view"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next view"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	View1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	View2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "addresses")),
	View3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "uris")),
	View4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "status")),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("6")).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{Top: " ", Bottom: " ", Left: " ", Right: "│"}, false, true, false, false).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Border(lipgloss.Border{Top: " ", Bottom: "─", Left: " ", Right: "│"}, false, true, true, false).
			BorderForeground(lipgloss.Color("6")).
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
)

// NewModel creates a TUI model over a finished analysis result.
func NewModel(result *models.AnalysisResult, topN int) Model {
	return Model{
		result:      result,
		topN:        topN,
		currentView: ViewOverview,
		keys:        keys,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.currentView = (m.currentView + 1) % viewCount
		case key.Matches(msg, m.keys.Left):
			m.currentView = (m.currentView - 1 + viewCount) % viewCount
		case key.Matches(msg, m.keys.View1):
			m.currentView = ViewOverview
		case key.Matches(msg, m.keys.View2):
			m.currentView = ViewAddresses
		case key.Matches(msg, m.keys.View3):
			m.currentView = ViewURIs
		case key.Matches(msg, m.keys.View4):
			m.currentView = ViewStatus
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) View() string {
	header := m.renderHeader()
	tabs := m.renderTabs()

	var content string
	switch m.currentView {
	case ViewAddresses:
		content = m.renderRanked("Top Client Addresses", m.result.IPCounts)
	case ViewURIs:
		content = m.renderRanked("Top Requested URIs", m.result.URICounts)
	case ViewStatus:
		content = m.renderStatus()
	default:
		content = m.renderOverview()
	}

	footer := m.renderFooter()

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - lipgloss.Height(footer) - 2

	contentStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(availableHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		tabs,
		contentStyle.Render(content),
		footer,
	)
}

func (m Model) renderHeader() string {
	title := headerStyle.Render(" ACCESS LOG REPORT ")

	line := lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, title, line)
}

func (m Model) renderTabs() string {
	views := []struct {
		name string
		view View
	}{
		{"1 Overview", ViewOverview},
		{"2 Addresses", ViewAddresses},
		{"3 URIs", ViewURIs},
		{"4 Status", ViewStatus},
	}

	tabs := make([]string, 0, len(views))
	for _, v := range views {
		if m.currentView == v.view {
			tabs = append(tabs, activeTabStyle.Render(v.name))
		} else {
			tabs = append(tabs, tabStyle.Render(v.name))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	help := helpStyle.Render("q: quit │ ←/→ or tab: switch view │ 1-4: jump to view")

	line := lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, line, help)
}

func (m Model) renderOverview() string {
	r := m.result
	var sections []string

	accounting := fmt.Sprintf(
		"%s %s\n%s %s\n%s %s\n%s %s",
		keyStyle.Render("Lines Processed:"), formatNumber(r.TotalLines()),
		keyStyle.Render("Valid Requests:"), formatNumber(r.TotalValid),
		keyStyle.Render("Parse Failures:"), formatNumber(r.TotalParseFailures),
		keyStyle.Render("Filtered Out:"), formatNumber(r.TotalFilteredOut),
	)
	sections = append(sections, m.renderPanel("Line Accounting", accounting))

	if r.TimeRange != nil {
		duration := r.TimeRange.End.Sub(r.TimeRange.Start)
		content := fmt.Sprintf(
			"%s %s\n%s %s\n%s %.1f hours",
			keyStyle.Render("From:"), r.TimeRange.Start.Format("2006-01-02 15:04:05"),
			keyStyle.Render("To:"), r.TimeRange.End.Format("2006-01-02 15:04:05"),
			keyStyle.Render("Duration:"), duration.Hours(),
		)
		sections = append(sections, m.renderPanel("Time Range", content))
	}

	if r.TotalValid > 0 {
		botPct := float64(r.BotRequests) / float64(r.TotalValid) * 100
		traffic := fmt.Sprintf(
			"%s %s\n%s %s (%.1f%%)\n%s %.2f MB",
			keyStyle.Render("Unique Addresses:"), formatNumber(int64(len(r.IPCounts))),
			keyStyle.Render("Bot Requests:"), formatNumber(r.BotRequests), botPct,
			keyStyle.Render("Bytes Sent:"), float64(r.ByteStats.TotalBytes)/1024/1024,
		)
		sections = append(sections, m.renderPanel("Traffic", traffic))
	}

	if len(r.SkippedFiles) > 0 {
		sections = append(sections, m.renderPanel("Skipped Files", strings.Join(r.SkippedFiles, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderRanked(title string, table map[string]int64) string {
	ranked := ranker.TopN(table, m.topN)
	if len(ranked) == 0 {
		return "No data available"
	}

	lines := make([]string, 0, len(ranked))
	for _, kc := range ranked {
		pct := float64(0)
		if m.result.TotalValid > 0 {
			pct = float64(kc.Count) / float64(m.result.TotalValid) * 100
		}
		lines = append(lines, fmt.Sprintf("%s - %s (%.1f%%)",
			truncate(kc.Key, 50), formatNumber(kc.Count), pct))
	}

	return m.renderPanel(title, strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	dist := ranker.StatusDistribution(m.result.StatusCounts)
	if len(dist) == 0 {
		return "No data available"
	}

	lines := make([]string, 0, len(dist))
	for _, sc := range dist {
		pct := float64(0)
		if m.result.TotalValid > 0 {
			pct = float64(sc.Count) / float64(m.result.TotalValid) * 100
		}
		lines = append(lines, fmt.Sprintf("%s %s (%.1f%%)",
			keyStyle.Render(fmt.Sprintf("%d:", sc.Status)), formatNumber(sc.Count), pct))
	}

	return m.renderPanel("Requests by Status Code", strings.Join(lines, "\n"))
}

func (m Model) renderPanel(title, content string) string {
	titleBar := titleStyle.Render(title)

	panel := panelStyle.
		Width(max(m.width-4, 20)).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, panel)
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	var result []byte
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(digit))
	}
	return string(result)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
