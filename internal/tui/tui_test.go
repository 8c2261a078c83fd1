package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alogtools/alog/pkg/models"
)

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		TotalValid:   2,
		IPCounts:     map[string]int64{"1.1.1.1": 1, "2.2.2.2": 1},
		StatusCounts: map[int]int64{200: 1, 404: 1},
		URICounts:    map[string]int64{"/a": 2},
	}
}

func TestTabNavigation(t *testing.T) {
	m := NewModel(testResult(), 5)
	assert.Equal(t, ViewOverview, m.currentView)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, ViewAddresses, m.currentView)

	// Wraps around after the last view.
	for i := 0; i < 3; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
	}
	assert.Equal(t, ViewOverview, m.currentView)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	assert.Equal(t, ViewStatus, m.currentView)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	m = next.(Model)
	assert.Equal(t, ViewURIs, m.currentView)
}

func TestQuit(t *testing.T) {
	m := NewModel(testResult(), 5)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewRendersEachTab(t *testing.T) {
	m := NewModel(testResult(), 5)
	m.width = 80
	m.height = 24

	for _, view := range []View{ViewOverview, ViewAddresses, ViewURIs, ViewStatus} {
		m.currentView = view
		out := m.View()
		assert.NotEmpty(t, out)
	}

	m.currentView = ViewAddresses
	assert.Contains(t, m.View(), "1.1.1.1")

	m.currentView = ViewURIs
	assert.Contains(t, m.View(), "/a")
}
