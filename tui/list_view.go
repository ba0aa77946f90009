// ABOUTME: List screen for the friends and network tabs
// ABOUTME: Shows the up-next queue above the rest of the roster, with search
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/viz"
)

// reload refreshes the rows for the current tab. While a search is active
// the queue is skipped and matches are listed alphabetically.
func (m *Model) reload() {
	m.err = nil
	if m.tab != TabFriends && m.tab != TabNetwork {
		return
	}

	today := m.today()
	contacts, err := viz.LoadContacts(m.db, m.class(), today)
	if err != nil {
		m.err = err
		m.contacts = nil
		return
	}

	if m.searchQuery != "" {
		m.contacts = cadence.FilterRoster(contacts, nil, m.searchQuery)
		m.upNextCount = 0
	} else {
		upNext, roster := cadence.Queue(contacts, m.opts.UpNextLimit)
		m.contacts = append(append([]models.Contact{}, upNext...), roster...)
		m.upNextCount = len(upNext)
	}

	if m.selectedRow >= len(m.contacts) {
		m.selectedRow = len(m.contacts) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("KITH"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.tab {
	case TabStats:
		s.WriteString(m.renderStatsView())
		return s.String()
	case TabSync:
		s.WriteString(m.renderSyncView())
		return s.String()
	}

	if m.searching {
		s.WriteString("/ " + m.searchInput.View())
		s.WriteString("\n\n")
	} else if m.searchQuery != "" {
		s.WriteString(helpStyle.Render(fmt.Sprintf("Matching %q (esc to clear)", m.searchQuery)))
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	} else if m.statusMessage != "" {
		s.WriteString(statusStyle.Render(m.statusMessage))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	if len(m.contacts) == 0 {
		if m.searchQuery != "" {
			return helpStyle.Render("Nobody matches.")
		}
		return helpStyle.Render("No contacts yet. Add one with 'kith contacts add'.")
	}

	nameWidth := 24
	if m.width > 100 {
		nameWidth = m.width - 76
	}
	columns := []table.Column{
		{Title: "", Width: 1},
		{Title: "Name", Width: nameWidth},
		{Title: "Tier", Width: 16},
		{Title: "Last contact", Width: 14},
		{Title: "Due", Width: 16},
		{Title: "Prefers", Width: 10},
	}

	today := m.today()
	rows := make([]table.Row, 0, len(m.contacts))
	for i, c := range m.contacts {
		marker := ""
		if i < m.upNextCount {
			marker = "●"
		}
		overdue := cadence.ContactDaysOverdue(c, today)
		rows = append(rows, table.Row{
			marker,
			c.FullName(),
			cadence.TierLabel(c.Tier),
			cadence.RelativeTime(c.LastInteractionDate, today),
			cadence.DueLabel(c.LastInteractionDate, overdue, today),
			cadence.MethodLabel(c.PreferredMethod),
		})
	}

	height := m.height - 12
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: Details",
		"l: Log",
		"/: Search",
		"g: Map",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) switchTab(delta int) Model {
	n := len(tabNames)
	m.tab = Tab((int(m.tab) + delta + n) % n)
	m.selectedRow = 0
	m.searchQuery = ""
	m.statusMessage = ""
	switch m.tab {
	case TabSync:
		m.loadSyncStates()
	default:
		m.reload()
	}
	return m
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.contacts)-1 {
			m.selectedRow++
		}
	case "tab":
		return m.switchTab(1), nil
	case "shift+tab":
		return m.switchTab(-1), nil
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.statusMessage = ""
			m.viewMode = ViewDetail
		}
	case "l":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.initLogForm()
			m.viewMode = ViewLog
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		return m, m.searchInput.Focus()
	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.reload()
		}
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
		} else {
			m.viewMode = ViewGraph
		}
	case "r":
		m.reload()
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.selectedRow = 0
		m.reload()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) getSelectedID() string {
	if m.selectedRow >= 0 && m.selectedRow < len(m.contacts) {
		return m.contacts[m.selectedRow].ID.String()
	}
	return ""
}
