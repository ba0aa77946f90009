// ABOUTME: TUI tab for import status and controls
// ABOUTME: Lists each import source with its last run and starts one on enter
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// importSource is one row of the sync tab. name matches the sync_state
// service key and the `kith sync` subcommand.
type importSource struct {
	name   string
	source string
}

var syncServices = []importSource{
	{name: "contacts", source: "Google contacts and birthdays"},
	{name: "calendar", source: "Google calendar meetings"},
	{name: "postgres", source: "Hosted database"},
}

// activityLines is how many log lines the tab keeps on screen.
const activityLines = 6

var (
	sourceNameStyle = lipgloss.NewStyle().Bold(true).Width(10)
	sourceDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(32)
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	badgeStyle      = lipgloss.NewStyle().Padding(0, 1)
	activityStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sectionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).MarginBottom(1)
)

// SyncCompleteMsg reports the end of an import started from the sync tab.
type SyncCompleteMsg struct {
	Service string
	Error   error
}

func (m Model) renderSyncView() string {
	rows := make([]string, 0, len(syncServices))
	for i, svc := range syncServices {
		cursor := "  "
		if i == m.selectedService {
			cursor = cursorStyle.Render("› ")
		}
		badge, detail := m.syncBadge(svc.name)
		rows = append(rows, cursor+sourceNameStyle.Render(svc.name)+sourceDescStyle.Render(svc.source)+badge+detail)
	}

	sections := []string{
		sectionStyle.Render("Imports"),
		strings.Join(rows, "\n"),
	}

	if len(m.syncMessages) > 0 {
		recent := m.syncMessages
		if len(recent) > activityLines {
			recent = recent[len(recent)-activityLines:]
		}
		sections = append(sections, "", sectionStyle.Render("Activity"), activityStyle.Render(strings.Join(recent, "\n")))
	}

	sections = append(sections, "", helpStyle.Render("j/k: choose • enter: run import • r: refresh • tab: switch • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// syncBadge renders the status of one import and a trailing detail.
func (m Model) syncBadge(service string) (string, string) {
	state := m.syncState(service)

	switch {
	case m.syncInProgress[service] || (state != nil && state.Status == models.SyncStatusSyncing):
		return badgeStyle.Foreground(lipgloss.Color("11")).Render("Syncing..."), ""
	case state == nil:
		return badgeStyle.Foreground(lipgloss.Color("240")).Render("Not synced yet"), ""
	case state.Status == models.SyncStatusError:
		return badgeStyle.Foreground(lipgloss.Color("9")).Render("Error"), activityStyle.Render(state.ErrorMessage)
	}

	detail := ""
	if state.LastSyncTime != nil {
		detail = activityStyle.Render("last run " + formatTimeSince(*state.LastSyncTime, m.opts.Now()))
	}
	return badgeStyle.Foreground(lipgloss.Color("10")).Render("Idle"), detail
}

func (m Model) syncState(service string) *models.SyncState {
	for i := range m.syncStates {
		if m.syncStates[i].Service == service {
			return &m.syncStates[i]
		}
	}
	return nil
}

func (m *Model) loadSyncStates() {
	states, err := db.GetAllSyncStates(m.db)
	if err != nil {
		m.syncStates = nil
		m.addSyncMessage("could not read import status: " + err.Error())
		return
	}
	m.syncStates = states
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.selectedService = max(m.selectedService-1, 0)
	case "down", "j":
		m.selectedService = min(m.selectedService+1, len(syncServices)-1)
	case "enter":
		return m.startSync(syncServices[m.selectedService].name)
	case "r":
		m.loadSyncStates()
	case "tab":
		return m.switchTab(1), nil
	case "shift+tab":
		return m.switchTab(-1), nil
	}

	return m, nil
}

func (m Model) startSync(service string) (tea.Model, tea.Cmd) {
	if m.syncInProgress[service] {
		return m, nil
	}
	if m.opts.Sync == nil {
		m.addSyncMessage("Sync is not available here; use 'kith sync " + service + "'")
		return m, nil
	}

	m.syncInProgress[service] = true
	m.addSyncMessage("started " + service + " import")

	run := m.opts.Sync
	return m, func() tea.Msg {
		return SyncCompleteMsg{Service: service, Error: run(context.Background(), service)}
	}
}

func (m *Model) addSyncMessage(msg string) {
	m.syncMessages = append(m.syncMessages, m.opts.Now().Format("15:04")+"  "+msg)
}

func (m *Model) handleSyncComplete(msg SyncCompleteMsg) {
	delete(m.syncInProgress, msg.Service)

	if msg.Error != nil {
		m.addSyncMessage(fmt.Sprintf("%s sync failed: %v", msg.Service, msg.Error))
	} else {
		m.addSyncMessage(msg.Service + " sync finished")
	}

	m.loadSyncStates()
	m.reload()
}

// formatTimeSince describes how long ago t was, in the largest whole unit.
func formatTimeSince(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return unitsAgo(int(elapsed/time.Minute), "minute")
	case elapsed < 24*time.Hour:
		return unitsAgo(int(elapsed/time.Hour), "hour")
	}
	return unitsAgo(int(elapsed/(24*time.Hour)), "day")
}

func unitsAgo(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
