// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Removes a contact and their interaction history after a y/n prompt
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/kith/db"
)

var (
	dangerColor = lipgloss.Color("203")

	deletePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder(), true, false).
				BorderForeground(dangerColor).
				Padding(1, 4)

	deleteQuestionStyle = lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	deleteNoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	keyHintStyle        = lipgloss.NewStyle().Bold(true).Underline(true)
)

func (m Model) renderConfirmDeleteView() string {
	contact, err := m.selectedContact()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	history, err := db.GetInteractionHistory(m.db, contact.ID, 0)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	note := "No interactions are logged for them."
	if n := len(history); n > 0 {
		note = fmt.Sprintf("%d logged interaction(s) go with them.", n)
	}

	panel := deletePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		deleteQuestionStyle.Render(fmt.Sprintf("Delete %s and their whole history?", contact.FullName())),
		"",
		deleteNoteStyle.Render(note),
		"",
		keyHintStyle.Render("y")+" delete    "+keyHintStyle.Render("n")+" keep",
	))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.deleteSelected(), nil
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}

// deleteSelected removes the contact on screen and returns to the list.
func (m Model) deleteSelected() Model {
	m.viewMode = ViewList

	contact, err := m.selectedContact()
	if err == nil {
		err = db.DeleteContact(m.db, contact.ID)
	}
	if err != nil {
		m.reload()
		m.err = err
		return m
	}

	m.selectedID = ""
	m.reload()
	m.statusMessage = "✓ Deleted " + contact.FullName()
	return m
}
