package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

const detailHistoryLimit = 10

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	overdueValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203"))
)

func (m Model) selectedContact() (*models.Contact, error) {
	id, err := uuid.Parse(m.selectedID)
	if err != nil {
		return nil, fmt.Errorf("invalid ID: %w", err)
	}
	contact, err := db.GetContact(m.db, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, db.ErrContactNotFound
	}
	return contact, nil
}

func (m Model) renderDetailView() string {
	contact, err := m.selectedContact()
	if err != nil {
		return fmt.Sprintf("Error: %v\n\n%s", err, m.renderDetailHelp())
	}

	today := m.today()
	overdue := cadence.ContactDaysOverdue(*contact, today)

	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(contact.FullName())))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Class", string(contact.Class)))
	s.WriteString(m.renderField("Tier", cadence.TierLabel(contact.Tier)))
	s.WriteString(m.renderField("Prefers", cadence.MethodLabel(contact.PreferredMethod)))
	s.WriteString(m.renderField("Email", contact.Email))
	if contact.Birthday != nil {
		s.WriteString(m.renderField("Birthday", fmt.Sprintf("%s (%s)",
			cadence.FormatDate(*contact.Birthday), cadence.BirthdayRelativeDate(*contact.Birthday, today))))
	}
	s.WriteString(m.renderField("Origin", contact.OriginNote))
	s.WriteString(m.renderField("Added", cadence.FormatDate(contact.DateAdded)))
	s.WriteString(m.renderField("Last contact", cadence.RelativeTime(contact.LastInteractionDate, today)))

	due := cadence.DueLabel(contact.LastInteractionDate, overdue, today)
	if overdue > 0 {
		due = overdueValueStyle.Render(due)
	}
	s.WriteString(fieldLabelStyle.Render("Due") + due + "\n")

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("History"))
	s.WriteString("\n")

	history, err := db.GetInteractionHistory(m.db, contact.ID, detailHistoryLimit)
	switch {
	case err != nil:
		s.WriteString(errorStyle.Render("Error: " + err.Error()))
		s.WriteString("\n")
	case len(history) == 0:
		s.WriteString(helpStyle.Render("Nothing logged yet."))
		s.WriteString("\n")
	default:
		for _, i := range history {
			line := fmt.Sprintf("%s  %-10s %s", cadence.FormatDate(i.DateOfInteraction), cadence.MethodLabel(i.Type), i.Notes)
			s.WriteString(fieldValueStyle.Render(line))
			s.WriteString("\n")
		}
	}

	if m.statusMessage != "" {
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(m.statusMessage))
	}
	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return fieldLabelStyle.Render(label) + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"l: Log interaction",
		"d: Delete",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.statusMessage = ""
		m.reload()
	case "l":
		m.initLogForm()
		m.viewMode = ViewLog
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}
