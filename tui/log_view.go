package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

const (
	logFieldType = iota
	logFieldDate
	logFieldNotes
)

func (m Model) renderLogView() string {
	var s strings.Builder

	name := "CONTACT"
	if contact, err := m.selectedContact(); err == nil {
		name = strings.ToUpper(contact.FullName())
	}
	s.WriteString(titleStyle.Render("LOG WITH " + name))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderLogHelp())

	return s.String()
}

func (m Model) renderLogHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.viewMode = ViewDetail
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		msgText, err := m.saveInteraction()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.statusMessage = msgText
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// initLogForm builds the type/date/notes form, prefilled with the contact's
// preferred method and today's date.
func (m *Model) initLogForm() {
	inputs := make([]textinput.Model, 3)

	inputs[logFieldType] = textinput.New()
	inputs[logFieldType].Placeholder = "call, facetime, text, email or in_person"
	inputs[logFieldType].CharLimit = 20

	inputs[logFieldDate] = textinput.New()
	inputs[logFieldDate].Placeholder = "YYYY-MM-DD"
	inputs[logFieldDate].CharLimit = 10
	inputs[logFieldDate].SetValue(cadence.FormatDate(m.today()))

	inputs[logFieldNotes] = textinput.New()
	inputs[logFieldNotes].Placeholder = "What did you talk about?"
	inputs[logFieldNotes].CharLimit = 500

	if contact, err := m.selectedContact(); err == nil {
		inputs[logFieldType].SetValue(string(contact.PreferredMethod))
	}

	m.formInputs = inputs
	m.focusIndex = logFieldNotes
	m.err = nil
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// saveInteraction validates the form and writes the interaction.
func (m Model) saveInteraction() (string, error) {
	contact, err := m.selectedContact()
	if err != nil {
		return "", err
	}

	kind := contact.PreferredMethod
	if v := strings.TrimSpace(m.formInputs[logFieldType].Value()); v != "" {
		kind, err = cadence.ParseInteractionType(v)
		if err != nil {
			return "", err
		}
	}

	today := m.today()
	date := today
	if v := strings.TrimSpace(m.formInputs[logFieldDate].Value()); v != "" {
		date, err = cadence.ParseDate(v)
		if err != nil {
			return "", err
		}
	}

	interaction := &models.Interaction{
		ContactID:         contact.ID,
		Type:              kind,
		DateOfInteraction: date,
		Notes:             strings.TrimSpace(m.formInputs[logFieldNotes].Value()),
	}
	if err := db.LogInteraction(m.db, interaction, today); err != nil {
		return "", err
	}

	return fmt.Sprintf("✓ Logged %s with %s on %s", cadence.MethodLabel(kind), contact.FirstName,
		cadence.FormatDate(interaction.DateOfInteraction)), nil
}
