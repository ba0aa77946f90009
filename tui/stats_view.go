package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/viz"
)

var statsScopes = []cadence.Scope{cadence.ScopeBoth, cadence.ScopeFriends, cadence.ScopeNetwork}

func (m Model) renderStatsView() string {
	var s strings.Builder

	stats, err := viz.GenerateStats(m.db, m.statsScope, m.today())
	if err != nil {
		s.WriteString(errorStyle.Render("Error: " + err.Error()))
		s.WriteString("\n")
	} else {
		s.WriteString(viz.RenderStats(stats))
	}

	help := []string{
		"s: Scope (" + string(m.statsScope) + ")",
		"Tab: Switch tabs",
		"q: Quit",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		for i, scope := range statsScopes {
			if scope == m.statsScope {
				m.statsScope = statsScopes[(i+1)%len(statsScopes)]
				break
			}
		}
	case "tab":
		return m.switchTab(1), nil
	case "shift+tab":
		return m.switchTab(-1), nil
	}
	return m, nil
}
