// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Friends, network, stats and sync tabs with detail, log, delete and graph screens
package tui

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
)

// ViewMode represents the current TUI screen
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewLog
	ViewGraph
	ViewConfirmDelete
)

// Tab is one of the top-level tabs on the list screen
type Tab int

const (
	TabFriends Tab = iota
	TabNetwork
	TabStats
	TabSync
)

var tabNames = []string{"Friends", "Network", "Stats", "Sync"}

// SyncFunc runs one import ("contacts", "calendar" or "postgres").
type SyncFunc func(ctx context.Context, service string) error

// Options configures the TUI. Zero values fall back to defaults.
type Options struct {
	Now         func() time.Time
	UpNextLimit int
	Sync        SyncFunc
}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	opts     Options
	viewMode ViewMode
	tab      Tab

	// List state: the up-next head followed by everyone else.
	contacts    []models.Contact
	upNextCount int
	selectedRow int
	searching   bool
	searchInput textinput.Model
	searchQuery string

	// Detail state
	selectedID string

	// Log form state
	formInputs []textinput.Model
	focusIndex int

	graphDOT   string
	statsScope cadence.Scope

	// Sync state
	syncStates      []models.SyncState
	selectedService int
	syncInProgress  map[string]bool
	syncMessages    []string

	statusMessage string
	width         int
	height        int
	err           error
}

// NewModel creates a new TUI model and loads the first tab
func NewModel(db *sql.DB, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UpNextLimit <= 0 {
		opts.UpNextLimit = 4
	}

	search := textinput.New()
	search.Placeholder = "Search by name"
	search.CharLimit = 100

	m := Model{
		db:             db,
		opts:           opts,
		viewMode:       ViewList,
		tab:            TabFriends,
		searchInput:    search,
		statsScope:     cadence.ScopeBoth,
		syncInProgress: make(map[string]bool),
		width:          80,
		height:         24,
	}
	m.reload()
	return m
}

// Run starts the full-screen program and blocks until the user quits.
func Run(db *sql.DB, opts Options) error {
	p := tea.NewProgram(NewModel(db, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case SyncCompleteMsg:
		m.handleSyncComplete(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewLog:
		return m.renderLogView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Text entry owns every other key, including q.
	if m.viewMode == ViewLog || m.searching {
		if m.viewMode == ViewLog {
			return m.handleLogKeys(msg)
		}
		return m.handleSearchKeys(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		switch m.tab {
		case TabStats:
			return m.handleStatsKeys(msg)
		case TabSync:
			return m.handleSyncKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) today() time.Time {
	return cadence.DateOf(m.opts.Now())
}

// class maps the current tab to a relationship class; other tabs mean everyone.
func (m Model) class() models.RelationshipClass {
	switch m.tab {
	case TabFriends:
		return models.ClassFriend
	case TabNetwork:
		return models.ClassNetwork
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
