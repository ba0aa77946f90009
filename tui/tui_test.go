// ABOUTME: Tests for the bubbletea model
// ABOUTME: Drives key messages through Update against a seeded SQLite store
package tui

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db          *sql.DB
	ana, bo, cy models.Contact
}

func setupTestDB(t *testing.T) fixture {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "kith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := fixture{db: database}
	f.ana = models.Contact{FirstName: "Ana", LastName: "Lopez", Class: models.ClassFriend, Tier: models.TierCloseFriend,
		PreferredMethod: models.InteractionCall, DateAdded: added}
	f.bo = models.Contact{FirstName: "Bo", LastName: "Chen", Class: models.ClassNetwork, Tier: models.TierActive,
		PreferredMethod: models.InteractionEmail, DateAdded: added}
	f.cy = models.Contact{FirstName: "Cy", LastName: "Park", Class: models.ClassFriend, Tier: models.TierKeepWarm,
		PreferredMethod: models.InteractionText, DateAdded: added}
	for _, c := range []*models.Contact{&f.ana, &f.bo, &f.cy} {
		require.NoError(t, db.CreateContact(database, c))
	}

	logged := &models.Interaction{ContactID: f.cy.ID, Type: models.InteractionText,
		DateOfInteraction: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), Notes: "sent the photos"}
	require.NoError(t, db.LogInteraction(database, logged, fixedNow))
	return f
}

func newTestModel(f fixture, sync SyncFunc) Model {
	return NewModel(f.db, Options{Now: func() time.Time { return fixedNow }, Sync: sync})
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestNewModelListsFriendsMostOverdueFirst(t *testing.T) {
	f := setupTestDB(t)
	m := newTestModel(f, nil)

	require.Len(t, m.contacts, 2)
	assert.Equal(t, f.ana.ID, m.contacts[0].ID)
	assert.Equal(t, 1, m.upNextCount)

	view := m.View()
	assert.Contains(t, view, "Friends")
	assert.Contains(t, view, "Ana Lopez")
	assert.NotContains(t, view, "Bo Chen")
}

func TestTabSwitchesClass(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), tab)

	assert.Equal(t, TabNetwork, m.tab)
	require.Len(t, m.contacts, 1)
	assert.Equal(t, f.bo.ID, m.contacts[0].ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabFriends, m.tab)
}

func TestNavigationStaysInBounds(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("k"))
	assert.Equal(t, 0, m.selectedRow)

	m = press(t, m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 1, m.selectedRow)
}

func TestDetailViewShowsHistory(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("j"), enter)

	require.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, f.cy.ID.String(), m.selectedID)

	view := m.View()
	assert.Contains(t, view, "CY PARK")
	assert.Contains(t, view, "2024-06-10")
	assert.Contains(t, view, "sent the photos")

	m = press(t, m, esc)
	assert.Equal(t, ViewList, m.viewMode)
}

func TestLogInteractionFromList(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("l"))

	require.Equal(t, ViewLog, m.viewMode)
	assert.Equal(t, "call", m.formInputs[logFieldType].Value())
	assert.Equal(t, "2024-06-15", m.formInputs[logFieldDate].Value())

	// q is text here, not quit.
	m = press(t, m, runes("quick chat"), enter)
	require.NoError(t, m.err)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.statusMessage, "Logged Call with Ana on 2024-06-15")

	history, err := db.GetInteractionHistory(f.db, f.ana.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "quick chat", history[0].Notes)
	assert.Equal(t, models.InteractionCall, history[0].Type)

	m = press(t, m, esc)
	assert.Equal(t, 0, m.upNextCount, "nobody is due once Ana is logged")
}

func TestLogFormRejectsBadInput(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("l"))

	m.formInputs[logFieldDate].SetValue("2024-13-40")
	m = press(t, m, enter)
	assert.Error(t, m.err)
	assert.Equal(t, ViewLog, m.viewMode)

	m.formInputs[logFieldDate].SetValue("2024-07-01")
	m = press(t, m, enter)
	assert.Error(t, m.err, "future dates are refused")

	m.formInputs[logFieldDate].SetValue("")
	m.formInputs[logFieldType].SetValue("pigeon")
	m = press(t, m, enter)
	assert.Error(t, m.err)

	history, err := db.GetInteractionHistory(f.db, f.ana.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	m = press(t, m, esc)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.NoError(t, m.err)
}

func TestSearchFiltersAlphabetically(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("/"))
	require.True(t, m.searching)

	m = press(t, m, runes("park"), enter)
	assert.False(t, m.searching)
	assert.Equal(t, "park", m.searchQuery)
	require.Len(t, m.contacts, 1)
	assert.Equal(t, f.cy.ID, m.contacts[0].ID)
	assert.Equal(t, 0, m.upNextCount)

	m = press(t, m, esc)
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.contacts, 2)
}

func TestDeleteContact(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), enter, runes("d"))
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Delete Ana Lopez")

	m = press(t, m, runes("n"))
	assert.Equal(t, ViewDetail, m.viewMode)

	m = press(t, m, runes("d"), runes("y"))
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "✓ Deleted Ana Lopez", m.statusMessage)
	require.Len(t, m.contacts, 1)

	gone, err := db.GetContact(f.db, f.ana.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGraphView(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), runes("g"))

	require.NoError(t, m.err)
	require.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.graphDOT, "Ana Lopez")

	m = press(t, m, esc)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, m.graphDOT)
}

func TestStatsTabCyclesScope(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), tab, tab)
	require.Equal(t, TabStats, m.tab)
	assert.Contains(t, m.View(), "KITH STATS · BOTH")

	m = press(t, m, runes("s"))
	assert.Equal(t, cadence.ScopeFriends, m.statsScope)
	assert.Contains(t, m.View(), "KITH STATS · FRIENDS")

	m = press(t, m, runes("s"), runes("s"))
	assert.Equal(t, cadence.ScopeBoth, m.statsScope)
}

func TestSyncTabWithoutRunner(t *testing.T) {
	f := setupTestDB(t)
	m := press(t, newTestModel(f, nil), tab, tab, tab)
	require.Equal(t, TabSync, m.tab)
	assert.Contains(t, m.View(), "Not synced yet")

	m = press(t, m, enter)
	require.Len(t, m.syncMessages, 1)
	assert.Contains(t, m.syncMessages[0], "kith sync contacts")
}

func TestSyncTabRunsSelectedService(t *testing.T) {
	f := setupTestDB(t)
	var ran []string
	runner := func(_ context.Context, service string) error {
		ran = append(ran, service)
		if service == "calendar" {
			return errors.New("no token")
		}
		return nil
	}

	m := press(t, newTestModel(f, runner), tab, tab, tab, runes("j"))
	next, cmd := m.Update(enter)
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.syncInProgress["calendar"])
	assert.Contains(t, m.View(), "Syncing...")

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []string{"calendar"}, ran)
	assert.False(t, m.syncInProgress["calendar"])
	assert.Contains(t, m.syncMessages[len(m.syncMessages)-1], "calendar sync failed: no token")
}

func TestQuit(t *testing.T) {
	f := setupTestDB(t)
	_, cmd := newTestModel(f, nil).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTimeSince(fixedNow.Add(-tt.ago), fixedNow))
	}
}
