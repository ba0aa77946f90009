// ABOUTME: Tests for the MCP tool, resource and prompt handlers
// ABOUTME: Exercises each handler against a temporary SQLite store with a fixed clock
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "kith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func addContact(t *testing.T, h *ContactHandlers, first, class, tier string) ContactOutput {
	t.Helper()
	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{FirstName: first, Class: class, Tier: tier})
	require.NoError(t, err)
	return out
}

func logOn(t *testing.T, h *InteractionHandlers, contactID, date, notes string) {
	t.Helper()
	_, _, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: contactID, Type: "call", Date: date, Notes: notes})
	require.NoError(t, err)
}

func TestAddContact(t *testing.T) {
	database := setupTestDB(t)
	h := NewContactHandlers(database, clock)

	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{
		FirstName:       "Ana",
		LastName:        "Lopez",
		Class:           "friend",
		Tier:            "close_friend",
		Email:           "Ana@Example.com",
		Birthday:        "1990-07-01",
		PreferredMethod: "facetime",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Ana Lopez", out.Name)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, "1990-07-01", out.Birthday)
	assert.Equal(t, "facetime", out.PreferredMethod)
	assert.Equal(t, "2024-06-15", out.DateAdded)
	assert.Equal(t, "Never", out.LastContacted)
	assert.Equal(t, 14, out.DaysOverdue)
	assert.Equal(t, "overdue", out.Status)
}

func TestAddContactValidation(t *testing.T) {
	database := setupTestDB(t)
	h := NewContactHandlers(database, clock)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddContactInput
	}{
		{"missing first name", AddContactInput{Class: "friend", Tier: "keep_warm"}},
		{"bad class", AddContactInput{FirstName: "A", Class: "family", Tier: "keep_warm"}},
		{"tier not valid for class", AddContactInput{FirstName: "A", Class: "friend", Tier: "active"}},
		{"bad birthday", AddContactInput{FirstName: "A", Class: "friend", Tier: "keep_warm", Birthday: "July 1"}},
		{"bad method", AddContactInput{FirstName: "A", Class: "network", Tier: "active", PreferredMethod: "fax"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.AddContact(ctx, nil, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestFindContacts(t *testing.T) {
	database := setupTestDB(t)
	h := NewContactHandlers(database, clock)
	addContact(t, h, "Ana", "friend", "close_friend")
	addContact(t, h, "Anders", "network", "active")
	addContact(t, h, "Bo", "friend", "keep_warm")

	_, out, err := h.FindContacts(context.Background(), nil, FindContactsInput{Query: "an"})
	require.NoError(t, err)
	assert.Len(t, out.Contacts, 2)

	_, out, err = h.FindContacts(context.Background(), nil, FindContactsInput{Query: "an", Class: "network"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Anders", out.Contacts[0].FirstName)

	_, out, err = h.FindContacts(context.Background(), nil, FindContactsInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Contacts, 1)

	_, _, err = h.FindContacts(context.Background(), nil, FindContactsInput{Class: "family"})
	assert.Error(t, err)
}

func TestUpdateContact(t *testing.T) {
	database := setupTestDB(t)
	h := NewContactHandlers(database, clock)
	ana := addContact(t, h, "Ana", "friend", "close_friend")

	tier := "dont_lose_touch"
	note := "College"
	_, out, err := h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: ana.ID, Tier: &tier, OriginNote: &note})
	require.NoError(t, err)
	assert.Equal(t, "dont_lose_touch", out.Tier)
	assert.Equal(t, "College", out.OriginNote)
	assert.Equal(t, "Ana", out.FirstName, "untouched fields are kept")
	assert.Equal(t, 90, out.DaysOverdue)

	class := "network"
	_, _, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: ana.ID, Class: &class, Tier: strPtr("close_friend")})
	assert.Error(t, err, "close_friend is not a network tier")

	_, _, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: uuid.New().String(), Tier: &tier})
	assert.ErrorIs(t, err, db.ErrContactNotFound)

	_, _, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: "nope"})
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }

func TestDeleteContact(t *testing.T) {
	database := setupTestDB(t)
	h := NewContactHandlers(database, clock)
	ana := addContact(t, h, "Ana", "friend", "close_friend")

	_, out, err := h.DeleteContact(context.Background(), nil, DeleteContactInput{ID: ana.ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	_, _, err = h.DeleteContact(context.Background(), nil, DeleteContactInput{ID: ana.ID})
	assert.ErrorIs(t, err, db.ErrContactNotFound)
}

func TestLogInteraction(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	h := NewInteractionHandlers(database, clock)
	ana := addContact(t, contacts, "Ana", "friend", "close_friend")

	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ana.ID, Notes: "coffee"})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Interaction.ID)
	assert.Equal(t, "text", out.Interaction.Type, "defaults to the preferred method")
	assert.Equal(t, "2024-06-15", out.Interaction.DateOfInteraction)
	assert.Equal(t, "2024-06-15", out.Contact.LastInteractionDate)
	assert.Equal(t, "coffee", out.Contact.LastInteractionNote)
	assert.Equal(t, -14, out.Contact.DaysOverdue)
	assert.Equal(t, "Today", out.Contact.LastContacted)
}

func TestLogInteractionBackdatedKeepsNewest(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	h := NewInteractionHandlers(database, clock)
	ana := addContact(t, contacts, "Ana", "friend", "close_friend")

	logOn(t, h, ana.ID, "2024-06-10", "recent")
	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ana.ID, Type: "email", Date: "2024-05-01", Notes: "old"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", out.Contact.LastInteractionDate)
	assert.Equal(t, "recent", out.Contact.LastInteractionNote)
}

func TestLogInteractionErrors(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	h := NewInteractionHandlers(database, clock)
	ana := addContact(t, contacts, "Ana", "friend", "close_friend")
	ctx := context.Background()

	_, _, err := h.LogInteraction(ctx, nil, LogInteractionInput{ContactID: ana.ID, Date: "2024-06-16"})
	assert.Error(t, err, "future dates are rejected")

	_, _, err = h.LogInteraction(ctx, nil, LogInteractionInput{ContactID: ana.ID, Type: "pigeon"})
	assert.Error(t, err)

	_, _, err = h.LogInteraction(ctx, nil, LogInteractionInput{ContactID: uuid.New().String()})
	assert.ErrorIs(t, err, db.ErrContactNotFound)

	_, _, err = h.LogInteraction(ctx, nil, LogInteractionInput{ContactID: "x"})
	assert.Error(t, err)
}

func TestInteractionHistory(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	h := NewInteractionHandlers(database, clock)
	ana := addContact(t, contacts, "Ana", "friend", "close_friend")

	logOn(t, h, ana.ID, "2024-06-01", "first")
	logOn(t, h, ana.ID, "2024-06-12", "third")
	logOn(t, h, ana.ID, "2024-06-05", "second")

	_, out, err := h.InteractionHistory(context.Background(), nil, InteractionHistoryInput{ContactID: ana.ID})
	require.NoError(t, err)
	require.Len(t, out.Interactions, 3)
	assert.Equal(t, "third", out.Interactions[0].Notes)
	assert.Equal(t, "second", out.Interactions[1].Notes)
	assert.Equal(t, "first", out.Interactions[2].Notes)

	_, out, err = h.InteractionHistory(context.Background(), nil, InteractionHistoryInput{ContactID: ana.ID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Interactions, 1)

	_, _, err = h.InteractionHistory(context.Background(), nil, InteractionHistoryInput{ContactID: uuid.New().String()})
	assert.ErrorIs(t, err, db.ErrContactNotFound)
}

func TestAddReminder(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	h := NewReminderHandlers(database)
	ana := addContact(t, contacts, "Ana", "friend", "close_friend")

	_, out, err := h.AddReminder(context.Background(), nil, AddReminderInput{Label: "Anniversary", Date: "2020-06-20", Recurring: true, ContactID: ana.ID})
	require.NoError(t, err)
	assert.Equal(t, "event", out.Kind)
	assert.Equal(t, "2020-06-20", out.Date)
	assert.Equal(t, ana.ID, out.ContactID)

	_, _, err = h.AddReminder(context.Background(), nil, AddReminderInput{Date: "2024-07-01"})
	assert.Error(t, err)
	_, _, err = h.AddReminder(context.Background(), nil, AddReminderInput{Label: "x", Date: "soon"})
	assert.Error(t, err)
	_, _, err = h.AddReminder(context.Background(), nil, AddReminderInput{Label: "x", Date: "2024-07-01", ContactID: uuid.New().String()})
	assert.ErrorIs(t, err, db.ErrContactNotFound)
}

func seedViews(t *testing.T, database *sql.DB) map[string]ContactOutput {
	t.Helper()
	contacts := NewContactHandlers(database, clock)
	interactions := NewInteractionHandlers(database, clock)

	out := map[string]ContactOutput{
		"Ana": addContact(t, contacts, "Ana", "friend", "close_friend"),
		"Bo":  addContact(t, contacts, "Bo", "friend", "keep_warm"),
		"Cy":  addContact(t, contacts, "Cy", "friend", "keep_warm"),
		"Di":  addContact(t, contacts, "Di", "network", "active"),
	}
	logOn(t, interactions, out["Ana"].ID, "2024-05-26", "") // 6 overdue
	logOn(t, interactions, out["Bo"].ID, "2024-05-01", "")  // 15 overdue
	logOn(t, interactions, out["Bo"].ID, "2024-04-20", "")
	logOn(t, interactions, out["Cy"].ID, "2024-06-13", "") // 28 days to go
	return out
}

func TestGetUpNext(t *testing.T) {
	database := setupTestDB(t)
	seedViews(t, database)
	h := NewViewHandlers(database, clock)

	_, out, err := h.GetUpNext(context.Background(), nil, GetUpNextInput{Class: "friend", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", out.Today)
	require.Len(t, out.UpNext, 2)
	assert.Equal(t, "Bo", out.UpNext[0].Contact.FirstName)
	assert.Equal(t, "15 days overdue", out.UpNext[0].Due)
	assert.Equal(t, "Ana", out.UpNext[1].Contact.FirstName)
	assert.Equal(t, 2, out.DueCount)
	assert.Equal(t, 1, out.Remaining)

	_, out, err = h.GetUpNext(context.Background(), nil, GetUpNextInput{})
	require.NoError(t, err)
	require.Len(t, out.UpNext, 3, "Di joins when both classes are shown")
	assert.Equal(t, "Bo", out.UpNext[0].Contact.FirstName)
	assert.Equal(t, "Di", out.UpNext[1].Contact.FirstName)
	assert.Equal(t, "Now", out.UpNext[1].Due)
}

func TestGetUpcoming(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	_, _, err := contacts.AddContact(context.Background(), nil, AddContactInput{FirstName: "Fi", Class: "friend", Tier: "keep_warm", Birthday: "1990-06-16"})
	require.NoError(t, err)
	_, _, err = NewReminderHandlers(database).AddReminder(context.Background(), nil, AddReminderInput{Label: "Launch", Date: "2024-06-25"})
	require.NoError(t, err)
	_, _, err = NewReminderHandlers(database).AddReminder(context.Background(), nil, AddReminderInput{Label: "Far", Date: "2024-12-25"})
	require.NoError(t, err)

	_, out, err := NewViewHandlers(database, clock).GetUpcoming(context.Background(), nil, GetUpcomingInput{Days: intPtr(30)})
	require.NoError(t, err)
	require.Len(t, out.Upcoming, 2)
	assert.Equal(t, "birthday", out.Upcoming[0].Kind)
	assert.Equal(t, "2024-06-16", out.Upcoming[0].Date)
	assert.Equal(t, 1, out.Upcoming[0].DaysUntil)
	assert.Equal(t, "Tomorrow", out.Upcoming[0].When)
	assert.NotEmpty(t, out.Upcoming[0].ContactID)
	assert.Equal(t, "Launch", out.Upcoming[1].Label)
	assert.Equal(t, 10, out.Upcoming[1].DaysUntil)

	views := NewViewHandlers(database, clock)
	_, out, err = views.GetUpcoming(context.Background(), nil, GetUpcomingInput{Days: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Days, "zero means today only")
	assert.Empty(t, out.Upcoming)

	_, out, err = views.GetUpcoming(context.Background(), nil, GetUpcomingInput{})
	require.NoError(t, err)
	assert.Equal(t, 60, out.Days)
	assert.Len(t, out.Upcoming, 2)

	_, _, err = views.GetUpcoming(context.Background(), nil, GetUpcomingInput{Days: intPtr(-1)})
	assert.Error(t, err)
}

func intPtr(n int) *int { return &n }

func TestGetStats(t *testing.T) {
	database := setupTestDB(t)
	seedViews(t, database)

	_, out, err := NewViewHandlers(database, clock).GetStats(context.Background(), nil, GetStatsInput{Scope: "friends"})
	require.NoError(t, err)
	assert.Equal(t, "friends", out.Scope)
	assert.Equal(t, 4, out.TotalInteractions)
	assert.Len(t, out.Months, 12)
	assert.Equal(t, "2024-06", out.Months[11].Month)
	assert.Equal(t, 1, out.Months[11].Count)
	require.NotEmpty(t, out.Leaderboard)
	assert.Equal(t, "Bo", out.Leaderboard[0].Name)
	assert.Equal(t, 2, out.Leaderboard[0].Count)
	assert.Equal(t, 1, out.Leaderboard[0].Rank)

	_, out, err = NewViewHandlers(database, clock).GetStats(context.Background(), nil, GetStatsInput{Scope: "network"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalInteractions)
}

func TestGenerateGraph(t *testing.T) {
	database := setupTestDB(t)
	seedViews(t, database)

	_, out, err := NewVizHandlers(database, clock).GenerateGraph(context.Background(), nil, GenerateGraphInput{Class: "friend"})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "Ana")
	assert.Positive(t, out.EdgeCount)

	_, _, err = NewVizHandlers(database, clock).GenerateGraph(context.Background(), nil, GenerateGraphInput{Class: "family"})
	assert.Error(t, err)
}

func readResource(t *testing.T, h *ResourceHandlers, uri string) string {
	t.Helper()
	result, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, uri, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	return result.Contents[0].Text
}

func TestReadResource(t *testing.T) {
	database := setupTestDB(t)
	seeded := seedViews(t, database)
	h := NewResourceHandlers(database, clock)

	var contacts []ContactOutput
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "kith://contacts")), &contacts))
	assert.Len(t, contacts, 4)

	var detail InteractionHistoryOutput
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "kith://contacts/"+seeded["Bo"].ID)), &detail))
	assert.Equal(t, "Bo", detail.Contact.FirstName)
	assert.Len(t, detail.Interactions, 2)

	var upNext GetUpNextOutput
	require.NoError(t, json.Unmarshal([]byte(readResource(t, h, "kith://up-next")), &upNext))
	assert.Len(t, upNext.UpNext, 3)

	assert.Contains(t, readResource(t, h, "kith://stats"), "leaderboard")
	assert.Contains(t, readResource(t, h, "kith://upcoming"), "upcoming")

	for _, uri := range []string{"crm://contacts", "kith://deals", "kith://contacts/nope", "kith://contacts/" + uuid.New().String()} {
		_, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
		assert.Error(t, err, uri)
	}
}

func getPrompt(h *PromptHandlers, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	return h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
}

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, result.Messages, 1)
	text, ok := result.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGetPrompt(t *testing.T) {
	database := setupTestDB(t)
	seeded := seedViews(t, database)
	h := NewPromptHandlers(database, clock)

	result, err := getPrompt(h, "check-in-suggestions", map[string]string{"relationship_class": "friend"})
	require.NoError(t, err)
	text := promptText(t, result)
	assert.Contains(t, text, "Bo (Keep Warm, prefers Text)")
	assert.Contains(t, text, "15 days overdue")
	assert.NotContains(t, text, "Cy")

	result, err = getPrompt(h, "contact-summary", map[string]string{"contact_id": seeded["Bo"].ID})
	require.NoError(t, err)
	assert.Equal(t, "Summary for Bo", result.Description)
	assert.Contains(t, promptText(t, result), "every 30 days")

	result, err = getPrompt(h, "weekly-review", nil)
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "Due now: 3 of 4 contacts")

	_, err = getPrompt(h, "contact-summary", nil)
	assert.Error(t, err)
	_, err = getPrompt(h, "deal-analysis", nil)
	assert.Error(t, err)
}

func TestCheckInSuggestionsWhenNobodyDue(t *testing.T) {
	database := setupTestDB(t)
	contacts := NewContactHandlers(database, clock)
	cy := addContact(t, contacts, "Cy", "friend", "keep_warm")
	logOn(t, NewInteractionHandlers(database, clock), cy.ID, "2024-06-14", "")

	result, err := getPrompt(NewPromptHandlers(database, clock), "check-in-suggestions", nil)
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "Nobody is due")
}
