package sync

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	people       []RemotePerson
	interactions []RemoteInteraction
	err          error
}

func (f *fakeSource) People(context.Context) ([]RemotePerson, error) {
	return f.people, f.err
}

func (f *fakeSource) Interactions(context.Context) ([]RemoteInteraction, error) {
	return f.interactions, nil
}

func TestRemoteContactMapping(t *testing.T) {
	c, err := remoteContact(RemotePerson{
		ID:                   "p1",
		FirstName:            " Ana ",
		LastName:             "Lima",
		Type:                 "network",
		CadenceTier:          "Active",
		WhereFrom:            sql.NullString{String: "conference", Valid: true},
		Birthday:             sql.NullTime{Time: time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		NudgeInteractionType: "email",
		DateAdded:            sql.NullTime{Time: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC), Valid: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana", c.FirstName)
	assert.Equal(t, models.ClassNetwork, c.Class)
	assert.Equal(t, models.TierActive, c.Tier)
	assert.Equal(t, "conference", c.OriginNote)
	assert.Equal(t, models.InteractionEmail, c.PreferredMethod)
	assert.Equal(t, "2024-01-02", c.DateAdded.Format("2006-01-02"))
	require.NotNil(t, c.Birthday)
}

func TestRemoteContactNormalisesLooseValues(t *testing.T) {
	c, err := remoteContact(RemotePerson{FirstName: "Bo", Type: "friend", CadenceTier: "active", NudgeInteractionType: "fax"})
	require.NoError(t, err)

	assert.Equal(t, models.TierKeepWarm, c.Tier, "active is not a friend tier")
	assert.Equal(t, models.InteractionText, c.PreferredMethod)

	_, err = remoteContact(RemotePerson{FirstName: "Cy", Type: "family"})
	assert.Error(t, err)
}

func TestImportRemote(t *testing.T) {
	database := setupTestDB(t)
	today := mustDay(t, "2024-06-15")
	source := &fakeSource{
		people: []RemotePerson{
			{ID: "p1", FirstName: "Ana", Type: "friend", CadenceTier: "close_friend"},
			{ID: "p2", FirstName: "", Type: "friend", CadenceTier: "keep_warm"},
		},
		interactions: []RemoteInteraction{
			{ID: "i1", PersonID: "p1", DateOfInteraction: mustDay(t, "2024-06-01"), Type: "call", Notes: sql.NullString{String: "birthday call", Valid: true}},
			{ID: "i2", PersonID: "p1", DateOfInteraction: mustDay(t, "2024-05-01"), Type: "text"},
			{ID: "i3", PersonID: "p2", DateOfInteraction: mustDay(t, "2024-05-01"), Type: "text"},
		},
	}

	summary, err := ImportRemote(context.Background(), database, source, today)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.People)
	assert.Equal(t, 2, summary.Interactions)
	assert.Equal(t, 2, summary.Skipped)

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.NotNil(t, contacts[0].LastInteractionDate)
	assert.Equal(t, "2024-06-01", contacts[0].LastInteractionDate.Format("2006-01-02"))
	assert.Equal(t, "birthday call", contacts[0].LastInteractionNote)

	// Re-running imports nothing new.
	summary, err = ImportRemote(context.Background(), database, source, today)
	require.NoError(t, err)
	assert.Zero(t, summary.People)
	assert.Zero(t, summary.Interactions)

	state, err := db.GetSyncState(database, postgresService)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
}

func TestImportRemoteRecordsFailure(t *testing.T) {
	database := setupTestDB(t)

	_, err := ImportRemote(context.Background(), database, &fakeSource{err: errors.New("connection reset")}, mustDay(t, "2024-06-15"))
	require.Error(t, err)

	state, err := db.GetSyncState(database, postgresService)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, state.Status)
	assert.Equal(t, "connection reset", state.ErrorMessage)
}

func TestOpenRemoteRequiresSettings(t *testing.T) {
	_, err := OpenRemote(context.Background(), "", "user")
	assert.Error(t, err)
	_, err = OpenRemote(context.Background(), "postgres://localhost/kith", "")
	assert.Error(t, err)
}
