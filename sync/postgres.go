// ABOUTME: Importer for the hosted Postgres backend (people and interactions tables)
// ABOUTME: Reads one user's rows through pgx and copies them into the local store once
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	postgresService = "postgres"
	remoteTimeout   = 12 * time.Second
)

// RemotePerson is one row of the hosted people table.
type RemotePerson struct {
	ID                   string
	FirstName            string
	LastName             string
	Type                 string
	CadenceTier          string
	WhereFrom            sql.NullString
	Birthday             sql.NullTime
	NudgeInteractionType string
	DateAdded            sql.NullTime
}

// RemoteInteraction is one row of the hosted interactions table.
type RemoteInteraction struct {
	ID                string
	PersonID          string
	DateOfInteraction time.Time
	Type              string
	Notes             sql.NullString
}

// RemoteSource yields the rows to import.
type RemoteSource interface {
	People(ctx context.Context) ([]RemotePerson, error)
	Interactions(ctx context.Context) ([]RemoteInteraction, error)
}

// PostgresSource reads one user's rows from the hosted database.
type PostgresSource struct {
	db     *sql.DB
	userID string
}

// OpenRemote connects to the hosted database and verifies the connection.
func OpenRemote(ctx context.Context, url, userID string) (*PostgresSource, error) {
	if url == "" {
		return nil, fmt.Errorf("remote database URL not configured: set KITH_REMOTE_DATABASE_URL")
	}
	if userID == "" {
		return nil, fmt.Errorf("remote user id not configured: set KITH_REMOTE_USER_ID")
	}

	remote, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := remote.PingContext(pingCtx); err != nil {
		_ = remote.Close()
		return nil, fmt.Errorf("failed to reach remote database: %w", err)
	}

	return &PostgresSource{db: remote, userID: userID}, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}

func (s *PostgresSource) People(ctx context.Context) ([]RemotePerson, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id::text, first_name, COALESCE(last_name, ''), type, cadence_tier, where_from,
			birthday, COALESCE(nudge_interaction_type, ''), date_added
		FROM people
		WHERE user_id = $1
		ORDER BY date_added, id
	`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query remote people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []RemotePerson
	for rows.Next() {
		var p RemotePerson
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Type, &p.CadenceTier, &p.WhereFrom,
			&p.Birthday, &p.NudgeInteractionType, &p.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan remote person: %w", err)
		}
		people = append(people, p)
	}

	return people, rows.Err()
}

func (s *PostgresSource) Interactions(ctx context.Context) ([]RemoteInteraction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id::text, i.person_id::text, i.date_of_interaction, i.type, i.notes
		FROM interactions i
		JOIN people p ON p.id = i.person_id
		WHERE p.user_id = $1
		ORDER BY i.date_of_interaction, i.id
	`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query remote interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []RemoteInteraction
	for rows.Next() {
		var i RemoteInteraction
		if err := rows.Scan(&i.ID, &i.PersonID, &i.DateOfInteraction, &i.Type, &i.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan remote interaction: %w", err)
		}
		interactions = append(interactions, i)
	}

	return interactions, rows.Err()
}

// remoteContact maps a hosted row onto a contact. An unknown tier becomes
// keep_warm and an unknown contact method becomes text, since the hosted
// tables never enforced either.
func remoteContact(p RemotePerson) (models.Contact, error) {
	class, err := cadence.ParseClass(p.Type)
	if err != nil {
		return models.Contact{}, err
	}

	c := models.Contact{
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Class:           class,
		Tier:            cadence.NormalizeTier(class, models.Tier(strings.ToLower(strings.TrimSpace(p.CadenceTier)))),
		OriginNote:      p.WhereFrom.String,
		PreferredMethod: models.InteractionType(p.NudgeInteractionType),
	}
	if !c.PreferredMethod.Valid() {
		c.PreferredMethod = models.InteractionText
	}
	if p.Birthday.Valid {
		b := cadence.DateOf(p.Birthday.Time)
		c.Birthday = &b
	}
	if p.DateAdded.Valid {
		c.DateAdded = cadence.DateOf(p.DateAdded.Time)
	}

	return c, nil
}

// RemoteSummary counts what a hosted import did.
type RemoteSummary struct {
	People       int
	Interactions int
	Skipped      int
}

// ImportRemote copies people first, then their interactions. Rows already
// imported are skipped, so the import can be re-run safely.
func ImportRemote(ctx context.Context, database *sql.DB, source RemoteSource, today time.Time) (*RemoteSummary, error) {
	log.Info("importing from hosted database")
	if err := db.UpdateSyncStatus(database, postgresService, models.SyncStatusSyncing, ""); err != nil {
		return nil, err
	}
	fail := func(err error) (*RemoteSummary, error) {
		_ = db.UpdateSyncStatus(database, postgresService, models.SyncStatusError, err.Error())
		return nil, err
	}

	people, err := source.People(ctx)
	if err != nil {
		return fail(err)
	}

	summary := &RemoteSummary{}
	for _, p := range people {
		imported, err := importRemotePerson(database, p)
		if err != nil {
			log.Warn("skipping remote person", "id", p.ID, "err", err)
			summary.Skipped++
			continue
		}
		if imported {
			summary.People++
		}
	}

	interactions, err := source.Interactions(ctx)
	if err != nil {
		return fail(err)
	}

	for _, ri := range interactions {
		imported, err := importRemoteInteraction(database, ri, today)
		if err != nil {
			log.Warn("skipping remote interaction", "id", ri.ID, "err", err)
			summary.Skipped++
			continue
		}
		if imported {
			summary.Interactions++
		}
	}

	if err := db.MarkSynced(database, postgresService, ""); err != nil {
		return fail(err)
	}

	log.Info("hosted import finished", "people", summary.People, "interactions", summary.Interactions, "skipped", summary.Skipped)
	return summary, nil
}

func importRemotePerson(database *sql.DB, p RemotePerson) (bool, error) {
	sourceID := "people/" + p.ID
	exists, err := db.CheckSyncLogExists(database, postgresService, sourceID)
	if err != nil || exists {
		return false, err
	}

	contact, err := remoteContact(p)
	if err != nil {
		return false, err
	}
	if err := db.CreateContact(database, &contact); err != nil {
		return false, err
	}

	return true, db.LogSync(database, postgresService, sourceID, "contact", contact.ID.String(), "")
}

func importRemoteInteraction(database *sql.DB, ri RemoteInteraction, today time.Time) (bool, error) {
	sourceID := "interactions/" + ri.ID
	exists, err := db.CheckSyncLogExists(database, postgresService, sourceID)
	if err != nil || exists {
		return false, err
	}

	entityID, err := db.GetSyncedEntityID(database, postgresService, "people/"+ri.PersonID)
	if err != nil {
		return false, err
	}
	if entityID == "" {
		return false, fmt.Errorf("person %s was not imported", ri.PersonID)
	}
	contactID, err := uuid.Parse(entityID)
	if err != nil {
		return false, fmt.Errorf("failed to parse contact ID: %w", err)
	}

	interaction := models.Interaction{
		ContactID:         contactID,
		DateOfInteraction: cadence.DateOf(ri.DateOfInteraction),
		Type:              models.InteractionType(ri.Type),
		Notes:             ri.Notes.String,
	}
	if err := db.LogInteraction(database, &interaction, today); err != nil {
		return false, err
	}

	return true, db.LogSync(database, postgresService, sourceID, "interaction", interaction.ID, "")
}
