// ABOUTME: Google Contacts importer
// ABOUTME: Pulls names, emails and birthdays from the People API into the contact store with deduplication
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"google.golang.org/api/people/v1"
)

const (
	contactsService = "contacts"

	// unknownBirthYear fills in birthdays saved without a year. It is a leap
	// year so Feb 29 birthdays survive.
	unknownBirthYear = 2000
)

// ImportOptions sets the class and tier given to newly created contacts.
type ImportOptions struct {
	Class models.RelationshipClass
	Tier  models.Tier
}

// DefaultImportOptions files new people as keep-warm friends.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{Class: models.ClassFriend, Tier: models.TierKeepWarm}
}

// ImportSummary counts what an import run did.
type ImportSummary struct {
	Fetched int
	Created int
	Updated int
	Skipped int
}

type GoogleContact struct {
	ResourceName string
	FirstName    string
	LastName     string
	Email        string
	Birthday     *time.Time
	Notes        string
}

func (gc *GoogleContact) fullName() string {
	return strings.TrimSpace(gc.FirstName + " " + gc.LastName)
}

type ContactsImporter struct {
	db      *sql.DB
	matcher *ContactMatcher
	opts    ImportOptions
}

// NewContactsImporter loads existing contacts once for matching.
func NewContactsImporter(database *sql.DB, opts ImportOptions) (*ContactsImporter, error) {
	existing, err := db.ListContacts(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing contacts: %w", err)
	}
	return &ContactsImporter{db: database, matcher: NewContactMatcher(existing), opts: opts}, nil
}

// ImportContact creates or enriches one contact. It reports whether a new
// contact was created.
func (ci *ContactsImporter) ImportContact(gc *GoogleContact) (bool, error) {
	if existing, found := ci.matcher.FindMatch(gc.Email, gc.fullName()); found {
		if _, err := ci.enrichContact(existing, gc); err != nil {
			return false, err
		}
		if err := db.LogSync(ci.db, contactsService, gc.ResourceName, "contact", existing.ID.String(), ""); err != nil {
			return false, err
		}
		return false, nil
	}

	contact := &models.Contact{
		FirstName:  gc.FirstName,
		LastName:   gc.LastName,
		Email:      gc.Email,
		Birthday:   gc.Birthday,
		OriginNote: gc.Notes,
		Class:      ci.opts.Class,
		Tier:       ci.opts.Tier,
	}
	if err := db.CreateContact(ci.db, contact); err != nil {
		return false, fmt.Errorf("failed to create contact: %w", err)
	}
	if err := db.LogSync(ci.db, contactsService, gc.ResourceName, "contact", contact.ID.String(), ""); err != nil {
		return false, err
	}

	ci.matcher.AddContact(contact)
	return true, nil
}

// enrichContact fills fields the local contact is missing. Local data wins.
func (ci *ContactsImporter) enrichContact(existing *models.Contact, gc *GoogleContact) (bool, error) {
	fresh, err := db.GetContact(ci.db, existing.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load contact: %w", err)
	}
	if fresh == nil {
		return false, db.ErrContactNotFound
	}

	updated := false
	if gc.Birthday != nil && fresh.Birthday == nil {
		fresh.Birthday = gc.Birthday
		updated = true
	}
	if gc.Email != "" && fresh.Email == "" {
		fresh.Email = gc.Email
		updated = true
	}
	if gc.Notes != "" && fresh.OriginNote == "" {
		fresh.OriginNote = gc.Notes
		updated = true
	}
	if !updated {
		return false, nil
	}

	if err := db.UpdateContact(ci.db, fresh.ID, fresh); err != nil {
		return false, err
	}
	ci.matcher.AddContact(fresh)

	return true, nil
}

// ImportContacts pages through the user's connections and imports each
// person not imported before.
func ImportContacts(ctx context.Context, database *sql.DB, client *people.Service, opts ImportOptions) (*ImportSummary, error) {
	log.Info("syncing Google Contacts")
	if err := db.UpdateSyncStatus(database, contactsService, models.SyncStatusSyncing, ""); err != nil {
		return nil, err
	}

	importer, err := NewContactsImporter(database, opts)
	if err != nil {
		_ = db.UpdateSyncStatus(database, contactsService, models.SyncStatusError, err.Error())
		return nil, err
	}

	summary := &ImportSummary{}
	pageToken := ""
	for {
		call := client.People.Connections.List("people/me").
			PageSize(1000).
			PersonFields("names,emailAddresses,birthdays,biographies").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			_ = db.UpdateSyncStatus(database, contactsService, models.SyncStatusError, err.Error())
			return nil, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		if response == nil {
			break
		}

		summary.Fetched += len(response.Connections)
		for _, person := range response.Connections {
			importer.importPerson(person, summary)
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
		log.Debug("fetched contacts page", "so_far", summary.Fetched)
	}

	if err := db.MarkSynced(database, contactsService, ""); err != nil {
		return nil, err
	}

	log.Info("contacts sync finished", "fetched", summary.Fetched, "created", summary.Created,
		"updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}

func (ci *ContactsImporter) importPerson(person *people.Person, summary *ImportSummary) {
	gc := convertPerson(person)
	if gc.FirstName == "" {
		summary.Skipped++
		return
	}

	exists, err := db.CheckSyncLogExists(ci.db, contactsService, gc.ResourceName)
	if err != nil {
		log.Warn("failed to check sync log", "contact", gc.fullName(), "err", err)
		summary.Skipped++
		return
	}
	if exists {
		summary.Skipped++
		return
	}

	created, err := ci.ImportContact(gc)
	if err != nil {
		log.Warn("failed to import contact", "contact", gc.fullName(), "err", err)
		summary.Skipped++
		return
	}
	if created {
		summary.Created++
	} else {
		summary.Updated++
	}
}

// convertPerson maps a People API person onto the fields kith keeps.
func convertPerson(person *people.Person) *GoogleContact {
	gc := &GoogleContact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		name := person.Names[0]
		gc.FirstName = strings.TrimSpace(name.GivenName)
		gc.LastName = strings.TrimSpace(name.FamilyName)
		if gc.FirstName == "" && name.DisplayName != "" {
			parts := strings.Fields(name.DisplayName)
			gc.FirstName = parts[0]
			gc.LastName = strings.Join(parts[1:], " ")
		}
	}

	// Prefer the primary email, otherwise the first one.
	for _, email := range person.EmailAddresses {
		if email.Value == "" {
			continue
		}
		if gc.Email == "" {
			gc.Email = email.Value
		}
		if email.Metadata != nil && email.Metadata.Primary {
			gc.Email = email.Value
			break
		}
	}

	for _, b := range person.Birthdays {
		if d := birthdayDate(b); d != nil {
			gc.Birthday = d
			break
		}
	}

	if len(person.Biographies) > 0 {
		gc.Notes = strings.TrimSpace(person.Biographies[0].Value)
	}

	return gc
}

func birthdayDate(b *people.Birthday) *time.Time {
	if b == nil || b.Date == nil || b.Date.Month == 0 || b.Date.Day == 0 {
		return nil
	}
	year := int(b.Date.Year)
	if year == 0 {
		year = unknownBirthYear
	}
	d := time.Date(year, time.Month(b.Date.Month), int(b.Date.Day), 0, 0, 0, 0, time.UTC)
	return &d
}
