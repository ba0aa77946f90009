// ABOUTME: Contact database operations
// ABOUTME: Handles validated CRUD, search by name or email, and class filtering
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
)

// ErrContactNotFound is returned by writes that target a missing contact.
var ErrContactNotFound = errors.New("contact not found")

const contactColumns = `id, first_name, last_name, relationship_class, cadence_tier, origin_note,
	birthday, preferred_contact_method, email, date_added, last_interaction_date, last_interaction_note`

type rowScanner interface {
	Scan(dest ...any) error
}

// ValidateContact normalises a contact in place and rejects anything the store
// must never hold: a missing first name, an unknown class, a tier that is not
// valid for the class, or an unknown contact method.
func ValidateContact(c *models.Contact) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.FirstName == "" {
		return fmt.Errorf("first name is required")
	}

	class, err := cadence.ParseClass(string(c.Class))
	if err != nil {
		return err
	}
	c.Class = class

	tier, err := cadence.ParseTier(class, string(c.Tier))
	if err != nil {
		return err
	}
	c.Tier = tier

	if c.PreferredMethod == "" {
		c.PreferredMethod = models.InteractionText
	}
	if !c.PreferredMethod.Valid() {
		return fmt.Errorf("invalid contact method %q", c.PreferredMethod)
	}

	if c.Birthday != nil {
		b := cadence.DateOf(*c.Birthday)
		c.Birthday = &b
	}

	return nil
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	if err := ValidateContact(contact); err != nil {
		return err
	}

	contact.ID = uuid.New()
	if contact.DateAdded.IsZero() {
		contact.DateAdded = time.Now()
	}
	contact.DateAdded = cadence.DateOf(contact.DateAdded)
	contact.LastInteractionDate = nil
	contact.LastInteractionNote = ""

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, '')
	`, contact.ID.String(), contact.FirstName, contact.LastName, contact.Class, contact.Tier, contact.OriginNote,
		nullDate(contact.Birthday), contact.PreferredMethod, contact.Email, cadence.FormatDate(contact.DateAdded))
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// FindContactByEmail matches case-insensitively. Returns nil when nobody matches.
func FindContactByEmail(db *sql.DB, email string) (*models.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE email = ? LIMIT 1`, email)

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}

	return contact, nil
}

// FindContacts searches first name, last name and email. An empty class
// matches both classes; limit <= 0 means no limit.
func FindContacts(db *sql.DB, query string, class models.RelationshipClass, limit int) ([]models.Contact, error) {
	var where []string
	var args []any

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, `(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?
			OR LOWER(first_name || ' ' || last_name) LIKE ? OR email LIKE ?)`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if class != "" {
		where = append(where, "relationship_class = ?")
		args = append(args, class)
	}

	stmt := `SELECT ` + contactColumns + ` FROM contacts`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY LOWER(first_name), LOWER(last_name), id"
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

// ListContacts returns every contact.
func ListContacts(db *sql.DB) ([]models.Contact, error) {
	return FindContacts(db, "", "", 0)
}

// UpdateContact replaces the editable fields. date_added and the derived
// last-interaction fields are left alone.
func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	if err := ValidateContact(updates); err != nil {
		return err
	}

	result, err := db.Exec(`
		UPDATE contacts
		SET first_name = ?, last_name = ?, relationship_class = ?, cadence_tier = ?, origin_note = ?,
			birthday = ?, preferred_contact_method = ?, email = ?
		WHERE id = ?
	`, updates.FirstName, updates.LastName, updates.Class, updates.Tier, updates.OriginNote,
		nullDate(updates.Birthday), updates.PreferredMethod, updates.Email, id.String())
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return requireAffected(result)
}

// DeleteContact removes a contact and, by cascade, its interactions.
func DeleteContact(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var id, dateAdded string
	var birthday, lastInteraction sql.NullString

	err := row.Scan(&id, &c.FirstName, &c.LastName, &c.Class, &c.Tier, &c.OriginNote,
		&birthday, &c.PreferredMethod, &c.Email, &dateAdded, &lastInteraction, &c.LastInteractionNote)
	if err != nil {
		return nil, err
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if c.DateAdded, err = cadence.ParseDate(dateAdded); err != nil {
		return nil, fmt.Errorf("failed to parse date_added: %w", err)
	}
	if c.Birthday, err = cadence.ParseOptionalDate(birthday.String); err != nil {
		return nil, fmt.Errorf("failed to parse birthday: %w", err)
	}
	if c.LastInteractionDate, err = cadence.ParseOptionalDate(lastInteraction.String); err != nil {
		return nil, fmt.Errorf("failed to parse last_interaction_date: %w", err)
	}

	return &c, nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: cadence.FormatDate(*t), Valid: true}
}
