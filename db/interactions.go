// ABOUTME: Interaction log database operations
// ABOUTME: Appends interactions and keeps each contact's derived last-interaction fields current
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
	"github.com/oklog/ulid/v2"
)

const interactionColumns = `id, contact_id, date_of_interaction, date_logged, interaction_type, notes`

// LogInteraction appends an interaction for an existing contact and refreshes
// the contact's last_interaction_date and last_interaction_note. The
// interaction may be backdated but not dated after today.
func LogInteraction(db *sql.DB, interaction *models.Interaction, today time.Time) error {
	if !interaction.Type.Valid() {
		return fmt.Errorf("invalid interaction type %q", interaction.Type)
	}
	if interaction.DateOfInteraction.IsZero() {
		interaction.DateOfInteraction = today
	}
	interaction.DateOfInteraction = cadence.DateOf(interaction.DateOfInteraction)
	if interaction.DateOfInteraction.After(cadence.DateOf(today)) {
		return fmt.Errorf("interaction date %s is in the future", cadence.FormatDate(interaction.DateOfInteraction))
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM contacts WHERE id = ?`, interaction.ContactID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check contact: %w", err)
	}
	if exists == 0 {
		return ErrContactNotFound
	}

	interaction.ID = ulid.Make().String()
	interaction.DateLogged = time.Now().UTC()

	_, err = tx.Exec(`
		INSERT INTO interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, interaction.ID, interaction.ContactID.String(), cadence.FormatDate(interaction.DateOfInteraction),
		interaction.DateLogged.Format(time.RFC3339Nano), interaction.Type, interaction.Notes)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	if err := refreshLastInteraction(tx, interaction.ContactID); err != nil {
		return err
	}

	return tx.Commit()
}

// refreshLastInteraction recomputes the derived fields from the full history
// so a backdated entry never replaces a newer one.
func refreshLastInteraction(tx *sql.Tx, contactID uuid.UUID) error {
	rows, err := tx.Query(`SELECT `+interactionColumns+` FROM interactions WHERE contact_id = ?`, contactID.String())
	if err != nil {
		return fmt.Errorf("failed to load interactions: %w", err)
	}
	history, err := scanInteractions(rows)
	if err != nil {
		return err
	}

	var lastDate sql.NullString
	var lastNote string
	if latest, ok := cadence.LatestInteraction(history); ok {
		lastDate = sql.NullString{String: cadence.FormatDate(latest.DateOfInteraction), Valid: true}
		lastNote = latest.Notes
	}

	_, err = tx.Exec(`
		UPDATE contacts SET last_interaction_date = ?, last_interaction_note = ? WHERE id = ?
	`, lastDate, lastNote, contactID.String())
	if err != nil {
		return fmt.Errorf("failed to update last interaction: %w", err)
	}

	return nil
}

// GetInteractionHistory returns a contact's interactions newest first.
// limit <= 0 means no limit.
func GetInteractionHistory(db *sql.DB, contactID uuid.UUID, limit int) ([]models.Interaction, error) {
	stmt := `SELECT ` + interactionColumns + ` FROM interactions WHERE contact_id = ?
		ORDER BY date_of_interaction DESC, date_logged DESC, id DESC`
	args := []any{contactID.String()}
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction history: %w", err)
	}
	return scanInteractions(rows)
}

// ListInteractions returns every interaction dated on or after since. A zero
// since returns the whole log.
func ListInteractions(db *sql.DB, since time.Time) ([]models.Interaction, error) {
	stmt := `SELECT ` + interactionColumns + ` FROM interactions`
	var args []any
	if !since.IsZero() {
		stmt += " WHERE date_of_interaction >= ?"
		args = append(args, cadence.FormatDate(since))
	}
	stmt += " ORDER BY date_of_interaction, date_logged, id"

	rows, err := db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	return scanInteractions(rows)
}

func scanInteractions(rows *sql.Rows) ([]models.Interaction, error) {
	defer func() { _ = rows.Close() }()

	var interactions []models.Interaction
	for rows.Next() {
		var i models.Interaction
		var contactID, dateOf, logged string
		if err := rows.Scan(&i.ID, &contactID, &dateOf, &logged, &i.Type, &i.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}

		var err error
		if i.ContactID, err = uuid.Parse(contactID); err != nil {
			return nil, fmt.Errorf("failed to parse contact ID: %w", err)
		}
		if i.DateOfInteraction, err = cadence.ParseDate(dateOf); err != nil {
			return nil, fmt.Errorf("failed to parse interaction date: %w", err)
		}
		if i.DateLogged, err = time.Parse(time.RFC3339Nano, logged); err != nil {
			return nil, fmt.Errorf("failed to parse date_logged: %w", err)
		}

		interactions = append(interactions, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return interactions, nil
}
