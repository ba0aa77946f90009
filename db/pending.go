// ABOUTME: Deferred imported interactions
// ABOUTME: Holds future calendar meetings until their date arrives
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
)

// SavePendingInteraction stores or replaces a deferred interaction.
func SavePendingInteraction(db *sql.DB, service string, p *models.PendingInteraction) error {
	_, err := db.Exec(`
		INSERT INTO pending_interactions (source_service, source_id, event_id, contact_id, date_of_interaction, interaction_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_service, source_id) DO UPDATE SET
			event_id = excluded.event_id,
			contact_id = excluded.contact_id,
			date_of_interaction = excluded.date_of_interaction,
			interaction_type = excluded.interaction_type,
			notes = excluded.notes
	`, service, p.SourceID, p.EventID, p.Interaction.ContactID.String(),
		cadence.FormatDate(p.Interaction.DateOfInteraction), p.Interaction.Type, p.Interaction.Notes)
	if err != nil {
		return fmt.Errorf("failed to save pending interaction: %w", err)
	}
	return nil
}

// DeletePendingForEvent drops every deferred interaction of one event.
func DeletePendingForEvent(db *sql.DB, service, eventID string) error {
	_, err := db.Exec(`DELETE FROM pending_interactions WHERE source_service = ? AND event_id = ?`, service, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete pending interactions: %w", err)
	}
	return nil
}

// DeletePendingInteraction drops one deferred interaction.
func DeletePendingInteraction(db *sql.DB, service, sourceID string) error {
	_, err := db.Exec(`DELETE FROM pending_interactions WHERE source_service = ? AND source_id = ?`, service, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete pending interaction: %w", err)
	}
	return nil
}

// ListDuePendingInteractions returns deferred interactions dated on or
// before today, oldest first.
func ListDuePendingInteractions(db *sql.DB, service string, today time.Time) ([]models.PendingInteraction, error) {
	rows, err := db.Query(`
		SELECT source_id, event_id, contact_id, date_of_interaction, interaction_type, notes
		FROM pending_interactions
		WHERE source_service = ? AND date_of_interaction <= ?
		ORDER BY date_of_interaction, source_id
	`, service, cadence.FormatDate(today))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.PendingInteraction
	for rows.Next() {
		var p models.PendingInteraction
		var contactID, dateOf string
		if err := rows.Scan(&p.SourceID, &p.EventID, &contactID, &dateOf, &p.Interaction.Type, &p.Interaction.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan pending interaction: %w", err)
		}
		if p.Interaction.ContactID, err = uuid.Parse(contactID); err != nil {
			return nil, fmt.Errorf("failed to parse contact ID: %w", err)
		}
		if p.Interaction.DateOfInteraction, err = cadence.ParseDate(dateOf); err != nil {
			return nil, fmt.Errorf("failed to parse pending date: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
