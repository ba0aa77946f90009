// ABOUTME: Stored event reminders (moments, holidays, anniversaries)
// ABOUTME: Birthday reminders are derived from contacts and never stored here
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

// ErrReminderNotFound is returned when deleting a missing reminder.
var ErrReminderNotFound = errors.New("reminder not found")

func CreateReminder(db *sql.DB, reminder *models.UpcomingReminder) error {
	reminder.Label = strings.TrimSpace(reminder.Label)
	if reminder.Label == "" {
		return fmt.Errorf("reminder label is required")
	}
	if reminder.Date.IsZero() {
		return fmt.Errorf("reminder date is required")
	}

	reminder.ID = uuid.New()
	reminder.Kind = models.ReminderEvent
	reminder.Date = cadence.DateOf(reminder.Date)

	var contactID sql.NullString
	if reminder.ContactID != nil {
		contactID = sql.NullString{String: reminder.ContactID.String(), Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO reminders (id, label, date, recurring, contact_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, reminder.ID.String(), reminder.Label, cadence.FormatDate(reminder.Date), reminder.Recurring, contactID,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

func ListReminders(db *sql.DB) ([]models.UpcomingReminder, error) {
	rows, err := db.Query(`SELECT id, label, date, recurring, contact_id FROM reminders ORDER BY date, label`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reminders []models.UpcomingReminder
	for rows.Next() {
		var r models.UpcomingReminder
		var id, date string
		var contactID sql.NullString
		if err := rows.Scan(&id, &r.Label, &date, &r.Recurring, &contactID); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse reminder ID: %w", err)
		}
		if r.Date, err = cadence.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse reminder date: %w", err)
		}
		if contactID.Valid {
			if cid, err := uuid.Parse(contactID.String); err == nil {
				r.ContactID = &cid
			}
		}
		r.Kind = models.ReminderEvent

		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

func DeleteReminder(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM reminders WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrReminderNotFound
	}

	return nil
}
