// ABOUTME: Reminder MCP tool handler
// ABOUTME: Implements add_reminder for stored events such as holidays and anniversaries
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReminderHandlers struct {
	db *sql.DB
}

func NewReminderHandlers(database *sql.DB) *ReminderHandlers {
	return &ReminderHandlers{db: database}
}

type AddReminderInput struct {
	Label     string `json:"label" jsonschema:"What the reminder is for (required)"`
	Date      string `json:"date" jsonschema:"Date as YYYY-MM-DD (required)"`
	Recurring bool   `json:"recurring,omitempty" jsonschema:"Repeat every year on the same month and day"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Optional contact UUID the reminder is about"`
}

type ReminderOutput struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Date      string `json:"date"`
	Recurring bool   `json:"recurring"`
	ContactID string `json:"contact_id,omitempty"`
}

func (h *ReminderHandlers) AddReminder(_ context.Context, request *mcp.CallToolRequest, input AddReminderInput) (*mcp.CallToolResult, ReminderOutput, error) {
	if input.Label == "" {
		return nil, ReminderOutput{}, fmt.Errorf("label is required")
	}

	date, err := cadence.ParseDate(input.Date)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("invalid date: %w", err)
	}

	reminder := &models.UpcomingReminder{
		Label:     input.Label,
		Date:      date,
		Recurring: input.Recurring,
	}

	if input.ContactID != "" {
		contactID, err := uuid.Parse(input.ContactID)
		if err != nil {
			return nil, ReminderOutput{}, fmt.Errorf("invalid contact_id: %w", err)
		}
		contact, err := db.GetContact(h.db, contactID)
		if err != nil {
			return nil, ReminderOutput{}, fmt.Errorf("failed to get contact: %w", err)
		}
		if contact == nil {
			return nil, ReminderOutput{}, db.ErrContactNotFound
		}
		reminder.ContactID = &contactID
	}

	if err := db.CreateReminder(h.db, reminder); err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil, reminderToOutput(*reminder), nil
}

func reminderToOutput(r models.UpcomingReminder) ReminderOutput {
	out := ReminderOutput{
		ID:        r.ID.String(),
		Kind:      string(r.Kind),
		Label:     r.Label,
		Date:      cadence.FormatDate(r.Date),
		Recurring: r.Recurring,
	}
	if r.ContactID != nil {
		out.ContactID = r.ContactID.String()
	}
	return out
}
