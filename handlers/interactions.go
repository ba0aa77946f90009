// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements log_interaction and interaction_history tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type InteractionHandlers struct {
	db  *sql.DB
	now Clock
}

func NewInteractionHandlers(database *sql.DB, now Clock) *InteractionHandlers {
	if now == nil {
		now = time.Now
	}
	return &InteractionHandlers{db: database, now: now}
}

type LogInteractionInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact UUID (required)"`
	Type      string `json:"interaction_type,omitempty" jsonschema:"call, facetime, text, email or in_person (default: the contact's preferred method)"`
	Date      string `json:"date,omitempty" jsonschema:"Date of the interaction as YYYY-MM-DD (default today, never in the future)"`
	Notes     string `json:"notes,omitempty" jsonschema:"What you talked about"`
}

type InteractionOutput struct {
	ID                string `json:"id"`
	ContactID         string `json:"contact_id"`
	DateOfInteraction string `json:"date_of_interaction"`
	DateLogged        string `json:"date_logged"`
	Type              string `json:"interaction_type"`
	Notes             string `json:"notes,omitempty"`
}

type LogInteractionOutput struct {
	Interaction InteractionOutput `json:"interaction"`
	Contact     ContactOutput     `json:"contact"`
}

func (h *InteractionHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, LogInteractionOutput, error) {
	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, LogInteractionOutput{}, db.ErrContactNotFound
	}

	interactionType := contact.PreferredMethod
	if input.Type != "" {
		if interactionType, err = cadence.ParseInteractionType(input.Type); err != nil {
			return nil, LogInteractionOutput{}, err
		}
	}

	today := cadence.DateOf(h.now())
	interaction := &models.Interaction{
		ContactID: contactID,
		Type:      interactionType,
		Notes:     input.Notes,
	}
	if input.Date != "" {
		if interaction.DateOfInteraction, err = cadence.ParseDate(input.Date); err != nil {
			return nil, LogInteractionOutput{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	if err := db.LogInteraction(h.db, interaction, today); err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	// Re-read for the refreshed last-interaction fields.
	contact, err = db.GetContact(h.db, contactID)
	if err != nil {
		return nil, LogInteractionOutput{}, fmt.Errorf("failed to reload contact: %w", err)
	}
	if contact == nil {
		return nil, LogInteractionOutput{}, db.ErrContactNotFound
	}

	return nil, LogInteractionOutput{
		Interaction: interactionToOutput(*interaction),
		Contact:     ContactToOutput(*contact, today),
	}, nil
}

type InteractionHistoryInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact UUID (required)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum entries, newest first (default 20)"`
}

type InteractionHistoryOutput struct {
	Contact      ContactOutput       `json:"contact"`
	Interactions []InteractionOutput `json:"interactions"`
}

func (h *InteractionHandlers) InteractionHistory(_ context.Context, request *mcp.CallToolRequest, input InteractionHistoryInput) (*mcp.CallToolResult, InteractionHistoryOutput, error) {
	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, InteractionHistoryOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, InteractionHistoryOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, InteractionHistoryOutput{}, db.ErrContactNotFound
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	history, err := db.GetInteractionHistory(h.db, contactID, limit)
	if err != nil {
		return nil, InteractionHistoryOutput{}, fmt.Errorf("failed to get history: %w", err)
	}

	out := InteractionHistoryOutput{
		Contact:      ContactToOutput(*contact, cadence.DateOf(h.now())),
		Interactions: make([]InteractionOutput, 0, len(history)),
	}
	for _, i := range history {
		out.Interactions = append(out.Interactions, interactionToOutput(i))
	}
	return nil, out, nil
}

func interactionToOutput(i models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:                i.ID,
		ContactID:         i.ContactID.String(),
		DateOfInteraction: cadence.FormatDate(i.DateOfInteraction),
		DateLogged:        i.DateLogged.Format(time.RFC3339),
		Type:              string(i.Type),
		Notes:             i.Notes,
	}
}
