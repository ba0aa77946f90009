// ABOUTME: MCP resource handlers for exposing kith data
// ABOUTME: Read-only JSON views of contacts, the up-next queue, upcoming events and stats via kith:// URIs
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "kith://"

// ResourceURIs lists the fixed resources; contacts/{id} is served as a template.
var ResourceURIs = []string{
	"kith://contacts",
	"kith://up-next",
	"kith://upcoming",
	"kith://stats",
}

type ResourceHandlers struct {
	db  *sql.DB
	now Clock
}

func NewResourceHandlers(database *sql.DB, now Clock) *ResourceHandlers {
	if now == nil {
		now = time.Now
	}
	return &ResourceHandlers{db: database, now: now}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	today := cadence.DateOf(h.now())

	var payload any
	var err error
	switch parts[0] {
	case "contacts":
		if len(parts) == 1 {
			payload, err = h.allContacts(today)
		} else {
			payload, err = h.contact(parts[1], today)
		}
	case "up-next":
		_, payload, err = NewViewHandlers(h.db, h.now).GetUpNext(ctx, nil, GetUpNextInput{})
	case "upcoming":
		_, payload, err = NewViewHandlers(h.db, h.now).GetUpcoming(ctx, nil, GetUpcomingInput{})
	case "stats":
		_, payload, err = NewViewHandlers(h.db, h.now).GetStats(ctx, nil, GetStatsInput{})
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) allContacts(today time.Time) ([]ContactOutput, error) {
	contacts, err := viz.LoadContacts(h.db, "", today)
	if err != nil {
		return nil, err
	}

	out := make([]ContactOutput, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactToOutput(c, today))
	}
	return out, nil
}

func (h *ResourceHandlers) contact(idStr string, today time.Time) (any, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return nil, db.ErrContactNotFound
	}

	history, err := db.GetInteractionHistory(h.db, id, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	out := InteractionHistoryOutput{
		Contact:      ContactToOutput(*contact, today),
		Interactions: make([]InteractionOutput, 0, len(history)),
	}
	for _, i := range history {
		out.Interactions = append(out.Interactions, interactionToOutput(i))
	}
	return out, nil
}
