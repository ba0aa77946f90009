// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact and delete_contact tools
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

// Clock returns the current time. Handlers only use it to derive today's date.
type Clock func() time.Time

type ContactHandlers struct {
	db  *sql.DB
	now Clock
}

func NewContactHandlers(database *sql.DB, now Clock) *ContactHandlers {
	if now == nil {
		now = time.Now
	}
	return &ContactHandlers{db: database, now: now}
}

type AddContactInput struct {
	FirstName       string `json:"first_name" jsonschema:"First name (required)"`
	LastName        string `json:"last_name,omitempty" jsonschema:"Last name"`
	Class           string `json:"relationship_class" jsonschema:"friend or network (required)"`
	Tier            string `json:"cadence_tier" jsonschema:"Cadence tier: close_friend, keep_warm or dont_lose_touch for friends; active, keep_warm or dont_lose_touch for network"`
	Email           string `json:"email,omitempty" jsonschema:"Email address"`
	Birthday        string `json:"birthday,omitempty" jsonschema:"Birthday as YYYY-MM-DD"`
	PreferredMethod string `json:"preferred_contact_method,omitempty" jsonschema:"call, facetime, text, email or in_person (default text)"`
	OriginNote      string `json:"origin_note,omitempty" jsonschema:"Where you know them from"`
}

type ContactOutput struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name,omitempty"`
	Class               string `json:"relationship_class"`
	Tier                string `json:"cadence_tier"`
	Email               string `json:"email,omitempty"`
	Birthday            string `json:"birthday,omitempty"`
	PreferredMethod     string `json:"preferred_contact_method"`
	OriginNote          string `json:"origin_note,omitempty"`
	DateAdded           string `json:"date_added"`
	LastInteractionDate string `json:"last_interaction_date,omitempty"`
	LastInteractionNote string `json:"last_interaction_note,omitempty"`
	LastContacted       string `json:"last_contacted"`
	DaysOverdue         int    `json:"days_overdue"`
	Status              string `json:"status"`
}

func (h *ContactHandlers) today() time.Time {
	return cadence.DateOf(h.now())
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := contactFromInput(input)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	contact.DateAdded = h.today()

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, ContactToOutput(*contact, h.today()), nil
}

func contactFromInput(input AddContactInput) (*models.Contact, error) {
	if input.FirstName == "" {
		return nil, fmt.Errorf("first_name is required")
	}

	class, err := cadence.ParseClass(input.Class)
	if err != nil {
		return nil, err
	}
	tier, err := cadence.ParseTier(class, input.Tier)
	if err != nil {
		return nil, err
	}
	birthday, err := cadence.ParseOptionalDate(input.Birthday)
	if err != nil {
		return nil, fmt.Errorf("invalid birthday: %w", err)
	}

	method := models.InteractionText
	if input.PreferredMethod != "" {
		method, err = cadence.ParseInteractionType(input.PreferredMethod)
		if err != nil {
			return nil, err
		}
	}

	return &models.Contact{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Class:           class,
		Tier:            tier,
		Email:           input.Email,
		Birthday:        birthday,
		PreferredMethod: method,
		OriginNote:      input.OriginNote,
	}, nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search by name or email"`
	Class string `json:"relationship_class,omitempty" jsonschema:"Restrict to friend or network"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	var class models.RelationshipClass
	if input.Class != "" {
		parsed, err := cadence.ParseClass(input.Class)
		if err != nil {
			return nil, FindContactsOutput{}, err
		}
		class = parsed
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	contacts, err := db.FindContacts(h.db, input.Query, class, limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	today := h.today()
	out := FindContactsOutput{Contacts: make([]ContactOutput, 0, len(contacts))}
	for _, c := range cadence.Annotate(contacts, today) {
		out.Contacts = append(out.Contacts, ContactToOutput(c, today))
	}
	return nil, out, nil
}

type UpdateContactInput struct {
	ID              string  `json:"id" jsonschema:"Contact UUID (required)"`
	FirstName       *string `json:"first_name,omitempty" jsonschema:"New first name"`
	LastName        *string `json:"last_name,omitempty" jsonschema:"New last name"`
	Class           *string `json:"relationship_class,omitempty" jsonschema:"New class: friend or network"`
	Tier            *string `json:"cadence_tier,omitempty" jsonschema:"New cadence tier"`
	Email           *string `json:"email,omitempty" jsonschema:"New email address"`
	Birthday        *string `json:"birthday,omitempty" jsonschema:"New birthday as YYYY-MM-DD, empty to clear"`
	PreferredMethod *string `json:"preferred_contact_method,omitempty" jsonschema:"New preferred contact method"`
	OriginNote      *string `json:"origin_note,omitempty" jsonschema:"New origin note"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	existing, err := db.GetContact(h.db, id)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if existing == nil {
		return nil, ContactOutput{}, db.ErrContactNotFound
	}

	updated := *existing
	if input.FirstName != nil {
		updated.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		updated.LastName = *input.LastName
	}
	if input.Email != nil {
		updated.Email = *input.Email
	}
	if input.OriginNote != nil {
		updated.OriginNote = *input.OriginNote
	}
	if input.Class != nil {
		if updated.Class, err = cadence.ParseClass(*input.Class); err != nil {
			return nil, ContactOutput{}, err
		}
	}
	if input.Tier != nil {
		updated.Tier = models.Tier(*input.Tier)
	}
	if input.Birthday != nil {
		if updated.Birthday, err = cadence.ParseOptionalDate(*input.Birthday); err != nil {
			return nil, ContactOutput{}, fmt.Errorf("invalid birthday: %w", err)
		}
	}
	if input.PreferredMethod != nil {
		if updated.PreferredMethod, err = cadence.ParseInteractionType(*input.PreferredMethod); err != nil {
			return nil, ContactOutput{}, err
		}
	}

	if err := db.UpdateContact(h.db, id, &updated); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, ContactToOutput(updated, h.today()), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact UUID (required)"`
}

type DeleteContactOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	if err := db.DeleteContact(h.db, id); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{ID: id.String(), Deleted: true}, nil
}

func ContactToOutput(c models.Contact, today time.Time) ContactOutput {
	overdue := cadence.ContactDaysOverdue(c, today)
	return ContactOutput{
		ID:                  c.ID.String(),
		Name:                c.FullName(),
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Class:               string(c.Class),
		Tier:                string(c.Tier),
		Email:               c.Email,
		Birthday:            cadence.FormatOptionalDate(c.Birthday),
		PreferredMethod:     string(c.PreferredMethod),
		OriginNote:          c.OriginNote,
		DateAdded:           cadence.FormatDate(c.DateAdded),
		LastInteractionDate: cadence.FormatOptionalDate(c.LastInteractionDate),
		LastInteractionNote: c.LastInteractionNote,
		LastContacted:       cadence.RelativeTime(c.LastInteractionDate, today),
		DaysOverdue:         overdue,
		Status:              string(cadence.ContactStatus(overdue)),
	}
}
