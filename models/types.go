// ABOUTME: Data models for relationship tracking
// ABOUTME: Defines Contact, Interaction, UpcomingReminder and their enumerations
package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipClass separates personal friends from professional network contacts.
type RelationshipClass string

const (
	ClassFriend  RelationshipClass = "friend"
	ClassNetwork RelationshipClass = "network"
)

// Tier is a cadence tier tag. Which tags are valid depends on the class.
type Tier string

const (
	TierCloseFriend   Tier = "close_friend"
	TierActive        Tier = "active"
	TierKeepWarm      Tier = "keep_warm"
	TierDontLoseTouch Tier = "dont_lose_touch"
)

// InteractionType is how a contact was reached. It doubles as the
// preferred contact method on a Contact.
type InteractionType string

const (
	InteractionCall     InteractionType = "call"
	InteractionFaceTime InteractionType = "facetime"
	InteractionText     InteractionType = "text"
	InteractionEmail    InteractionType = "email"
	InteractionInPerson InteractionType = "in_person"
)

// InteractionTypes lists every interaction type in display order.
var InteractionTypes = []InteractionType{
	InteractionCall,
	InteractionFaceTime,
	InteractionText,
	InteractionEmail,
	InteractionInPerson,
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Contact is a person being kept in touch with.
// Dates are calendar dates stored as UTC midnight.
type Contact struct {
	ID                  uuid.UUID         `json:"id"`
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	Class               RelationshipClass `json:"relationship_class"`
	Tier                Tier              `json:"cadence_tier"`
	OriginNote          string            `json:"origin_note,omitempty"`
	Birthday            *time.Time        `json:"birthday,omitempty"`
	PreferredMethod     InteractionType   `json:"preferred_contact_method"`
	Email               string            `json:"email,omitempty"`
	DateAdded           time.Time         `json:"date_added"`
	LastInteractionDate *time.Time        `json:"last_interaction_date,omitempty"`
	LastInteractionNote string            `json:"last_interaction_note,omitempty"`

	// DaysOverdue is computed on every read and never persisted.
	DaysOverdue *int `json:"days_overdue,omitempty"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// Interaction is one logged touchpoint with a contact. Interactions are append-only.
type Interaction struct {
	ID                string          `json:"id"`
	ContactID         uuid.UUID       `json:"contact_id"`
	DateOfInteraction time.Time       `json:"date_of_interaction"`
	DateLogged        time.Time       `json:"date_logged"`
	Type              InteractionType `json:"interaction_type"`
	Notes             string          `json:"notes,omitempty"`
}

// PendingInteraction is an imported interaction dated after the run that saw
// it. It is logged once its date arrives.
type PendingInteraction struct {
	SourceID    string
	EventID     string
	Interaction Interaction
}

// ReminderKind distinguishes derived birthdays from stored events.
type ReminderKind string

const (
	ReminderBirthday ReminderKind = "birthday"
	ReminderEvent    ReminderKind = "event"
)

// UpcomingReminder is a dated reminder, optionally recurring every year.
type UpcomingReminder struct {
	ID        uuid.UUID    `json:"id"`
	Kind      ReminderKind `json:"kind"`
	Label     string       `json:"label"`
	Date      time.Time    `json:"date"`
	Recurring bool         `json:"recurring"`
	ContactID *uuid.UUID   `json:"contact_id,omitempty"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

type SyncState struct {
	Service       string     `json:"service"`
	LastSyncTime  *time.Time `json:"last_sync_time,omitempty"`
	LastSyncToken string     `json:"last_sync_token,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type SyncLog struct {
	ID            uuid.UUID `json:"id"`
	SourceService string    `json:"source_service"`
	SourceID      string    `json:"source_id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	ImportedAt    time.Time `json:"imported_at"`
}
