// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email, then by full name, to prevent duplicates during sync
package sync

import (
	"strings"

	"github.com/harperreed/kith/models"
)

type ContactMatcher struct {
	byEmail map[string]*models.Contact
	byName  map[string]*models.Contact
}

// NewContactMatcher creates a matcher from existing contacts.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]*models.Contact),
		byName:  make(map[string]*models.Contact),
	}

	for i := range contacts {
		m.AddContact(&contacts[i])
	}

	return m
}

// FindMatch prefers an email match and falls back to an exact full-name match.
func (m *ContactMatcher) FindMatch(email, name string) (*models.Contact, bool) {
	if e := normalizeEmail(email); e != "" {
		if contact, ok := m.byEmail[e]; ok {
			return contact, true
		}
	}
	if n := normalizeName(name); n != "" {
		if contact, ok := m.byName[n]; ok {
			return contact, true
		}
	}
	return nil, false
}

// FindByEmail matches on email only.
func (m *ContactMatcher) FindByEmail(email string) (*models.Contact, bool) {
	contact, ok := m.byEmail[normalizeEmail(email)]
	return contact, ok
}

// AddContact registers a contact created during the current import.
func (m *ContactMatcher) AddContact(contact *models.Contact) {
	if email := normalizeEmail(contact.Email); email != "" {
		m.byEmail[email] = contact
	}
	if name := normalizeName(contact.FullName()); name != "" {
		m.byName[name] = contact
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
