// ABOUTME: Ranking and selection of contacts by overdueness
// ABOUTME: Builds the up-next queue, the roster, status categories and people filters
package cadence

import (
	"math"
	"sort"
	"strings"

	"github.com/harperreed/kith/models"
)

// Status buckets a contact by how close it is to its due date.
type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusDueToday Status = "due_today"
	StatusDueSoon  Status = "due_soon"
	StatusOnTrack  Status = "on_track"
)

// DueSoonDays is how far ahead a contact counts as due soon.
const DueSoonDays = 7

// missingOverdue sorts contacts without a computed value after everyone else.
const missingOverdue = math.MinInt

func overdueKey(c models.Contact) int {
	if c.DaysOverdue == nil {
		return missingOverdue
	}
	return *c.DaysOverdue
}

// lessByName orders by first name, then last name, ignoring case. Names equal
// apart from case fall back to byte order and finally id.
func lessByName(a, b models.Contact) bool {
	if fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName); fa != fb {
		return fa < fb
	}
	if la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName); la != lb {
		return la < lb
	}
	if a.FirstName != b.FirstName {
		return a.FirstName < b.FirstName
	}
	if a.LastName != b.LastName {
		return a.LastName < b.LastName
	}
	return a.ID.String() < b.ID.String()
}

// SortByOverdue returns contacts ordered most overdue first. Contacts
// without DaysOverdue sort last; ties fall back to name then id.
func SortByOverdue(contacts []models.Contact) []models.Contact {
	out := make([]models.Contact, len(contacts))
	copy(out, contacts)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := overdueKey(out[i]), overdueKey(out[j])
		if ki != kj {
			return ki > kj
		}
		return lessByName(out[i], out[j])
	})
	return out
}

// DueNow returns every contact with DaysOverdue >= 0, most overdue first.
// Callers slice the result to their visible count.
func DueNow(contacts []models.Contact) []models.Contact {
	var due []models.Contact
	for _, c := range SortByOverdue(contacts) {
		if c.DaysOverdue != nil && *c.DaysOverdue >= 0 {
			due = append(due, c)
		}
	}
	return due
}

// Queue splits contacts into the visible up-next list (at most visible due
// contacts) and the roster holding everyone else, both most overdue first.
// A negative visible count means no cap.
func Queue(contacts []models.Contact, visible int) (upNext, roster []models.Contact) {
	due := DueNow(contacts)
	if visible >= 0 && len(due) > visible {
		due = due[:visible]
	}
	picked := make(map[string]bool, len(due))
	for _, c := range due {
		picked[c.ID.String()] = true
	}
	for _, c := range SortByOverdue(contacts) {
		if !picked[c.ID.String()] {
			roster = append(roster, c)
		}
	}
	return due, roster
}

// ContactStatus categorises a days-overdue value.
func ContactStatus(daysOverdue int) Status {
	switch {
	case daysOverdue > 0:
		return StatusOverdue
	case daysOverdue == 0:
		return StatusDueToday
	case daysOverdue >= -DueSoonDays:
		return StatusDueSoon
	}
	return StatusOnTrack
}

// PartitionByStatus groups annotated contacts by status, preserving the
// overdue ordering inside each group. Contacts without DaysOverdue are skipped.
func PartitionByStatus(contacts []models.Contact) map[Status][]models.Contact {
	groups := make(map[Status][]models.Contact)
	for _, c := range SortByOverdue(contacts) {
		if c.DaysOverdue == nil {
			continue
		}
		s := ContactStatus(*c.DaysOverdue)
		groups[s] = append(groups[s], c)
	}
	return groups
}

// PartitionByClass splits contacts into friends and network, keeping input order.
func PartitionByClass(contacts []models.Contact) (friends, network []models.Contact) {
	for _, c := range contacts {
		switch c.Class {
		case models.ClassFriend:
			friends = append(friends, c)
		case models.ClassNetwork:
			network = append(network, c)
		}
	}
	return friends, network
}

// FilterByClass keeps contacts of one class. An empty class keeps everyone.
func FilterByClass(contacts []models.Contact, class models.RelationshipClass) []models.Contact {
	if class == "" {
		return contacts
	}
	var out []models.Contact
	for _, c := range contacts {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// FilterRoster applies the people-screen filters: a tier set (empty means
// all tiers) and a case-insensitive substring match on the full name.
// The result is sorted alphabetically.
func FilterRoster(contacts []models.Contact, tiers []models.Tier, query string) []models.Contact {
	wanted := make(map[models.Tier]bool, len(tiers))
	for _, t := range tiers {
		wanted[t] = true
	}
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Contact
	for _, c := range contacts {
		if len(wanted) > 0 && !wanted[c.Tier] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.FullName()), query) {
			continue
		}
		out = append(out, c)
	}
	return SortAlphabetical(out)
}

// SortAlphabetical orders contacts by case-insensitive full name, then id.
func SortAlphabetical(contacts []models.Contact) []models.Contact {
	out := make([]models.Contact, len(contacts))
	copy(out, contacts)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].FullName()), strings.ToLower(out[j].FullName())
		if ni != nj {
			return ni < nj
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
