// ABOUTME: Interaction aggregation: weekly streaks, monthly buckets, leaderboard
// ABOUTME: Pure functions over interaction history and contacts
package cadence

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/models"
)

// Scope narrows statistics to one relationship class.
type Scope string

const (
	ScopeBoth    Scope = "both"
	ScopeFriends Scope = "friends"
	ScopeNetwork Scope = "network"
)

// ParseScope accepts both/friends/network; anything else means both.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopeFriends, ScopeNetwork:
		return Scope(s)
	}
	return ScopeBoth
}

func (s Scope) class() models.RelationshipClass {
	switch s {
	case ScopeFriends:
		return models.ClassFriend
	case ScopeNetwork:
		return models.ClassNetwork
	}
	return ""
}

// ScopeContacts keeps the contacts that belong to scope.
func ScopeContacts(contacts []models.Contact, scope Scope) []models.Contact {
	return FilterByClass(contacts, scope.class())
}

// ScopeInteractions keeps interactions whose contact belongs to scope.
// Interactions with unknown contacts only survive the "both" scope.
func ScopeInteractions(interactions []models.Interaction, contacts []models.Contact, scope Scope) []models.Interaction {
	class := scope.class()
	if class == "" {
		return interactions
	}
	classOf := make(map[uuid.UUID]models.RelationshipClass, len(contacts))
	for _, c := range contacts {
		classOf[c.ID] = c.Class
	}
	var out []models.Interaction
	for _, i := range interactions {
		if classOf[i.ContactID] == class {
			out = append(out, i)
		}
	}
	return out
}

// Streak counts consecutive weeks with at least one interaction.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// ComputeStreak walks back from the current week for the current streak and
// scans all active weeks for the longest run.
func ComputeStreak(interactions []models.Interaction, today time.Time) Streak {
	weeks := make(map[time.Time]bool)
	for _, i := range interactions {
		weeks[WeekKey(i.DateOfInteraction)] = true
	}

	var s Streak
	for cursor := WeekKey(today); weeks[cursor]; cursor = cursor.AddDate(0, 0, -7) {
		s.Current++
	}

	sorted := make([]time.Time, 0, len(weeks))
	for w := range weeks {
		sorted = append(sorted, w)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for idx, w := range sorted {
		if idx > 0 && DaysBetween(sorted[idx-1], w) == 7 {
			run++
		} else {
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
	}
	if s.Current > s.Best {
		s.Best = s.Current
	}
	return s
}

// MonthBucket is one bar of the twelve-month activity chart.
type MonthBucket struct {
	Month     time.Time `json:"month"`
	Label     string    `json:"label"`
	YearLabel string    `json:"year_label"`
	Count     int       `json:"count"`
	Unique    int       `json:"unique"`
}

// MonthsInChart is the number of buckets BuildMonthBuckets returns.
const MonthsInChart = 12

// BuildMonthBuckets returns twelve buckets, oldest first, ending with
// today's month. YearLabel is set only where the year changes.
func BuildMonthBuckets(interactions []models.Interaction, today time.Time) []MonthBucket {
	current := MonthStart(today)
	buckets := make([]MonthBucket, MonthsInChart)
	index := make(map[time.Time]int, MonthsInChart)
	prevYear := -1
	for i := range buckets {
		month := current.AddDate(0, i-(MonthsInChart-1), 0)
		b := MonthBucket{Month: month, Label: month.Month().String()[:3]}
		if month.Year() != prevYear {
			b.YearLabel = strconv.Itoa(month.Year())
		}
		prevYear = month.Year()
		buckets[i] = b
		index[month] = i
	}

	unique := make([]map[uuid.UUID]bool, MonthsInChart)
	for _, ix := range interactions {
		i, ok := index[MonthStart(ix.DateOfInteraction)]
		if !ok {
			continue
		}
		buckets[i].Count++
		if unique[i] == nil {
			unique[i] = make(map[uuid.UUID]bool)
		}
		unique[i][ix.ContactID] = true
	}
	for i := range buckets {
		buckets[i].Unique = len(unique[i])
	}
	return buckets
}

// LeaderEntry is one row of the most-contacted leaderboard.
type LeaderEntry struct {
	Contact models.Contact `json:"contact"`
	Count   int            `json:"count"`
	Rank    int            `json:"rank"`
}

// BuildLeaderboard counts interactions per known contact and ranks them by
// count descending, then first name. Equal counts share a rank; the next
// lower count takes its 1-based position.
func BuildLeaderboard(interactions []models.Interaction, contacts []models.Contact) []LeaderEntry {
	counts := make(map[uuid.UUID]int)
	for _, i := range interactions {
		counts[i.ContactID]++
	}

	var entries []LeaderEntry
	for _, c := range contacts {
		if n := counts[c.ID]; n > 0 {
			entries = append(entries, LeaderEntry{Contact: c, Count: n})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return lessByName(entries[i].Contact, entries[j].Contact)
	})

	rank := 1
	for i := range entries {
		if i > 0 && entries[i].Count < entries[i-1].Count {
			rank = i + 1
		}
		entries[i].Rank = rank
	}
	return entries
}

// LatestInteraction picks the interaction that defines a contact's derived
// last-interaction fields: the latest date, then the latest log time, then
// the greatest id.
func LatestInteraction(interactions []models.Interaction) (models.Interaction, bool) {
	var best models.Interaction
	found := false
	for _, i := range interactions {
		if !found || laterInteraction(i, best) {
			best = i
			found = true
		}
	}
	return best, found
}

func laterInteraction(a, b models.Interaction) bool {
	if !DateOf(a.DateOfInteraction).Equal(DateOf(b.DateOfInteraction)) {
		return DateOf(a.DateOfInteraction).After(DateOf(b.DateOfInteraction))
	}
	if !a.DateLogged.Equal(b.DateLogged) {
		return a.DateLogged.After(b.DateLogged)
	}
	return a.ID > b.ID
}
