package cadence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/kith/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overdueContact(name string, overdue *int) models.Contact {
	return models.Contact{ID: uuid.New(), FirstName: name, Class: models.ClassFriend, Tier: models.TierKeepWarm, DaysOverdue: overdue}
}

func intPtr(n int) *int { return &n }

func names(contacts []models.Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.FirstName
	}
	return out
}

func TestSortByOverdue(t *testing.T) {
	contacts := []models.Contact{
		overdueContact("Dee", nil),
		overdueContact("Ann", intPtr(-5)),
		overdueContact("Bob", intPtr(12)),
		overdueContact("Cal", intPtr(12)),
		overdueContact("Eve", intPtr(0)),
	}

	sorted := SortByOverdue(contacts)

	assert.Equal(t, []string{"Bob", "Cal", "Eve", "Ann", "Dee"}, names(sorted))
	assert.Equal(t, "Dee", contacts[0].FirstName, "input order must be preserved")
}

func TestSortByOverdueTieBreaksDeterministically(t *testing.T) {
	a := overdueContact("Sam", intPtr(3))
	b := overdueContact("Sam", intPtr(3))
	a.LastName, b.LastName = "Young", "Adams"

	first := SortByOverdue([]models.Contact{a, b})
	second := SortByOverdue([]models.Contact{b, a})

	assert.Equal(t, first, second)
	assert.Equal(t, "Adams", first[0].LastName)
}

func TestDueNow(t *testing.T) {
	contacts := []models.Contact{
		overdueContact("Ann", intPtr(-1)),
		overdueContact("Bob", intPtr(4)),
		overdueContact("Cal", intPtr(0)),
		overdueContact("Dee", nil),
	}

	assert.Equal(t, []string{"Bob", "Cal"}, names(DueNow(contacts)))
	assert.Empty(t, DueNow(nil))
}

func TestQueueCapsUpNextAndKeepsRest(t *testing.T) {
	contacts := []models.Contact{
		overdueContact("Ann", intPtr(1)),
		overdueContact("Bob", intPtr(9)),
		overdueContact("Cal", intPtr(5)),
		overdueContact("Dee", intPtr(-10)),
		overdueContact("Eve", intPtr(2)),
		overdueContact("Fay", intPtr(7)),
	}

	upNext, roster := Queue(contacts, 4)

	assert.Equal(t, []string{"Bob", "Fay", "Cal", "Eve"}, names(upNext))
	assert.Equal(t, []string{"Ann", "Dee"}, names(roster))

	all, rest := Queue(contacts, -1)
	assert.Len(t, all, 5)
	assert.Equal(t, []string{"Dee"}, names(rest))
}

func TestContactStatus(t *testing.T) {
	assert.Equal(t, StatusOverdue, ContactStatus(3))
	assert.Equal(t, StatusDueToday, ContactStatus(0))
	assert.Equal(t, StatusDueSoon, ContactStatus(-7))
	assert.Equal(t, StatusOnTrack, ContactStatus(-8))
}

func TestPartitionByStatus(t *testing.T) {
	groups := PartitionByStatus([]models.Contact{
		overdueContact("Ann", intPtr(2)),
		overdueContact("Bob", intPtr(0)),
		overdueContact("Cal", intPtr(-3)),
		overdueContact("Dee", intPtr(-40)),
		overdueContact("Eve", intPtr(8)),
		overdueContact("Fay", nil),
	})

	assert.Equal(t, []string{"Eve", "Ann"}, names(groups[StatusOverdue]))
	assert.Equal(t, []string{"Bob"}, names(groups[StatusDueToday]))
	assert.Equal(t, []string{"Cal"}, names(groups[StatusDueSoon]))
	assert.Equal(t, []string{"Dee"}, names(groups[StatusOnTrack]))
}

func TestPartitionByClass(t *testing.T) {
	f := models.Contact{ID: uuid.New(), FirstName: "Fi", Class: models.ClassFriend}
	n := models.Contact{ID: uuid.New(), FirstName: "Ned", Class: models.ClassNetwork}

	friends, network := PartitionByClass([]models.Contact{n, f})

	assert.Equal(t, []string{"Fi"}, names(friends))
	assert.Equal(t, []string{"Ned"}, names(network))
	assert.Equal(t, []string{"Ned"}, names(FilterByClass([]models.Contact{n, f}, models.ClassNetwork)))
	assert.Len(t, FilterByClass([]models.Contact{n, f}, ""), 2)
}

func TestFilterRoster(t *testing.T) {
	contacts := []models.Contact{
		{ID: uuid.New(), FirstName: "sarah", LastName: "Connor", Tier: models.TierKeepWarm},
		{ID: uuid.New(), FirstName: "Adam", LastName: "Sarabi", Tier: models.TierCloseFriend},
		{ID: uuid.New(), FirstName: "Zoe", LastName: "Hart", Tier: models.TierKeepWarm},
		{ID: uuid.New(), FirstName: "Bea", LastName: "Lowe", Tier: models.TierDontLoseTouch},
	}

	all := FilterRoster(contacts, nil, "")
	assert.Equal(t, []string{"Adam", "Bea", "sarah", "Zoe"}, names(all))

	byQuery := FilterRoster(contacts, nil, "SARA")
	assert.Equal(t, []string{"Adam", "sarah"}, names(byQuery))

	byTier := FilterRoster(contacts, []models.Tier{models.TierKeepWarm}, "")
	assert.Equal(t, []string{"sarah", "Zoe"}, names(byTier))

	both := FilterRoster(contacts, []models.Tier{models.TierKeepWarm, models.TierCloseFriend}, "sara")
	require.Len(t, both, 2)
}
