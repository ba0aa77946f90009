package cadence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interactionOn(t *testing.T, contactID uuid.UUID, day string) models.Interaction {
	d := date(t, day)
	return models.Interaction{ID: uuid.NewString(), ContactID: contactID, DateOfInteraction: d, DateLogged: d, Type: models.InteractionCall}
}

func TestWeekKey(t *testing.T) {
	// 2024-06-15 is a Saturday, 2024-06-16 a Sunday, 2024-06-17 a Monday.
	assert.Equal(t, "2024-06-10", FormatDate(WeekKey(date(t, "2024-06-15"))))
	assert.Equal(t, "2024-06-10", FormatDate(WeekKey(date(t, "2024-06-16"))))
	assert.Equal(t, "2024-06-17", FormatDate(WeekKey(date(t, "2024-06-17"))))
	assert.Equal(t, time.Monday, WeekKey(date(t, "2024-01-01")).Weekday())
}

func TestComputeStreakFiveConsecutiveWeeks(t *testing.T) {
	today := date(t, "2024-06-15")
	id := uuid.New()
	var interactions []models.Interaction
	for w := 0; w < 5; w++ {
		interactions = append(interactions, interactionOn(t, id, FormatDate(AddDays(today, -7*w))))
	}

	assert.Equal(t, Streak{Current: 5, Best: 5}, ComputeStreak(interactions, today))
}

func TestComputeStreakGapResetsCurrent(t *testing.T) {
	today := date(t, "2024-06-15")
	id := uuid.New()
	var interactions []models.Interaction
	// This week and last week, then a gap, then four older consecutive weeks.
	for _, w := range []int{0, 1, 3, 4, 5, 6} {
		interactions = append(interactions, interactionOn(t, id, FormatDate(AddDays(today, -7*w))))
	}

	assert.Equal(t, Streak{Current: 2, Best: 4}, ComputeStreak(interactions, today))
}

func TestComputeStreakNothingThisWeek(t *testing.T) {
	today := date(t, "2024-06-15")
	id := uuid.New()
	interactions := []models.Interaction{
		interactionOn(t, id, "2024-06-03"),
		interactionOn(t, id, "2024-06-05"),
	}

	assert.Equal(t, Streak{Current: 0, Best: 1}, ComputeStreak(interactions, today))
	assert.Equal(t, Streak{}, ComputeStreak(nil, today))
}

func TestComputeStreakAcrossYearBoundary(t *testing.T) {
	id := uuid.New()
	interactions := []models.Interaction{
		interactionOn(t, id, "2024-12-24"),
		interactionOn(t, id, "2024-12-31"),
		interactionOn(t, id, "2025-01-07"),
	}

	assert.Equal(t, Streak{Current: 3, Best: 3}, ComputeStreak(interactions, date(t, "2025-01-08")))
}

func TestBuildMonthBuckets(t *testing.T) {
	today := date(t, "2024-06-15")
	a, b := uuid.New(), uuid.New()
	interactions := []models.Interaction{
		interactionOn(t, a, "2024-06-01"),
		interactionOn(t, a, "2024-06-10"),
		interactionOn(t, b, "2024-06-11"),
		interactionOn(t, b, "2024-01-31"),
		interactionOn(t, a, "2023-07-04"),
		interactionOn(t, a, "2023-06-30"), // outside the window
		interactionOn(t, a, "2024-07-01"), // future month, outside the window
	}

	buckets := BuildMonthBuckets(interactions, today)

	require.Len(t, buckets, 12)
	assert.Equal(t, "Jul", buckets[0].Label)
	assert.Equal(t, "2023", buckets[0].YearLabel)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, "Jan", buckets[6].Label)
	assert.Equal(t, "2024", buckets[6].YearLabel)
	assert.Equal(t, 1, buckets[6].Count)
	assert.Equal(t, "Jun", buckets[11].Label)
	assert.Equal(t, 3, buckets[11].Count)
	assert.Equal(t, 2, buckets[11].Unique)

	for i, bucket := range buckets {
		if i != 0 && i != 6 {
			assert.Empty(t, bucket.YearLabel, "bucket %d", i)
		}
	}
}

func TestBuildMonthBucketsEmpty(t *testing.T) {
	buckets := BuildMonthBuckets(nil, date(t, "2024-01-31"))

	require.Len(t, buckets, 12)
	assert.Equal(t, "Feb", buckets[0].Label)
	assert.Equal(t, "2023", buckets[0].YearLabel)
	assert.Equal(t, "Jan", buckets[11].Label)
	assert.Equal(t, "2024", buckets[11].YearLabel)
	for _, bucket := range buckets {
		assert.Zero(t, bucket.Count)
		assert.Zero(t, bucket.Unique)
	}
}

func TestBuildLeaderboard(t *testing.T) {
	a := models.Contact{ID: uuid.New(), FirstName: "Alice", Class: models.ClassFriend}
	b := models.Contact{ID: uuid.New(), FirstName: "Bob", Class: models.ClassFriend}
	c := models.Contact{ID: uuid.New(), FirstName: "Carol", Class: models.ClassNetwork}
	d := models.Contact{ID: uuid.New(), FirstName: "Dan", Class: models.ClassNetwork}

	var interactions []models.Interaction
	for i := 0; i < 3; i++ {
		interactions = append(interactions, interactionOn(t, b.ID, "2024-06-01"), interactionOn(t, a.ID, "2024-06-02"))
	}
	interactions = append(interactions, interactionOn(t, c.ID, "2024-06-03"), interactionOn(t, uuid.New(), "2024-06-03"))

	board := BuildLeaderboard(interactions, []models.Contact{d, c, b, a})

	require.Len(t, board, 3)
	assert.Equal(t, "Alice", board[0].Contact.FirstName)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 3, board[0].Count)
	assert.Equal(t, "Bob", board[1].Contact.FirstName)
	assert.Equal(t, 1, board[1].Rank)
	assert.Equal(t, "Carol", board[2].Contact.FirstName)
	assert.Equal(t, 3, board[2].Rank)
	assert.Equal(t, 1, board[2].Count)
}

func TestBuildLeaderboardTieIgnoresCase(t *testing.T) {
	alice := models.Contact{ID: uuid.New(), FirstName: "alice"}
	bob := models.Contact{ID: uuid.New(), FirstName: "Bob"}
	interactions := []models.Interaction{
		interactionOn(t, bob.ID, "2024-06-01"),
		interactionOn(t, alice.ID, "2024-06-02"),
	}

	board := BuildLeaderboard(interactions, []models.Contact{bob, alice})

	require.Len(t, board, 2)
	assert.Equal(t, "alice", board[0].Contact.FirstName)
	assert.Equal(t, "Bob", board[1].Contact.FirstName)
	assert.Equal(t, 1, board[1].Rank)
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	assert.Empty(t, BuildLeaderboard(nil, []models.Contact{{ID: uuid.New(), FirstName: "Solo"}}))
}

func TestScopeInteractions(t *testing.T) {
	f := models.Contact{ID: uuid.New(), FirstName: "Fi", Class: models.ClassFriend}
	n := models.Contact{ID: uuid.New(), FirstName: "Ned", Class: models.ClassNetwork}
	interactions := []models.Interaction{
		interactionOn(t, f.ID, "2024-06-01"),
		interactionOn(t, n.ID, "2024-06-02"),
		interactionOn(t, uuid.New(), "2024-06-03"),
	}
	contacts := []models.Contact{f, n}

	assert.Len(t, ScopeInteractions(interactions, contacts, ScopeBoth), 3)
	assert.Len(t, ScopeInteractions(interactions, contacts, ScopeFriends), 1)
	assert.Len(t, ScopeInteractions(interactions, contacts, ScopeNetwork), 1)
	assert.Len(t, ScopeContacts(contacts, ScopeNetwork), 1)
	assert.Equal(t, ScopeBoth, ParseScope("everything"))
	assert.Equal(t, ScopeFriends, ParseScope("friends"))
}

func TestLatestInteraction(t *testing.T) {
	id := uuid.New()
	older := interactionOn(t, id, "2024-06-01")
	newer := interactionOn(t, id, "2024-06-03")
	sameDayLaterLog := interactionOn(t, id, "2024-06-03")
	sameDayLaterLog.DateLogged = sameDayLaterLog.DateLogged.Add(time.Hour)
	sameDayLaterLog.Notes = "second call"

	latest, ok := LatestInteraction([]models.Interaction{newer, older, sameDayLaterLog})
	require.True(t, ok)
	assert.Equal(t, "second call", latest.Notes)

	_, ok = LatestInteraction(nil)
	assert.False(t, ok)
}
