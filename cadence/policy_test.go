package cadence

import (
	"testing"

	"github.com/harperreed/kith/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedIntervalDays(t *testing.T) {
	tests := []struct {
		tier models.Tier
		want int
	}{
		{models.TierCloseFriend, 14},
		{models.TierActive, 14},
		{models.TierKeepWarm, 30},
		{models.TierDontLoseTouch, 90},
		{models.Tier("best_friend"), 30},
		{models.Tier(""), 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedIntervalDays(tt.tier))
		})
	}
}

func TestValidTiersPerClass(t *testing.T) {
	assert.Equal(t, []models.Tier{models.TierCloseFriend, models.TierKeepWarm, models.TierDontLoseTouch}, ValidTiers(models.ClassFriend))
	assert.Equal(t, []models.Tier{models.TierActive, models.TierKeepWarm, models.TierDontLoseTouch}, ValidTiers(models.ClassNetwork))
	assert.Empty(t, ValidTiers(models.RelationshipClass("family")))

	assert.True(t, IsValidTier(models.ClassFriend, models.TierCloseFriend))
	assert.False(t, IsValidTier(models.ClassFriend, models.TierActive))
	assert.False(t, IsValidTier(models.ClassNetwork, models.TierCloseFriend))
}

func TestValidTiersReturnsCopy(t *testing.T) {
	tiers := ValidTiers(models.ClassFriend)
	tiers[0] = models.Tier("mutated")

	assert.Equal(t, models.TierCloseFriend, ValidTiers(models.ClassFriend)[0])
}

func TestNormalizeTier(t *testing.T) {
	assert.Equal(t, models.TierActive, NormalizeTier(models.ClassNetwork, models.TierActive))
	assert.Equal(t, models.TierKeepWarm, NormalizeTier(models.ClassFriend, models.TierActive))
	assert.Equal(t, models.TierKeepWarm, NormalizeTier(models.ClassNetwork, models.Tier("garbage")))
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(models.ClassFriend, " Close_Friend ")
	require.NoError(t, err)
	assert.Equal(t, models.TierCloseFriend, tier)

	_, err = ParseTier(models.ClassFriend, "active")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close_friend, keep_warm, dont_lose_touch")
}

func TestParseClass(t *testing.T) {
	class, err := ParseClass("Friends")
	require.NoError(t, err)
	assert.Equal(t, models.ClassFriend, class)

	class, err = ParseClass("network")
	require.NoError(t, err)
	assert.Equal(t, models.ClassNetwork, class)

	_, err = ParseClass("coworker")
	assert.Error(t, err)
}

func TestParseInteractionType(t *testing.T) {
	it, err := ParseInteractionType("FaceTime")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionFaceTime, it)

	_, err = ParseInteractionType("carrier_pigeon")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Don't Lose Touch", TierLabel(models.TierDontLoseTouch))
	assert.Equal(t, "mystery", TierLabel(models.Tier("mystery")))
	assert.Equal(t, "FaceTime", MethodLabel(models.InteractionFaceTime))
	assert.Equal(t, "In Person", MethodLabel(models.InteractionInPerson))
}
