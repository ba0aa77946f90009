// ABOUTME: Cadence policy: tier intervals and per-class tier validity
// ABOUTME: Maps tiers to expected contact intervals and display labels
package cadence

import (
	"fmt"
	"strings"

	"github.com/harperreed/kith/models"
)

// DefaultIntervalDays applies to any tier the table does not know.
const DefaultIntervalDays = 30

// FallbackTier is valid for both classes and carries the default interval.
const FallbackTier = models.TierKeepWarm

var intervalDays = map[models.Tier]int{
	models.TierCloseFriend:   14,
	models.TierActive:        14,
	models.TierKeepWarm:      30,
	models.TierDontLoseTouch: 90,
}

var tiersByClass = map[models.RelationshipClass][]models.Tier{
	models.ClassFriend:  {models.TierCloseFriend, models.TierKeepWarm, models.TierDontLoseTouch},
	models.ClassNetwork: {models.TierActive, models.TierKeepWarm, models.TierDontLoseTouch},
}

// ExpectedIntervalDays returns how many days may pass between interactions
// for a tier. Unknown tiers get DefaultIntervalDays.
func ExpectedIntervalDays(tier models.Tier) int {
	if days, ok := intervalDays[tier]; ok {
		return days
	}
	return DefaultIntervalDays
}

// ValidTiers lists the tiers allowed for a class, most frequent first.
func ValidTiers(class models.RelationshipClass) []models.Tier {
	tiers := tiersByClass[class]
	out := make([]models.Tier, len(tiers))
	copy(out, tiers)
	return out
}

// IsValidTier reports whether tier belongs to class.
func IsValidTier(class models.RelationshipClass, tier models.Tier) bool {
	for _, t := range tiersByClass[class] {
		if t == tier {
			return true
		}
	}
	return false
}

// NormalizeTier returns tier when it is valid for class and FallbackTier otherwise.
func NormalizeTier(class models.RelationshipClass, tier models.Tier) models.Tier {
	if IsValidTier(class, tier) {
		return tier
	}
	return FallbackTier
}

// ParseClass parses a relationship class tag.
func ParseClass(s string) (models.RelationshipClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "friend", "friends":
		return models.ClassFriend, nil
	case "network":
		return models.ClassNetwork, nil
	}
	return "", fmt.Errorf("invalid relationship class %q (use friend or network)", s)
}

// ParseTier parses a tier tag and checks it against class.
func ParseTier(class models.RelationshipClass, s string) (models.Tier, error) {
	tier := models.Tier(strings.ToLower(strings.TrimSpace(s)))
	if IsValidTier(class, tier) {
		return tier, nil
	}
	valid := make([]string, 0, 3)
	for _, t := range tiersByClass[class] {
		valid = append(valid, string(t))
	}
	return "", fmt.Errorf("invalid tier %q for %s (use %s)", s, class, strings.Join(valid, ", "))
}

// ParseInteractionType parses an interaction type tag.
func ParseInteractionType(s string) (models.InteractionType, error) {
	t := models.InteractionType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid interaction type %q", s)
}

// TierLabel is the display name of a tier.
func TierLabel(tier models.Tier) string {
	switch tier {
	case models.TierCloseFriend:
		return "Close Friend"
	case models.TierKeepWarm:
		return "Keep Warm"
	case models.TierDontLoseTouch:
		return "Don't Lose Touch"
	case models.TierActive:
		return "Active"
	}
	return string(tier)
}

// MethodLabel is the display name of an interaction type.
func MethodLabel(t models.InteractionType) string {
	switch t {
	case models.InteractionCall:
		return "Call"
	case models.InteractionFaceTime:
		return "FaceTime"
	case models.InteractionText:
		return "Text"
	case models.InteractionEmail:
		return "Email"
	}
	return "In Person"
}
