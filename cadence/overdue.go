// ABOUTME: Overdue calculator for contact cadence
// ABOUTME: Computes signed days-overdue values and next due dates
package cadence

import (
	"time"

	"github.com/harperreed/kith/models"
)

// DaysOverdue returns how late a contact is relative to its tier interval.
// Positive means overdue, zero means due today, negative means days remain.
// A contact that was never reached counts as exactly one interval overdue.
func DaysOverdue(last *time.Time, tier models.Tier, today time.Time) int {
	interval := ExpectedIntervalDays(tier)
	if last == nil {
		return interval
	}
	return DaysBetween(*last, today) - interval
}

// DaysSince returns whole calendar days since the last interaction, or
// false when there was none.
func DaysSince(last *time.Time, today time.Time) (int, bool) {
	if last == nil {
		return 0, false
	}
	return DaysBetween(*last, today), true
}

// DueDate is the calendar date on which the contact becomes due.
// Contacts that were never reached have no due date.
func DueDate(last *time.Time, tier models.Tier) *time.Time {
	if last == nil {
		return nil
	}
	due := AddDays(*last, ExpectedIntervalDays(tier))
	return &due
}

// EffectiveTier is the tier the engine schedules a contact by: its own tier
// when valid for its class, the fallback tier otherwise.
func EffectiveTier(c models.Contact) models.Tier {
	return NormalizeTier(c.Class, c.Tier)
}

// ContactDaysOverdue computes days overdue for a single contact.
func ContactDaysOverdue(c models.Contact, today time.Time) int {
	return DaysOverdue(c.LastInteractionDate, EffectiveTier(c), today)
}

// Annotate returns copies of contacts with DaysOverdue filled in.
// The input slice is not modified.
func Annotate(contacts []models.Contact, today time.Time) []models.Contact {
	out := make([]models.Contact, len(contacts))
	for i, c := range contacts {
		overdue := ContactDaysOverdue(c, today)
		c.DaysOverdue = &overdue
		out[i] = c
	}
	return out
}
