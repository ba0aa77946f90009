// ABOUTME: Upcoming-event window for birthdays and dated reminders
// ABOUTME: Computes next yearly occurrences and filters them to a lookahead window
package cadence

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/models"
)

// DefaultDaysAhead is the birthday lookahead used by the home screen.
const DefaultDaysAhead = 60

// UpcomingBirthday is a contact whose birthday falls inside the window.
type UpcomingBirthday struct {
	Contact   models.Contact `json:"contact"`
	Date      time.Time      `json:"date"`
	DaysUntil int            `json:"days_until"`
}

// UpcomingEvent is a reminder occurrence inside the window.
type UpcomingEvent struct {
	Reminder  models.UpcomingReminder `json:"reminder"`
	Date      time.Time               `json:"date"`
	DaysUntil int                     `json:"days_until"`
}

// occurrenceIn places month/day of date in year. Feb 29 becomes Feb 28 in
// years without a leap day.
func occurrenceIn(date time.Time, year int) time.Time {
	_, m, d := date.Date()
	if m == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the first occurrence of date's month and day on or
// after today. The year of date is ignored.
func NextOccurrence(date time.Time, today time.Time) time.Time {
	today = DateOf(today)
	occ := occurrenceIn(date, today.Year())
	if occ.Before(today) {
		occ = occurrenceIn(date, today.Year()+1)
	}
	return occ
}

// UpcomingBirthdays returns contacts whose next birthday is between today
// and daysAhead days from now (inclusive), soonest first. Ties keep name order.
func UpcomingBirthdays(contacts []models.Contact, daysAhead int, today time.Time) []UpcomingBirthday {
	var out []UpcomingBirthday
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		occ := NextOccurrence(*c.Birthday, today)
		diff := DaysBetween(today, occ)
		if diff < 0 || diff > daysAhead {
			continue
		}
		out = append(out, UpcomingBirthday{Contact: c, Date: occ, DaysUntil: diff})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return lessByName(out[i].Contact, out[j].Contact)
	})
	return out
}

var birthdayNamespace = uuid.MustParse("6f1c3a52-8a5e-4d6b-9c1e-0f2b7d4e9a10")

// BirthdayReminders derives a recurring birthday reminder for every contact
// with a birthday. Reminder ids are stable per contact.
func BirthdayReminders(contacts []models.Contact) []models.UpcomingReminder {
	var out []models.UpcomingReminder
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		contactID := c.ID
		out = append(out, models.UpcomingReminder{
			ID:        uuid.NewSHA1(birthdayNamespace, contactID[:]),
			Kind:      models.ReminderBirthday,
			Label:     c.FirstName + "'s birthday",
			Date:      DateOf(*c.Birthday),
			Recurring: true,
			ContactID: &contactID,
		})
	}
	return out
}

// UpcomingReminders returns reminder occurrences within daysAhead days of
// today, soonest first. Recurring reminders repeat yearly; one-off reminders
// only count on their own date.
func UpcomingReminders(reminders []models.UpcomingReminder, daysAhead int, today time.Time) []UpcomingEvent {
	var out []UpcomingEvent
	for _, r := range reminders {
		occ := DateOf(r.Date)
		if r.Recurring {
			occ = NextOccurrence(r.Date, today)
		}
		diff := DaysBetween(today, occ)
		if diff < 0 || diff > daysAhead {
			continue
		}
		out = append(out, UpcomingEvent{Reminder: r, Date: occ, DaysUntil: diff})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Reminder.Label < out[j].Reminder.Label
	})
	return out
}

// Upcoming merges contact birthdays with stored reminders into one window.
func Upcoming(contacts []models.Contact, reminders []models.UpcomingReminder, daysAhead int, today time.Time) []UpcomingEvent {
	all := append(BirthdayReminders(contacts), reminders...)
	return UpcomingReminders(all, daysAhead, today)
}
