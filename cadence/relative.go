// ABOUTME: Relative date formatting for past and future calendar dates
// ABOUTME: Produces labels like "Yesterday", "3 weeks ago", "In 2 months"
package cadence

import (
	"fmt"
	"math"
	"time"
)

// Never is shown for contacts with no recorded interaction.
const Never = "Never"

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func roundDiv(days int, by float64) int {
	return int(math.Round(float64(days) / by))
}

// RelativeTime labels a past date relative to today. Dates after today are
// formatted with FutureRelativeDate.
func RelativeTime(date *time.Time, today time.Time) string {
	if date == nil {
		return Never
	}
	diff := DaysBetween(*date, today)
	if diff < 0 {
		return FutureRelativeDate(*date, today)
	}
	return pastLabel(diff)
}

func pastLabel(diff int) string {
	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	case diff < 14:
		return "Last week"
	}
	if weeks := roundDiv(diff, 7); weeks < 9 {
		return fmt.Sprintf("%d weeks ago", weeks)
	}
	if months := roundDiv(diff, 30); months < 12 {
		return plural(months, "month") + " ago"
	}
	return plural(roundDiv(diff, 365), "year") + " ago"
}

// FutureRelativeDate labels a future date relative to today. Dates before
// today are formatted with RelativeTime.
func FutureRelativeDate(date time.Time, today time.Time) string {
	diff := DaysBetween(today, date)
	if diff < 0 {
		return pastLabel(-diff)
	}
	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff < 7:
		return fmt.Sprintf("In %d days", diff)
	case diff < 14:
		return "In 1 week"
	}
	if weeks := roundDiv(diff, 7); weeks < 5 {
		return fmt.Sprintf("In %d weeks", weeks)
	}
	return "In " + plural(roundDiv(diff, 30), "month")
}

// BirthdayRelativeDate labels the next occurrence of a yearly date.
func BirthdayRelativeDate(birthday time.Time, today time.Time) string {
	return FutureRelativeDate(NextOccurrence(birthday, today), today)
}

// DueLabel describes when a contact is due, e.g. "Today" or "In 5 days".
// Overdue contacts read "N days overdue"; never-contacted contacts read "Now".
func DueLabel(last *time.Time, daysOverdue int, today time.Time) string {
	if last == nil {
		return "Now"
	}
	switch {
	case daysOverdue == 0:
		return "Today"
	case daysOverdue == 1:
		return "1 day overdue"
	case daysOverdue > 1:
		return fmt.Sprintf("%d days overdue", daysOverdue)
	}
	return FutureRelativeDate(AddDays(today, -daysOverdue), today)
}
