// ABOUTME: Home-screen assembly and ASCII rendering
// ABOUTME: Builds the up-next queue, roster, due list and upcoming events from the store
package viz

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// Dashboard is everything the home screen shows for one class (or both when
// Class is empty).
type Dashboard struct {
	Today         time.Time
	Class         models.RelationshipClass
	TotalContacts int

	// UpNext is the capped head of the due queue; Roster is everyone else.
	UpNext []models.Contact
	Roster []models.Contact

	// DueNow is the uncapped due list shown for network moments.
	DueNow []models.Contact

	Upcoming []cadence.UpcomingEvent
}

// DashboardOptions controls the queue cap and the upcoming window.
type DashboardOptions struct {
	Class       models.RelationshipClass
	UpNextLimit int
	DaysAhead   int
}

// LoadContacts reads every contact of a class and annotates days overdue.
func LoadContacts(database *sql.DB, class models.RelationshipClass, today time.Time) ([]models.Contact, error) {
	contacts, err := db.FindContacts(database, "", class, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	return cadence.Annotate(contacts, today), nil
}

func GenerateDashboard(database *sql.DB, opts DashboardOptions, today time.Time) (*Dashboard, error) {
	contacts, err := LoadContacts(database, opts.Class, today)
	if err != nil {
		return nil, err
	}

	reminders, err := db.ListReminders(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %w", err)
	}

	upNext, roster := cadence.Queue(contacts, opts.UpNextLimit)

	return &Dashboard{
		Today:         cadence.DateOf(today),
		Class:         opts.Class,
		TotalContacts: len(contacts),
		UpNext:        upNext,
		Roster:        roster,
		DueNow:        cadence.DueNow(contacts),
		Upcoming:      cadence.Upcoming(contacts, reminders, opts.DaysAhead, today),
	}, nil
}

// GeneratePeople backs the people screen: tier filter, name search, A to Z.
func GeneratePeople(database *sql.DB, class models.RelationshipClass, tiers []models.Tier, query string, today time.Time) ([]models.Contact, error) {
	contacts, err := LoadContacts(database, class, today)
	if err != nil {
		return nil, err
	}
	return cadence.FilterRoster(contacts, tiers, query), nil
}

func classTitle(class models.RelationshipClass) string {
	switch class {
	case models.ClassFriend:
		return "FRIENDS"
	case models.ClassNetwork:
		return "NETWORK"
	default:
		return "EVERYONE"
	}
}

func RenderDashboard(d *Dashboard) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString(fmt.Sprintf("  KITH · %s · %s\n", classTitle(d.Class), cadence.FormatDate(d.Today)))
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("UP NEXT\n")
	if len(d.UpNext) == 0 {
		out.WriteString("  Nobody is due. Nice.\n")
	}
	for _, c := range d.UpNext {
		out.WriteString(fmt.Sprintf("  %-22s %-16s %s\n", c.FullName(), dueLabel(c, d.Today), cadence.MethodLabel(c.PreferredMethod)))
	}
	out.WriteString("\n")

	if len(d.Upcoming) > 0 {
		out.WriteString("COMING UP\n")
		for _, e := range d.Upcoming {
			out.WriteString(fmt.Sprintf("  %-28s %s  %s\n", e.Reminder.Label, cadence.FormatDate(e.Date),
				cadence.FutureRelativeDate(e.Date, d.Today)))
		}
		out.WriteString("\n")
	}

	if len(d.Roster) > 0 {
		out.WriteString("EVERYONE ELSE\n")
		for _, c := range d.Roster {
			out.WriteString(fmt.Sprintf("  %-22s %-16s last: %s\n", c.FullName(), dueLabel(c, d.Today),
				cadence.RelativeTime(c.LastInteractionDate, d.Today)))
		}
		out.WriteString("\n")
	}

	out.WriteString(fmt.Sprintf("%d contacts · %d due now\n", d.TotalContacts, len(d.DueNow)))

	return out.String()
}

func dueLabel(c models.Contact, today time.Time) string {
	overdue := cadence.ContactDaysOverdue(c, today)
	if c.DaysOverdue != nil {
		overdue = *c.DaysOverdue
	}
	return cadence.DueLabel(c.LastInteractionDate, overdue, today)
}
