// ABOUTME: Read-only view commands: up-next, upcoming, stats and the ASCII dashboard
// ABOUTME: Limits and windows default to the user's config
package cli

import (
	"fmt"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/viz"
)

// UpNextCommand prints who to reach out to next, most overdue first.
func (a *App) UpNextCommand(args []string) error {
	fs := a.flagSet("up-next")
	classFlag := fs.String("class", "", "friend, network or both")
	limit := fs.Int("limit", a.Config.UpNextLimit, "How many to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	class, err := parseClassFlag(*classFlag)
	if err != nil {
		return err
	}

	today := a.today()
	contacts, err := viz.LoadContacts(a.DB, class, today)
	if err != nil {
		return err
	}

	upNext, _ := cadence.Queue(contacts, *limit)
	if len(upNext) == 0 {
		a.printf("Nobody is due. Nice.\n")
		return nil
	}

	for n, c := range upNext {
		overdue := cadence.ContactDaysOverdue(c, today)
		due := cadence.DueLabel(c.LastInteractionDate, overdue, today)
		if overdue > 0 {
			due = a.style(overdueStyle, due)
		}
		a.printf("%d. %-22s %-18s %s\n", n+1, c.FullName(), due, cadence.MethodLabel(c.PreferredMethod))
		if c.LastInteractionNote != "" {
			prefix := "   last time: "
			a.printf("%s%s\n", prefix, a.style(dimStyle, a.truncate(c.LastInteractionNote, len(prefix))))
		}
	}

	if due := len(cadence.DueNow(contacts)); due > len(upNext) {
		a.printf("\n+%d more due\n", due-len(upNext))
	}
	return nil
}

// UpcomingCommand prints birthdays and reminders inside the window.
func (a *App) UpcomingCommand(args []string) error {
	fs := a.flagSet("upcoming")
	days := fs.Int("days", a.Config.BirthdayWindow, "Days ahead to look")
	if err := fs.Parse(args); err != nil {
		return err
	}

	today := a.today()
	d, err := viz.GenerateDashboard(a.DB, viz.DashboardOptions{DaysAhead: *days}, today)
	if err != nil {
		return err
	}

	if len(d.Upcoming) == 0 {
		a.printf("Nothing in the next %d days\n", *days)
		return nil
	}

	for _, e := range d.Upcoming {
		a.printf("%s  %-28s %s\n", cadence.FormatDate(e.Date), e.Reminder.Label, cadence.FutureRelativeDate(e.Date, today))
	}
	return nil
}

// StatsCommand prints the streak, monthly chart and leaderboard.
func (a *App) StatsCommand(args []string) error {
	fs := a.flagSet("stats")
	scope := fs.String("scope", string(cadence.ScopeBoth), "both, friends or network")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cadence.Scope(*scope) {
	case cadence.ScopeBoth, cadence.ScopeFriends, cadence.ScopeNetwork:
	default:
		return fmt.Errorf("invalid --scope %q (use both, friends or network)", *scope)
	}

	stats, err := viz.GenerateStats(a.DB, cadence.ParseScope(*scope), a.today())
	if err != nil {
		return err
	}

	a.printf("%s", viz.RenderStats(stats))
	return nil
}

// DashboardCommand prints the ASCII home screen.
func (a *App) DashboardCommand(args []string) error {
	fs := a.flagSet("dashboard")
	classFlag := fs.String("class", "", "friend, network or both")
	if err := fs.Parse(args); err != nil {
		return err
	}

	class, err := parseClassFlag(*classFlag)
	if err != nil {
		return err
	}

	d, err := viz.GenerateDashboard(a.DB, viz.DashboardOptions{
		Class:       class,
		UpNextLimit: a.Config.UpNextLimit,
		DaysAhead:   a.Config.BirthdayWindow,
	}, a.today())
	if err != nil {
		return err
	}

	a.printf("%s", viz.RenderDashboard(d))
	return nil
}
