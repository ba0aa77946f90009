// ABOUTME: Interaction statistics assembly and ASCII rendering
// ABOUTME: Streak, twelve-month chart and leaderboard for a scope
package viz

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
)

type StatsView struct {
	Scope             cadence.Scope
	Today             time.Time
	Streak            cadence.Streak
	Months            []cadence.MonthBucket
	Leaderboard       []cadence.LeaderEntry
	TotalInteractions int
}

func GenerateStats(database *sql.DB, scope cadence.Scope, today time.Time) (*StatsView, error) {
	contacts, err := db.ListContacts(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	interactions, err := db.ListInteractions(database, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	scoped := cadence.ScopeInteractions(interactions, contacts, scope)

	return &StatsView{
		Scope:             scope,
		Today:             cadence.DateOf(today),
		Streak:            cadence.ComputeStreak(scoped, today),
		Months:            cadence.BuildMonthBuckets(scoped, today),
		Leaderboard:       cadence.BuildLeaderboard(scoped, cadence.ScopeContacts(contacts, scope)),
		TotalInteractions: len(scoped),
	}, nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func RenderStats(s *StatsView) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString(fmt.Sprintf("  KITH STATS · %s\n", strings.ToUpper(string(s.Scope))))
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString(fmt.Sprintf("STREAK  %s  (best: %s)\n\n", plural(s.Streak.Current, "week"), plural(s.Streak.Best, "week")))

	out.WriteString("LAST 12 MONTHS\n")
	renderMonths(&out, s.Months)
	out.WriteString("\n")

	if len(s.Leaderboard) > 0 {
		out.WriteString("LEADERBOARD\n")
		for _, e := range s.Leaderboard {
			out.WriteString(fmt.Sprintf("  #%-3d %-22s %s\n", e.Rank, e.Contact.FullName(), plural(e.Count, "interaction")))
		}
		out.WriteString("\n")
	}

	out.WriteString(fmt.Sprintf("%s logged\n", plural(s.TotalInteractions, "interaction")))

	return out.String()
}

func renderMonths(out *strings.Builder, months []cadence.MonthBucket) {
	maxCount := 0
	for _, m := range months {
		if m.Count > maxCount {
			maxCount = m.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, m := range months {
		barLength := (m.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-4s %-3s %s %3d (%d people)\n", m.YearLabel, m.Label, bar, m.Count, m.Unique))
	}
}
