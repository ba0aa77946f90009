// ABOUTME: Read-only view MCP tool handlers
// ABOUTME: Implements get_up_next, get_upcoming and get_stats over the cadence engine
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultUpNextLimit caps get_up_next when the caller gives no limit.
const DefaultUpNextLimit = 4

type ViewHandlers struct {
	db  *sql.DB
	now Clock
}

func NewViewHandlers(database *sql.DB, now Clock) *ViewHandlers {
	if now == nil {
		now = time.Now
	}
	return &ViewHandlers{db: database, now: now}
}

type GetUpNextInput struct {
	Class string `json:"relationship_class,omitempty" jsonschema:"friend or network (default both)"`
	Limit int    `json:"limit,omitempty" jsonschema:"How many due contacts to return (default 4)"`
}

type UpNextEntry struct {
	Contact ContactOutput `json:"contact"`
	Due     string        `json:"due"`
}

type GetUpNextOutput struct {
	Today     string        `json:"today"`
	UpNext    []UpNextEntry `json:"up_next"`
	DueCount  int           `json:"due_count"`
	Remaining int           `json:"remaining"`
}

func (h *ViewHandlers) GetUpNext(_ context.Context, request *mcp.CallToolRequest, input GetUpNextInput) (*mcp.CallToolResult, GetUpNextOutput, error) {
	class, err := optionalClass(input.Class)
	if err != nil {
		return nil, GetUpNextOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultUpNextLimit
	}

	today := cadence.DateOf(h.now())
	contacts, err := viz.LoadContacts(h.db, class, today)
	if err != nil {
		return nil, GetUpNextOutput{}, err
	}

	upNext, roster := cadence.Queue(contacts, limit)
	out := GetUpNextOutput{
		Today:     cadence.FormatDate(today),
		UpNext:    make([]UpNextEntry, 0, len(upNext)),
		DueCount:  len(cadence.DueNow(contacts)),
		Remaining: len(roster),
	}
	for _, c := range upNext {
		out.UpNext = append(out.UpNext, UpNextEntry{
			Contact: ContactToOutput(c, today),
			Due:     cadence.DueLabel(c.LastInteractionDate, cadence.ContactDaysOverdue(c, today), today),
		})
	}
	return nil, out, nil
}

type GetUpcomingInput struct {
	Days *int `json:"days,omitempty" jsonschema:"Window in days, 0 for today only (default 60)"`
}

type UpcomingOutput struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
	When      string `json:"when"`
	ContactID string `json:"contact_id,omitempty"`
}

type GetUpcomingOutput struct {
	Today    string           `json:"today"`
	Days     int              `json:"days"`
	Upcoming []UpcomingOutput `json:"upcoming"`
}

func (h *ViewHandlers) GetUpcoming(_ context.Context, request *mcp.CallToolRequest, input GetUpcomingInput) (*mcp.CallToolResult, GetUpcomingOutput, error) {
	days := cadence.DefaultDaysAhead
	if input.Days != nil {
		if *input.Days < 0 {
			return nil, GetUpcomingOutput{}, fmt.Errorf("days must not be negative, got %d", *input.Days)
		}
		days = *input.Days
	}

	today := cadence.DateOf(h.now())
	dashboard, err := viz.GenerateDashboard(h.db, viz.DashboardOptions{DaysAhead: days}, today)
	if err != nil {
		return nil, GetUpcomingOutput{}, err
	}

	out := GetUpcomingOutput{
		Today:    cadence.FormatDate(today),
		Days:     days,
		Upcoming: make([]UpcomingOutput, 0, len(dashboard.Upcoming)),
	}
	for _, e := range dashboard.Upcoming {
		out.Upcoming = append(out.Upcoming, upcomingToOutput(e, today))
	}
	return nil, out, nil
}

func upcomingToOutput(e cadence.UpcomingEvent, today time.Time) UpcomingOutput {
	out := UpcomingOutput{
		Kind:      string(e.Reminder.Kind),
		Label:     e.Reminder.Label,
		Date:      cadence.FormatDate(e.Date),
		DaysUntil: e.DaysUntil,
		When:      cadence.FutureRelativeDate(e.Date, today),
	}
	if e.Reminder.ContactID != nil {
		out.ContactID = e.Reminder.ContactID.String()
	}
	return out
}

type GetStatsInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"both, friends or network (default both)"`
}

type MonthOutput struct {
	Month  string `json:"month"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
}

type LeaderOutput struct {
	Rank      int    `json:"rank"`
	ContactID string `json:"contact_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

type GetStatsOutput struct {
	Scope             string         `json:"scope"`
	CurrentStreak     int            `json:"current_streak_weeks"`
	BestStreak        int            `json:"best_streak_weeks"`
	TotalInteractions int            `json:"total_interactions"`
	Months            []MonthOutput  `json:"months"`
	Leaderboard       []LeaderOutput `json:"leaderboard"`
}

func (h *ViewHandlers) GetStats(_ context.Context, request *mcp.CallToolRequest, input GetStatsInput) (*mcp.CallToolResult, GetStatsOutput, error) {
	stats, err := viz.GenerateStats(h.db, cadence.ParseScope(input.Scope), cadence.DateOf(h.now()))
	if err != nil {
		return nil, GetStatsOutput{}, err
	}
	return nil, statsToOutput(stats), nil
}

func statsToOutput(stats *viz.StatsView) GetStatsOutput {
	out := GetStatsOutput{
		Scope:             string(stats.Scope),
		CurrentStreak:     stats.Streak.Current,
		BestStreak:        stats.Streak.Best,
		TotalInteractions: stats.TotalInteractions,
		Months:            make([]MonthOutput, 0, len(stats.Months)),
		Leaderboard:       make([]LeaderOutput, 0, len(stats.Leaderboard)),
	}
	for _, m := range stats.Months {
		out.Months = append(out.Months, MonthOutput{
			Month:  m.Month.Format("2006-01"),
			Count:  m.Count,
			Unique: m.Unique,
		})
	}
	for _, e := range stats.Leaderboard {
		out.Leaderboard = append(out.Leaderboard, LeaderOutput{
			Rank:      e.Rank,
			ContactID: e.Contact.ID.String(),
			Name:      e.Contact.FullName(),
			Count:     e.Count,
		})
	}
	return out
}

func optionalClass(s string) (models.RelationshipClass, error) {
	if s == "" || s == "both" {
		return "", nil
	}
	return cadence.ParseClass(s)
}
