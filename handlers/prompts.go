// ABOUTME: MCP prompt handlers for reusable keep-in-touch workflows
// ABOUTME: Builds check-in, contact-summary and weekly-review prompts from live data
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db  *sql.DB
	now Clock
}

func NewPromptHandlers(database *sql.DB, now Clock) *PromptHandlers {
	if now == nil {
		now = time.Now
	}
	return &PromptHandlers{db: database, now: now}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	today := cadence.DateOf(h.now())
	switch request.Params.Name {
	case "check-in-suggestions":
		return h.checkInSuggestions(request.Params.Arguments, today)
	case "contact-summary":
		return h.contactSummary(request.Params.Arguments, today)
	case "weekly-review":
		return h.weeklyReview(today)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) checkInSuggestions(args map[string]string, today time.Time) (*mcp.GetPromptResult, error) {
	class, err := optionalClass(args["relationship_class"])
	if err != nil {
		return nil, err
	}

	contacts, err := viz.LoadContacts(h.db, class, today)
	if err != nil {
		return nil, err
	}
	upNext, _ := cadence.Queue(contacts, DefaultUpNextLimit)

	var b strings.Builder
	if len(upNext) == 0 {
		b.WriteString("Nobody is due for a check-in right now.\n")
		b.WriteString("Suggest one low-effort way to stay in touch with people I have not seen lately.")
		return userPrompt("Check-in suggestions", b.String()), nil
	}

	b.WriteString("These people are next on my keep-in-touch list:\n\n")
	for _, c := range upNext {
		overdue := cadence.ContactDaysOverdue(c, today)
		fmt.Fprintf(&b, "- %s (%s, prefers %s): last contact %s, %s\n",
			c.FullName(), cadence.TierLabel(c.Tier), cadence.MethodLabel(c.PreferredMethod),
			strings.ToLower(cadence.RelativeTime(c.LastInteractionDate, today)),
			strings.ToLower(cadence.DueLabel(c.LastInteractionDate, overdue, today)))
		if c.LastInteractionNote != "" {
			fmt.Fprintf(&b, "  Last time: %s\n", c.LastInteractionNote)
		}
	}
	b.WriteString("\nFor each person, draft a short, warm opener for their preferred channel")
	b.WriteString(" that picks up from the last conversation where there is one.")

	return userPrompt("Check-in suggestions", b.String()), nil
}

func (h *PromptHandlers) contactSummary(args map[string]string, today time.Time) (*mcp.GetPromptResult, error) {
	idStr, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := db.GetContact(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return nil, db.ErrContactNotFound
	}

	history, err := db.GetInteractionHistory(h.db, id, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	var b strings.Builder
	b.WriteString("Summarise where things stand with this person:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", contact.FullName())
	fmt.Fprintf(&b, "Tier: %s (every %d days)\n", cadence.TierLabel(contact.Tier), cadence.ExpectedIntervalDays(contact.Tier))
	if contact.OriginNote != "" {
		fmt.Fprintf(&b, "Know them from: %s\n", contact.OriginNote)
	}
	if contact.Birthday != nil {
		fmt.Fprintf(&b, "Birthday: %s (%s)\n", contact.Birthday.Format("January 2"),
			cadence.BirthdayRelativeDate(*contact.Birthday, today))
	}
	fmt.Fprintf(&b, "Status: %s\n", cadence.DueLabel(contact.LastInteractionDate, cadence.ContactDaysOverdue(*contact, today), today))

	if len(history) > 0 {
		b.WriteString("\nRecent interactions:\n")
		for _, i := range history {
			fmt.Fprintf(&b, "- %s %s", cadence.FormatDate(i.DateOfInteraction), cadence.MethodLabel(i.Type))
			if i.Notes != "" {
				fmt.Fprintf(&b, ": %s", i.Notes)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. A short recap of recent conversations")
	b.WriteString("\n2. Threads worth following up on")
	b.WriteString("\n3. A suggested next touchpoint and when")

	return userPrompt(fmt.Sprintf("Summary for %s", contact.FullName()), b.String()), nil
}

func (h *PromptHandlers) weeklyReview(today time.Time) (*mcp.GetPromptResult, error) {
	stats, err := viz.GenerateStats(h.db, cadence.ScopeBoth, today)
	if err != nil {
		return nil, err
	}
	dashboard, err := viz.GenerateDashboard(h.db, viz.DashboardOptions{UpNextLimit: DefaultUpNextLimit, DaysAhead: 14}, today)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Help me review my week of keeping in touch.\n\n")
	fmt.Fprintf(&b, "Current streak: %d weeks (best %d)\n", stats.Streak.Current, stats.Streak.Best)
	if n := len(stats.Months); n > 0 {
		fmt.Fprintf(&b, "Interactions this month: %d with %d people\n", stats.Months[n-1].Count, stats.Months[n-1].Unique)
	}
	fmt.Fprintf(&b, "Due now: %d of %d contacts\n", len(dashboard.DueNow), dashboard.TotalContacts)
	for _, e := range dashboard.Upcoming {
		fmt.Fprintf(&b, "Coming up: %s %s\n", e.Reminder.Label, strings.ToLower(cadence.FutureRelativeDate(e.Date, today)))
	}

	b.WriteString("\nSuggest a realistic plan for the coming week and call out anyone slipping through the cracks.")

	return userPrompt("Weekly keep-in-touch review", b.String()), nil
}
