// ABOUTME: Interaction CLI commands
// ABOUTME: Logs touchpoints and prints a contact's history newest first
package cli

import (
	"fmt"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// LogCommand records an interaction: `log [flags] <contact>`.
func (a *App) LogCommand(args []string) error {
	fs := a.flagSet("log")
	kind := fs.String("type", "", "Interaction type (default: the contact's preferred method)")
	date := fs.String("date", "", "Date of the interaction (YYYY-MM-DD, default today)")
	notes := fs.String("notes", "", "What you talked about")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID or name is required")
	}

	contact, err := a.resolveContact(fs.Arg(0))
	if err != nil {
		return err
	}

	interaction := &models.Interaction{
		ContactID: contact.ID,
		Type:      contact.PreferredMethod,
		Notes:     *notes,
	}
	if *kind != "" {
		if interaction.Type, err = cadence.ParseInteractionType(*kind); err != nil {
			return err
		}
	}
	if *date != "" {
		if interaction.DateOfInteraction, err = cadence.ParseDate(*date); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	today := a.today()
	if err := db.LogInteraction(a.DB, interaction, today); err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	next := cadence.AddDays(interaction.DateOfInteraction, cadence.ExpectedIntervalDays(contact.Tier))
	a.success("Logged %s with %s on %s", cadence.MethodLabel(interaction.Type), contact.FullName(),
		cadence.FormatDate(interaction.DateOfInteraction))
	a.printf("  Next check-in: %s\n", cadence.FormatDate(next))
	return nil
}

// HistoryCommand prints a contact's interactions: `history [--limit n] <contact>`.
func (a *App) HistoryCommand(args []string) error {
	fs := a.flagSet("history")
	limit := fs.Int("limit", 20, "Maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID or name is required")
	}

	contact, err := a.resolveContact(fs.Arg(0))
	if err != nil {
		return err
	}

	history, err := db.GetInteractionHistory(a.DB, contact.ID, *limit)
	if err != nil {
		return err
	}

	a.printf("%s\n", a.style(headerStyle, contact.FullName()))
	if len(history) == 0 {
		a.printf("  No interactions yet\n")
		return nil
	}
	a.printHistory(history)
	return nil
}

func (a *App) printHistory(history []models.Interaction) {
	today := a.today()
	for _, i := range history {
		prefix := fmt.Sprintf("  %s  %-9s %-12s ", cadence.FormatDate(i.DateOfInteraction),
			cadence.MethodLabel(i.Type), cadence.RelativeTime(&i.DateOfInteraction, today))
		a.printf("%s%s\n", prefix, a.style(dimStyle, a.truncate(i.Notes, len(prefix))))
	}
}
