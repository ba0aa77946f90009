// ABOUTME: Reminder CLI commands
// ABOUTME: Adds, lists and deletes stored event reminders
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// RemindersCommand routes `reminders <add|list|delete>`.
func (a *App) RemindersCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("reminders requires a subcommand: add, list, delete")
	}

	switch args[0] {
	case "add":
		return a.AddReminderCommand(args[1:])
	case "list", "ls":
		return a.ListRemindersCommand(args[1:])
	case "delete", "rm":
		return a.DeleteReminderCommand(args[1:])
	default:
		return fmt.Errorf("unknown reminders command: %s", args[0])
	}
}

func (a *App) AddReminderCommand(args []string) error {
	fs := a.flagSet("reminders add")
	label := fs.String("label", "", "What the reminder is for (required)")
	date := fs.String("date", "", "Date (YYYY-MM-DD, required)")
	recurring := fs.Bool("recurring", false, "Repeat every year")
	contactArg := fs.String("contact", "", "Contact the reminder is about")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *label == "" {
		return fmt.Errorf("--label is required")
	}
	parsed, err := cadence.ParseDate(*date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	reminder := &models.UpcomingReminder{Label: *label, Date: parsed, Recurring: *recurring}
	if *contactArg != "" {
		contact, err := a.resolveContact(*contactArg)
		if err != nil {
			return err
		}
		reminder.ContactID = &contact.ID
	}

	if err := db.CreateReminder(a.DB, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	a.success("Reminder added: %s on %s (ID: %s)", reminder.Label, cadence.FormatDate(reminder.Date), reminder.ID)
	return nil
}

func (a *App) ListRemindersCommand(args []string) error {
	fs := a.flagSet("reminders list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reminders, err := db.ListReminders(a.DB)
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		a.printf("No reminders\n")
		return nil
	}

	today := a.today()
	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LABEL\tDATE\tREPEATS\tNEXT\tID")
	_, _ = fmt.Fprintln(w, "-----\t----\t-------\t----\t--")
	for _, r := range reminders {
		repeats, next := "no", r.Date
		if r.Recurring {
			repeats, next = "yearly", cadence.NextOccurrence(r.Date, today)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Label, cadence.FormatDate(r.Date), repeats,
			cadence.FutureRelativeDate(next, today), shortID(r.ID))
	}
	_ = w.Flush()
	return nil
}

func (a *App) DeleteReminderCommand(args []string) error {
	fs := a.flagSet("reminders delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("reminder ID is required")
	}

	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid reminder ID: %w", err)
	}

	if err := db.DeleteReminder(a.DB, id); err != nil {
		return err
	}

	a.success("Reminder deleted: %s", id)
	return nil
}
