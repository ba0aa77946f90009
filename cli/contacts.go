// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for adding, listing, updating, showing and deleting contacts
package cli

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/viz"
)

// ContactsCommand routes `contacts <add|list|update|delete|show>`.
func (a *App) ContactsCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("contacts requires a subcommand: add, list, update, delete, show")
	}

	switch args[0] {
	case "add":
		return a.AddContactCommand(args[1:])
	case "list", "ls":
		return a.ListContactsCommand(args[1:])
	case "update":
		return a.UpdateContactCommand(args[1:])
	case "delete", "rm":
		return a.DeleteContactCommand(args[1:])
	case "show":
		return a.ShowContactCommand(args[1:])
	default:
		return fmt.Errorf("unknown contacts command: %s", args[0])
	}
}

type contactFlags struct {
	first, last, class, tier, email, birthday, method, origin *string
}

func registerContactFlags(fs *flag.FlagSet, classDefault, tierDefault string) contactFlags {
	return contactFlags{
		first:    fs.String("first", "", "First name"),
		last:     fs.String("last", "", "Last name"),
		class:    fs.String("class", classDefault, "Relationship class: friend or network"),
		tier:     fs.String("tier", tierDefault, "Cadence tier"),
		email:    fs.String("email", "", "Email address"),
		birthday: fs.String("birthday", "", "Birthday (YYYY-MM-DD)"),
		method:   fs.String("method", "", "Preferred contact method: call, facetime, text, email, in_person"),
		origin:   fs.String("origin", "", "Where you know them from"),
	}
}

// AddContactCommand adds a new contact.
func (a *App) AddContactCommand(args []string) error {
	fs := a.flagSet("contacts add")
	f := registerContactFlags(fs, "friend", string(models.TierKeepWarm))
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *f.first == "" {
		return fmt.Errorf("--first is required")
	}

	class, err := cadence.ParseClass(*f.class)
	if err != nil {
		return err
	}
	tier, err := cadence.ParseTier(class, *f.tier)
	if err != nil {
		return err
	}
	birthday, err := cadence.ParseOptionalDate(*f.birthday)
	if err != nil {
		return fmt.Errorf("invalid --birthday: %w", err)
	}
	method := models.InteractionText
	if *f.method != "" {
		if method, err = cadence.ParseInteractionType(*f.method); err != nil {
			return err
		}
	}

	contact := &models.Contact{
		FirstName:       *f.first,
		LastName:        *f.last,
		Class:           class,
		Tier:            tier,
		Email:           *f.email,
		Birthday:        birthday,
		PreferredMethod: method,
		OriginNote:      *f.origin,
		DateAdded:       a.today(),
	}
	if err := db.CreateContact(a.DB, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	a.success("Contact added: %s (ID: %s)", contact.FullName(), contact.ID)
	a.printf("  %s, every %d days\n", cadence.TierLabel(contact.Tier), cadence.ExpectedIntervalDays(contact.Tier))
	if contact.Email != "" {
		a.printf("  Email: %s\n", contact.Email)
	}
	if contact.Birthday != nil {
		a.printf("  Birthday: %s\n", cadence.FormatDate(*contact.Birthday))
	}
	return nil
}

// ListContactsCommand lists contacts alphabetically with their due status.
func (a *App) ListContactsCommand(args []string) error {
	fs := a.flagSet("contacts list")
	classFlag := fs.String("class", "", "Filter by class: friend or network")
	query := fs.String("query", "", "Search by name")
	tiersFlag := fs.String("tier", "", "Comma-separated tiers to include")
	if err := fs.Parse(args); err != nil {
		return err
	}

	class, err := parseClassFlag(*classFlag)
	if err != nil {
		return err
	}

	var tiers []models.Tier
	for _, t := range strings.Split(*tiersFlag, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tiers = append(tiers, models.Tier(t))
		}
	}

	today := a.today()
	contacts, err := viz.GeneratePeople(a.DB, class, tiers, *query, today)
	if err != nil {
		return err
	}

	if len(contacts) == 0 {
		a.printf("No contacts found\n")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCLASS\tTIER\tLAST CONTACT\tDUE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t----\t------------\t---\t--")
	for _, c := range contacts {
		overdue := cadence.ContactDaysOverdue(c, today)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.FullName(), c.Class, cadence.TierLabel(c.Tier),
			cadence.RelativeTime(c.LastInteractionDate, today),
			cadence.DueLabel(c.LastInteractionDate, overdue, today),
			shortID(c.ID))
	}
	_ = w.Flush()

	a.printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand changes the flags that were given and leaves the rest.
func (a *App) UpdateContactCommand(args []string) error {
	fs := a.flagSet("contacts update")
	f := registerContactFlags(fs, "", "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID or name is required")
	}

	existing, err := a.resolveContact(fs.Arg(0))
	if err != nil {
		return err
	}

	var parseErr error
	fs.Visit(func(fl *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch fl.Name {
		case "first":
			existing.FirstName = *f.first
		case "last":
			existing.LastName = *f.last
		case "class":
			existing.Class, parseErr = cadence.ParseClass(*f.class)
		case "tier":
			existing.Tier = models.Tier(*f.tier)
		case "email":
			existing.Email = *f.email
		case "birthday":
			existing.Birthday, parseErr = cadence.ParseOptionalDate(*f.birthday)
		case "method":
			existing.PreferredMethod, parseErr = cadence.ParseInteractionType(*f.method)
		case "origin":
			existing.OriginNote = *f.origin
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if err := db.UpdateContact(a.DB, existing.ID, existing); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	a.success("Contact updated: %s (ID: %s)", existing.FullName(), existing.ID)
	return nil
}

// DeleteContactCommand deletes a contact and its interaction history.
func (a *App) DeleteContactCommand(args []string) error {
	fs := a.flagSet("contacts delete")
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

	if err := db.DeleteContact(a.DB, contact.ID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	a.success("Contact deleted: %s", contact.FullName())
	return nil
}

// ShowContactCommand prints one contact with cadence details and recent history.
func (a *App) ShowContactCommand(args []string) error {
	fs := a.flagSet("contacts show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID or name is required")
	}

	c, err := a.resolveContact(fs.Arg(0))
	if err != nil {
		return err
	}

	today := a.today()
	overdue := cadence.ContactDaysOverdue(*c, today)

	a.printf("%s\n", a.style(headerStyle, c.FullName()))
	a.printf("  ID:          %s\n", c.ID)
	a.printf("  Class:       %s\n", c.Class)
	a.printf("  Tier:        %s (every %d days)\n", cadence.TierLabel(c.Tier), cadence.ExpectedIntervalDays(c.Tier))
	a.printf("  Prefers:     %s\n", cadence.MethodLabel(c.PreferredMethod))
	a.printf("  Email:       %s\n", orDash(c.Email))
	if c.Birthday != nil {
		a.printf("  Birthday:    %s (%s)\n", cadence.FormatDate(*c.Birthday), cadence.BirthdayRelativeDate(*c.Birthday, today))
	}
	a.printf("  Know from:   %s\n", orDash(c.OriginNote))
	a.printf("  Added:       %s\n", cadence.FormatDate(c.DateAdded))
	a.printf("  Last:        %s\n", cadence.RelativeTime(c.LastInteractionDate, today))

	due := cadence.DueLabel(c.LastInteractionDate, overdue, today)
	if overdue > 0 {
		due = a.style(overdueStyle, due)
	}
	a.printf("  Due:         %s\n", due)

	history, err := db.GetInteractionHistory(a.DB, c.ID, 5)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		a.printf("\nRecent interactions:\n")
		a.printHistory(history)
	}
	return nil
}
