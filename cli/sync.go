// ABOUTME: Sync CLI commands
// ABOUTME: Google OAuth setup, contact and calendar import, hosted Postgres import and sync status
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/sync"
	"golang.org/x/oauth2"
)

// SyncCommand routes `sync <init|contacts|calendar|postgres|status>`.
func (a *App) SyncCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sync requires a subcommand: init, contacts, calendar, postgres, status")
	}

	switch args[0] {
	case "init":
		return a.SyncInitCommand(ctx, args[1:])
	case "contacts":
		return a.SyncContactsCommand(ctx, args[1:])
	case "calendar":
		return a.SyncCalendarCommand(ctx, args[1:])
	case "postgres":
		return a.SyncPostgresCommand(ctx, args[1:])
	case "status":
		return a.SyncStatusCommand(args[1:])
	default:
		return fmt.Errorf("unknown sync command: %s", args[0])
	}
}

func (a *App) oauthConfig() (*oauth2.Config, error) {
	cfg := sync.NewOAuthConfig(a.Config.GoogleClientID, a.Config.GoogleClientSecret)
	if err := sync.RequireCredentials(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SyncInitCommand runs the Google consent flow and stores the token.
func (a *App) SyncInitCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("sync init")
	noBrowser := fs.Bool("no-browser", false, "Print the URL instead of opening a browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.oauthConfig()
	if err != nil {
		return err
	}

	authURL := sync.AuthURL(cfg)
	a.printf("Visit this URL to authorize kith:\n\n%s\n\n", authURL)
	if !*noBrowser {
		if err := openBrowser(authURL); err != nil {
			log.Debug("could not open browser", "err", err)
		}
	}

	a.printf("Paste the authorization code: ")
	code, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && strings.TrimSpace(code) == "" {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}

	if _, err := sync.ExchangeCode(ctx, cfg, strings.TrimSpace(code)); err != nil {
		return err
	}

	a.success("Authenticated, token saved to %s", sync.TokenPath())
	a.printf("Run 'kith sync contacts' and 'kith sync calendar' to import.\n")
	return nil
}

// SyncContactsCommand imports Google Contacts, birthdays included.
func (a *App) SyncContactsCommand(ctx context.Context, args []string) error {
	defaults := sync.DefaultImportOptions()
	fs := a.flagSet("sync contacts")
	classFlag := fs.String("class", string(defaults.Class), "Class for newly imported contacts")
	tierFlag := fs.String("tier", string(defaults.Tier), "Tier for newly imported contacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	class, err := cadence.ParseClass(*classFlag)
	if err != nil {
		return err
	}
	tier, err := cadence.ParseTier(class, *tierFlag)
	if err != nil {
		return err
	}

	cfg, err := a.oauthConfig()
	if err != nil {
		return err
	}
	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found, run 'kith sync init' first: %w", err)
	}

	client, err := sync.NewPeopleClient(ctx, cfg, token)
	if err != nil {
		return err
	}

	summary, err := sync.ImportContacts(ctx, a.DB, client, sync.ImportOptions{Class: class, Tier: tier})
	if err != nil {
		return fmt.Errorf("contacts sync failed: %w", err)
	}

	a.success("Contacts synced: %d fetched, %d created, %d updated, %d skipped",
		summary.Fetched, summary.Created, summary.Updated, summary.Skipped)
	return nil
}

// SyncCalendarCommand turns calendar meetings with known contacts into interactions.
func (a *App) SyncCalendarCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("sync calendar")
	initial := fs.Bool("initial", false, "Full import of the last six months")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.oauthConfig()
	if err != nil {
		return err
	}
	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found, run 'kith sync init' first: %w", err)
	}

	client, err := sync.NewCalendarClient(ctx, cfg, token)
	if err != nil {
		return err
	}

	summary, err := sync.ImportCalendar(ctx, a.DB, client, *initial, a.today())
	if err != nil {
		return fmt.Errorf("calendar sync failed: %w", err)
	}

	a.success("Calendar synced: %d events, %d interactions logged, %d upcoming held", summary.Events, summary.Interactions, summary.Deferred)
	for reason, n := range summary.Skipped {
		a.printf("  skipped %d (%s)\n", n, reason)
	}
	return nil
}

// SyncPostgresCommand imports people and interactions from the hosted database.
func (a *App) SyncPostgresCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("sync postgres")
	url := fs.String("url", a.Config.RemoteDatabaseURL, "Postgres connection URL")
	user := fs.String("user", a.Config.RemoteUserID, "Remote user ID whose rows to import")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *url == "" {
		return fmt.Errorf("no remote database configured: pass --url or set KITH_REMOTE_DATABASE_URL")
	}
	if *user == "" {
		return fmt.Errorf("no remote user configured: pass --user or set KITH_REMOTE_USER_ID")
	}

	source, err := sync.OpenRemote(ctx, *url, *user)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	summary, err := sync.ImportRemote(ctx, a.DB, source, a.today())
	if err != nil {
		return fmt.Errorf("postgres sync failed: %w", err)
	}

	a.success("Hosted import: %d people, %d interactions, %d skipped",
		summary.People, summary.Interactions, summary.Skipped)
	return nil
}

// SyncStatusCommand shows the last run of each sync source.
func (a *App) SyncStatusCommand(args []string) error {
	fs := a.flagSet("sync status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	states, err := db.GetAllSyncStates(a.DB)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		a.printf("Nothing synced yet\n")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tSTATUS\tLAST SYNC\tERROR")
	for _, s := range states {
		last := "never"
		if s.LastSyncTime != nil {
			last = s.LastSyncTime.Local().Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Service, s.Status, last, orDash(s.ErrorMessage))
	}
	_ = w.Flush()
	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
