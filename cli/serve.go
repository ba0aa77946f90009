// ABOUTME: Long-running interactive commands: the web UI server and the TUI
// ABOUTME: Both read the same store; the TUI can trigger imports through the sync commands
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/harperreed/kith/tui"
	"github.com/harperreed/kith/web"
)

// WebCommand serves the read-only dashboard and JSON API until ctx is cancelled.
func (a *App) WebCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("web")
	port := fs.Int("port", a.Config.WebPort, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server, err := web.NewServer(a.DB, web.Options{
		UpNextLimit: a.Config.UpNextLimit,
		DaysAhead:   a.Config.BirthdayWindow,
		Now:         a.Now,
	})
	if err != nil {
		return err
	}

	a.printf("Serving kith on http://localhost:%d (ctrl+c to stop)\n", *port)
	return server.Run(ctx, fmt.Sprintf(":%d", *port))
}

// TUICommand launches the full-screen interface.
func (a *App) TUICommand(ctx context.Context, args []string) error {
	fs := a.flagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return tui.Run(a.DB, tui.Options{
		Now:         a.Now,
		UpNextLimit: a.Config.UpNextLimit,
		Sync:        a.tuiSync(ctx),
	})
}

// tuiSync runs the sync subcommands with their output discarded so the
// alternate screen stays intact; results land in the sync state table.
func (a *App) tuiSync(parent context.Context) tui.SyncFunc {
	quiet := *a
	quiet.Out = io.Discard
	return func(ctx context.Context, service string) error {
		if parent.Err() != nil {
			return parent.Err()
		}
		switch service {
		case "contacts":
			return quiet.SyncContactsCommand(ctx, nil)
		case "calendar":
			return quiet.SyncCalendarCommand(ctx, nil)
		case "postgres":
			return quiet.SyncPostgresCommand(ctx, nil)
		}
		return fmt.Errorf("unknown sync service: %s", service)
	}
}
