// ABOUTME: Entry point for the kith CLI, TUI, web UI and MCP server
// ABOUTME: Parses global flags, loads config, sets up logging and routes to a command
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/kith/cli"
	"github.com/harperreed/kith/config"
	"github.com/harperreed/kith/db"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/kith/kith.db)")
	configPath := flag.String("config", "", "Config file (default: ~/.config/kith/config.json)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	initOnly := flag.Bool("init", false, "Initialize database and exit")
	flag.Usage = printUsage

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("kith version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("invalid log level", "level", cfg.LogLevel)
	}
	log.SetLevel(level)

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", "path", cfg.DBPath, "err", err)
	}
	defer func() { _ = database.Close() }()
	log.Debug("opened database", "path", cfg.DBPath)

	if *initOnly {
		log.Info("database initialized", "path", cfg.DBPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(database, cfg)
	if err := route(ctx, app, args[0], args[1:]); err != nil {
		// Fatal exits without running defers.
		stop()
		_ = database.Close()
		log.Fatal(err)
	}
}

func route(ctx context.Context, app *cli.App, command string, args []string) error {
	switch command {
	case "contacts":
		return app.ContactsCommand(args)
	case "log":
		return app.LogCommand(args)
	case "history":
		return app.HistoryCommand(args)
	case "reminders":
		return app.RemindersCommand(args)
	case "up-next":
		return app.UpNextCommand(args)
	case "upcoming":
		return app.UpcomingCommand(args)
	case "stats":
		return app.StatsCommand(args)
	case "dashboard":
		return app.DashboardCommand(args)
	case "viz":
		return app.VizCommand(ctx, args)
	case "sync":
		return app.SyncCommand(ctx, args)
	case "config":
		return app.ConfigCommand(args)
	case "tui":
		return app.TUICommand(ctx, args)
	case "web":
		return app.WebCommand(ctx, args)
	case "mcp":
		return app.MCPCommand(ctx, version)
	case "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Printf(`kith v%s - keep in touch with the people who matter

USAGE:
  kith [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/kith/kith.db)
  --config <path>        Config file (default: ~/.config/kith/config.json)
  --log-level <level>    debug, info, warn or error
  --init                 Initialize database and exit

PEOPLE:
  contacts add           Add a contact (--first, --last, --class, --tier, --email,
                         --birthday, --method, --origin)
  contacts list          List contacts (--class, --query, --tier)
  contacts show <who>    Show one contact with recent history
  contacts update <who>  Change the given fields
  contacts delete <who>  Delete a contact and their history
  log <who>              Log an interaction (--type, --date, --notes)
  history <who>          Interaction history, newest first (--limit)
  reminders add|list|delete
                         Dated reminders such as holidays (--label, --date,
                         --recurring, --contact)

VIEWS:
  up-next                Who to reach out to next (--class, --limit)
  upcoming               Birthdays and reminders ahead (--days)
  stats                  Streak, monthly activity, leaderboard (--scope)
  dashboard              ASCII home screen (--class)
  viz graph              Cadence map as Graphviz xdot (--output, --class)
  tui                    Full-screen interface
  web                    Web dashboard and JSON API (--port)

INTEGRATIONS:
  mcp                    Start the MCP server on stdio
  sync init              Authorize Google access
  sync contacts          Import Google contacts and birthdays (--class, --tier)
  sync calendar          Turn calendar meetings into interactions (--initial)
  sync postgres          Import the hosted database (--url, --user)
  sync status            Show the last run of each import
  config show|set        Show settings or save one (config set up_next_limit 6)

<who> is a contact UUID, an ID prefix, or part of a name.

ENVIRONMENT:
  KITH_DB_PATH, KITH_UP_NEXT_LIMIT, KITH_BIRTHDAY_WINDOW, KITH_WEB_PORT,
  KITH_LOG_LEVEL, KITH_REMOTE_DATABASE_URL, KITH_REMOTE_USER_ID,
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET (also read from .env)
`, version)
}
