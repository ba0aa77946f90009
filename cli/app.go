// ABOUTME: Shared state and helpers for CLI commands
// ABOUTME: Holds the database, config, output streams and clock; styles output only on a terminal
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/config"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// App carries what every command needs.
type App struct {
	DB     *sql.DB
	Config *config.Config
	Out    io.Writer
	In     io.Reader
	Now    func() time.Time

	// color enables lipgloss styling; off when stdout is not a terminal.
	color bool
	width int
}

// NewApp wires an App to the process's stdio.
func NewApp(database *sql.DB, cfg *config.Config) *App {
	a := &App{
		DB:     database,
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
		Now:    time.Now,
		width:  defaultWidth,
	}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		a.color = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			a.width = w
		}
	}
	return a
}

func (a *App) today() time.Time {
	return cadence.DateOf(a.Now())
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func (a *App) style(s lipgloss.Style, text string) string {
	if !a.color {
		return text
	}
	return s.Render(text)
}

func (a *App) success(format string, args ...any) {
	a.printf("%s %s\n", a.style(okStyle, "✓"), fmt.Sprintf(format, args...))
}

// truncate shortens text to fit what is left of the terminal line.
func (a *App) truncate(text string, used int) string {
	room := a.width - used
	if room < 10 {
		room = 10
	}
	runes := []rune(text)
	if len(runes) <= room {
		return text
	}
	return string(runes[:room-1]) + "…"
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Out)
	return fs
}

// resolveContact accepts a full UUID, an ID prefix, or a unique name match.
func (a *App) resolveContact(arg string) (*models.Contact, error) {
	if id, err := uuid.Parse(arg); err == nil {
		contact, err := db.GetContact(a.DB, id)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, db.ErrContactNotFound
		}
		return contact, nil
	}

	all, err := db.ListContacts(a.DB)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(arg))
	var matches []models.Contact
	for _, c := range all {
		if strings.HasPrefix(c.ID.String(), needle) || strings.Contains(strings.ToLower(c.FullName()), needle) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", db.ErrContactNotFound, arg)
	case 1:
		return &matches[0], nil
	}

	// An exact name wins over partial matches.
	var exact []models.Contact
	for _, c := range matches {
		if strings.ToLower(c.FullName()) == needle || strings.ToLower(c.FirstName) == needle {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return &exact[0], nil
	}

	names := make([]string, 0, len(matches))
	for _, c := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", c.FullName(), shortID(c.ID)))
	}
	return nil, fmt.Errorf("%q matches %d contacts: %s", arg, len(matches), strings.Join(names, ", "))
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// parseClassFlag treats "" and "both" as no class filter.
func parseClassFlag(s string) (models.RelationshipClass, error) {
	if s == "" || s == "both" {
		return "", nil
	}
	return cadence.ParseClass(s)
}
