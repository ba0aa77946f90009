// ABOUTME: Web UI server with embedded templates and a JSON API
// ABOUTME: Serves the dashboard, people and stats pages plus /api endpoints over gin
package web

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options tunes the views; zero values fall back to the engine defaults.
type Options struct {
	UpNextLimit int
	DaysAhead   int
	Now         func() time.Time
}

type Server struct {
	db     *sql.DB
	opts   Options
	engine *gin.Engine
}

func NewServer(database *sql.DB, opts Options) (*Server, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UpNextLimit <= 0 {
		opts.UpNextLimit = 4
	}
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = cadence.DefaultDaysAhead
	}

	tmpl, err := template.New("").Funcs(templateFuncs(opts.Now)).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.SetHTMLTemplate(tmpl)

	s := &Server{db: database, opts: opts, engine: engine}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleDashboard)
	s.engine.GET("/people", s.handlePeople)
	s.engine.GET("/stats", s.handleStats)

	api := s.engine.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.GET("/people", s.apiPeople)
		api.GET("/up-next", s.apiUpNext)
		api.GET("/upcoming", s.apiUpcoming)
		api.GET("/stats", s.apiStats)
		api.GET("/contacts/:id/interactions", s.apiInteractions)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("web server listening", "url", "http://localhost"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) today() time.Time {
	return cadence.DateOf(s.opts.Now())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "took", time.Since(start))
	}
}

func templateFuncs(now func() time.Time) template.FuncMap {
	today := func() time.Time { return cadence.DateOf(now()) }
	return template.FuncMap{
		"date":         cadence.FormatDate,
		"optionalDate": cadence.FormatOptionalDate,
		"tierLabel":    cadence.TierLabel,
		"methodLabel":  cadence.MethodLabel,
		"relative": func(t *time.Time) string {
			return cadence.RelativeTime(t, today())
		},
		"when": func(t time.Time) string {
			return cadence.FutureRelativeDate(t, today())
		},
		"due": func(c models.Contact) string {
			return cadence.DueLabel(c.LastInteractionDate, cadence.ContactDaysOverdue(c, today()), today())
		},
		"status": func(c models.Contact) string {
			return string(cadence.ContactStatus(cadence.ContactDaysOverdue(c, today())))
		},
		"barWidth": func(count, max int) int {
			if max == 0 {
				return 0
			}
			return count * 100 / max
		},
	}
}
