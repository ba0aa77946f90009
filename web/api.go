// ABOUTME: JSON API handlers under /api
// ABOUTME: Wraps the shared view and history handlers; bad input is 400, unknown contacts 404
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/handlers"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/viz"
)

func apiError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func scopeParam(c *gin.Context) (cadence.Scope, error) {
	v := c.DefaultQuery("scope", string(cadence.ScopeBoth))
	switch cadence.Scope(v) {
	case cadence.ScopeBoth, cadence.ScopeFriends, cadence.ScopeNetwork:
		return cadence.Scope(v), nil
	}
	return "", fmt.Errorf("invalid scope %q (use both, friends or network)", v)
}

// intParam reads an optional integer query parameter no smaller than lowest.
func intParam(c *gin.Context, name string, def, lowest int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lowest {
		return 0, fmt.Errorf("invalid %s %q (must be an integer >= %d)", name, v, lowest)
	}
	return n, nil
}

// GET /api/people?class=&q=&tier=
func (s *Server) apiPeople(c *gin.Context) {
	class, err := classParam(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}

	var tiers []models.Tier
	for _, t := range strings.Split(c.Query("tier"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tiers = append(tiers, models.Tier(t))
		}
	}

	today := s.today()
	people, err := viz.GeneratePeople(s.db, class, tiers, c.Query("q"), today)
	if err != nil {
		apiError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]handlers.ContactOutput, 0, len(people))
	for _, p := range people {
		out = append(out, handlers.ContactToOutput(p, today))
	}
	c.JSON(http.StatusOK, gin.H{"people": out, "total": len(out)})
}

// GET /api/up-next?class=&limit=
func (s *Server) apiUpNext(c *gin.Context) {
	class, err := classParam(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}
	limit, err := intParam(c, "limit", s.opts.UpNextLimit, 1)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}

	views := handlers.NewViewHandlers(s.db, s.opts.Now)
	_, out, err := views.GetUpNext(c.Request.Context(), nil, handlers.GetUpNextInput{Class: string(class), Limit: limit})
	if err != nil {
		apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/upcoming?days=
func (s *Server) apiUpcoming(c *gin.Context) {
	days, err := intParam(c, "days", s.opts.DaysAhead, 0)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}

	views := handlers.NewViewHandlers(s.db, s.opts.Now)
	_, out, err := views.GetUpcoming(c.Request.Context(), nil, handlers.GetUpcomingInput{Days: &days})
	if err != nil {
		apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/stats?scope=
func (s *Server) apiStats(c *gin.Context) {
	scope, err := scopeParam(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}

	views := handlers.NewViewHandlers(s.db, s.opts.Now)
	_, out, err := views.GetStats(c.Request.Context(), nil, handlers.GetStatsInput{Scope: string(scope)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/contacts/:id/interactions?limit=
func (s *Server) apiInteractions(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		apiError(c, http.StatusBadRequest, fmt.Errorf("invalid contact ID: %w", err))
		return
	}
	limit, err := intParam(c, "limit", 0, 0)
	if err != nil {
		apiError(c, http.StatusBadRequest, err)
		return
	}

	history := handlers.NewInteractionHandlers(s.db, s.opts.Now)
	_, out, err := history.InteractionHistory(c.Request.Context(), nil, handlers.InteractionHistoryInput{
		ContactID: c.Param("id"),
		Limit:     limit,
	})
	switch {
	case errors.Is(err, db.ErrContactNotFound):
		apiError(c, http.StatusNotFound, err)
		return
	case err != nil:
		apiError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
