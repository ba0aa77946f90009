// ABOUTME: HTML page handlers for the dashboard, people and stats screens
// ABOUTME: Each page reads query filters, builds a viz view and renders an embedded template
package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/viz"
)

// classParam reads ?class=; an empty value or "both" means everyone.
func classParam(c *gin.Context) (models.RelationshipClass, error) {
	v := c.Query("class")
	if v == "" || v == "both" {
		return "", nil
	}
	return cadence.ParseClass(v)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.String(status, err.Error())
}

func (s *Server) handleDashboard(c *gin.Context) {
	class, err := classParam(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	d, err := viz.GenerateDashboard(s.db, viz.DashboardOptions{
		Class:       class,
		UpNextLimit: s.opts.UpNextLimit,
		DaysAhead:   s.opts.DaysAhead,
	}, s.today())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":     "Home",
		"Class":     string(class),
		"Dashboard": d,
	})
}

func (s *Server) handlePeople(c *gin.Context) {
	class, err := classParam(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	var tiers []models.Tier
	for _, t := range c.QueryArray("tier") {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tiers = append(tiers, models.Tier(part))
			}
		}
	}

	query := c.Query("q")
	people, err := viz.GeneratePeople(s.db, class, tiers, query, s.today())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, "people.html", gin.H{
		"Title":  "People",
		"Class":  string(class),
		"Query":  query,
		"People": people,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	scope, err := scopeParam(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	stats, err := viz.GenerateStats(s.db, scope, s.today())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	maxCount := 0
	for _, m := range stats.Months {
		if m.Count > maxCount {
			maxCount = m.Count
		}
	}

	c.HTML(http.StatusOK, "stats.html", gin.H{
		"Title":    "Stats",
		"Scope":    string(scope),
		"Stats":    stats,
		"MaxCount": maxCount,
	})
}
