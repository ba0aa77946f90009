// ABOUTME: Graphviz cadence map of the whole address book
// ABOUTME: Contacts hang off their tier, coloured by how overdue they are
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

var statusColors = map[cadence.Status]string{
	cadence.StatusOverdue:  "salmon",
	cadence.StatusDueToday: "orange",
	cadence.StatusDueSoon:  "lightyellow",
	cadence.StatusOnTrack:  "lightgreen",
}

// StatusColor is the fill colour used for a contact's status.
func StatusColor(daysOverdue int) string {
	return statusColors[cadence.ContactStatus(daysOverdue)]
}

// GenerateCadenceGraph renders the map for a class ("" for everyone) as xdot.
func (g *GraphGenerator) GenerateCadenceGraph(ctx context.Context, class models.RelationshipClass, today time.Time) (string, error) {
	contacts, err := LoadContacts(g.db, class, today)
	if err != nil {
		return "", err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(fmt.Sprintf("kith cadence map · %s", cadence.FormatDate(cadence.DateOf(today))))
	graph.SetRankDir(cgraph.LRRank)

	root, err := graph.CreateNodeByName("you")
	if err != nil {
		return "", fmt.Errorf("failed to create root node: %w", err)
	}
	root.SetLabel("You")
	root.SetShape("doublecircle")

	tierNodes := make(map[string]*cgraph.Node)
	tierNode := func(c models.Contact) (*cgraph.Node, error) {
		tier := cadence.EffectiveTier(c)
		key := string(c.Class) + "/" + string(tier)
		if node, ok := tierNodes[key]; ok {
			return node, nil
		}

		node, err := graph.CreateNodeByName("tier_" + key)
		if err != nil {
			return nil, fmt.Errorf("failed to create tier node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%s, every %d days)", cadence.TierLabel(tier), c.Class, cadence.ExpectedIntervalDays(tier)))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")

		if _, err := graph.CreateEdgeByName(key, root, node); err != nil {
			return nil, fmt.Errorf("failed to create tier edge: %w", err)
		}
		tierNodes[key] = node
		return node, nil
	}

	for _, c := range cadence.SortByOverdue(contacts) {
		parent, err := tierNode(c)
		if err != nil {
			return "", err
		}

		overdue := cadence.ContactDaysOverdue(c, today)
		node, err := graph.CreateNodeByName("contact_" + c.ID.String())
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", c.FullName(), cadence.DueLabel(c.LastInteractionDate, overdue, today)))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(StatusColor(overdue))

		edge, err := graph.CreateEdgeByName("has_"+c.ID.String(), parent, node)
		if err != nil {
			return "", fmt.Errorf("failed to create contact edge: %w", err)
		}
		if overdue > 0 {
			edge.SetStyle("bold")
		} else {
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
