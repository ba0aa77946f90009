// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_graph tool for the cadence map
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db  *sql.DB
	now Clock
}

func NewVizHandlers(database *sql.DB, now Clock) *VizHandlers {
	if now == nil {
		now = time.Now
	}
	return &VizHandlers{db: database, now: now}
}

type GenerateGraphInput struct {
	Class string `json:"relationship_class,omitempty" jsonschema:"friend or network (default everyone)"`
}

type GenerateGraphOutput struct {
	Class     string `json:"relationship_class,omitempty"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	class, err := optionalClass(input.Class)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}

	dot, err := viz.NewGraphGenerator(h.db).GenerateCadenceGraph(ctx, class, cadence.DateOf(h.now()))
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		Class:     string(class),
		DOTSource: dot,
		NodeCount: strings.Count(dot, "label="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
