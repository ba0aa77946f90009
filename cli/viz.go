// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz graph generation of the cadence map
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/kith/viz"
)

// VizCommand routes `viz <graph>`.
func (a *App) VizCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("viz requires a subcommand: graph")
	}

	switch args[0] {
	case "graph":
		return a.VizGraphCommand(ctx, args[1:])
	default:
		return fmt.Errorf("unknown viz command: %s", args[0])
	}
}

// VizGraphCommand renders the cadence map as xdot.
func (a *App) VizGraphCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("viz graph")
	output := fs.String("output", "", "Output file (default: stdout)")
	classFlag := fs.String("class", "", "friend, network or both")
	if err := fs.Parse(args); err != nil {
		return err
	}

	class, err := parseClassFlag(*classFlag)
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(a.DB).GenerateCadenceGraph(ctx, class, a.today())
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		a.success("Graph written to %s", *output)
		return nil
	}

	a.printf("%s\n", dot)
	return nil
}
