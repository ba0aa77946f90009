// ABOUTME: MCP server subcommand
// ABOUTME: Registers kith tools, resources and prompts and serves them over stdio
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/kith/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds the server with every tool, resource and prompt registered.
func (a *App) NewMCPServer(version string) *mcp.Server {
	contactHandlers := handlers.NewContactHandlers(a.DB, a.Now)
	interactionHandlers := handlers.NewInteractionHandlers(a.DB, a.Now)
	reminderHandlers := handlers.NewReminderHandlers(a.DB)
	viewHandlers := handlers.NewViewHandlers(a.DB, a.Now)
	vizHandlers := handlers.NewVizHandlers(a.DB, a.Now)
	resourceHandlers := handlers.NewResourceHandlers(a.DB, a.Now)
	promptHandlers := handlers.NewPromptHandlers(a.DB, a.Now)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "kith",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a friend or network contact with a cadence tier",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name or email, optionally within one class",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update a contact's details, class or cadence tier",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact and their interaction history",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a call, text, email, FaceTime or in-person catch-up with a contact",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "interaction_history",
		Description: "List a contact's interactions, newest first",
	}, interactionHandlers.InteractionHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_up_next",
		Description: "Who to reach out to next, most overdue first",
	}, viewHandlers.GetUpNext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_upcoming",
		Description: "Birthdays and reminders coming up in the next N days",
	}, viewHandlers.GetUpcoming)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Weekly streak, last twelve months of activity, and most-contacted leaderboard",
	}, viewHandlers.GetStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_reminder",
		Description: "Add a dated reminder such as a holiday or anniversary, optionally yearly",
	}, reminderHandlers.AddReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Render the cadence map as Graphviz xdot",
	}, vizHandlers.GenerateGraph)

	// Register resources
	for _, uri := range handlers.ResourceURIs {
		server.AddResource(&mcp.Resource{
			URI:      uri,
			Name:     uri,
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "kith://contacts/{id}",
		Name:        "contact",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "check-in-suggestions",
		Description: "Draft openers for the people who are due",
		Arguments: []*mcp.PromptArgument{
			{Name: "relationship_class", Description: "friend or network"},
		},
	}, promptHandlers.GetPrompt)
	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Recap where things stand with one contact",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact UUID", Required: true},
		},
	}, promptHandlers.GetPrompt)
	server.AddPrompt(&mcp.Prompt{
		Name:        "weekly-review",
		Description: "Review the streak, who is due and what is coming up",
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func (a *App) MCPCommand(ctx context.Context, version string) error {
	log.Info("starting kith MCP server", "version", version)
	return a.NewMCPServer(version).Run(ctx, &mcp.StdioTransport{})
}
