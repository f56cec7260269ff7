package cli

import (
	"github.com/spf13/cobra"

	"agentmarket/src/core/catalog"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get AGENT_ID",
		Short: "Show full details for an agent by ID",
		Long: `Fetch one agent listing and print it as JSON.

Exits non-zero if the agent is not registered.

Examples:
  marketctl get code-review-agent`,
		Args: cobra.ExactArgs(1),
		RunE: runGetCommand,
	}

	addRegistryFlags(cmd.Flags())
	return cmd
}

func runGetCommand(cmd *cobra.Command, args []string) error {
	var listing catalog.Listing
	if err := newRegistryClient(cmd).get("/api/agents/"+args[0], &listing); err != nil {
		return err
	}
	return printJSON(listing)
}
