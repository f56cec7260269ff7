package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentmarket/src/core/catalog"
)

// NewTopRatedCommand creates the top-rated command.
func NewTopRatedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-rated",
		Short: "Show the highest-rated agents",
		Long: `Show agents ranked by mean star rating.

Examples:
  marketctl top-rated
  marketctl top-rated --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRankingCommand(cmd, "/api/agents/top-rated", func(l catalog.Listing) string {
				return fmt.Sprintf("%s%.1f/5.0%s", colorYellow, l.Rating, colorReset)
			})
		},
	}

	addRankingFlags(cmd)
	return cmd
}

// NewTrendingCommand creates the trending command.
func NewTrendingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show the most-downloaded agents",
		Long: `Show agents ranked by cumulative download count, a rough
stand-in for recency while per-window download telemetry is not tracked.

Examples:
  marketctl trending
  marketctl trending --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRankingCommand(cmd, "/api/agents/trending", func(l catalog.Listing) string {
				return fmt.Sprintf("%s%d downloads%s", colorGreen, l.Downloads, colorReset)
			})
		},
	}

	addRankingFlags(cmd)
	return cmd
}

func addRankingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 10, "Number of results")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	addRegistryFlags(cmd.Flags())
}

func runRankingCommand(cmd *cobra.Command, path string, metric func(catalog.Listing) string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	var results []catalog.Listing
	if err := newRegistryClient(cmd).get(fmt.Sprintf("%s?limit=%d", path, limit), &results); err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No agents registered.")
		return nil
	}

	for i, listing := range results {
		fmt.Printf("%2d. %s[%s]%s %-30s %s\n",
			i+1, colorBlue, listing.AgentID, colorReset, listing.Name, metric(listing))
	}
	return nil
}
