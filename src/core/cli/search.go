package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"agentmarket/src/core/catalog"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the agent marketplace",
		Long: `Search registered agents by text query, capabilities, tags, and rating.

All filters are optional and combine with AND. Without filters, every
registered agent is listed sorted by rating.

Examples:
  marketctl search --query "code review"
  marketctl search --capability code-review --capability linting
  marketctl search --tag dev-tools --min-rating 4.0
  marketctl search --json`,
		RunE: runSearchCommand,
	}

	cmd.Flags().String("query", "", "Text to match in name or description")
	cmd.Flags().Float64("min-rating", -1, "Minimum star rating (0-5)")
	cmd.Flags().StringArray("capability", nil, "Required capability (repeatable)")
	cmd.Flags().StringArray("tag", nil, "Required tag (repeatable)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	addRegistryFlags(cmd.Flags())

	return cmd
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	params := url.Values{}

	if query, _ := cmd.Flags().GetString("query"); query != "" {
		params.Set("query", query)
	}
	if cmd.Flags().Changed("min-rating") {
		minRating, _ := cmd.Flags().GetFloat64("min-rating")
		params.Set("min_rating", strconv.FormatFloat(minRating, 'f', -1, 64))
	}
	caps, _ := cmd.Flags().GetStringArray("capability")
	for _, c := range caps {
		params.Add("capability", c)
	}
	tags, _ := cmd.Flags().GetStringArray("tag")
	for _, t := range tags {
		params.Add("tag", t)
	}

	path := "/api/agents"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var results []catalog.Listing
	if err := newRegistryClient(cmd).get(path, &results); err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No agents found matching the given criteria.")
		return nil
	}

	for _, listing := range results {
		printListing(listing)
	}
	return nil
}

// printListing renders one search result block.
func printListing(l catalog.Listing) {
	fmt.Printf("%s[%s]%s %s v%s - Rating: %s%.1f/5.0%s  Downloads: %d\n",
		colorBlue, l.AgentID, colorReset,
		l.Name, l.Version,
		colorYellow, l.Rating, colorReset,
		l.Downloads)
	fmt.Printf("  %s\n", l.Description)
	fmt.Printf("  %sInstall:%s %s\n", colorGray, colorReset, l.InstallCommand)
	fmt.Println()
}
