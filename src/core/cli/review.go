package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentmarket/src/core/catalog"
)

// NewReviewCommand creates the review command.
func NewReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review AGENT_ID",
		Short: "Submit a review for an agent",
		Long: `Submit a star rating and optional comment for an agent.

The registry recomputes the agent's mean rating from its full review
history after every submission.

Examples:
  marketctl review code-review-agent --rating 4.5 --reviewer alice
  marketctl review code-review-agent --rating 5 --reviewer bob --comment "flawless"`,
		Args: cobra.ExactArgs(1),
		RunE: runReviewCommand,
	}

	cmd.Flags().Float64("rating", 0, "Star rating (0-5)")
	cmd.Flags().String("reviewer", "", "Reviewer name")
	cmd.Flags().String("comment", "", "Optional review text")
	_ = cmd.MarkFlagRequired("rating")
	_ = cmd.MarkFlagRequired("reviewer")
	addRegistryFlags(cmd.Flags())

	return cmd
}

func runReviewCommand(cmd *cobra.Command, args []string) error {
	agentID := args[0]
	rating, _ := cmd.Flags().GetFloat64("rating")
	reviewer, _ := cmd.Flags().GetString("reviewer")
	comment, _ := cmd.Flags().GetString("comment")

	review, err := catalog.NewReview(catalog.Review{
		Reviewer: reviewer,
		Rating:   rating,
		Comment:  comment,
	})
	if err != nil {
		return err
	}

	var submitted catalog.Review
	client := newRegistryClient(cmd)
	if err := client.post("/api/agents/"+agentID+"/reviews", review, &submitted); err != nil {
		return err
	}

	var listing catalog.Listing
	if err := client.get("/api/agents/"+agentID, &listing); err != nil {
		return err
	}

	fmt.Printf("%sReview recorded.%s Agent '%s' now rated %.2f/5.0\n",
		colorGreen, colorReset, agentID, listing.Rating)
	return nil
}

// NewReviewsCommand creates the reviews command.
func NewReviewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews AGENT_ID",
		Short: "List the reviews for an agent",
		Long: `List every review recorded for an agent, oldest first.

An agent with no reviews (or an unknown agent) prints an empty result;
use 'marketctl get' to check whether an agent exists.

Examples:
  marketctl reviews code-review-agent
  marketctl reviews code-review-agent --json`,
		Args: cobra.ExactArgs(1),
		RunE: runReviewsCommand,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	addRegistryFlags(cmd.Flags())

	return cmd
}

func runReviewsCommand(cmd *cobra.Command, args []string) error {
	var reviews []catalog.Review
	if err := newRegistryClient(cmd).get("/api/agents/"+args[0]+"/reviews", &reviews); err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(reviews)
	}

	if len(reviews) == 0 {
		fmt.Println("No reviews recorded.")
		return nil
	}

	for _, r := range reviews {
		fmt.Printf("%s%-20s%s %s%.1f/5.0%s  %s\n",
			colorBlue, r.Reviewer, colorReset,
			colorYellow, r.Rating, colorReset,
			r.CreatedAt.Format("2006-01-02 15:04"))
		if r.Comment != "" {
			fmt.Printf("  %s\n", r.Comment)
		}
	}
	return nil
}
