package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentmarket/src/core/cli"
)

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Agent Market CLI",
	Long: `Command-line client for the agent marketplace registry.

Discover, publish, and review pre-built agents hosted by an
agentmarket-registry service.`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(cli.NewSearchCommand())
	rootCmd.AddCommand(cli.NewPublishCommand())
	rootCmd.AddCommand(cli.NewGetCommand())
	rootCmd.AddCommand(cli.NewReviewCommand())
	rootCmd.AddCommand(cli.NewReviewsCommand())
	rootCmd.AddCommand(cli.NewTopRatedCommand())
	rootCmd.AddCommand(cli.NewTrendingCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
