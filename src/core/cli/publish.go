package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"agentmarket/src/core/catalog"
)

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an agent listing from a manifest file",
		Long: `Publish an agent to the marketplace from a JSON or YAML manifest.

The manifest is validated locally before upload; publishing an existing
agent_id overwrites the previous listing.

Examples:
  marketctl publish --config agent.json
  marketctl publish --config agent.yaml`,
		RunE: runPublishCommand,
	}

	cmd.Flags().String("config", "", "Path to a JSON or YAML manifest with listing fields")
	_ = cmd.MarkFlagRequired("config")
	addRegistryFlags(cmd.Flags())

	return cmd
}

func runPublishCommand(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	listing, err := readListingManifest(configPath)
	if err != nil {
		return err
	}

	// Versions are stored as-is, but flag anything that will not compare
	// cleanly if consumers apply semver ordering to it.
	if _, err := semver.NewVersion(listing.Version); err != nil {
		fmt.Fprintf(os.Stderr, "%sWarning:%s version %q is not a valid semantic version\n",
			colorYellow, colorReset, listing.Version)
	}

	var published catalog.Listing
	if err := newRegistryClient(cmd).post("/api/agents", listing, &published); err != nil {
		return err
	}

	fmt.Printf("%sAgent '%s' published successfully.%s\n", colorGreen, published.AgentID, colorReset)
	return nil
}

// readListingManifest parses and validates a listing manifest so problems
// surface before any network round trip.
func readListingManifest(path string) (catalog.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Listing{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var in catalog.Listing
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return catalog.Listing{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &in); err != nil {
			return catalog.Listing{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	}

	listing, err := catalog.NewListing(in)
	if err != nil {
		return catalog.Listing{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return listing, nil
}
