package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotebox/internal/platform/config"
)

// cliSession is the session id one-shot commands show quotes under.
const cliSession = "cli"

type rootOptions struct {
	configDir string
	profile   string
}

// loadConfig loads and validates configuration (fail fast).
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.configDir, o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.App.Version == "dev" {
		cfg.App.Version = Version
	}

	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cmd := &cobra.Command{
		Use:   "quotebox",
		Short: "Keep, show and sync a list of categorized quotes",
		Long: `quotebox keeps an ordered list of quotes, each with a category.

It serves the list over HTTP, as a terminal widget and as MCP tools, and
reconciles it with a remote endpoint on an interval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", profile, "configuration profile (local, dev, qa, prod, test)")

	cmd.AddCommand(
		newServeCmd(opts),
		newTUICmd(opts),
		newMCPCmd(opts),
		newRandomCmd(opts),
		newAddCmd(opts),
		newCategoriesCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSyncCmd(opts),
		newVersionCmd(),
	)

	return cmd
}
