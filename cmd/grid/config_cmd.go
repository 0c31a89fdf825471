package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/grid/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show the effective configuration",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Show the effective configuration as TOML: the config file merged
over the defaults. Useful as a starting point for a new config file.`,
		Example: `  grid config
  grid config -c ./grid.toml > ~/.config/grid/config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
	return cmd
}
