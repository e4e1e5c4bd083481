package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/loom/config"
	"github.com/lixenwraith/loom/core"
)

// newRootCmd builds the command tree; guard is handed to the engine by demo
func newRootCmd(guard *core.Guard) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "loom",
		Short: "Terminal element runtime",
		Long: `loom composes nested elements on a terminal: layered drawing,
focus-aware key routing and animated styles.

Configuration is read from --config, or $XDG_CONFIG_HOME/loom/config.toml,
then LOOM_* environment variables, then flags.

Examples:
  loom demo
  loom demo --backend tcell --color 256
  loom config
  loom keys`,
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, runtime.Version()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/loom/config.toml)")
	config.BindFlags(pf)

	load := func(cmd *cobra.Command) (*config.Config, error) {
		return config.Load(configPath, cmd.Flags())
	}

	root.AddCommand(
		newDemoCmd(guard, load),
		newConfigCmd(load),
		newKeysCmd(load),
	)
	return root
}

// loadFunc resolves the effective configuration for a parsed command
type loadFunc func(cmd *cobra.Command) (*config.Config, error)

func newConfigCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
environment and flags, as YAML. The keymap shows every bound action.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.Dump()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
