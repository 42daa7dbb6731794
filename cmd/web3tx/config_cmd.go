// cmd/web3tx/config_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage web3tx configuration",
	}

	cmd.AddCommand(
		NewConfigShowCmd(),
		NewConfigInitCmd(),
	)

	return cmd
}

// NewConfigShowCmd creates the config show subcommand.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		Long: `Display the current effective configuration with sources.

Shows all configuration values and where they came from:
  - default: Built-in default value
  - config file: Value from web3tx.toml or ~/.web3tx/config.toml
  - environment: Value from environment variable
  - flag: Value from command-line flag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out.IsJSONMode() {
				return out.JSON(configJSON(effective))
			}
			if effective.ConfigFilePath != "" {
				out.Info("Config file: %s\n", effective.ConfigFilePath)
			}
			effective.ToTable(out.Writer())
			return nil
		},
	}
}

// configJSON flattens the effective configuration for --json output.
func configJSON(cfg *config.EffectiveConfig) map[string]any {
	return map[string]any{
		"home":              cfg.Home.Value,
		"no_color":          cfg.NoColor.Value,
		"verbose":           cfg.Verbose.Value,
		"json":              cfg.JSON.Value,
		"chain":             cfg.Chain.Value,
		"wait":              cfg.Wait.Value,
		"wait_timeout":      cfg.WaitTimeout.Value,
		"poll.interval":     cfg.PollInterval.Value,
		"poll.max_interval": cfg.PollMaxInterval.Value,
		"poll.multiplier":   cfg.PollMultiplier.Value,
		"poll.jitter":       cfg.PollJitter.Value,
		"signer.key_env":    cfg.KeyEnv.Value,
		"signer.keystore":   cfg.Keystore.Value,
		"config_file":       cfg.ConfigFilePath,
	}
}

// NewConfigInitCmd creates the config init subcommand.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		Long: `Create ~/.web3tx/config.toml.

On an interactive terminal the default chain, its RPC endpoint, the wait
milestone and the signing key variable are prompted for. Otherwise a
commented template with defaults is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup := config.NewInteractiveSetup(effective.Home.Value)
			if setup.ConfigExists() && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", setup.Path())
			}

			var fileCfg *config.FileConfig
			if config.IsInteractive() && !out.IsJSONMode() {
				var err error
				if fileCfg, err = setup.Run(); err != nil {
					return err
				}
			} else {
				fileCfg = setup.RunWithDefaults()
			}

			if err := config.ValidateFileConfig(fileCfg); err != nil {
				return err
			}
			if err := setup.WriteConfig(fileCfg); err != nil {
				return err
			}

			out.Success("Wrote %s", setup.Path())
			return out.JSON(map[string]string{"path": setup.Path()})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
