// cmd/web3tx/root.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/config"
	"github.com/altuslabsxyz/web3tx/internal/output"
	"github.com/altuslabsxyz/web3tx/internal/version"
)

// Global flag values
var (
	homeDir     string
	configPath  string // Path to a config file (--config flag)
	jsonMode    bool
	noColor     bool
	verbose     bool
	chainName   string
	waitFor     string
	waitTimeout string
	keystore    string

	// effective is the merged configuration of the running command.
	effective *config.EffectiveConfig

	// out renders user-facing output for the running command.
	out output.LoggerInterface = output.NewLogger()
)

// Command group IDs for organized help output.
const (
	GroupTransactions = "transactions"
	GroupSetup        = "setup"
)

// NewRootCmd creates the web3tx command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web3tx",
		Short: "Submit EVM transactions and follow them to a safe depth",
		Long: `web3tx submits native transfers and contract calls to EVM chains and
follows each transaction through its lifecycle:

  sent       the node accepted the transaction and returned its hash
  confirmed  the transaction is included in a block
  ensured    the block is buried under the chain's confirmation depth

Examples:
  # Send 0.5 BNB and wait until it is safe
  web3tx send 0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4 0.5 --chain bsc

  # Call a contract method with JSON parameters
  web3tx call 0xRouter withdraw '["0xToken", "1000"]' --abi router.json

  # Submit every transaction described in a directory of manifests
  web3tx apply -f ./transactions/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out = output.NewLoggerTo(cmd.OutOrStdout(), cmd.ErrOrStderr())

			cfg, err := loadEffectiveConfig(cmd)
			if err != nil {
				return err
			}
			effective = cfg

			if cfg.NoColor.Value {
				out.SetNoColor(true)
			}
			out.SetVerbose(cfg.Verbose.Value)
			out.SetJSONMode(cfg.JSON.Value)

			if cfg.ConfigFilePath != "" {
				out.Debug("Using config file: %s", cfg.ConfigFilePath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", config.DefaultHomeDir(),
		"Base directory for web3tx configuration")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a config file")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVarP(&chainName, "chain", "c", "",
		"Chain to submit on (default from config, or ethereum)")
	cmd.PersistentFlags().StringVarP(&waitFor, "wait", "w", "",
		"Milestone to wait for: sent, confirmed or ensured")
	cmd.PersistentFlags().StringVar(&waitTimeout, "wait-timeout", "",
		"Give up a confirmation wait after this long, e.g. 10m")
	cmd.PersistentFlags().StringVar(&keystore, "keystore", "",
		"Path to a keystore v3 JSON file to sign with")

	cmd.AddGroup(&cobra.Group{ID: GroupTransactions, Title: "Transaction Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"})

	sendCmd := NewSendCmd()
	sendCmd.GroupID = GroupTransactions
	callCmd := NewCallCmd()
	callCmd.GroupID = GroupTransactions
	applyCmd := NewApplyCmd()
	applyCmd.GroupID = GroupTransactions

	chainsCmd := NewChainsCmd()
	chainsCmd.GroupID = GroupSetup
	configCmd := NewConfigCmd()
	configCmd.GroupID = GroupSetup

	cmd.AddCommand(
		sendCmd,
		callCmd,
		applyCmd,
		chainsCmd,
		configCmd,
		version.NewCmd(),
	)

	return cmd
}

// loadEffectiveConfig resolves configuration.
// Priority: default < config file < environment < flag.
func loadEffectiveConfig(cmd *cobra.Command) (*config.EffectiveConfig, error) {
	cfg := config.NewEffectiveConfig(config.DefaultHomeDir())

	// The home directory decides which config file is read, so resolve it first.
	home := cfg.Home
	config.ApplyEnvString(config.EnvHome, &home)
	config.ApplyStringFlag(cmd, "home", homeDir, &home)

	loader := config.NewConfigLoader(home.Value, configPath, out)
	fileCfg, path, err := loader.LoadFileConfig()
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(fileCfg, path)

	config.ApplyEnvString(config.EnvHome, &cfg.Home)
	config.ApplyEnvBool(config.EnvNoColor, &cfg.NoColor)

	config.ApplyStringFlag(cmd, "home", homeDir, &cfg.Home)
	config.ApplyBoolFlag(cmd, "no-color", noColor, &cfg.NoColor)
	config.ApplyBoolFlag(cmd, "verbose", verbose, &cfg.Verbose)
	config.ApplyBoolFlag(cmd, "json", jsonMode, &cfg.JSON)
	config.ApplyStringFlag(cmd, "chain", chainName, &cfg.Chain)
	config.ApplyStringFlag(cmd, "wait", waitFor, &cfg.Wait)
	config.ApplyStringFlag(cmd, "wait-timeout", waitTimeout, &cfg.WaitTimeout)
	config.ApplyStringFlag(cmd, "keystore", keystore, &cfg.Keystore)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
