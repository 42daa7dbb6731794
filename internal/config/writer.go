package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, HomeConfigFile)
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist. The file may reference a private key
// location, so it is written owner-readable only.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)

	if err := os.WriteFile(w.Path(), []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func section(b *strings.Builder, title string) {
	b.WriteString("# =============================================================================\n")
	fmt.Fprintf(b, "# %s\n", title)
	b.WriteString("# =============================================================================\n\n")
}

func stringLine(b *strings.Builder, key string, value *string, example string) {
	if value != nil {
		fmt.Fprintf(b, "%s = %q\n", key, *value)
		return
	}
	fmt.Fprintf(b, "# %s = %q\n", key, example)
}

func boolLine(b *strings.Builder, key string, value *bool) {
	if value != nil && *value {
		fmt.Fprintf(b, "%s = true\n", key)
		return
	}
	fmt.Fprintf(b, "# %s = false\n", key)
}

// generateTOMLWithComments creates TOML content with section comments.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	if cfg == nil {
		cfg = &FileConfig{}
	}
	var b strings.Builder

	b.WriteString("# web3tx configuration file\n")
	b.WriteString("# Priority: default < config file < environment < CLI flag\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Location: %s\n", w.Path())
	b.WriteString("# Override with: --config /path/to/config.toml\n\n")

	section(&b, "Global Settings (apply to all commands)")
	stringLine(&b, "home", cfg.Home, "~/.web3tx")
	boolLine(&b, "verbose", cfg.Verbose)
	boolLine(&b, "json", cfg.JSON)
	boolLine(&b, "no_color", cfg.NoColor)
	b.WriteString("\n")

	section(&b, "Submission Settings")
	stringLine(&b, "chain", cfg.Chain, "ethereum")
	stringLine(&b, "wait", cfg.Wait, "ensured")
	stringLine(&b, "wait_timeout", cfg.WaitTimeout, "30m")
	b.WriteString("\n")

	section(&b, "Receipt Polling")
	b.WriteString("[poll]\n")
	poll := cfg.Poll
	if poll == nil {
		poll = &PollConfig{}
	}
	stringLine(&b, "interval", poll.Interval, "2s")
	stringLine(&b, "max_interval", poll.MaxInterval, "15s")
	if poll.Multiplier != nil {
		fmt.Fprintf(&b, "multiplier = %v\n", *poll.Multiplier)
	} else {
		b.WriteString("# multiplier = 1.5\n")
	}
	if poll.Jitter != nil {
		fmt.Fprintf(&b, "jitter = %v\n", *poll.Jitter)
	} else {
		b.WriteString("# jitter = 0.1\n")
	}
	b.WriteString("\n")

	section(&b, "Signer")
	b.WriteString("[signer]\n")
	signer := cfg.Signer
	if signer == nil {
		signer = &SignerConfig{}
	}
	stringLine(&b, "key_env", signer.KeyEnv, EnvPrivateKey)
	stringLine(&b, "keystore", signer.Keystore, "~/.web3tx/keystore/key.json")
	b.WriteString("\n")

	section(&b, "Chains (presets: ethereum, bsc)")
	if len(cfg.Chains) == 0 {
		b.WriteString("# [chains.ethereum]\n")
		b.WriteString("# rpc = \"https://ethereum-rpc.publicnode.com\"\n")
		b.WriteString("#\n")
		b.WriteString("# [chains.devnet]\n")
		b.WriteString("# rpc = \"http://localhost:8545\"\n")
		b.WriteString("# chain_id = 1337\n")
		b.WriteString("# confirmations = 2\n")
		return b.String()
	}

	names := make([]string, 0, len(cfg.Chains))
	for name := range cfg.Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		chain := cfg.Chains[name]
		if chain == nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[chains.%s]\n", name)
		if chain.RPC != nil {
			fmt.Fprintf(&b, "rpc = %q\n", *chain.RPC)
		}
		if chain.ChainID != nil {
			fmt.Fprintf(&b, "chain_id = %d\n", *chain.ChainID)
		}
		if chain.Decimals != nil {
			fmt.Fprintf(&b, "decimals = %d\n", *chain.Decimals)
		}
		if chain.ExplorerTxURL != nil {
			fmt.Fprintf(&b, "explorer_tx_url = %q\n", *chain.ExplorerTxURL)
		}
		if chain.Confirmations != nil {
			fmt.Fprintf(&b, "confirmations = %d\n", *chain.Confirmations)
		}
	}
	return b.String()
}
