package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/web3tx/internal/output"
)

const (
	// LocalConfigFile is looked up in the current directory.
	LocalConfigFile = "web3tx.toml"
	// HomeConfigFile is looked up in the home directory.
	HomeConfigFile = "config.toml"
)

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     output.LoggerInterface
}

// NewConfigLoader creates a new ConfigLoader.
func NewConfigLoader(homeDir, configPath string, logger output.LoggerInterface) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// DefaultHomeDir returns ~/.web3tx, falling back to ./.web3tx when the user
// home cannot be determined.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".web3tx"
	}
	return filepath.Join(home, ".web3tx")
}

// configFiles lists existing config files in order of increasing priority:
// home directory, current directory, explicit path.
func (l *ConfigLoader) configFiles() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		files = append(files, path)
	}

	homePath := filepath.Join(l.homeDir, HomeConfigFile)
	if _, err := os.Stat(homePath); err == nil {
		add(homePath)
	}

	if _, err := os.Stat(LocalConfigFile); err == nil {
		add(LocalConfigFile)
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", l.configPath)
		}
		add(l.configPath)
	}

	return files, nil
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Priority: explicit path > ./web3tx.toml > ~/.web3tx/config.toml
// All config files are merged, with higher priority values overwriting lower ones.
// Returns the merged FileConfig and the primary (highest priority) config file path.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	files, err := l.configFiles()
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return &FileConfig{}, "", nil
	}

	var merged FileConfig
	var primaryFile string
	for _, configFile := range files {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(configFile, data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := ValidateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst;
// chain tables merge field by field.
func mergeFileConfig(dst, src *FileConfig) {
	if src.Home != nil {
		dst.Home = src.Home
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.JSON != nil {
		dst.JSON = src.JSON
	}
	if src.Chain != nil {
		dst.Chain = src.Chain
	}
	if src.Wait != nil {
		dst.Wait = src.Wait
	}
	if src.WaitTimeout != nil {
		dst.WaitTimeout = src.WaitTimeout
	}

	if src.Poll != nil {
		if dst.Poll == nil {
			dst.Poll = &PollConfig{}
		}
		mergePoll(dst.Poll, src.Poll)
	}
	if src.Signer != nil {
		if dst.Signer == nil {
			dst.Signer = &SignerConfig{}
		}
		if src.Signer.KeyEnv != nil {
			dst.Signer.KeyEnv = src.Signer.KeyEnv
		}
		if src.Signer.Keystore != nil {
			dst.Signer.Keystore = src.Signer.Keystore
		}
	}

	for name, chain := range src.Chains {
		if chain == nil {
			continue
		}
		if dst.Chains == nil {
			dst.Chains = make(map[string]*ChainConfig)
		}
		existing, ok := dst.Chains[name]
		if !ok {
			existing = &ChainConfig{}
			dst.Chains[name] = existing
		}
		mergeChain(existing, chain)
	}
}

func mergePoll(dst, src *PollConfig) {
	if src.Interval != nil {
		dst.Interval = src.Interval
	}
	if src.MaxInterval != nil {
		dst.MaxInterval = src.MaxInterval
	}
	if src.Multiplier != nil {
		dst.Multiplier = src.Multiplier
	}
	if src.Jitter != nil {
		dst.Jitter = src.Jitter
	}
}

func mergeChain(dst, src *ChainConfig) {
	if src.RPC != nil {
		dst.RPC = src.RPC
	}
	if src.ChainID != nil {
		dst.ChainID = src.ChainID
	}
	if src.Decimals != nil {
		dst.Decimals = src.Decimals
	}
	if src.ExplorerTxURL != nil {
		dst.ExplorerTxURL = src.ExplorerTxURL
	}
	if src.Confirmations != nil {
		dst.Confirmations = src.Confirmations
	}
}

var knownKeys = map[string]map[string]bool{
	"": {
		"home": true, "no_color": true, "verbose": true, "json": true,
		"chain": true, "wait": true, "wait_timeout": true,
		"poll": true, "signer": true, "chains": true,
	},
	"poll":   {"interval": true, "max_interval": true, "multiplier": true, "jitter": true},
	"signer": {"key_env": true, "keystore": true},
	"chains": {"rpc": true, "chain_id": true, "decimals": true, "explorer_tx_url": true, "confirmations": true},
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(file string, data []byte) {
	if l.logger == nil {
		return
	}
	for _, key := range UnknownKeys(data) {
		l.logger.Warn("Unknown config key in %s: %s", file, key)
	}
}

// UnknownKeys returns the dotted paths of keys the config schema does not define.
func UnknownKeys(data []byte) []string {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil // main parsing reports the error
	}

	var unknown []string
	for key, value := range raw {
		if !knownKeys[""][key] {
			unknown = append(unknown, key)
			continue
		}
		table, ok := value.(map[string]any)
		if !ok {
			continue
		}
		switch key {
		case "poll", "signer":
			for sub := range table {
				if !knownKeys[key][sub] {
					unknown = append(unknown, key+"."+sub)
				}
			}
		case "chains":
			for name, chain := range table {
				fields, ok := chain.(map[string]any)
				if !ok {
					continue
				}
				for sub := range fields {
					if !knownKeys["chains"][sub] {
						unknown = append(unknown, "chains."+name+"."+sub)
					}
				}
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}
