package config

// FileConfig represents the raw web3tx config file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// Submission settings
	Chain       *string `toml:"chain"`        // Default chain for send/call
	Wait        *string `toml:"wait"`         // Milestone to wait for: "sent", "confirmed" or "ensured"
	WaitTimeout *string `toml:"wait_timeout"` // Per-wait timeout, e.g. "10m" (default: none)

	Poll   *PollConfig             `toml:"poll"`
	Signer *SignerConfig           `toml:"signer"`
	Chains map[string]*ChainConfig `toml:"chains"`
}

// PollConfig controls how often receipts are polled.
type PollConfig struct {
	Interval    *string  `toml:"interval"`     // First (or constant) delay, e.g. "2s"
	MaxInterval *string  `toml:"max_interval"` // Upper bound when multiplier > 1
	Multiplier  *float64 `toml:"multiplier"`
	Jitter      *float64 `toml:"jitter"` // 0..1
}

// SignerConfig selects where the signing key comes from.
type SignerConfig struct {
	KeyEnv   *string `toml:"key_env"`  // Environment variable holding a hex private key
	Keystore *string `toml:"keystore"` // Path to a keystore v3 JSON file
}

// ChainConfig overrides a preset chain or declares a new one.
type ChainConfig struct {
	RPC           *string `toml:"rpc"`
	ChainID       *uint64 `toml:"chain_id"`
	Decimals      *uint8  `toml:"decimals"`
	ExplorerTxURL *string `toml:"explorer_tx_url"`
	Confirmations *uint64 `toml:"confirmations"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.Chain == nil &&
		f.Wait == nil &&
		f.WaitTimeout == nil &&
		f.Poll == nil &&
		f.Signer == nil &&
		len(f.Chains) == 0
}
