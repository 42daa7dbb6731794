package config

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
)

// Environment variables consulted while resolving configuration.
const (
	EnvHome       = "WEB3TX_HOME"
	EnvNoColor    = "NO_COLOR"
	EnvPrivateKey = "WEB3TX_PRIVATE_KEY"
)

// EffectiveConfig represents the final merged configuration after applying priority chain.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	// Submission settings
	Chain       StringValue
	Wait        StringValue
	WaitTimeout StringValue

	// Receipt polling
	PollInterval    StringValue
	PollMaxInterval StringValue
	PollMultiplier  FloatValue
	PollJitter      FloatValue

	// Signer
	KeyEnv   StringValue
	Keystore StringValue

	// Chain overrides from the config file, keyed by name.
	Chains map[string]*ChainConfig

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:            NewStringValue(defaultHomeDir),
		NoColor:         NewBoolValue(false),
		Verbose:         NewBoolValue(false),
		JSON:            NewBoolValue(false),
		Chain:           NewStringValue("ethereum"),
		Wait:            NewStringValue("ensured"),
		WaitTimeout:     NewStringValue(""),
		PollInterval:    NewStringValue(evm.DefaultPollInterval.String()),
		PollMaxInterval: NewStringValue(""),
		PollMultiplier:  NewFloatValue(1),
		PollJitter:      NewFloatValue(0),
		KeyEnv:          NewStringValue(EnvPrivateKey),
		Keystore:        NewStringValue(""),
	}
}

// ApplyFile copies every value set in the config file.
func (c *EffectiveConfig) ApplyFile(f *FileConfig, path string) {
	if f == nil {
		return
	}
	c.ConfigFilePath = path

	c.Home.fromFile(f.Home)
	c.NoColor.fromFile(f.NoColor)
	c.Verbose.fromFile(f.Verbose)
	c.JSON.fromFile(f.JSON)
	c.Chain.fromFile(f.Chain)
	c.Wait.fromFile(f.Wait)
	c.WaitTimeout.fromFile(f.WaitTimeout)

	if p := f.Poll; p != nil {
		c.PollInterval.fromFile(p.Interval)
		c.PollMaxInterval.fromFile(p.MaxInterval)
		c.PollMultiplier.fromFile(p.Multiplier)
		c.PollJitter.fromFile(p.Jitter)
	}
	if s := f.Signer; s != nil {
		c.KeyEnv.fromFile(s.KeyEnv)
		c.Keystore.fromFile(s.Keystore)
	}
	c.Chains = f.Chains
}

// WaitTimeoutDuration parses the wait timeout; zero means no timeout.
func (c *EffectiveConfig) WaitTimeoutDuration() (time.Duration, error) {
	if c.WaitTimeout.Value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.WaitTimeout.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid wait_timeout: %s", c.WaitTimeout.Value)
	}
	return d, nil
}

// Backoff builds the receipt polling schedule.
func (c *EffectiveConfig) Backoff() (evm.Backoff, error) {
	interval, err := time.ParseDuration(c.PollInterval.Value)
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid poll.interval: %s", c.PollInterval.Value)
	}

	var maxInterval time.Duration
	if c.PollMaxInterval.Value != "" {
		maxInterval, err = time.ParseDuration(c.PollMaxInterval.Value)
		if err != nil || maxInterval <= 0 {
			return nil, fmt.Errorf("invalid poll.max_interval: %s", c.PollMaxInterval.Value)
		}
	}

	multiplier, jitter := c.PollMultiplier.Value, c.PollJitter.Value
	if multiplier < 1 {
		return nil, fmt.Errorf("invalid poll.multiplier: %v (must be >= 1)", multiplier)
	}
	if jitter < 0 || jitter > 1 {
		return nil, fmt.Errorf("invalid poll.jitter: %v (must be 0-1)", jitter)
	}

	if multiplier == 1 && jitter == 0 {
		return evm.ConstantBackoff{Every: interval}, nil
	}
	return evm.ExponentialBackoff{
		Initial:    interval,
		Multiplier: multiplier,
		Max:        maxInterval,
		Jitter:     jitter,
	}, nil
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "chain\t%s\t%s\n", c.Chain.Value, c.Chain.Source)
	fmt.Fprintf(tw, "wait\t%s\t%s\n", c.Wait.Value, c.Wait.Source)
	fmt.Fprintf(tw, "wait_timeout\t%s\t%s\n", orNone(c.WaitTimeout.Value), c.WaitTimeout.Source)
	fmt.Fprintf(tw, "poll.interval\t%s\t%s\n", c.PollInterval.Value, c.PollInterval.Source)
	fmt.Fprintf(tw, "poll.max_interval\t%s\t%s\n", orNone(c.PollMaxInterval.Value), c.PollMaxInterval.Source)
	fmt.Fprintf(tw, "poll.multiplier\t%v\t%s\n", c.PollMultiplier.Value, c.PollMultiplier.Source)
	fmt.Fprintf(tw, "poll.jitter\t%v\t%s\n", c.PollJitter.Value, c.PollJitter.Source)
	fmt.Fprintf(tw, "signer.key_env\t%s\t%s\n", c.KeyEnv.Value, c.KeyEnv.Source)
	fmt.Fprintf(tw, "signer.keystore\t%s\t%s\n", orNone(c.Keystore.Value), c.Keystore.Source)

	names := make([]string, 0, len(c.Chains))
	for name := range c.Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if rpc := c.Chains[name].RPC; rpc != nil {
			fmt.Fprintf(tw, "chains.%s.rpc\t%s\t%s\n", name, MaskURL(*rpc), SourceConfigFile)
		}
	}
	tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// MaskURL hides everything after the host, where providers put API keys.
func MaskURL(raw string) string {
	for i, slashes := 0, 0; i < len(raw); i++ {
		if raw[i] != '/' {
			continue
		}
		slashes++
		if slashes == 3 && i < len(raw)-1 {
			return raw[:i+1] + "****"
		}
	}
	return raw
}
