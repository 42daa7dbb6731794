package config

import (
	"fmt"
	"time"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// ValidWaits lists the milestones a command can block on.
var ValidWaits = []string{"sent", "confirmed", "ensured"}

func isValidWait(s string) bool {
	for _, w := range ValidWaits {
		if s == w {
			return true
		}
	}
	return false
}

// Validate validates the EffectiveConfig values against allowed ranges and types.
func (c *EffectiveConfig) Validate() error {
	if !isValidWait(c.Wait.Value) {
		return fmt.Errorf("invalid wait: %s (must be 'sent', 'confirmed' or 'ensured')", c.Wait.Value)
	}

	if c.WaitTimeout.Value != "" {
		if _, err := time.ParseDuration(c.WaitTimeout.Value); err != nil {
			return fmt.Errorf("invalid wait_timeout: %s", c.WaitTimeout.Value)
		}
	}

	if _, err := c.Backoff(); err != nil {
		return err
	}

	if _, err := c.Networks(); err != nil {
		return err
	}

	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Wait != nil && !isValidWait(*cfg.Wait) {
		return fmt.Errorf("invalid wait in config file: %s (must be 'sent', 'confirmed' or 'ensured')", *cfg.Wait)
	}

	if cfg.WaitTimeout != nil {
		if _, err := time.ParseDuration(*cfg.WaitTimeout); err != nil {
			return fmt.Errorf("invalid wait_timeout in config file: %s", *cfg.WaitTimeout)
		}
	}

	if p := cfg.Poll; p != nil {
		for key, value := range map[string]*string{"poll.interval": p.Interval, "poll.max_interval": p.MaxInterval} {
			if value == nil {
				continue
			}
			if d, err := time.ParseDuration(*value); err != nil || d <= 0 {
				return fmt.Errorf("invalid %s in config file: %s (must be a positive duration)", key, *value)
			}
		}
		if p.Multiplier != nil && *p.Multiplier < 1 {
			return fmt.Errorf("invalid poll.multiplier in config file: %v (must be >= 1)", *p.Multiplier)
		}
		if p.Jitter != nil && (*p.Jitter < 0 || *p.Jitter > 1) {
			return fmt.Errorf("invalid poll.jitter in config file: %v (must be 0-1)", *p.Jitter)
		}
	}

	for name, chain := range cfg.Chains {
		if chain == nil {
			continue
		}
		if chain.RPC != nil && *chain.RPC == "" {
			return fmt.Errorf("invalid chains.%s.rpc in config file: must not be empty", name)
		}
		if chain.ChainID != nil && *chain.ChainID == 0 {
			return fmt.Errorf("invalid chains.%s.chain_id in config file: must not be 0", name)
		}
		if _, preset := transaction.Presets()[name]; !preset && chain.ChainID == nil {
			return fmt.Errorf("chains.%s: chain_id is required for chains without a preset", name)
		}
	}

	return nil
}
