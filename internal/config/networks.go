package config

import (
	"fmt"
	"sort"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// Network is a chain definition paired with the RPC endpoint used to reach it.
type Network struct {
	Chain transaction.Chain
	RPC   string
}

// Networks merges the built-in presets with the chain tables of the config
// file, sorted by name. Presets without an RPC endpoint are still listed.
func (c *EffectiveConfig) Networks() ([]Network, error) {
	byName := make(map[string]*Network)
	for name, chain := range transaction.Presets() {
		byName[name] = &Network{Chain: chain}
	}

	for name, override := range c.Chains {
		if override == nil {
			continue
		}
		n, ok := byName[name]
		if !ok {
			if override.ChainID == nil {
				return nil, fmt.Errorf("chains.%s: chain_id is required for chains without a preset", name)
			}
			n = &Network{Chain: transaction.Chain{
				Name:          name,
				Decimals:      transaction.DefaultDecimals,
				Confirmations: transaction.DefaultConfirmations,
			}}
			byName[name] = n
		}
		if override.RPC != nil {
			n.RPC = *override.RPC
		}
		if override.ChainID != nil {
			n.Chain.ChainID = *override.ChainID
		}
		if override.Decimals != nil {
			n.Chain.Decimals = *override.Decimals
		}
		if override.ExplorerTxURL != nil {
			n.Chain.ExplorerTxURL = *override.ExplorerTxURL
		}
		if override.Confirmations != nil {
			n.Chain.Confirmations = *override.Confirmations
		}
	}

	networks := make([]Network, 0, len(byName))
	for _, n := range byName {
		networks = append(networks, *n)
	}
	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Chain.Name < networks[j].Chain.Name
	})
	return networks, nil
}

// Network returns the resolved definition for one chain name.
func (c *EffectiveConfig) Network(name string) (Network, error) {
	networks, err := c.Networks()
	if err != nil {
		return Network{}, err
	}
	for _, n := range networks {
		if n.Chain.Name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("%w: %s", transaction.ErrUnsupportedChain, name)
}
