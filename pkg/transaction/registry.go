// pkg/transaction/registry.go
package transaction

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Default chain parameters.
const (
	DefaultDecimals      uint8  = 18
	DefaultConfirmations uint64 = 12

	// ExplorerIDPlaceholder is replaced by the transaction hash in Chain.ExplorerTxURL.
	ExplorerIDPlaceholder = "{id}"
)

// Chain holds the static parameters of a supported blockchain.
type Chain struct {
	// Name is the chain tag transactions refer to, e.g. "ethereum".
	Name string

	// ChainID is the EVM chain id the wallet must be attached to.
	ChainID uint64

	// Decimals is the precision of the native currency.
	Decimals uint8

	// ExplorerTxURL is a link template containing ExplorerIDPlaceholder.
	ExplorerTxURL string

	// Confirmations is the depth at which a transaction counts as ensured.
	Confirmations uint64
}

// Built-in chain presets.
var (
	Ethereum = Chain{
		Name:          "ethereum",
		ChainID:       1,
		Decimals:      DefaultDecimals,
		ExplorerTxURL: "https://etherscan.io/tx/" + ExplorerIDPlaceholder,
		Confirmations: DefaultConfirmations,
	}
	BSC = Chain{
		Name:          "bsc",
		ChainID:       56,
		Decimals:      DefaultDecimals,
		ExplorerTxURL: "https://bscscan.com/tx/" + ExplorerIDPlaceholder,
		Confirmations: DefaultConfirmations,
	}
)

// Presets returns the built-in chains keyed by name.
func Presets() map[string]Chain {
	return map[string]Chain{
		Ethereum.Name: Ethereum,
		BSC.Name:      BSC,
	}
}

// TxURL renders the explorer link for a transaction hash.
func (c Chain) TxURL(id string) string {
	if c.ExplorerTxURL == "" || id == "" {
		return ""
	}
	return strings.ReplaceAll(c.ExplorerTxURL, ExplorerIDPlaceholder, id)
}

func (c Chain) withDefaults() Chain {
	if c.Decimals == 0 {
		c.Decimals = DefaultDecimals
	}
	if c.Confirmations == 0 {
		c.Confirmations = DefaultConfirmations
	}
	return c
}

// Route is everything needed to submit on one chain.
type Route struct {
	Chain    Chain
	Provider Provider
	Wallet   WalletSession
}

// Registry maps chain names to routes.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Route
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Route)}
}

// DefaultRegistry is used by transactions that do not name a Registry.
var DefaultRegistry = NewRegistry()

// Register adds or replaces the route for chain.Name.
func (r *Registry) Register(chain Chain, provider Provider, wallet WalletSession) error {
	if chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	if provider == nil {
		return fmt.Errorf("provider is required for chain %s", chain.Name)
	}
	if wallet == nil {
		return fmt.Errorf("wallet session is required for chain %s", chain.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[chain.Name] = Route{
		Chain:    chain.withDefaults(),
		Provider: provider,
		Wallet:   wallet,
	}
	return nil
}

// Lookup returns the route for a chain name.
func (r *Registry) Lookup(name string) (Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnsupportedChain, name)
	}
	return route, nil
}

// Chains returns the registered chains sorted by name.
func (r *Registry) Chains() []Chain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chains := make([]Chain, 0, len(r.routes))
	for _, route := range r.routes {
		chains = append(chains, route.Chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].Name < chains[j].Name })
	return chains
}

// Register adds a route to DefaultRegistry.
func Register(chain Chain, provider Provider, wallet WalletSession) error {
	return DefaultRegistry.Register(chain, provider, wallet)
}
