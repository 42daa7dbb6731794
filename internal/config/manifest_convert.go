// internal/config/manifest_convert.go
package config

import (
	"fmt"
	"path/filepath"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// ABILoader loads a contract interface from a file path.
type ABILoader func(path string) (transaction.ContractInterface, error)

// LoadEVMABI is the default ABILoader.
func LoadEVMABI(path string) (transaction.ContractInterface, error) {
	return evm.LoadABI(path)
}

// ToConfig converts the manifest into a transaction.Config. defaultChain
// fills in a missing spec.chain.
func (t *YAMLTransaction) ToConfig(defaultChain string, loadABI ABILoader) (transaction.Config, error) {
	spec := t.Spec
	cfg := transaction.Config{
		Chain:  spec.Chain,
		From:   spec.From,
		To:     spec.To,
		Method: spec.Method,
		Params: spec.Params,
	}
	if cfg.Chain == "" {
		cfg.Chain = defaultChain
	}

	switch {
	case spec.Value != "":
		value, err := transaction.ParseDecimal(spec.Value)
		if err != nil {
			return transaction.Config{}, fmt.Errorf("%s: %w", t.Metadata.Name, err)
		}
		cfg.Value = value
	case spec.ValueWei != "":
		n, err := evm.ParseInteger(spec.ValueWei)
		if err != nil {
			return transaction.Config{}, fmt.Errorf("%s: %w", t.Metadata.Name, err)
		}
		cfg.Value = transaction.BaseUnits(n)
	}

	if spec.ABI != "" {
		path := spec.ABI
		if !filepath.IsAbs(path) && t.Source != "" {
			path = filepath.Join(filepath.Dir(t.Source), path)
		}
		contract, err := loadABI(path)
		if err != nil {
			return transaction.Config{}, fmt.Errorf("%s: %w", t.Metadata.Name, err)
		}
		cfg.Contract = contract
	}

	return cfg, nil
}
