// pkg/network/evm/abi.go
package evm

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// Contract is a parsed contract ABI usable as a transaction.ContractInterface.
type Contract struct {
	abi abi.ABI
}

var (
	_ transaction.ContractInterface = (*Contract)(nil)
	_ transaction.Fragment          = (*Method)(nil)
)

// ParseABI parses a JSON ABI definition.
func ParseABI(data []byte) (*Contract, error) {
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &Contract{abi: parsed}, nil
}

// LoadABI reads and parses a JSON ABI file.
func LoadABI(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ABI file: %w", err)
	}
	return ParseABI(data)
}

// NewContract wraps an already parsed ABI.
func NewContract(parsed abi.ABI) *Contract {
	return &Contract{abi: parsed}
}

// ABI returns the underlying go-ethereum ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// FindMethod looks a method up by name. Overloaded methods are keyed the way
// go-ethereum keys them: the first overload keeps its name, later ones get a
// numeric suffix (transfer0, transfer1).
func (c *Contract) FindMethod(name string) (transaction.Fragment, bool) {
	m, ok := c.abi.Methods[name]
	if !ok {
		return nil, false
	}
	return &Method{method: m}, true
}

// Methods returns the declared method names, sorted.
func (c *Contract) Methods() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for _, m := range c.abi.Methods {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// Method is a single ABI method fragment.
type Method struct {
	method abi.Method
}

func (m *Method) Name() string {
	return m.method.RawName
}

// InputNames returns the declared input names in order.
func (m *Method) InputNames() []string {
	names := make([]string, len(m.method.Inputs))
	for i, in := range m.method.Inputs {
		names[i] = in.Name
	}
	return names
}

// InputTypes returns the canonical ABI type of each input, e.g. "uint256".
func (m *Method) InputTypes() []string {
	types := make([]string, len(m.method.Inputs))
	for i, in := range m.method.Inputs {
		types[i] = in.Type.String()
	}
	return types
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (m *Method) Signature() string {
	return m.method.Sig
}

// Payable reports whether the method accepts native value.
func (m *Method) Payable() bool {
	return m.method.Payable || m.method.StateMutability == "payable"
}

// ReadOnly reports whether the method is a view or pure function.
func (m *Method) ReadOnly() bool {
	return m.method.IsConstant()
}

// Coerce converts args to the Go types expected by the method inputs.
func (m *Method) Coerce(args []any) ([]any, error) {
	return CoerceArguments(m.method.Inputs, args)
}

// Pack encodes the method selector and coerced arguments as calldata.
func (m *Method) Pack(args []any) ([]byte, error) {
	coerced, err := m.Coerce(args)
	if err != nil {
		return nil, err
	}
	packed, err := m.method.Inputs.Pack(coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", m.method.Sig, err)
	}
	return append(append([]byte{}, m.method.ID...), packed...), nil
}
