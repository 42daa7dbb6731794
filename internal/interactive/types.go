package interactive

import (
	"fmt"
	"strings"
)

// Summary is what the user is asked to confirm before a transaction is sent.
type Summary struct {
	Chain         string   `json:"chain"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to"`
	Method        string   `json:"method,omitempty"`
	Args          []string `json:"args,omitempty"`
	Value         string   `json:"value"` // human units, e.g. "0.5"
	Confirmations uint64   `json:"confirmations"`
}

// MethodItem represents a contract method for display in promptui.
type MethodItem struct {
	Name      string
	Signature string
	Payable   bool
	Inputs    []ArgumentItem
}

// ArgumentItem is one declared method input.
type ArgumentItem struct {
	Name string
	Type string
}

// String returns display string for promptui.
func (m MethodItem) String() string {
	if m.Payable {
		return m.Signature + " (payable)"
	}
	return m.Signature
}

// IsList reports whether the input is an array or slice type.
func (a ArgumentItem) IsList() bool {
	return strings.HasSuffix(a.Type, "]")
}

// Label returns the prompt label for the input.
func (a ArgumentItem) Label() string {
	name := a.Name
	if name == "" {
		name = "arg"
	}
	if a.IsList() {
		return fmt.Sprintf("%s (%s, comma separated)", name, a.Type)
	}
	return fmt.Sprintf("%s (%s)", name, a.Type)
}
