package interactive

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
)

// CallSelection is the outcome of the interactive call flow.
type CallSelection struct {
	Method string
	Params []any
	Value  string
}

// Selector walks the user through picking a method and its arguments.
type Selector struct {
	contract *evm.Contract

	// prompts, swappable in tests
	selectMethod   func([]MethodItem) (MethodItem, error)
	promptArgument func(ArgumentItem) (string, error)
	promptValue    func(string) (string, error)
}

// NewSelector creates a Selector for contract.
func NewSelector(contract *evm.Contract) *Selector {
	return &Selector{
		contract:       contract,
		selectMethod:   SelectMethod,
		promptArgument: PromptArgument,
		promptValue:    PromptValue,
	}
}

// MethodItems lists the state-changing methods of contract in name order.
func MethodItems(contract *evm.Contract) []MethodItem {
	var items []MethodItem
	for _, name := range contract.Methods() {
		fragment, ok := contract.FindMethod(name)
		if !ok {
			continue
		}
		method := fragment.(*evm.Method)
		if method.ReadOnly() {
			continue
		}

		names, types := method.InputNames(), method.InputTypes()
		inputs := make([]ArgumentItem, len(names))
		for i := range names {
			inputs[i] = ArgumentItem{Name: names[i], Type: types[i]}
		}
		items = append(items, MethodItem{
			Name:      name,
			Signature: method.Signature(),
			Payable:   method.Payable(),
			Inputs:    inputs,
		})
	}
	return items
}

// RunCallFlow prompts for a method, each of its inputs and, for payable
// methods, the value. defaultValue prefills the value prompt.
func (s *Selector) RunCallFlow(defaultValue string) (*CallSelection, error) {
	method, err := s.selectMethod(MethodItems(s.contract))
	if err != nil {
		return nil, err
	}

	selection := &CallSelection{Method: method.Name, Value: defaultValue}
	for _, input := range method.Inputs {
		raw, err := s.promptArgument(input)
		if err != nil {
			return nil, err
		}
		selection.Params = append(selection.Params, ParseArgument(input, raw))
	}

	if method.Payable {
		value, err := s.promptValue(defaultValue)
		if err != nil {
			return nil, err
		}
		selection.Value = value
	}

	return selection, nil
}

// ParseArgument turns prompt input into a parameter value. List inputs are
// split on commas; everything else is passed through as a string for ABI
// coercion.
func ParseArgument(arg ArgumentItem, raw string) any {
	if !arg.IsList() {
		return raw
	}
	list := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// handleInterruptError converts promptui errors to appropriate error types.
func handleInterruptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return &CancellationError{Message: "operation cancelled"}
	}
	if errors.Is(err, promptui.ErrEOF) {
		return &CancellationError{Message: "operation cancelled (EOF)"}
	}
	return err
}

// CancellationError indicates the user cancelled the operation.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string {
	return e.Message
}

// IsCancellation returns true if the error is a cancellation error.
func IsCancellation(err error) bool {
	var cancel *CancellationError
	return errors.As(err, &cancel)
}
