// pkg/transaction/args.go
package transaction

import (
	"fmt"
	"reflect"
)

// ResolveArguments finds the fragment for method and returns the positional
// argument list for it.
//
// Sequence params ([]any or any other slice/array) are used verbatim and are
// assumed to already be in declaration order. Mapping params (any map keyed by
// string) are reordered by the fragment's declared input names; a declared
// input missing from the map resolves to nil.
func ResolveArguments(contract ContractInterface, method string, params any) (Fragment, []any, error) {
	if contract == nil {
		return nil, nil, fmt.Errorf("%w: %q (no contract interface)", ErrMethodNotFound, method)
	}
	fragment, ok := contract.FindMethod(method)
	if !ok || fragment == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrMethodNotFound, method)
	}

	args, err := positionalArgs(fragment, params)
	if err != nil {
		return nil, nil, err
	}
	return fragment, args, nil
}

func positionalArgs(fragment Fragment, params any) ([]any, error) {
	switch p := params.(type) {
	case nil:
		if len(fragment.InputNames()) == 0 {
			return []any{}, nil
		}
		return nil, fmt.Errorf("%w: %s expects %d arguments, got none", ErrInvalidParameterShape, fragment.Name(), len(fragment.InputNames()))
	case []any:
		out := make([]any, len(p))
		copy(out, p)
		return out, nil
	case map[string]any:
		return byInputName(fragment, func(name string) any { return p[name] }), nil
	}

	v := reflect.ValueOf(params)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = v.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		return byInputName(fragment, func(name string) any {
			item := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
			if !item.IsValid() {
				return nil
			}
			return item.Interface()
		}), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidParameterShape, params)
}

func byInputName(fragment Fragment, lookup func(string) any) []any {
	names := fragment.InputNames()
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = lookup(name)
	}
	return out
}
