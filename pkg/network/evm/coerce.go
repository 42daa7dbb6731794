// pkg/network/evm/coerce.go
package evm

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CoerceArguments converts loosely typed values (strings, JSON numbers, plain
// Go ints) into the Go types the ABI encoder expects for each input.
func CoerceArguments(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("argument count mismatch: got %d, want %d", len(args), len(inputs))
	}
	out := make([]any, len(args))
	for i, input := range inputs {
		v, err := coerceValue(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceValue(t abi.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	target := t.GetType()
	if reflect.TypeOf(v) == target {
		return v, nil
	}

	switch t.T {
	case abi.AddressTy:
		return toAddress(v)
	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, target, n)
	case abi.BoolTy:
		if s, ok := v.(string); ok {
			return strconv.ParseBool(s)
		}
	case abi.StringTy:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String(), nil
		}
	case abi.BytesTy:
		return toBytes(v)
	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(target).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, target, v)
	default:
		// tuples and function types are handed to the encoder unchanged
		return v, nil
	}
	return nil, fmt.Errorf("cannot use %T", v)
}

func coerceList(t abi.Type, target reflect.Type, v any) (any, error) {
	src := reflect.ValueOf(v)
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	n := src.Len()

	var out reflect.Value
	if t.T == abi.ArrayTy {
		if n != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, n)
		}
		out = reflect.New(target).Elem()
	} else {
		out = reflect.MakeSlice(target, n, n)
	}

	for i := 0; i < n; i++ {
		elem, err := coerceValue(*t.Elem, src.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func toAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case string:
		if !common.IsHexAddress(a) {
			return common.Address{}, fmt.Errorf("invalid address: %q", a)
		}
		return common.HexToAddress(a), nil
	case []byte:
		if len(a) != common.AddressLength {
			return common.Address{}, fmt.Errorf("invalid address length: %d", len(a))
		}
		return common.BytesToAddress(a), nil
	case *common.Address:
		if a == nil {
			return common.Address{}, fmt.Errorf("missing value")
		}
		return *a, nil
	}
	return common.Address{}, fmt.Errorf("cannot use %T as address", v)
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		if !strings.HasPrefix(b, "0x") && !strings.HasPrefix(b, "0X") {
			return nil, fmt.Errorf("hex string must start with 0x: %q", b)
		}
		return hexutil.Decode("0x" + b[2:])
	case common.Hash:
		return b.Bytes(), nil
	}
	return nil, fmt.Errorf("cannot use %T as bytes", v)
}

// ParseInteger parses a base-10 or 0x-prefixed hexadecimal integer string.
func ParseInteger(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("integer cannot be empty")
	}

	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return nil, fmt.Errorf("invalid integer: %s", s)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("missing value")
		}
		return new(big.Int).Set(n), nil
	case string:
		return ParseInteger(n)
	case json.Number:
		return ParseInteger(n.String())
	case float64:
		return floatToBigInt(n)
	case float32:
		return floatToBigInt(float64(n))
	case interface{ BigInt() *big.Int }:
		b := n.BigInt()
		if b == nil {
			return nil, fmt.Errorf("missing value")
		}
		return b, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("cannot use %T as integer", v)
}

func floatToBigInt(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("not an integer: %v", f)
	}
	n, _ := new(big.Float).SetFloat64(f).Int(nil)
	return n, nil
}

// fitInteger range-checks n against the ABI width and converts it to the
// native Go type the encoder uses for that width.
func fitInteger(t abi.Type, target reflect.Type, n *big.Int) (any, error) {
	var lo, hi *big.Int
	if t.T == abi.UintTy {
		lo = new(big.Int)
		hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(t.Size)), big.NewInt(1))
	} else {
		half := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		lo = new(big.Int).Neg(half)
		hi = new(big.Int).Sub(half, big.NewInt(1))
	}
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%s out of range for %s", n, t.String())
	}

	if target == reflect.TypeOf((*big.Int)(nil)) {
		return n, nil
	}
	out := reflect.New(target).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}
