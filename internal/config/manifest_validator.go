// internal/config/manifest_validator.go
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the result of validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// Error returns a formatted string of all validation errors
func (r *ValidationResult) Error() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	var errStrs []string
	for _, e := range r.Errors {
		errStrs = append(errStrs, e.Error())
	}
	return strings.Join(errStrs, "; ")
}

func (r *ValidationResult) fail(field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// YAMLValidator validates YAMLTransaction manifests
type YAMLValidator struct {
	ValidWaits []string
}

// NewYAMLValidator creates a new validator with default settings
func NewYAMLValidator() *YAMLValidator {
	return &YAMLValidator{
		ValidWaits: ValidWaits,
	}
}

// Validate validates a YAMLTransaction and returns a ValidationResult
func (v *YAMLValidator) Validate(tx *YAMLTransaction) *ValidationResult {
	if tx == nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "transaction", Message: "cannot be nil"}},
		}
	}

	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if tx.APIVersion != SupportedAPIVersion {
		result.fail("apiVersion", "unsupported apiVersion %q, expected %q", tx.APIVersion, SupportedAPIVersion)
	}
	if tx.Kind != SupportedKind {
		result.fail("kind", "unsupported kind %q, expected %q", tx.Kind, SupportedKind)
	}
	if tx.Metadata.Name == "" {
		result.fail("metadata.name", "is required")
	}

	spec := tx.Spec
	if spec.Chain == "" {
		result.warn("spec.chain", "not set, the configured default chain is used")
	}

	if spec.To == "" {
		result.fail("spec.to", "is required")
	} else if !common.IsHexAddress(spec.To) {
		result.fail("spec.to", "invalid address %q", spec.To)
	}
	if spec.From != "" && !common.IsHexAddress(spec.From) {
		result.fail("spec.from", "invalid address %q", spec.From)
	}

	switch {
	case spec.Value != "" && spec.ValueWei != "":
		result.fail("spec.value", "value and valueWei are mutually exclusive")
	case spec.Value != "":
		if _, err := transaction.ParseDecimal(spec.Value); err != nil {
			result.fail("spec.value", "%v", err)
		}
	case spec.ValueWei != "":
		if n, err := evm.ParseInteger(spec.ValueWei); err != nil {
			result.fail("spec.valueWei", "%v", err)
		} else if n.Sign() < 0 {
			result.fail("spec.valueWei", "must not be negative")
		}
	}

	switch {
	case spec.Method != "" && spec.ABI == "":
		result.fail("spec.abi", "is required when method is set")
	case spec.Method == "" && spec.ABI != "":
		result.fail("spec.method", "is required when abi is set")
	case spec.Method == "" && spec.Params != nil:
		result.fail("spec.params", "only valid for contract calls")
	}
	switch spec.Params.(type) {
	case nil, []any, map[string]any:
	default:
		result.fail("spec.params", "must be a sequence or a mapping")
	}

	if spec.Wait != "" {
		valid := false
		for _, w := range v.ValidWaits {
			if spec.Wait == w {
				valid = true
				break
			}
		}
		if !valid {
			result.fail("spec.wait", "must be one of %s, got %q", strings.Join(v.ValidWaits, ", "), spec.Wait)
		}
	}

	return result
}
