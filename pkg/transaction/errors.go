// pkg/transaction/errors.go
package transaction

import "errors"

// Sentinel errors for the transaction lifecycle.
// Returned errors wrap one of these, so callers should match with errors.Is.
var (
	// ErrUnsupportedChain is returned when the chain has no registered route.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrInvalidParameterShape is returned when params are neither a sequence nor a mapping.
	ErrInvalidParameterShape = errors.New("params have wrong type")

	// ErrMethodNotFound is returned when no contract fragment matches the method name.
	ErrMethodNotFound = errors.New("method not found in contract interface")

	// ErrInvalidValue is returned when the value cannot be expressed in integer base units.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNetworkSwitchFailed is returned when the wallet could not be moved to the target chain.
	ErrNetworkSwitchFailed = errors.New("network switch failed")

	// ErrSubmissionFailed is returned when the provider rejected the submission
	// or returned an empty result.
	ErrSubmissionFailed = errors.New("submitting transaction failed")

	// ErrConfirmationFailed is recorded when a confirmation wait rejects after the
	// transaction was sent. It never comes out of Submit; see Transaction.Err.
	ErrConfirmationFailed = errors.New("confirmation failed")

	// ErrAlreadySubmitted is returned by a second Submit on the same transaction.
	ErrAlreadySubmitted = errors.New("transaction already submitted")
)

// IsStructural reports whether err was detected before any provider interaction.
func IsStructural(err error) bool {
	return errors.Is(err, ErrUnsupportedChain) ||
		errors.Is(err, ErrInvalidParameterShape) ||
		errors.Is(err, ErrMethodNotFound) ||
		errors.Is(err, ErrInvalidValue)
}
