// cmd/web3tx/errors.go
package main

import (
	"errors"
	"fmt"

	"github.com/altuslabsxyz/web3tx/internal/interactive"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// Exit codes, so scripts can tell where a transaction stopped.
const (
	exitGeneric      = 1
	exitInvalid      = 2 // rejected before anything was sent
	exitNotSent      = 3 // network switch or submission failed
	exitNotConfirmed = 4 // sent, but a confirmation wait failed
	exitCancelled    = 130
)

// errNotConfirmedByUser is returned when the user declines the confirmation prompt.
var errNotConfirmedByUser = &interactive.CancellationError{Message: "transaction not sent"}

// errNeedsConfirmation is returned in non-interactive mode without --yes.
var errNeedsConfirmation = fmt.Errorf("refusing to send without confirmation: pass --yes in non-interactive mode")

func exitCode(err error) int {
	switch {
	case interactive.IsCancellation(err):
		return exitCancelled
	case transaction.IsStructural(err):
		return exitInvalid
	case errors.Is(err, transaction.ErrNetworkSwitchFailed), errors.Is(err, transaction.ErrSubmissionFailed):
		return exitNotSent
	case errors.Is(err, transaction.ErrConfirmationFailed):
		return exitNotConfirmed
	default:
		return exitGeneric
	}
}
