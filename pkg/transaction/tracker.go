// pkg/transaction/tracker.go
package transaction

import (
	"context"
	"fmt"
)

// ShallowConfirmations is the depth that moves a transaction to Confirmed.
const ShallowConfirmations uint64 = 1

// waitResult is the outcome of one confirmation wait.
type waitResult struct {
	depth uint64
	err   error
}

// startWaits issues the shallow and the deep wait at once so a provider that
// already sees the deep depth answers both from one mined state.
func (t *Transaction) startWaits(ctx context.Context, handle SentHandle, depth uint64) (<-chan waitResult, <-chan waitResult) {
	if depth < ShallowConfirmations {
		depth = ShallowConfirmations
	}

	shallow := make(chan waitResult, 1)
	deep := make(chan waitResult, 1)
	go func() {
		shallow <- waitResult{ShallowConfirmations, handle.WaitForConfirmations(ctx, ShallowConfirmations)}
	}()
	go func() {
		deep <- waitResult{depth, handle.WaitForConfirmations(ctx, depth)}
	}()
	return shallow, deep
}

// track applies the wait results in lifecycle order and drives a sent
// transaction to Ensured or Failed. It is the only writer after Sent.
func (t *Transaction) track(shallow, deep <-chan waitResult) {
	if r := <-shallow; r.err != nil {
		t.fail(r)
		return
	}
	t.advance(MilestoneConfirmed, nil)

	if r := <-deep; r.err != nil {
		t.fail(r)
		return
	}
	t.advance(MilestoneEnsured, nil)
}

func (t *Transaction) fail(r waitResult) {
	err := fmt.Errorf("%w: waiting for %d confirmations: %w", ErrConfirmationFailed, r.depth, r.err)
	t.logger.Warn("confirmation wait rejected", "txHash", t.ID(), "depth", r.depth, "error", r.err)
	t.advance(MilestoneFailed, err)
}
