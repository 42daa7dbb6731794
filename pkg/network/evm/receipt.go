// pkg/network/evm/receipt.go
package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReverted is returned when a transaction is mined with a failed status.
var ErrReverted = errors.New("transaction reverted")

// errPending keeps the poll loop going.
var errPending = errors.New("not enough confirmations yet")

// ReceiptReader is the subset of a node client needed to follow a transaction.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// sentTx is the handle returned for a broadcast transaction. It polls the node
// until the receipt is buried under the requested number of blocks.
type sentTx struct {
	hash    common.Hash
	reader  ReceiptReader
	backoff Backoff
	timeout time.Duration
	logger  log.Logger
}

func (h *sentTx) Hash() string {
	return h.hash.Hex()
}

// WaitForConfirmations blocks until the transaction has at least depth
// confirmations, counting the inclusion block as the first. A receipt that
// disappears (reorg) puts the wait back into the pending state.
func (h *sentTx) WaitForConfirmations(ctx context.Context, depth uint64) error {
	if depth == 0 {
		depth = 1
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	op := func() error {
		done, err := h.check(ctx, depth)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errPending
		}
		return nil
	}
	notify := func(_ error, next time.Duration) {
		h.logger.Debug("receipt not final yet", "tx", h.hash.Hex(), "depth", depth, "retry_in", next)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(h.backoff.NewBackOff(), ctx), notify)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrReverted) {
		return fmt.Errorf("waiting for %s: %w", h.hash.Hex(), ctx.Err())
	}
	return err
}

func (h *sentTx) check(ctx context.Context, depth uint64) (bool, error) {
	receipt, err := h.reader.TransactionReceipt(ctx, h.hash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			h.logger.Debug("receipt query failed", "tx", h.hash.Hex(), "error", err)
		}
		return false, nil
	}
	if receipt == nil || receipt.BlockNumber == nil {
		return false, nil
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, fmt.Errorf("%w: %s in block %s", ErrReverted, h.hash.Hex(), receipt.BlockNumber)
	}

	head, err := h.reader.BlockNumber(ctx)
	if err != nil {
		h.logger.Debug("block number query failed", "tx", h.hash.Hex(), "error", err)
		return false, nil
	}

	mined := receipt.BlockNumber.Uint64()
	if head < mined {
		return false, nil
	}
	confirmations := head - mined + 1
	h.logger.Debug("receipt found", "tx", h.hash.Hex(), "block", mined, "confirmations", confirmations, "want", depth)
	return confirmations >= depth, nil
}
