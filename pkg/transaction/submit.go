// pkg/transaction/submit.go
package transaction

import (
	"context"
	"fmt"
)

// SubmitOption attaches callbacks for a single Submit call.
type SubmitOption func(*submitOptions)

type submitOptions struct {
	callbacks Callbacks
	safe      Callback
}

// WithSent subscribes fn to the sent milestone.
func WithSent(fn Callback) SubmitOption {
	return func(o *submitOptions) { o.callbacks.Sent = fn }
}

// WithConfirmed subscribes fn to the confirmed milestone.
func WithConfirmed(fn Callback) SubmitOption {
	return func(o *submitOptions) { o.callbacks.Confirmed = fn }
}

// WithEnsured subscribes fn to the ensured milestone.
func WithEnsured(fn Callback) SubmitOption {
	return func(o *submitOptions) { o.callbacks.Ensured = fn }
}

// WithSafe is an alias of WithEnsured.
func WithSafe(fn Callback) SubmitOption {
	return func(o *submitOptions) { o.safe = fn }
}

// WithFailed subscribes fn to the failed milestone.
func WithFailed(fn Callback) SubmitOption {
	return func(o *submitOptions) { o.callbacks.Failed = fn }
}

// Submit puts the transaction on-chain and returns once it reached Sent.
// Confirmation tracking continues in the background; observe it with On,
// Confirmation, Ensurance or Failure.
//
// Structural problems (unknown chain, bad value, unknown method, bad params)
// are returned before any provider or wallet call and leave the transaction
// submittable. A failed network switch or a rejected submission is returned
// as well; it uses up the one attempt and no milestone fires. Callbacks given
// here are attached only once the transaction was sent.
func (t *Transaction) Submit(ctx context.Context, opts ...SubmitOption) (*Transaction, error) {
	var o submitOptions
	for _, opt := range opts {
		opt(&o)
	}

	t.submitMu.Lock()
	if t.submitted {
		t.submitMu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	route, call, err := t.prepare()
	if err != nil {
		t.submitMu.Unlock()
		return nil, err
	}
	t.submitted = true
	t.submitMu.Unlock()

	if err := t.ensureNetwork(ctx, route); err != nil {
		t.logger.Error("network preflight failed", "error", err)
		return nil, err
	}

	handle, err := t.dispatch(ctx, route, call)
	if err != nil {
		t.logger.Error("submission failed", "error", err)
		return nil, err
	}

	hash := handle.Hash()
	t.mu.Lock()
	t.id = hash
	t.url = route.Chain.TxURL(hash)
	t.mu.Unlock()

	t.events.subscribeAll(t, o.callbacks)
	t.events.subscribe(t, MilestoneSafe, o.safe)

	shallow, deep := t.startWaits(context.WithoutCancel(ctx), handle, route.Chain.Confirmations)
	t.advance(MilestoneSent, nil)
	go t.track(shallow, deep)

	return t, nil
}

// prepare runs the structural phase: chain lookup, value normalization and
// argument resolution. It makes no provider or wallet call.
func (t *Transaction) prepare() (Route, *MethodCall, error) {
	route, err := t.registry.Lookup(t.chain)
	if err != nil {
		return Route{}, nil, err
	}

	t.mu.RLock()
	normalized := t.normalized
	t.mu.RUnlock()
	if !normalized {
		if err := t.normalize(route.Chain.Decimals); err != nil {
			return Route{}, nil, err
		}
	}

	if t.method == "" {
		return route, nil, nil
	}
	fragment, args, err := ResolveArguments(t.contract, t.method, t.params)
	if err != nil {
		return Route{}, nil, err
	}
	return route, &MethodCall{
		Address:  t.to,
		Contract: t.contract,
		Fragment: fragment,
		Args:     args,
	}, nil
}

// ensureNetwork makes sure the wallet is attached to the route's chain,
// switching if needed.
func (t *Transaction) ensureNetwork(ctx context.Context, route Route) error {
	connected, err := route.Wallet.IsConnectedTo(ctx, route.Chain)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetworkSwitchFailed, route.Chain.Name, err)
	}
	if connected {
		return nil
	}

	t.logger.Info("switching wallet network", "chainId", route.Chain.ChainID)
	if err := route.Wallet.SwitchTo(ctx, route.Chain); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetworkSwitchFailed, route.Chain.Name, err)
	}
	return nil
}

// dispatch records the origin address and issues the one RPC call that
// sends the transaction.
func (t *Transaction) dispatch(ctx context.Context, route Route, call *MethodCall) (SentHandle, error) {
	signer, err := route.Provider.ActiveSigner(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: no active signer: %w", ErrSubmissionFailed, err)
	}
	from, err := signer.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: signer address: %w", ErrSubmissionFailed, err)
	}

	t.mu.Lock()
	t.from = from
	value := t.value.BigInt()
	t.mu.Unlock()

	var handle SentHandle
	if call != nil {
		call.Value = value
		t.logger.Debug("calling contract method", "to", t.to, "method", call.Fragment.Name(), "from", from)
		handle, err = route.Provider.CallContractMethod(ctx, *call)
	} else {
		t.logger.Debug("sending transfer", "to", t.to, "value", value.String(), "from", from)
		handle, err = route.Provider.SendTransaction(ctx, TransferRequest{To: t.to, Value: value})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if handle == nil || handle.Hash() == "" {
		return nil, fmt.Errorf("%w: provider returned no transaction", ErrSubmissionFailed)
	}
	return handle, nil
}
