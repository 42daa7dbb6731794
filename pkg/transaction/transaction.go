// pkg/transaction/transaction.go
package transaction

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
)

// Config describes a transaction before submission.
type Config struct {
	// Chain is the chain tag the transaction targets, e.g. "bsc".
	Chain string

	// From optionally presets the origin address. Submit overwrites it with
	// the active signer's address.
	From string

	// To is the recipient or contract address.
	To string

	// Contract and Method select a contract interaction. Without a Method the
	// transaction is a plain value transfer.
	Contract ContractInterface
	Method   string

	// Params is either an ordered sequence or a map from parameter name to value.
	Params any

	// Value is the native currency attached to the transaction.
	Value Amount

	// Milestone callbacks. Safe is an alias of Ensured; both run if both are set.
	Sent      Callback
	Confirmed Callback
	Ensured   Callback
	Safe      Callback
	Failed    Callback

	// Registry resolves Chain. Defaults to DefaultRegistry.
	Registry *Registry

	// Logger defaults to a no-op logger.
	Logger log.Logger
}

// Transaction is a single submission attempt and its observed lifecycle.
// It is safe to observe from multiple goroutines.
type Transaction struct {
	ref      string
	chain    string
	to       string
	contract ContractInterface
	method   string
	params   any
	amount   Amount
	registry *Registry
	logger   log.Logger
	events   *broadcaster

	// submitMu serializes Submit through its structural phase.
	submitMu  sync.Mutex
	submitted bool

	mu         sync.RWMutex
	from       string
	id         string
	url        string
	value      sdkmath.Int
	normalized bool
	state      State
	err        error
}

// New creates a pending transaction. If the chain is already registered, a
// decimal Value is normalized here and a malformed one is rejected; otherwise
// normalization happens in Submit.
func New(cfg Config) (*Transaction, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	tx := &Transaction{
		ref:      uuid.NewString(),
		chain:    cfg.Chain,
		to:       cfg.To,
		contract: cfg.Contract,
		method:   cfg.Method,
		params:   cfg.Params,
		amount:   cfg.Value,
		registry: registry,
		events:   newBroadcaster(),
		from:     cfg.From,
		value:    sdkmath.ZeroInt(),
		state:    StatePending,
	}
	tx.logger = logger.With("module", "transaction", "ref", tx.ref, "chain", cfg.Chain)

	if !cfg.Value.IsDecimal() {
		if err := tx.normalize(0); err != nil {
			return nil, err
		}
	} else if route, err := registry.Lookup(cfg.Chain); err == nil {
		if err := tx.normalize(route.Chain.Decimals); err != nil {
			return nil, err
		}
	}

	tx.events.subscribeAll(tx, Callbacks{
		Sent:      cfg.Sent,
		Confirmed: cfg.Confirmed,
		Ensured:   cfg.Ensured,
		Failed:    cfg.Failed,
	})
	tx.events.subscribe(tx, MilestoneSafe, cfg.Safe)

	return tx, nil
}

func (t *Transaction) normalize(decimals uint8) error {
	v, err := NormalizeValue(t.amount, decimals)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.value = v
	t.normalized = true
	t.mu.Unlock()
	return nil
}

// Ref returns the local correlation id of the transaction.
func (t *Transaction) Ref() string { return t.ref }

// Chain returns the chain tag.
func (t *Transaction) Chain() string { return t.chain }

// To returns the recipient or contract address.
func (t *Transaction) To() string { return t.to }

// Contract returns the contract interface, if any.
func (t *Transaction) Contract() ContractInterface { return t.contract }

// Method returns the contract method name, or "" for a transfer.
func (t *Transaction) Method() string { return t.method }

// Params returns the method parameters as given.
func (t *Transaction) Params() any { return t.params }

// IsContractInteraction returns true if a method call will be dispatched.
func (t *Transaction) IsContractInteraction() bool { return t.method != "" }

// From returns the origin address.
func (t *Transaction) From() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.from
}

// ID returns the transaction hash, or "" before the transaction was sent.
func (t *Transaction) ID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id
}

// URL returns the explorer link, or "" before the transaction was sent.
func (t *Transaction) URL() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.url
}

// Value returns the attached value in base units.
func (t *Transaction) Value() sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// State returns the current lifecycle state.
func (t *Transaction) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Err returns the confirmation failure once the transaction is Failed.
func (t *Transaction) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

func (t *Transaction) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.id == "" {
		return fmt.Sprintf("%s/%s (%s)", t.chain, t.ref, t.state)
	}
	return fmt.Sprintf("%s/%s (%s)", t.chain, t.id, t.state)
}

// On subscribes fn to milestone m. Callbacks run on the transaction's own
// delivery goroutine, one at a time, in milestone order and within a
// milestone in attach order. If m already fired, fn is queued immediately.
func (t *Transaction) On(m Milestone, fn Callback) {
	t.events.subscribe(t, m, fn)
}

// Reached reports whether milestone m has fired.
func (t *Transaction) Reached(m Milestone) bool {
	return t.events.event(m).hasOccurred()
}

// Await blocks until milestone m fires or ctx is done. It returns immediately
// if m already fired.
func (t *Transaction) Await(ctx context.Context, m Milestone) (*Transaction, error) {
	if err := t.events.event(m).wait(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Confirmation waits for the first confirming block.
func (t *Transaction) Confirmation(ctx context.Context) (*Transaction, error) {
	return t.Await(ctx, MilestoneConfirmed)
}

// Ensurance waits for the deep confirmation depth.
func (t *Transaction) Ensurance(ctx context.Context) (*Transaction, error) {
	return t.Await(ctx, MilestoneEnsured)
}

// SafeConfirmation is an alias of Ensurance.
func (t *Transaction) SafeConfirmation(ctx context.Context) (*Transaction, error) {
	return t.Await(ctx, MilestoneSafe)
}

// Failure waits for the transaction to fail after it was sent.
func (t *Transaction) Failure(ctx context.Context) (*Transaction, error) {
	return t.Await(ctx, MilestoneFailed)
}

// advance moves the transaction to next and broadcasts m. Waiters are
// released before it returns; callbacks run later on the delivery queue.
// Illegal transitions are dropped so the state never regresses.
func (t *Transaction) advance(m Milestone, cause error) bool {
	next := m.State()

	t.mu.Lock()
	if !t.state.canAdvanceTo(next) {
		prev := t.state
		t.mu.Unlock()
		t.logger.Debug("ignoring transition", "from", prev, "to", next)
		return false
	}
	t.state = next
	if cause != nil {
		t.err = cause
	}
	id := t.id
	t.mu.Unlock()

	t.logger.Info("transaction "+string(m), "txHash", id, "state", next)
	t.events.fire(m)
	return true
}
