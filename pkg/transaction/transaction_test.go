// pkg/transaction/transaction_test.go
package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTransfer(t *testing.T, f *fixture, cfg Config) *Transaction {
	t.Helper()
	cfg.Registry = f.registry
	if cfg.Chain == "" {
		cfg.Chain = BSC.Name
	}
	if cfg.To == "" {
		cfg.To = testTo
	}
	tx, err := New(cfg)
	require.NoError(t, err)
	return tx
}

func TestNew_Pending(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{
		Contract: routerContract,
		Method:   "route",
		Params:   routeParams,
	})

	require.Equal(t, StatePending, tx.State())
	require.Equal(t, "bsc", tx.Chain())
	require.Equal(t, testTo, tx.To())
	require.Equal(t, "route", tx.Method())
	require.True(t, tx.IsContractInteraction())
	require.Empty(t, tx.ID())
	require.Empty(t, tx.URL())
	require.Empty(t, tx.From())
	require.NotEmpty(t, tx.Ref())
	require.True(t, tx.Value().IsZero())
}

func TestNew_PresetFrom(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{From: "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4"})
	require.Equal(t, "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4", tx.From())

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, testFrom, tx.From())
}

func TestNew_RejectsTooPreciseValue(t *testing.T) {
	f := newFixture()
	amount, err := ParseDecimal("0.0000000000000000001")
	require.NoError(t, err)

	_, err = New(Config{Chain: BSC.Name, To: testTo, Value: amount, Registry: f.registry})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestSubmit_SimpleTransfer(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{Value: Float(0.123)})

	submitted, err := tx.Submit(context.Background())
	require.NoError(t, err)
	require.Same(t, tx, submitted)

	require.Len(t, f.provider.transfers, 1)
	require.Equal(t, testTo, f.provider.transfers[0].To)
	require.Equal(t, "123000000000000000", f.provider.transfers[0].Value.String())
	require.Empty(t, f.provider.calls)

	require.Equal(t, StateSent, tx.State())
	require.Equal(t, testFrom, tx.From())
	require.Equal(t, testHash, tx.ID())
	require.Equal(t, "https://bscscan.com/tx/"+testHash, tx.URL())
}

func TestSubmit_ContractInteraction(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{
		Contract: routerContract,
		Method:   "route",
		Params:   routeParams,
		Value:    BaseUnits(weiOf("7640757987460190")),
	})

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	require.Empty(t, f.provider.transfers)
	require.Len(t, f.provider.calls, 1)
	call := f.provider.calls[0]
	require.Equal(t, testTo, call.Address)
	require.Equal(t, "route", call.Fragment.Name())
	require.Equal(t, "7640757987460190", call.Value.String())
	require.Equal(t, []any{
		routeParams["path"],
		routeParams["amounts"],
		routeParams["addresses"],
		routeParams["plugins"],
		routeParams["data"],
	}, call.Args)
	require.Equal(t, testFrom, tx.From())
	require.Equal(t, testHash, tx.ID())
}

func TestSubmit_MapAndSequenceParamsDispatchTheSame(t *testing.T) {
	positional := []any{
		routeParams["path"],
		routeParams["amounts"],
		routeParams["addresses"],
		routeParams["plugins"],
		routeParams["data"],
	}

	var dispatched [][]any
	for _, params := range []any{routeParams, positional} {
		f := newFixture()
		tx := newTransfer(t, f, Config{Contract: routerContract, Method: "route", Params: params})
		_, err := tx.Submit(context.Background())
		require.NoError(t, err)
		require.Len(t, f.provider.calls, 1)
		dispatched = append(dispatched, f.provider.calls[0].Args)
	}
	require.Equal(t, dispatched[0], dispatched[1])
}

func TestSubmit_UnsupportedChain(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{Chain: "solana", Value: Float(1)})

	_, err := tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrUnsupportedChain)
	require.True(t, IsStructural(err))

	require.Empty(t, f.journal.list(), "no provider or wallet interaction expected")
	require.Empty(t, tx.From())
	require.Empty(t, tx.ID())
	require.Equal(t, StatePending, tx.State())
}

func TestSubmit_StructuralErrorsBeforeAnyRPC(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown method", Config{Contract: routerContract, Method: "swap", Params: []any{}}, ErrMethodNotFound},
		{"missing contract", Config{Method: "route", Params: []any{}}, ErrMethodNotFound},
		{"bad params", Config{Contract: routerContract, Method: "route", Params: 42}, ErrInvalidParameterShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tx := newTransfer(t, f, tt.cfg)

			_, err := tx.Submit(context.Background())
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, f.journal.list())
			require.Equal(t, StatePending, tx.State())
		})
	}
}

func TestSubmit_ValueNormalizedWhenChainRegisteredLater(t *testing.T) {
	f := newFixture()
	chain := Chain{Name: "sixchain", ChainID: 77, Decimals: 6}
	tx := newTransfer(t, f, Config{Chain: chain.Name, Value: Float(1.5)})
	require.True(t, tx.Value().IsZero())

	f.wallet.chainID = chain.ChainID
	require.NoError(t, f.registry.Register(chain, f.provider, f.wallet))

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1500000", tx.Value().String())
	require.Equal(t, "1500000", f.provider.transfers[0].Value.String())
	require.Empty(t, tx.URL(), "chain has no explorer template")
}

func TestSubmit_SwitchesNetworkBeforeDispatch(t *testing.T) {
	f := newFixture()
	f.wallet.chainID = Ethereum.ChainID
	tx := newTransfer(t, f, Config{Value: Float(0.123)})

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		"isConnectedTo:56",
		"switchTo:56",
		"activeSigner",
		"sendTransaction",
	}, f.journal.list())
}

func TestSubmit_SwitchFailureRejectsWithoutMilestones(t *testing.T) {
	f := newFixture()
	f.wallet.chainID = Ethereum.ChainID
	f.wallet.switchErr = errors.New("user rejected the request")

	sent, sentCh := signal()
	failed, failedCh := signal()
	tx := newTransfer(t, f, Config{Value: Float(0.123), Sent: sent, Failed: failed})

	_, err := tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrNetworkSwitchFailed)
	require.Contains(t, err.Error(), "user rejected the request")

	require.Equal(t, []string{"isConnectedTo:56", "switchTo:56"}, f.journal.list())
	require.Empty(t, f.provider.transfers)
	require.Empty(t, tx.ID())
	require.Equal(t, StatePending, tx.State())
	require.True(t, silent(sentCh))
	require.True(t, silent(failedCh))
}

func TestSubmit_NetworkCheckErrorIsSwitchFailure(t *testing.T) {
	f := newFixture()
	f.wallet.checkErr = errors.New("wallet locked")
	tx := newTransfer(t, f, Config{})

	_, err := tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrNetworkSwitchFailed)
	require.Empty(t, f.provider.transfers)
}

func TestSubmit_ProviderFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"send rejected", func(f *fixture) { f.provider.sendErr = errors.New("insufficient funds") }},
		{"empty handle", func(f *fixture) { f.provider.handle = nil }},
		{"empty hash", func(f *fixture) { f.provider.handle = newFakeHandle("") }},
		{"no signer", func(f *fixture) { f.provider.signerErr = errors.New("no accounts") }},
		{"signer address", func(f *fixture) { f.provider.signer.err = errors.New("locked") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)
			sent, sentCh := signal()
			tx := newTransfer(t, f, Config{Sent: sent})

			_, err := tx.Submit(context.Background())
			require.ErrorIs(t, err, ErrSubmissionFailed)
			require.False(t, IsStructural(err))
			require.Empty(t, tx.ID())
			require.Equal(t, StatePending, tx.State())
			require.True(t, silent(sentCh))
		})
	}
}

func TestSubmit_ContractCallRejected(t *testing.T) {
	f := newFixture()
	f.provider.callErr = errors.New("execution reverted")
	tx := newTransfer(t, f, Config{Contract: routerContract, Method: "route", Params: routeParams})

	_, err := tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmissionFailed)
	require.Contains(t, err.Error(), "execution reverted")
}

func TestSubmit_OnlyOnce(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{})

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	_, err = tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.Len(t, f.provider.transfers, 1)
}

func TestSubmit_SentCallbacksFromConfigAndSubmit(t *testing.T) {
	f := newFixture()
	seen := make(chan string, 4)
	tx := newTransfer(t, f, Config{
		Sent: func(tx *Transaction) { seen <- "config:" + tx.ID() },
	})

	_, err := tx.Submit(context.Background(), WithSent(func(tx *Transaction) {
		seen <- "submit:" + tx.State().String()
	}))
	require.NoError(t, err)

	require.Equal(t, "config:"+testHash, <-seen)
	require.Equal(t, "submit:Sent", <-seen)
	select {
	case extra := <-seen:
		t.Fatalf("unexpected extra callback %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmit_SentCallbackMayAwaitConfirmation(t *testing.T) {
	f := newFixture()
	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, nil)
	tx := newTransfer(t, f, Config{})

	result := make(chan error, 1)
	start := time.Now()
	_, err := tx.Submit(context.Background(), WithSent(func(tx *Transaction) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := tx.Confirmation(ctx)
		result <- err
	}))
	require.NoError(t, err)
	require.Less(t, time.Since(start), time.Second, "Submit must not wait for callbacks")
	require.NoError(t, <-result)
}

func TestSubmit_FailedAttemptAttachesNoCallbacks(t *testing.T) {
	f := newFixture()
	f.wallet.chainID = Ethereum.ChainID
	f.wallet.switchErr = errors.New("user rejected the request")
	sent, _ := signal()
	tx := newTransfer(t, f, Config{Sent: sent})

	_, err := tx.Submit(context.Background(), WithSent(sent), WithConfirmed(sent), WithSafe(sent))
	require.ErrorIs(t, err, ErrNetworkSwitchFailed)

	require.Len(t, tx.events.event(MilestoneSent).subscribers, 1, "only the constructor callback")
	require.Empty(t, tx.events.event(MilestoneConfirmed).subscribers)
	require.Empty(t, tx.events.event(MilestoneEnsured).subscribers)
}

func TestSubmit_ConcurrentCallsMakeOneAttempt(t *testing.T) {
	f := newFixture()
	chain := Chain{Name: "late", ChainID: BSC.ChainID, Decimals: 6}
	tx := newTransfer(t, f, Config{Chain: chain.Name, Value: Float(2)})

	// structural failures leave the transaction submittable
	_, err := tx.Submit(context.Background())
	require.ErrorIs(t, err, ErrUnsupportedChain)
	require.NoError(t, f.registry.Register(chain, f.provider, f.wallet))

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := tx.Submit(context.Background())
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < callers; i++ {
		err := <-errs
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadySubmitted)
	}
	require.Equal(t, 1, succeeded)
	require.Len(t, f.provider.transfers, 1)
	require.Equal(t, "2000000", tx.Value().String())
}

func TestLifecycle_ConfirmedThenEnsured(t *testing.T) {
	f := newFixture()
	milestones := make(chan string, 8)
	record := func(name string) Callback {
		return func(*Transaction) { milestones <- name }
	}

	tx := newTransfer(t, f, Config{
		Sent:      record("sent"),
		Confirmed: record("confirmed"),
		Ensured:   record("ensured"),
	})
	_, err := tx.Submit(context.Background(),
		WithConfirmed(record("submit-confirmed")),
		WithEnsured(record("submit-ensured")),
	)
	require.NoError(t, err)
	require.Equal(t, "sent", <-milestones)

	f.handle.resolve(1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := tx.Confirmation(ctx)
	require.NoError(t, err)
	require.Same(t, tx, got)
	require.Equal(t, StateConfirmed, tx.State())
	require.Equal(t, "confirmed", <-milestones)
	require.Equal(t, "submit-confirmed", <-milestones)

	f.handle.resolve(DefaultConfirmations, nil)
	_, err = tx.Ensurance(ctx)
	require.NoError(t, err)
	require.Equal(t, StateEnsured, tx.State())
	require.Equal(t, "ensured", <-milestones)
	require.Equal(t, "submit-ensured", <-milestones)
	require.Nil(t, tx.Err())
}

func TestLifecycle_ConfirmationAfterTheFactIsImmediate(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.Confirmation(ctx)
	require.NoError(t, err)

	// A cancelled context proves the accessor does not block.
	done, stop := context.WithCancel(context.Background())
	stop()
	for i := 0; i < 3; i++ {
		got, err := tx.Confirmation(done)
		require.NoError(t, err)
		require.Same(t, tx, got)
	}
	require.True(t, tx.Reached(MilestoneConfirmed))
}

func TestLifecycle_DeepWaitAnsweredFirst(t *testing.T) {
	f := newFixture()
	milestones := make(chan string, 4)
	tx := newTransfer(t, f, Config{
		Confirmed: func(*Transaction) { milestones <- "confirmed" },
		Ensured:   func(*Transaction) { milestones <- "ensured" },
	})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(DefaultConfirmations, nil)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateSent, tx.State(), "ensured must wait for confirmed")

	f.handle.resolve(1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.Ensurance(ctx)
	require.NoError(t, err)
	require.Equal(t, "confirmed", <-milestones)
	require.Equal(t, "ensured", <-milestones)
}

func TestLifecycle_ShallowFailure(t *testing.T) {
	f := newFixture()
	ensured, ensuredCh := signal()
	failed, failedCh := signal()
	confirmed, confirmedCh := signal()
	tx := newTransfer(t, f, Config{Ensured: ensured, Confirmed: confirmed})

	_, err := tx.Submit(context.Background(), WithFailed(failed))
	require.NoError(t, err)

	cause := errors.New("transaction reverted")
	f.handle.resolve(1, cause)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := tx.Failure(ctx)
	require.NoError(t, err)
	require.Same(t, tx, got)
	require.True(t, received(failedCh))

	require.Equal(t, StateFailed, tx.State())
	require.ErrorIs(t, tx.Err(), ErrConfirmationFailed)
	require.ErrorIs(t, tx.Err(), cause)
	require.Equal(t, testHash, tx.ID(), "a failed transaction keeps its hash")

	// The deep wait succeeding afterwards changes nothing.
	f.handle.resolve(DefaultConfirmations, nil)

	short, stop := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer stop()
	_, err = tx.Ensurance(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	_, err = tx.SafeConfirmation(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.True(t, silent(ensuredCh))
	require.True(t, silent(confirmedCh))
	require.Equal(t, StateFailed, tx.State())
}

func TestLifecycle_DeepFailureAfterConfirmed(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, errors.New("dropped after reorg"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.Failure(ctx)
	require.NoError(t, err)
	require.True(t, tx.Reached(MilestoneConfirmed))
	require.False(t, tx.Reached(MilestoneEnsured))
	require.Equal(t, StateFailed, tx.State())
}

func TestLifecycle_FailedAndEnsuredAreIndependentSlots(t *testing.T) {
	f := newFixture()
	ensured, ensuredCh := signal()
	failed, failedCh := signal()
	tx := newTransfer(t, f, Config{Ensured: ensured, Failed: failed})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, nil)

	require.True(t, received(ensuredCh))
	require.True(t, silent(failedCh))
}

func TestLifecycle_SafeAliases(t *testing.T) {
	f := newFixture()
	fromConfig, configCh := signal()
	fromSubmit, submitCh := signal()
	tx := newTransfer(t, f, Config{Safe: fromConfig})
	_, err := tx.Submit(context.Background(), WithSafe(fromSubmit))
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.SafeConfirmation(ctx)
	require.NoError(t, err)
	require.True(t, received(configCh))
	require.True(t, received(submitCh))
}

func TestLifecycle_LateSubscriberReplaysOnce(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	late, lateCh := signal()
	tx.On(MilestoneSent, late)
	got := <-lateCh
	require.Same(t, tx, got)
	require.True(t, silent(lateCh))
}

func TestLifecycle_ConfirmedCallbackMayAwaitEnsurance(t *testing.T) {
	f := newFixture()
	result := make(chan error, 1)
	tx := newTransfer(t, f, Config{
		Confirmed: func(tx *Transaction) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, err := tx.Ensurance(ctx)
			result <- err
		},
	})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, nil)

	require.NoError(t, <-result)
	require.Equal(t, StateEnsured, tx.State())
}

func TestLifecycle_CallbacksFollowMilestoneOrder(t *testing.T) {
	f := newFixture()
	f.handle.resolve(1, nil)
	f.handle.resolve(DefaultConfirmations, nil)

	order := make(chan string, 8)
	record := func(name string) Callback {
		return func(*Transaction) {
			time.Sleep(5 * time.Millisecond)
			order <- name
		}
	}
	tx := newTransfer(t, f, Config{
		Sent:      record("sent"),
		Confirmed: record("confirmed"),
		Ensured:   record("ensured"),
	})
	_, err := tx.Submit(context.Background(), WithSent(record("sent-2")), WithEnsured(record("ensured-2")))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.Ensurance(ctx)
	require.NoError(t, err)

	for _, want := range []string{"sent", "sent-2", "confirmed", "ensured", "ensured-2"} {
		require.Equal(t, want, <-order)
	}
}

func TestLifecycle_ManyWaiters(t *testing.T) {
	f := newFixture()
	tx := newTransfer(t, f, Config{})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	const waiters = 16
	results := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, err := tx.Confirmation(ctx)
			results <- err
		}()
	}

	f.handle.resolve(1, nil)
	for i := 0; i < waiters; i++ {
		require.NoError(t, <-results)
	}
}

func TestLifecycle_CustomDepth(t *testing.T) {
	f := newFixture()
	chain := Chain{Name: "fast", ChainID: BSC.ChainID, Confirmations: 3}
	require.NoError(t, f.registry.Register(chain, f.provider, f.wallet))

	tx := newTransfer(t, f, Config{Chain: "fast"})
	_, err := tx.Submit(context.Background())
	require.NoError(t, err)

	f.handle.resolve(1, nil)
	f.handle.resolve(3, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = tx.Ensurance(ctx)
	require.NoError(t, err)
}
