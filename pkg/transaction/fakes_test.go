// pkg/transaction/fakes_test.go
package transaction

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	testFrom = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	testTo   = "0xae60aC8e69414C2Dc362D0e6a03af643d1D85b92"
	testHash = "0x2f1a5b8e1f0c7c5e7f5d4e3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a0f9e"
)

// journal records calls across fakes so tests can assert ordering.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// fakeHandle lets tests resolve each confirmation depth by hand.
type fakeHandle struct {
	hash string

	mu    sync.Mutex
	waits map[uint64]chan error
}

func newFakeHandle(hash string) *fakeHandle {
	return &fakeHandle{hash: hash, waits: make(map[uint64]chan error)}
}

func (h *fakeHandle) ch(depth uint64) chan error {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.waits[depth]
	if !ok {
		c = make(chan error, 1)
		h.waits[depth] = c
	}
	return c
}

func (h *fakeHandle) Hash() string { return h.hash }

func (h *fakeHandle) WaitForConfirmations(ctx context.Context, depth uint64) error {
	select {
	case err := <-h.ch(depth):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *fakeHandle) resolve(depth uint64, err error) {
	h.ch(depth) <- err
}

type fakeSigner struct {
	address string
	err     error
}

func (s fakeSigner) Address(ctx context.Context) (string, error) {
	return s.address, s.err
}

// fakeProvider records dispatched transfers and calls.
type fakeProvider struct {
	journal   *journal
	handle    SentHandle
	signer    fakeSigner
	signerErr error
	sendErr   error
	callErr   error

	mu        sync.Mutex
	transfers []TransferRequest
	calls     []MethodCall
}

func newFakeProvider(j *journal, handle SentHandle) *fakeProvider {
	return &fakeProvider{journal: j, handle: handle, signer: fakeSigner{address: testFrom}}
}

func (p *fakeProvider) ActiveSigner(ctx context.Context) (Signer, error) {
	p.journal.add("activeSigner")
	if p.signerErr != nil {
		return nil, p.signerErr
	}
	return p.signer, nil
}

func (p *fakeProvider) SendTransaction(ctx context.Context, req TransferRequest) (SentHandle, error) {
	p.journal.add("sendTransaction")
	p.mu.Lock()
	p.transfers = append(p.transfers, req)
	p.mu.Unlock()
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	return p.handle, nil
}

func (p *fakeProvider) CallContractMethod(ctx context.Context, req MethodCall) (SentHandle, error) {
	p.journal.add("callContractMethod:%s", req.Fragment.Name())
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	if p.callErr != nil {
		return nil, p.callErr
	}
	return p.handle, nil
}

// fakeWallet is attached to a single chain id at a time.
type fakeWallet struct {
	journal   *journal
	chainID   uint64
	switchErr error
	checkErr  error
}

func (w *fakeWallet) IsConnectedTo(ctx context.Context, chain Chain) (bool, error) {
	w.journal.add("isConnectedTo:%d", chain.ChainID)
	if w.checkErr != nil {
		return false, w.checkErr
	}
	return w.chainID == chain.ChainID, nil
}

func (w *fakeWallet) SwitchTo(ctx context.Context, chain Chain) error {
	w.journal.add("switchTo:%d", chain.ChainID)
	if w.switchErr != nil {
		return w.switchErr
	}
	w.chainID = chain.ChainID
	return nil
}

func (w *fakeWallet) Address(ctx context.Context) (string, error) {
	return testFrom, nil
}

type fakeFragment struct {
	name   string
	inputs []string
}

func (f fakeFragment) Name() string         { return f.name }
func (f fakeFragment) InputNames() []string { return f.inputs }

type fakeContract map[string]fakeFragment

func (c fakeContract) FindMethod(name string) (Fragment, bool) {
	f, ok := c[name]
	if !ok {
		return nil, false
	}
	return f, true
}

// routerContract mirrors a payment router with a five-argument route method.
var routerContract = fakeContract{
	"route":    {name: "route", inputs: []string{"path", "amounts", "addresses", "plugins", "data"}},
	"withdraw": {name: "withdraw", inputs: []string{"token", "amount"}},
	"ETH":      {name: "ETH"},
}

// fixture bundles a registry with one fake route for BSC.
type fixture struct {
	journal  *journal
	handle   *fakeHandle
	provider *fakeProvider
	wallet   *fakeWallet
	registry *Registry
}

func newFixture() *fixture {
	j := &journal{}
	h := newFakeHandle(testHash)
	f := &fixture{
		journal:  j,
		handle:   h,
		provider: newFakeProvider(j, h),
		wallet:   &fakeWallet{journal: j, chainID: BSC.ChainID},
		registry: NewRegistry(),
	}
	if err := f.registry.Register(BSC, f.provider, f.wallet); err != nil {
		panic(err)
	}
	return f
}

// signal returns a callback that reports each invocation on a channel.
func signal() (Callback, chan *Transaction) {
	ch := make(chan *Transaction, 8)
	return func(tx *Transaction) { ch <- tx }, ch
}

func received(ch chan *Transaction) bool {
	select {
	case <-ch:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func silent(ch chan *Transaction) bool {
	select {
	case <-ch:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

func weiOf(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return v
}
