// pkg/network/evm/session.go
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// ErrNotConnected is returned when an operation needs a node connection and
// the session has not been switched to any chain yet.
var ErrNotConnected = errors.New("session not connected")

// Backend is the node client a Session talks to. Both *ethclient.Client and
// the simulated backend's client satisfy it.
type Backend interface {
	bind.ContractBackend
	ReceiptReader
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc opens a Backend for an RPC endpoint.
type DialFunc func(ctx context.Context, rawURL string) (Backend, error)

// DialEthClient dials an RPC endpoint with go-ethereum's ethclient.
func DialEthClient(ctx context.Context, rawURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Session is a key-backed wallet attached to one chain at a time. It implements
// both transaction.Provider and transaction.WalletSession, so a single Session
// can be registered for every chain it has an endpoint for. Connections stay
// open until Close so transactions sent before a switch keep being tracked.
type Session struct {
	key     *ecdsa.PrivateKey
	address common.Address

	endpoints map[uint64]string
	dial      DialFunc
	backoff   Backoff
	timeout   time.Duration
	logger    log.Logger

	mu      sync.RWMutex
	current *connection
	conns   map[uint64]*connection
}

// connection is a backend and the chain it serves. chainID is nil until the
// node has been asked.
type connection struct {
	backend Backend
	chainID *big.Int
}

var (
	_ transaction.Provider      = (*Session)(nil)
	_ transaction.WalletSession = (*Session)(nil)
)

// Option configures a Session.
type Option func(*Session)

// WithEndpoint sets the RPC endpoint used when switching to chainID.
func WithEndpoint(chainID uint64, rawURL string) Option {
	return func(s *Session) {
		s.endpoints[chainID] = rawURL
	}
}

// WithBackend starts the session already connected to b.
func WithBackend(b Backend) Option {
	return func(s *Session) {
		s.current = &connection{backend: b}
	}
}

// WithDialer replaces the function used to open endpoints.
func WithDialer(dial DialFunc) Option {
	return func(s *Session) {
		s.dial = dial
	}
}

// WithBackoff sets the receipt polling schedule.
func WithBackoff(b Backoff) Option {
	return func(s *Session) {
		s.backoff = b
	}
}

// WithWaitTimeout bounds each confirmation wait. Zero waits indefinitely.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithLogger sets the session logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a Session signing with key.
func NewSession(key *ecdsa.PrivateKey, opts ...Option) (*Session, error) {
	if key == nil {
		return nil, fmt.Errorf("private key is required")
	}

	s := &Session{
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		endpoints: make(map[uint64]string),
		conns:     make(map[uint64]*connection),
		dial:      DialEthClient,
		backoff:   ConstantBackoff{Every: DefaultPollInterval},
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "evm", "address", s.address.Hex())
	return s, nil
}

// Address returns the checksummed signer address.
func (s *Session) Address(context.Context) (string, error) {
	return s.address.Hex(), nil
}

// ActiveSigner returns the session itself; the key never changes.
func (s *Session) ActiveSigner(context.Context) (transaction.Signer, error) {
	return s, nil
}

// Endpoint returns the configured RPC endpoint for chainID.
func (s *Session) Endpoint(chainID uint64) (string, bool) {
	u, ok := s.endpoints[chainID]
	return u, ok
}

// IsConnectedTo reports whether the current backend serves chain.
func (s *Session) IsConnectedTo(ctx context.Context, chain transaction.Chain) (bool, error) {
	id, err := s.currentChainID(ctx)
	if errors.Is(err, ErrNotConnected) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id.IsUint64() && id.Uint64() == chain.ChainID, nil
}

// SwitchTo attaches the session to chain. An existing connection to the
// chain is reused; otherwise the configured endpoint is dialed and must
// report the expected chain ID.
func (s *Session) SwitchTo(ctx context.Context, chain transaction.Chain) error {
	s.mu.Lock()
	if conn, ok := s.conns[chain.ChainID]; ok {
		s.current = conn
		s.mu.Unlock()
		s.logger.Info("switched network", "chain", chain.Name, "chain_id", chain.ChainID)
		return nil
	}
	s.mu.Unlock()

	rawURL, ok := s.endpoints[chain.ChainID]
	if !ok {
		return fmt.Errorf("no RPC endpoint configured for %s (chain ID %d)", chain.Name, chain.ChainID)
	}

	backend, err := s.dial(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", chain.Name, err)
	}
	id, err := backend.ChainID(ctx)
	if err != nil {
		closeBackend(backend)
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if !id.IsUint64() || id.Uint64() != chain.ChainID {
		closeBackend(backend)
		return fmt.Errorf("endpoint for %s reports chain ID %s, expected %d", chain.Name, id, chain.ChainID)
	}

	s.mu.Lock()
	conn, raced := s.conns[chain.ChainID]
	if !raced {
		conn = &connection{backend: backend, chainID: id}
		s.conns[chain.ChainID] = conn
	}
	s.current = conn
	s.mu.Unlock()

	if raced && conn.backend != backend {
		closeBackend(backend)
	}
	s.logger.Info("switched network", "chain", chain.Name, "chain_id", chain.ChainID)
	return nil
}

// SendTransaction transfers native value to req.To.
func (s *Session) SendTransaction(ctx context.Context, req transaction.TransferRequest) (transaction.SentHandle, error) {
	to, err := toAddress(req.To)
	if err != nil {
		return nil, err
	}
	backend, opts, err := s.transactor(ctx, req.Value)
	if err != nil {
		return nil, err
	}

	// BoundContract refuses to estimate gas against an address without code,
	// so plain transfers get their limit from the node directly.
	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{From: s.address, To: &to, Value: opts.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	opts.GasLimit = gas

	tx, err := bind.NewBoundContract(to, abi.ABI{}, backend, backend, backend).Transfer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return s.handle(tx, backend), nil
}

// CallContractMethod invokes a state-changing contract method. The contract
// and fragment must come from this package's Contract.
func (s *Session) CallContractMethod(ctx context.Context, call transaction.MethodCall) (transaction.SentHandle, error) {
	contract, ok := call.Contract.(*Contract)
	if !ok {
		return nil, fmt.Errorf("unsupported contract interface %T", call.Contract)
	}
	method, ok := call.Fragment.(*Method)
	if !ok {
		return nil, fmt.Errorf("unsupported method fragment %T", call.Fragment)
	}
	address, err := toAddress(call.Address)
	if err != nil {
		return nil, err
	}
	args, err := method.Coerce(call.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Signature(), err)
	}

	backend, opts, err := s.transactor(ctx, call.Value)
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(address, contract.abi, backend, backend, backend)
	tx, err := bound.Transact(opts, method.method.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method.Signature(), err)
	}
	return s.handle(tx, backend), nil
}

// Close releases every connection the session opened.
func (s *Session) Close() {
	s.mu.Lock()
	backends := make([]Backend, 0, len(s.conns)+1)
	for _, conn := range s.conns {
		backends = append(backends, conn.backend)
	}
	if s.current != nil && !containsBackend(backends, s.current.backend) {
		backends = append(backends, s.current.backend)
	}
	s.current = nil
	s.conns = make(map[uint64]*connection)
	s.mu.Unlock()

	for _, b := range backends {
		closeBackend(b)
	}
}

func (s *Session) transactor(ctx context.Context, value *big.Int) (Backend, *bind.TransactOpts, error) {
	backend, id, err := s.active(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(s.key, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	if value != nil {
		opts.Value = new(big.Int).Set(value)
	}
	return backend, opts, nil
}

func (s *Session) currentChainID(ctx context.Context) (*big.Int, error) {
	_, id, err := s.active(ctx)
	return id, err
}

// active returns the current backend together with the chain it serves.
func (s *Session) active(ctx context.Context) (Backend, *big.Int, error) {
	s.mu.RLock()
	conn := s.current
	var (
		backend Backend
		id      *big.Int
	)
	if conn != nil {
		backend, id = conn.backend, conn.chainID
	}
	s.mu.RUnlock()

	if conn == nil {
		return nil, nil, ErrNotConnected
	}
	if id != nil {
		return backend, id, nil
	}

	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	s.mu.Lock()
	conn.chainID = id
	if id.IsUint64() {
		if _, ok := s.conns[id.Uint64()]; !ok {
			s.conns[id.Uint64()] = conn
		}
	}
	s.mu.Unlock()
	return backend, id, nil
}

func (s *Session) handle(tx *types.Transaction, backend Backend) *sentTx {
	s.logger.Info("transaction broadcast", "tx", tx.Hash().Hex(), "nonce", tx.Nonce(), "gas", tx.Gas())
	return &sentTx{
		hash:    tx.Hash(),
		reader:  backend,
		backoff: s.backoff,
		timeout: s.timeout,
		logger:  s.logger,
	}
}

func containsBackend(list []Backend, b Backend) bool {
	for _, have := range list {
		if have == b {
			return true
		}
	}
	return false
}

func closeBackend(b Backend) {
	if c, ok := b.(interface{ Close() }); ok {
		c.Close()
	}
}
