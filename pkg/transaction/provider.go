// pkg/transaction/provider.go
package transaction

import (
	"context"
	"math/big"
)

// Provider is the RPC side of a chain route. Implementations put exactly one
// transaction on-chain per Send/Call and hand back a SentHandle for it.
type Provider interface {
	// ActiveSigner returns the signer transactions are sent from.
	ActiveSigner(ctx context.Context) (Signer, error)

	// SendTransaction sends a plain value transfer.
	SendTransaction(ctx context.Context, req TransferRequest) (SentHandle, error)

	// CallContractMethod invokes a contract method by name, attaching req.Value.
	CallContractMethod(ctx context.Context, req MethodCall) (SentHandle, error)
}

// Signer is the account a Provider signs with.
type Signer interface {
	Address(ctx context.Context) (string, error)
}

// SentHandle is the provider's view of an accepted transaction.
type SentHandle interface {
	// Hash returns the transaction hash. An empty hash means nothing was sent.
	Hash() string

	// WaitForConfirmations blocks until depth blocks (including the one holding
	// the transaction) confirm it, or returns the reason it never will.
	WaitForConfirmations(ctx context.Context, depth uint64) error
}

// WalletSession is the wallet side of a chain route: which network the
// signer is currently attached to.
type WalletSession interface {
	IsConnectedTo(ctx context.Context, chain Chain) (bool, error)
	SwitchTo(ctx context.Context, chain Chain) error
	Address(ctx context.Context) (string, error)
}

// ContractInterface describes the callable methods of a contract.
type ContractInterface interface {
	FindMethod(name string) (Fragment, bool)
}

// Fragment is a single callable entry of a ContractInterface.
type Fragment interface {
	Name() string
	// InputNames returns the declared parameter names in declaration order.
	InputNames() []string
}

// TransferRequest describes a plain value transfer.
type TransferRequest struct {
	To    string
	Value *big.Int
}

// MethodCall describes a contract method invocation with positional arguments.
type MethodCall struct {
	Address  string
	Contract ContractInterface
	Fragment Fragment
	Args     []any
	Value    *big.Int
}
