// cmd/web3tx/wiring.go
package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"os"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"github.com/altuslabsxyz/web3tx/internal/config"
	"github.com/altuslabsxyz/web3tx/internal/interactive"
	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// EnvKeystorePassword holds the keystore passphrase for non-interactive use.
const EnvKeystorePassword = "WEB3TX_KEYSTORE_PASSWORD"

// dialBackend opens RPC endpoints; tests replace it with a simulated chain.
var dialBackend evm.DialFunc = evm.DialEthClient

// newLogger builds the structured logger handed to the engine. Library logs
// stay quiet unless --verbose is set.
func newLogger(cfg *config.EffectiveConfig, w io.Writer) log.Logger {
	level := zerolog.WarnLevel
	if cfg.Verbose.Value {
		level = zerolog.DebugLevel
	}

	opts := []log.Option{
		log.LevelOption(level),
		log.ColorOption(!cfg.NoColor.Value),
	}
	if cfg.JSON.Value {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...)
}

// engine is everything a command needs to submit transactions.
type engine struct {
	cfg      *config.EffectiveConfig
	session  *evm.Session
	registry *transaction.Registry
	networks map[string]config.Network
	logger   log.Logger
}

// newEngine loads the signing key and registers every known network with
// one evm.Session acting as both provider and wallet.
func newEngine(cfg *config.EffectiveConfig, logger log.Logger) (*engine, error) {
	key, err := loadSigningKey(cfg)
	if err != nil {
		return nil, err
	}

	networks, err := cfg.Networks()
	if err != nil {
		return nil, err
	}
	backoff, err := cfg.Backoff()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.WaitTimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []evm.Option{
		evm.WithDialer(dialBackend),
		evm.WithBackoff(backoff),
		evm.WithWaitTimeout(timeout),
		evm.WithLogger(logger),
	}
	for _, n := range networks {
		if n.RPC != "" {
			opts = append(opts, evm.WithEndpoint(n.Chain.ChainID, n.RPC))
		}
	}

	session, err := evm.NewSession(key, opts...)
	if err != nil {
		return nil, err
	}

	e := &engine{
		cfg:      cfg,
		session:  session,
		registry: transaction.NewRegistry(),
		networks: make(map[string]config.Network, len(networks)),
		logger:   logger,
	}
	for _, n := range networks {
		if err := e.registry.Register(n.Chain, session, session); err != nil {
			session.Close()
			return nil, err
		}
		e.networks[n.Chain.Name] = n
	}
	return e, nil
}

// Close releases the RPC connection.
func (e *engine) Close() {
	e.session.Close()
}

// network returns the resolved network for a chain name.
func (e *engine) network(name string) (config.Network, error) {
	n, ok := e.networks[name]
	if !ok {
		return config.Network{}, fmt.Errorf("%w: %q", transaction.ErrUnsupportedChain, name)
	}
	return n, nil
}

// signer returns the address transactions are sent from.
func (e *engine) signer(ctx context.Context) string {
	addr, err := e.session.Address(ctx)
	if err != nil {
		return ""
	}
	return addr
}

// loadSigningKey reads the key from the configured keystore, or from the
// environment variable named by signer.key_env.
func loadSigningKey(cfg *config.EffectiveConfig) (*ecdsa.PrivateKey, error) {
	if path := cfg.Keystore.Value; path != "" {
		passphrase, ok := os.LookupEnv(EnvKeystorePassword)
		if !ok {
			var err error
			passphrase, err = interactive.PromptPassphrase(path)
			if err != nil {
				return nil, err
			}
		}
		return evm.LoadKeystore(path, passphrase)
	}

	envName := cfg.KeyEnv.Value
	raw := os.Getenv(envName)
	if raw == "" {
		return nil, fmt.Errorf("no signing key: set %s or configure signer.keystore", envName)
	}
	key, err := evm.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envName, err)
	}
	return key, nil
}
