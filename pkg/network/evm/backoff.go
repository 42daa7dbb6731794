// pkg/network/evm/backoff.go
package evm

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPollInterval is the receipt polling cadence.
const DefaultPollInterval = 2 * time.Second

// Backoff describes a receipt polling schedule. Every wait gets its own
// backoff.BackOff since those are stateful.
type Backoff interface {
	NewBackOff() backoff.BackOff
}

// ConstantBackoff waits the same interval between every poll.
type ConstantBackoff struct{ Every time.Duration }

func (b ConstantBackoff) NewBackOff() backoff.BackOff {
	every := b.Every
	if every <= 0 {
		every = DefaultPollInterval
	}
	return backoff.NewConstantBackOff(every)
}

// ExponentialBackoff grows delays geometrically up to Max and optionally
// randomizes each delay by +/- Jitter.
type ExponentialBackoff struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
	Jitter     float64
}

func (b ExponentialBackoff) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.Initial
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = 500 * time.Millisecond
	}
	eb.Multiplier = math.Max(b.Multiplier, 1)
	eb.RandomizationFactor = math.Min(math.Max(b.Jitter, 0), 1)
	eb.MaxInterval = b.Max
	if eb.MaxInterval <= 0 {
		eb.MaxInterval = time.Duration(math.MaxInt64)
	}
	// waits are bounded by their context, never by elapsed time
	eb.MaxElapsedTime = 0
	eb.Reset()
	return eb
}
