// Package retrypolicy implements backoff policies for retryable operations
package retrypolicy

//go:generate mockgen -source=retrypolicy.go -destination=mock/mockretrypolicy.go -package=mockretrypolicy

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// Done tells the caller to stop retrying
const Done time.Duration = -1

const (
	defaultInitialInterval    = 50 * time.Millisecond
	defaultBackoffCoefficient = 2.0
	defaultMaximumInterval    = 10 * time.Second
	defaultExpirationInterval = time.Minute
	defaultMaximumAttempts    = 10
)

var (
	// DefaultRetry doubles the delay from 50ms capped at 10s, giving up
	// after ten attempts or a minute of elapsed time
	DefaultRetry, _ = New(
		WithInitialInterval(defaultInitialInterval),
		WithBackoffCoefficient(defaultBackoffCoefficient),
		WithMaximumInterval(defaultMaximumInterval),
		WithExpirationInterval(defaultExpirationInterval),
		WithMaximumAttempts(defaultMaximumAttempts),
	)

	// NoRetry never allows a retry
	NoRetry, _ = New()
)

type (
	// Retry defines the calculation of the next delay before retrying an operation
	Retry interface {
		CalculateNextDelay() time.Duration
	}

	// Option applies a setting to the policy under construction
	Option func(policy *policy) error

	policy struct {
		currentAttempt     int
		maximumAttempt     int
		initialInterval    time.Duration
		backoffCoefficient float64
		maximumInterval    time.Duration
		expirationInterval time.Duration
		startTime          time.Time
	}
)

// New returns a retry policy built from the given options
func New(options ...Option) (Retry, error) {
	policy := new(policy)
	for _, option := range options {
		if err := option(policy); err != nil {
			return nil, err
		}
	}
	return policy, nil
}

// WithInitialInterval sets the delay before the first retry
func WithInitialInterval(initialInterval time.Duration) Option {
	return func(policy *policy) error {
		if initialInterval < 0 {
			return errors.New("initial interval must not be negative")
		}
		policy.initialInterval = initialInterval
		return nil
	}
}

// WithBackoffCoefficient sets the multiplier applied to the delay after each attempt
func WithBackoffCoefficient(backoffCoefficient float64) Option {
	return func(policy *policy) error {
		if backoffCoefficient < 1 {
			return errors.New("backoff coefficient must be at least one")
		}
		policy.backoffCoefficient = backoffCoefficient
		return nil
	}
}

// WithMaximumInterval caps the delay between retries
func WithMaximumInterval(maximumInterval time.Duration) Option {
	return func(policy *policy) error {
		if maximumInterval < 0 {
			return errors.New("maximum interval must not be negative")
		}
		policy.maximumInterval = maximumInterval
		return nil
	}
}

// WithExpirationInterval bounds the total elapsed time spent retrying
func WithExpirationInterval(expirationInterval time.Duration) Option {
	return func(policy *policy) error {
		if expirationInterval < 0 {
			return errors.New("expiration interval must not be negative")
		}
		policy.expirationInterval = expirationInterval
		return nil
	}
}

// WithMaximumAttempts bounds the number of retries
func WithMaximumAttempts(maximumAttempts int) Option {
	return func(policy *policy) error {
		if maximumAttempts < 0 {
			return errors.New("maximum attempts must not be negative")
		}
		policy.maximumAttempt = maximumAttempts
		return nil
	}
}

// CalculateNextDelay returns the delay before the next attempt, or Done when
// the attempts, the expiration interval or the intervals themselves are spent.
// The elapsed time clock starts on the first call.
func (p *policy) CalculateNextDelay() time.Duration {
	if p.startTime.IsZero() {
		p.startTime = time.Now()
	}

	if p.currentAttempt >= p.maximumAttempt {
		return Done
	}

	if p.expirationInterval > 0 && time.Since(p.startTime) > p.expirationInterval {
		return Done
	}

	nextInterval := float64(p.initialInterval) * math.Pow(p.backoffCoefficient, float64(p.currentAttempt))
	if nextInterval <= 0 {
		return Done
	}

	if p.maximumInterval > 0 {
		nextInterval = math.Min(nextInterval, float64(p.maximumInterval))
	}

	p.currentAttempt++

	// jitter downwards, at most twenty percent below the computed interval
	return time.Duration(nextInterval * (0.8 + 0.2*rand.Float64()))
}
