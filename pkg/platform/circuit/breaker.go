// Package circuit provides a count-based circuit breaker for switching
// between a primary and a fallback dependency. It has no timers: the owner
// keeps calling RecordSuccess/RecordFailure from its own probe or traffic,
// and the breaker answers which side to use.
package circuit

import "sync"

// State is the breaker position.
type State int

const (
	// StateClosed routes traffic to the primary.
	StateClosed State = iota
	// StateOpen routes traffic to the fallback.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Change reports a state transition caused by a Record call. Both fields
// false means the call did not move the breaker.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker tracks consecutive failures and successes. A run of failures opens
// it; a run of successes closes it again. Safe for concurrent use.
type Breaker struct {
	name string

	mu               sync.Mutex
	failureThreshold int
	successThreshold int
	failures         int
	successes        int
	open             bool
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// breaker.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// New creates a closed breaker. Defaults: 5 failures to open, 1 success to
// close.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the identifier given at construction, for logs and metrics.
func (b *Breaker) Name() string { return b.name }

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return StateOpen
	}
	return StateClosed
}

// IsOpen reports whether traffic should use the fallback.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// RecordFailure notes a primary failure. It returns whether the fallback
// should now be used, and the transition if this call opened the breaker.
func (b *Breaker) RecordFailure() (useFallback bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.open {
		return true, Change{}
	}
	b.failures++
	if b.failures >= b.failureThreshold {
		b.open = true
		b.failures = 0
		return true, Change{Opened: true}
	}
	return false, Change{}
}

// RecordSuccess notes a primary success. It returns whether the primary
// should now be used, and the transition if this call closed the breaker.
func (b *Breaker) RecordSuccess() (usePrimary bool, change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if !b.open {
		return true, Change{}
	}
	b.successes++
	if b.successes >= b.successThreshold {
		b.open = false
		b.successes = 0
		return true, Change{Closed: true}
	}
	return false, Change{}
}

// Reset forces the breaker closed and clears all counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.failures = 0
	b.successes = 0
}
