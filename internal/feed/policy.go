package feed

import (
	"time"

	"github.com/tickerdash/feedclient/internal/visibility"
)

// DefaultRetryDelay is the fixed delay between reconnection attempts. The
// feed is cheap to rejoin and full-replace semantics make a missed window
// harmless, so there is no exponential growth.
const DefaultRetryDelay = 5 * time.Second

// Decision is the outcome of a reconnection policy evaluation.
type Decision int

const (
	// DropTerminal means no retry, ever, for this channel's identity.
	DropTerminal Decision = iota

	// AwaitVisible means no timer now; attempt a connect as soon as the
	// surface becomes visible again.
	AwaitVisible

	// RetryAfter means schedule exactly one retry timer for Delay.
	RetryAfter
)

func (d Decision) String() string {
	switch d {
	case DropTerminal:
		return "drop"
	case AwaitVisible:
		return "await-visible"
	case RetryAfter:
		return "retry"
	}
	return "unknown"
}

// RetryPolicy decides delay and eligibility for a reconnect attempt given
// the close reason and surface visibility.
type RetryPolicy struct {
	Delay time.Duration
}

// DefaultRetryPolicy returns the fixed-delay policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Delay: DefaultRetryDelay}
}

// Decide evaluates the policy rules in order:
//
//  1. Shutting down: terminal, nothing may outlive the owner.
//  2. Clean close: intentional on one side or the other; the caller owns
//     deciding whether a fresh connect is wanted.
//  3. Hidden surface: no timer, resume when visible.
//  4. Otherwise: one retry after Delay.
func (p RetryPolicy) Decide(clean bool, vis visibility.Visibility, shuttingDown bool) Decision {
	if shuttingDown {
		return DropTerminal
	}
	if clean {
		return DropTerminal
	}
	if vis == visibility.Hidden {
		return AwaitVisible
	}
	return RetryAfter
}
