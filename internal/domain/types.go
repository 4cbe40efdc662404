package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotParticipant is returned by a membership query when the current
// account is not in the group.
var ErrNotParticipant = errors.New("not a participant")

// RateLimitError is the provider's "retry after Wait" signal.
type RateLimitError struct {
	Wait time.Duration
	Err  error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.Wait)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeSkipped
	OutcomeRateLimited
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single join or send attempt.
type Result struct {
	Outcome Outcome
	Wait    time.Duration // set for OutcomeRateLimited
	Err     error         // set for OutcomeSkipped and OutcomeRateLimited
}

// Classify maps an operation error onto a Result.
func Classify(err error) Result {
	if err == nil {
		return Result{Outcome: OutcomeDone}
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return Result{Outcome: OutcomeRateLimited, Wait: rl.Wait, Err: err}
	}
	return Result{Outcome: OutcomeSkipped, Err: err}
}

// GroupStats holds per-group counters for the lifetime of the process.
type GroupStats struct {
	Group       string
	Joined      bool
	Member      bool
	Sent        int
	Failed      int
	RateLimited int
	LastSent    time.Time
	LastError   string
}
