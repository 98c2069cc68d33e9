package services

import "time"

const (
	MaxLoginAttempts   = 5
	LoginBlockDuration = 5 * time.Minute
)

type LockoutVerdict int

const (
	LockoutAllow LockoutVerdict = iota
	LockoutDeny
	// LockoutAllowAndReset means the window has passed; the caller persists
	// a zeroed counter before checking the password.
	LockoutAllowAndReset
)

type LockoutDecision struct {
	Verdict   LockoutVerdict
	Remaining time.Duration
}

func (decision LockoutDecision) RemainingSeconds() int64 {
	return remainingSeconds(decision.Remaining)
}

func (decision LockoutDecision) RemainingMillis() int64 {
	return decision.Remaining.Milliseconds()
}

// EvaluateLockout decides whether a login attempt may proceed given the
// account's failure counter and the time of its last failure. A nil
// lastFailureAt on a saturated counter counts as an expired window.
func EvaluateLockout(failureCount int, lastFailureAt *time.Time, now time.Time) LockoutDecision {
	if failureCount < MaxLoginAttempts {
		return LockoutDecision{Verdict: LockoutAllow}
	}
	if lastFailureAt == nil {
		return LockoutDecision{Verdict: LockoutAllowAndReset}
	}

	elapsed := now.Sub(*lastFailureAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < LoginBlockDuration {
		return LockoutDecision{Verdict: LockoutDeny, Remaining: LoginBlockDuration - elapsed}
	}
	return LockoutDecision{Verdict: LockoutAllowAndReset}
}

func remainingSeconds(remaining time.Duration) int64 {
	if remaining <= 0 {
		return 0
	}
	return int64((remaining + time.Second - 1) / time.Second)
}
