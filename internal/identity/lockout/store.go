// Package lockout tracks failed MFA attempts per identity token. Counters are
// keyed by a token digest, expire with the lockout window, and never touch
// voter identity.
package lockout

import "context"

// Store bounds MFA retries. Implementations must be safe for concurrent use.
type Store interface {
	// RecordFailure increments the failure counter and returns the new count.
	// The first failure starts the lockout window.
	RecordFailure(ctx context.Context, token string) (int, error)
	// Attempts returns the current failure count within the window.
	Attempts(ctx context.Context, token string) (int, error)
	// Reset clears the counter after a successful verification.
	Reset(ctx context.Context, token string) error
}
