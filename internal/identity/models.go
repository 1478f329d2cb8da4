package identity

import (
	"time"

	"github.com/google/uuid"
)

// Voter is the registered elector. Mutated exactly once (has_voted) by the
// anonymity bridge; never referenced by any ballot record.
type Voter struct {
	ID          uuid.UUID
	ElectionID  uuid.UUID
	Email       string
	DateOfBirth time.Time
	HasVoted    bool
}

// IdentityToken is the single-use, identity-linked credential handed to a
// voter at provisioning time. Terminal states: used, expired.
type IdentityToken struct {
	Token      string
	VoterID    uuid.UUID
	ElectionID uuid.UUID
	ExpiresAt  time.Time
	Used       bool
}

// Expired reports whether the token is past its expiry at the given instant.
func (t IdentityToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Validation is what the validator returns to the caller: enough to continue
// the flow, nothing about the voter beyond the internal reference.
type Validation struct {
	ElectionID uuid.UUID
	VoterID    uuid.UUID
}
