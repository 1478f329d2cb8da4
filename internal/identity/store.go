package identity

import (
	"context"

	"github.com/google/uuid"
)

// TokenReader is the validator's only capability over identity tokens:
// lookups. State transitions belong to the anonymity bridge.
type TokenReader interface {
	// FindToken returns sentinel.ErrNotFound when the token does not exist.
	FindToken(ctx context.Context, token string) (IdentityToken, error)
}

// VoterReader exposes the single read the MFA verifier needs.
type VoterReader interface {
	FindVoter(ctx context.Context, voterID uuid.UUID) (Voter, error)
}
